package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"soundhaus/internal/auth"
	"soundhaus/internal/db"
	httperrors "soundhaus/internal/errors"
	"soundhaus/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Bookings     *service.BookingService
	Blocks       *service.BlockService
	Deliverables *service.DeliverableService
}

func NewAdminHandler(bookings *service.BookingService, blocks *service.BlockService, deliverables *service.DeliverableService) *AdminHandler {
	return &AdminHandler{
		Bookings:     bookings,
		Blocks:       blocks,
		Deliverables: deliverables,
	}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	serviceType := r.URL.Query().Get("service")
	list, err := h.Bookings.ListBookings(date, status, serviceType)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// CompleteBooking marks a confirmed session as done. Any other current
// status is refused with the status named in the response.
func (h *AdminHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == 0 {
		http.Error(w, "booking_id is required", http.StatusBadRequest)
		return
	}
	actor := auth.AdminEmailFromContext(r.Context())
	if err := h.Bookings.CompleteBooking(req.BookingID, actor); err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Success: true})
}

// SoftDeleteBooking hides a booking without notifying the customer.
func (h *AdminHandler) SoftDeleteBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == 0 {
		http.Error(w, "booking_id is required", http.StatusBadRequest)
		return
	}
	actor := auth.AdminEmailFromContext(r.Context())
	if err := h.Bookings.SoftDeleteBooking(req.BookingID, actor); err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Success: true})
}

func (h *AdminHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	entries, err := h.Bookings.AuditTrail(id)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *AdminHandler) ListBlockedIntervals(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.Blocks.ListUpcomingBlocks()
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	resp := make([]BlockedIntervalResponse, 0, len(blocks))
	for _, b := range blocks {
		resp = append(resp, toBlockedIntervalResponse(b))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AdminHandler) CreateBlockedInterval(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockedIntervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	block, err := h.Blocks.CreateBlock(req.Date, req.EntireDay, req.StartHour, req.EndHour, req.Reason)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toBlockedIntervalResponse(*block))
}

func (h *AdminHandler) DeleteBlockedInterval(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Blocks.DeleteBlock(id); err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Success: true})
}

// CreateDeliverable accepts a multipart form with a "title" field and a
// "file" part, uploads the file and emails the customer a download link.
func (h *AdminHandler) CreateDeliverable(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(256 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	title := r.FormValue("title")
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	resp, err := h.Deliverables.AttachDeliverable(r.Context(), id, title, file)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func toBlockedIntervalResponse(b db.BlockedInterval) BlockedIntervalResponse {
	resp := BlockedIntervalResponse{
		ID:        b.ID,
		Date:      b.Date.Format("2006-01-02"),
		EntireDay: b.EntireDay,
		Reason:    b.Reason,
	}
	if b.StartHour.Valid {
		start := int(b.StartHour.Int64)
		resp.StartHour = &start
	}
	if b.EndHour.Valid {
		end := int(b.EndHour.Int64)
		resp.EndHour = &end
	}
	return resp
}
