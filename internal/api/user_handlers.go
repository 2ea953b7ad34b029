package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"soundhaus/internal/entities"
	httperrors "soundhaus/internal/errors"
	"soundhaus/internal/service"

	"github.com/gorilla/mux"
)

type UserBookingHandler struct {
	Bookings     *service.BookingService
	Availability *service.AvailabilityService
	Deliverables *service.DeliverableService
}

func NewUserBookingHandler(bookings *service.BookingService, availability *service.AvailabilityService, deliverables *service.DeliverableService) *UserBookingHandler {
	return &UserBookingHandler{
		Bookings:     bookings,
		Availability: availability,
		Deliverables: deliverables,
	}
}

// CheckAvailability answers GET /api/availability?date=YYYY-MM-DD&startTime=H&duration=N.
// Every parameter is required; a malformed request is a 400, never a false
// "available".
func (h *UserBookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	startStr := r.URL.Query().Get("startTime")
	durationStr := r.URL.Query().Get("duration")
	if dateStr == "" || startStr == "" || durationStr == "" {
		http.Error(w, "date, startTime and duration are required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, "date must be in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}
	startHour, err := strconv.Atoi(startStr)
	if err != nil {
		http.Error(w, "startTime must be an integer hour", http.StatusBadRequest)
		return
	}
	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		http.Error(w, "duration must be an integer number of hours", http.StatusBadRequest)
		return
	}

	resp, err := h.Availability.CheckAvailability(date, startHour, duration)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *UserBookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Bookings.CreateBooking(&req)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *UserBookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}
	resp, err := h.Bookings.GetBookingByCode(code, email)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *UserBookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.Bookings.CancelBooking(code); err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Booking cancelled"})
}

func (h *UserBookingHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.Bookings.GetRates()
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rates)
}

// ListDeliverables is gated on booking code plus booking email, the same
// pair the customer got when booking.
func (h *UserBookingHandler) ListDeliverables(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}
	deliverables, err := h.Deliverables.ListForCustomer(code, email)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deliverables)
}
