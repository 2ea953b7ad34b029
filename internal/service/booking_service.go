package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"soundhaus/internal/db"
	"soundhaus/internal/entities"
	httperrors "soundhaus/internal/errors"
	"soundhaus/internal/repository"
)

const depositPercent = 30

// Cancellations are only accepted this long before the session starts.
const cancellationWindow = 48 * time.Hour

// BookingStore is the repository surface the booking flows depend on.
type BookingStore interface {
	GetServiceRates() ([]db.ServiceRate, error)
	GetHourlyRate(serviceType string) (int, error)
	CreateBookingIfAvailable(b *db.Booking) error
	GetBookingByID(id int) (*db.Booking, error)
	GetBookingByCode(code, email string) (*db.Booking, error)
	GetBookingByCodeOnly(code string) (*db.Booking, error)
	GetBookingByStripeSessionID(sessionID string) (*db.Booking, error)
	ListBookings(date, status, serviceType string) ([]db.Booking, error)
	MarkCompleted(id int) error
	MarkDeleted(id int) error
	CancelBookingByCode(code string) error
	UpdateStatusAndPaymentBySessionID(sessionID string, fromStatuses []string, status, paymentStatus, paymentIntentID string) error
	AppendAudit(bookingID int, action, actor string) error
	ListAudit(bookingID int) ([]db.AuditEntry, error)
}

// PaymentProvider is the slice of the Stripe service the booking flows use.
type PaymentProvider interface {
	CreateCheckoutSession(amountCents int64, currency, bookingCode, customerEmail string) (string, string, error)
	ExpireCheckoutSession(sessionID string) error
	RefundPaymentBySessionID(sessionID string) error
}

type BookingService struct {
	repo         BookingStore
	availability *AvailabilityService
	payments     PaymentProvider
	sender       Notifier
}

func NewBookingService(repo BookingStore, availability *AvailabilityService, payments PaymentProvider, sender Notifier) *BookingService {
	return &BookingService{
		repo:         repo,
		availability: availability,
		payments:     payments,
		sender:       sender,
	}
}

func (s *BookingService) GetRates() ([]entities.RateResponse, error) {
	rates, err := s.repo.GetServiceRates()
	if err != nil {
		log.Printf("Error reading service rates: %v", err)
		return nil, httperrors.TransientStore("could not load rates")
	}
	resp := make([]entities.RateResponse, 0, len(rates))
	for _, r := range rates {
		resp = append(resp, entities.RateResponse{ServiceType: r.ServiceType, HourlyRateCents: r.HourlyRateCents})
	}
	return resp, nil
}

// CreateBooking runs the conflict check, prices the session, opens a Stripe
// checkout session for the deposit and persists the booking as
// pending_deposit. The repository re-checks the slot transactionally, so a
// concurrent booker for the same slot loses cleanly instead of racing.
func (s *BookingService) CreateBooking(req *entities.BookingRequest) (*entities.CheckoutResponse, error) {
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerEmail) == "" {
		return nil, httperrors.Validation("customer_name and customer_email are required")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, httperrors.Validation("date must be in YYYY-MM-DD format")
	}

	avail, err := s.availability.CheckAvailability(date, req.StartHour, req.DurationHours)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, httperrors.NewHTTPError(http.StatusConflict, "requested slot is not available")
	}

	rate, err := s.repo.GetHourlyRate(req.ServiceType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperrors.Validation(fmt.Sprintf("unknown service type '%s'", req.ServiceType))
		}
		log.Printf("Error loading rate for '%s': %v", req.ServiceType, err)
		return nil, httperrors.TransientStore("could not price the session")
	}

	total := rate * req.DurationHours
	deposit := total * depositPercent / 100
	code := fmt.Sprintf("%08X", time.Now().UnixNano()%100000000)

	booking := &db.Booking{
		Code:           code,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		ServiceType:    req.ServiceType,
		SessionDate:    date,
		StartHour:      req.StartHour,
		DurationHours:  req.DurationHours,
		Notes:          req.Notes,
		TotalCents:     total,
		DepositCents:   deposit,
		RemainderCents: total - deposit,
		Status:         db.StatusPendingDeposit,
		PaymentStatus:  db.PaymentPending,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	sessionURL, sessionID, err := s.payments.CreateCheckoutSession(int64(deposit), "usd", code, req.CustomerEmail)
	if err != nil {
		log.Printf("Error creating checkout session for booking %s: %v", code, err)
		return nil, fmt.Errorf("could not start deposit payment: %w", err)
	}
	booking.StripeSessionID = sessionID

	if err := s.repo.CreateBookingIfAvailable(booking); err != nil {
		// The checkout session is already live; kill it so the customer
		// cannot pay for a booking that was never persisted.
		if expireErr := s.payments.ExpireCheckoutSession(sessionID); expireErr != nil {
			log.Printf("Error expiring checkout session %s: %v", sessionID, expireErr)
		}
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, httperrors.NewHTTPError(http.StatusConflict, "requested slot is no longer available")
		}
		log.Printf("Error creating booking %s: %v", code, err)
		return nil, httperrors.TransientStore("could not create booking")
	}

	return &entities.CheckoutResponse{
		Code:        code,
		CheckoutURL: sessionURL,
		SessionID:   sessionID,
	}, nil
}

func (s *BookingService) GetBookingByCode(code, email string) (*entities.BookingResponse, error) {
	booking, err := s.repo.GetBookingByCode(code, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperrors.NotFound("booking not found")
		}
		return nil, httperrors.TransientStore("could not load booking")
	}
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *BookingService) GetBookingBySessionID(sessionID string) (*entities.BookingResponse, error) {
	booking, err := s.repo.GetBookingByStripeSessionID(sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperrors.NotFound("booking not found")
		}
		return nil, httperrors.TransientStore("could not load booking")
	}
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *BookingService) ListBookings(date, status, serviceType string) (*entities.BookingsList, error) {
	bookings, err := s.repo.ListBookings(date, status, serviceType)
	if err != nil {
		log.Printf("Error listing bookings: %v", err)
		return nil, httperrors.TransientStore("could not list bookings")
	}
	list := &entities.BookingsList{
		Total:    len(bookings),
		Bookings: make([]entities.BookingResponse, 0, len(bookings)),
	}
	for i := range bookings {
		list.Bookings = append(list.Bookings, toBookingResponse(&bookings[i]))
	}
	return list, nil
}

func (s *BookingService) AuditTrail(bookingID int) ([]entities.AuditEntryResponse, error) {
	if _, err := s.getBooking(bookingID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListAudit(bookingID)
	if err != nil {
		return nil, httperrors.TransientStore("could not load audit trail")
	}
	resp := make([]entities.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entities.AuditEntryResponse{
			ID:        e.ID,
			Action:    e.Action,
			Actor:     e.Actor,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp, nil
}

// CompleteBooking is admin-only and legal from confirmed alone.
func (s *BookingService) CompleteBooking(bookingID int, actor string) error {
	booking, err := s.getBooking(bookingID)
	if err != nil {
		return err
	}
	if booking.Status != db.StatusConfirmed {
		return httperrors.InvalidState("complete", booking.Status)
	}
	if err := s.repo.MarkCompleted(bookingID); err != nil {
		log.Printf("Error completing booking %d: %v", bookingID, err)
		return httperrors.TransientStore("could not complete booking")
	}
	if err := s.repo.AppendAudit(bookingID, "complete", actor); err != nil {
		log.Printf("Error writing audit entry for booking %d: %v", bookingID, err)
	}
	return nil
}

// SoftDeleteBooking marks the row deleted from any non-terminal status. It
// deliberately sends no customer notification; that is what separates it
// from the cancellation flow.
func (s *BookingService) SoftDeleteBooking(bookingID int, actor string) error {
	booking, err := s.getBooking(bookingID)
	if err != nil {
		return err
	}
	if db.IsTerminalStatus(booking.Status) {
		return httperrors.InvalidState("delete", booking.Status)
	}
	if err := s.repo.MarkDeleted(bookingID); err != nil {
		log.Printf("Error soft-deleting booking %d: %v", bookingID, err)
		return httperrors.TransientStore("could not delete booking")
	}
	if err := s.repo.AppendAudit(bookingID, "soft_delete", actor); err != nil {
		log.Printf("Error writing audit entry for booking %d: %v", bookingID, err)
	}
	return nil
}

// CancelBooking is the customer-facing flow: refund the deposit when paid,
// then notify by email and SMS.
func (s *BookingService) CancelBooking(code string) error {
	booking, err := s.repo.GetBookingByCodeOnly(code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return httperrors.NotFound("booking not found")
		}
		return httperrors.TransientStore("could not load booking")
	}
	if db.IsTerminalStatus(booking.Status) {
		return httperrors.InvalidState("cancel", booking.Status)
	}

	sessionStart := booking.SessionDate.Add(time.Duration(booking.StartHour) * time.Hour)
	if time.Until(sessionStart) < cancellationWindow {
		return httperrors.Validation("bookings can only be cancelled more than 48 hours before the session")
	}

	if booking.PaymentStatus == db.PaymentSucceeded {
		if err := s.payments.RefundPaymentBySessionID(booking.StripeSessionID); err != nil {
			log.Printf("Error refunding deposit for booking %s: %v", code, err)
			return fmt.Errorf("could not refund deposit: %w", err)
		}
	}

	if err := s.repo.CancelBookingByCode(code); err != nil {
		log.Printf("Error cancelling booking %s: %v", code, err)
		return httperrors.TransientStore("could not cancel booking")
	}
	if err := s.repo.AppendAudit(booking.ID, "cancel", "customer"); err != nil {
		log.Printf("Error writing audit entry for booking %d: %v", booking.ID, err)
	}

	booking.Status = db.StatusCancelled
	s.sender.SendBookingEmail(booking, db.StatusCancelled)
	s.sender.SendBookingSMS(booking, db.StatusCancelled)
	return nil
}

// ConfirmDepositBySessionID is driven by the Stripe webhook once the
// deposit checkout completes. Only a pending_deposit booking can be
// confirmed: a late payment for a booking the stale-pending sweep already
// cancelled must not revive it (the slot may have been re-booked).
func (s *BookingService) ConfirmDepositBySessionID(sessionID, paymentIntentID string) error {
	err := s.repo.UpdateStatusAndPaymentBySessionID(sessionID,
		[]string{db.StatusPendingDeposit}, db.StatusConfirmed, db.PaymentSucceeded, paymentIntentID)
	if errors.Is(err, repository.ErrInvalidTransition) {
		booking, lookupErr := s.repo.GetBookingByStripeSessionID(sessionID)
		if lookupErr != nil {
			if errors.Is(lookupErr, sql.ErrNoRows) {
				return httperrors.NotFound("no booking for this checkout session")
			}
			return httperrors.TransientStore("could not load booking")
		}
		return httperrors.InvalidState("confirm", booking.Status)
	}
	if err != nil {
		return err
	}
	booking, err := s.repo.GetBookingByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	s.sender.SendBookingEmail(booking, db.StatusConfirmed)
	s.sender.SendBookingSMS(booking, db.StatusConfirmed)
	return nil
}

// MarkRefundedBySessionID records a refund observed on the webhook. A
// completed or deleted booking keeps its status; the refund of an already
// cancelled booking only updates the payment state.
func (s *BookingService) MarkRefundedBySessionID(sessionID string) error {
	booking, err := s.repo.GetBookingByStripeSessionID(sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return httperrors.NotFound("no booking for this checkout session")
		}
		return err
	}
	err = s.repo.UpdateStatusAndPaymentBySessionID(sessionID,
		[]string{db.StatusPendingDeposit, db.StatusConfirmed, db.StatusCancelled},
		db.StatusCancelled, db.PaymentRefunded, booking.StripePaymentIntentID)
	if errors.Is(err, repository.ErrInvalidTransition) {
		return httperrors.InvalidState("refund", booking.Status)
	}
	return err
}

func (s *BookingService) getBooking(bookingID int) (*db.Booking, error) {
	booking, err := s.repo.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperrors.NotFound(fmt.Sprintf("booking %d not found", bookingID))
		}
		log.Printf("Error loading booking %d: %v", bookingID, err)
		return nil, httperrors.TransientStore("could not load booking")
	}
	return booking, nil
}

func toBookingResponse(b *db.Booking) entities.BookingResponse {
	resp := entities.BookingResponse{
		ID:             b.ID,
		Code:           b.Code,
		CustomerName:   b.CustomerName,
		CustomerEmail:  b.CustomerEmail,
		CustomerPhone:  b.CustomerPhone,
		ServiceType:    b.ServiceType,
		Date:           b.SessionDate.Format("2006-01-02"),
		StartHour:      b.StartHour,
		EndHour:        b.EndHour(),
		DurationHours:  b.DurationHours,
		Notes:          b.Notes,
		TotalCents:     b.TotalCents,
		DepositCents:   b.DepositCents,
		RemainderCents: b.RemainderCents,
		Status:         b.Status,
		PaymentStatus:  b.PaymentStatus,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.CompletedAt.Valid {
		t := b.CompletedAt.Time
		resp.CompletedAt = &t
	}
	return resp
}
