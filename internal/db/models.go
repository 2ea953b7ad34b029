package db

import (
	"database/sql"
	"time"
)

// Booking statuses. Forward-moving only: pending_deposit -> confirmed ->
// completed, or any non-terminal status -> cancelled/deleted.
const (
	StatusPendingDeposit = "pending_deposit"
	StatusConfirmed      = "confirmed"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
	StatusDeleted        = "deleted"
)

// Payment statuses mirrored from Stripe.
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentRefunded  = "refunded"
)

// IsTerminalStatus reports whether no further transitions are allowed.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled || status == StatusDeleted
}

type Booking struct {
	ID                    int
	Code                  string
	CustomerName          string
	CustomerEmail         string
	CustomerPhone         string
	ServiceType           string
	SessionDate           time.Time
	StartHour             int
	DurationHours         int
	Notes                 string
	TotalCents            int
	DepositCents          int
	RemainderCents        int
	Status                string
	PaymentStatus         string
	StripeSessionID       string
	StripePaymentIntentID string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	CompletedAt           sql.NullTime
	DeletedAt             sql.NullTime
}

// EndHour is derived, never stored.
func (b *Booking) EndHour() int {
	return b.StartHour + b.DurationHours
}

// BlockedInterval is an admin-managed availability block for one calendar
// date. If EntireDay is set the hour fields are ignored; otherwise both are
// present and StartHour < EndHour. Rows are immutable: replace, don't edit.
type BlockedInterval struct {
	ID        int
	Date      time.Time
	EntireDay bool
	StartHour sql.NullInt64
	EndHour   sql.NullInt64
	Reason    string
	CreatedAt time.Time
}

// Deliverable is a finished file (mix, master, video cut) attached to a
// booking, stored in Cloudinary under PublicID.
type Deliverable struct {
	ID        string
	BookingID int
	Title     string
	PublicID  string
	CreatedAt time.Time
}

// AuditEntry records an admin-side mutation of a booking.
type AuditEntry struct {
	ID        string
	BookingID int
	Action    string
	Actor     string
	CreatedAt time.Time
}

type ServiceRate struct {
	ServiceType     string
	HourlyRateCents int
}
