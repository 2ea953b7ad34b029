package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"soundhaus/internal/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrSlotTaken is returned when the transactional availability re-check
// finds a competing booking or a blocked interval for the requested slot.
var ErrSlotTaken = errors.New("requested slot is no longer available")

// ErrInvalidTransition is returned when a status update matched no row,
// either because the session is unknown or because the booking is not in an
// eligible current status.
var ErrInvalidTransition = errors.New("booking is not in an eligible status for this update")

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

func (r *BookingRepository) GetServiceRates() ([]db.ServiceRate, error) {
	rows, err := r.DB.Query(`SELECT service_type, hourly_rate_cents FROM service_rates ORDER BY service_type`)
	if err != nil {
		return nil, fmt.Errorf("error querying service rates: %w", err)
	}
	defer rows.Close()

	var rates []db.ServiceRate
	for rows.Next() {
		var sr db.ServiceRate
		if err := rows.Scan(&sr.ServiceType, &sr.HourlyRateCents); err != nil {
			return nil, fmt.Errorf("error scanning service rate: %w", err)
		}
		rates = append(rates, sr)
	}
	return rates, rows.Err()
}

func (r *BookingRepository) GetHourlyRate(serviceType string) (int, error) {
	var rate int
	err := r.DB.QueryRow(`SELECT hourly_rate_cents FROM service_rates WHERE service_type = $1`, serviceType).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("no rate configured for service type '%s': %w", serviceType, err)
		}
		return 0, err
	}
	return rate, nil
}

// CreateBookingIfAvailable inserts the booking inside a transaction that
// re-checks blocked intervals and competing bookings for the same date.
// An advisory lock keyed on the session date serializes concurrent booking
// attempts, so two simultaneous requests for the same slot cannot both pass
// the check. Returns ErrSlotTaken when the slot is gone.
func (r *BookingRepository) CreateBookingIfAvailable(b *db.Booking) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	dateKey := b.SessionDate.Format("2006-01-02")
	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext($1))`, dateKey); err != nil {
		return fmt.Errorf("error acquiring date lock: %w", err)
	}

	endHour := b.EndHour()

	var blocked int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM blocked_intervals
		WHERE date = $1
		  AND (entire_day = TRUE OR (start_hour < $3 AND end_hour > $2))`,
		dateKey, b.StartHour, endHour,
	).Scan(&blocked)
	if err != nil {
		return fmt.Errorf("error checking blocked intervals: %w", err)
	}
	if blocked > 0 {
		return ErrSlotTaken
	}

	var competing int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM bookings
		WHERE session_date = $1
		  AND status IN ($2, $3)
		  AND start_hour < $5
		  AND start_hour + duration_hours > $4`,
		dateKey, db.StatusPendingDeposit, db.StatusConfirmed, b.StartHour, endHour,
	).Scan(&competing)
	if err != nil {
		return fmt.Errorf("error checking competing bookings: %w", err)
	}
	if competing > 0 {
		return ErrSlotTaken
	}

	err = tx.QueryRow(`
		INSERT INTO bookings
		(code, customer_name, customer_email, customer_phone, service_type, session_date,
		 start_hour, duration_hours, notes, total_cents, deposit_cents, remainder_cents,
		 status, payment_status, stripe_session_id, stripe_payment_intent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`,
		b.Code, b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.ServiceType, dateKey,
		b.StartHour, b.DurationHours, b.Notes, b.TotalCents, b.DepositCents, b.RemainderCents,
		b.Status, b.PaymentStatus, b.StripeSessionID, b.StripePaymentIntentID, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}

	return tx.Commit()
}

const bookingColumns = `
	id, code, customer_name, customer_email, customer_phone, service_type, session_date,
	start_hour, duration_hours, notes, total_cents, deposit_cents, remainder_cents,
	status, payment_status, stripe_session_id, stripe_payment_intent_id,
	created_at, updated_at, completed_at, deleted_at`

func scanBooking(row *sql.Row) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(
		&b.ID, &b.Code, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.ServiceType, &b.SessionDate,
		&b.StartHour, &b.DurationHours, &b.Notes, &b.TotalCents, &b.DepositCents, &b.RemainderCents,
		&b.Status, &b.PaymentStatus, &b.StripeSessionID, &b.StripePaymentIntentID,
		&b.CreatedAt, &b.UpdatedAt, &b.CompletedAt, &b.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetBookingByID(id int) (*db.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying booking %d: %w", id, err)
	}
	return b, nil
}

func (r *BookingRepository) GetBookingByCode(code, email string) (*db.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE code = $1 AND LOWER(customer_email) = LOWER($2)`, code, email)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with code '%s' not found: %w", code, err)
		}
		return nil, fmt.Errorf("error querying booking by code: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) GetBookingByCodeOnly(code string) (*db.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE code = $1`, code)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with code '%s' not found: %w", code, err)
		}
		return nil, fmt.Errorf("error querying booking by code: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) GetBookingByStripeSessionID(sessionID string) (*db.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE stripe_session_id = $1`, sessionID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking for session '%s' not found: %w", sessionID, err)
		}
		return nil, fmt.Errorf("error querying booking by session: %w", err)
	}
	return b, nil
}

// ListBookings applies optional filters; empty strings mean no filter.
func (r *BookingRepository) ListBookings(date, status, serviceType string) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += " AND session_date = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	if serviceType != "" {
		query += " AND service_type = $" + strconv.Itoa(idx)
		args = append(args, serviceType)
		idx++
	}
	query += " ORDER BY session_date DESC, start_hour DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		err := rows.Scan(
			&b.ID, &b.Code, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.ServiceType, &b.SessionDate,
			&b.StartHour, &b.DurationHours, &b.Notes, &b.TotalCents, &b.DepositCents, &b.RemainderCents,
			&b.Status, &b.PaymentStatus, &b.StripeSessionID, &b.StripePaymentIntentID,
			&b.CreatedAt, &b.UpdatedAt, &b.CompletedAt, &b.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) MarkCompleted(id int) error {
	_, err := r.DB.Exec(`
		UPDATE bookings SET status = $2, completed_at = NOW(), updated_at = NOW() WHERE id = $1`,
		id, db.StatusCompleted)
	if err != nil {
		return fmt.Errorf("error marking booking %d completed: %w", id, err)
	}
	return nil
}

func (r *BookingRepository) MarkDeleted(id int) error {
	_, err := r.DB.Exec(`
		UPDATE bookings SET status = $2, deleted_at = NOW(), updated_at = NOW() WHERE id = $1`,
		id, db.StatusDeleted)
	if err != nil {
		return fmt.Errorf("error soft-deleting booking %d: %w", id, err)
	}
	return nil
}

func (r *BookingRepository) CancelBookingByCode(code string) error {
	_, err := r.DB.Exec(`
		UPDATE bookings SET status = $2, updated_at = NOW() WHERE code = $1`,
		code, db.StatusCancelled)
	if err != nil {
		return fmt.Errorf("error cancelling booking '%s': %w", code, err)
	}
	return nil
}

// UpdateStatusAndPaymentBySessionID moves a booking's status off a Stripe
// event, but only when the current status is one of fromStatuses. Statuses
// are forward-moving; a webhook arriving after the booking left the expected
// state must not drag it back, so a miss is ErrInvalidTransition.
func (r *BookingRepository) UpdateStatusAndPaymentBySessionID(sessionID string, fromStatuses []string, status, paymentStatus, paymentIntentID string) error {
	result, err := r.DB.Exec(`
		UPDATE bookings
		SET status = $2, payment_status = $3, stripe_payment_intent_id = $4, updated_at = NOW()
		WHERE stripe_session_id = $1 AND status = ANY($5)`,
		sessionID, status, paymentStatus, paymentIntentID, pq.Array(fromStatuses))
	if err != nil {
		return fmt.Errorf("error updating booking for session '%s': %w", sessionID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for session '%s': %w", sessionID, err)
	}
	if rows == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// AppendAudit records an admin-side mutation. Audit rows are append-only.
func (r *BookingRepository) AppendAudit(bookingID int, action, actor string) error {
	_, err := r.DB.Exec(`
		INSERT INTO booking_audit (id, booking_id, action, actor, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		uuid.NewString(), bookingID, action, actor)
	if err != nil {
		return fmt.Errorf("error appending audit entry for booking %d: %w", bookingID, err)
	}
	return nil
}

func (r *BookingRepository) ListAudit(bookingID int) ([]db.AuditEntry, error) {
	rows, err := r.DB.Query(`
		SELECT id, booking_id, action, actor, created_at
		FROM booking_audit WHERE booking_id = $1 ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("error listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []db.AuditEntry
	for rows.Next() {
		var e db.AuditEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.Action, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
