package repository

import (
	"database/sql"
	"fmt"

	"soundhaus/internal/db"

	"github.com/google/uuid"
)

type DeliverableRepository struct {
	DB *sql.DB
}

func NewDeliverableRepository(database *sql.DB) *DeliverableRepository {
	return &DeliverableRepository{DB: database}
}

func (r *DeliverableRepository) CreateDeliverable(d *db.Deliverable) error {
	d.ID = uuid.NewString()
	err := r.DB.QueryRow(`
		INSERT INTO deliverables (id, booking_id, title, public_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at`,
		d.ID, d.BookingID, d.Title, d.PublicID,
	).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting deliverable for booking %d: %w", d.BookingID, err)
	}
	return nil
}

func (r *DeliverableRepository) ListDeliverablesByBookingID(bookingID int) ([]db.Deliverable, error) {
	rows, err := r.DB.Query(`
		SELECT id, booking_id, title, public_id, created_at
		FROM deliverables WHERE booking_id = $1 ORDER BY created_at`,
		bookingID)
	if err != nil {
		return nil, fmt.Errorf("error listing deliverables: %w", err)
	}
	defer rows.Close()

	var deliverables []db.Deliverable
	for rows.Next() {
		var d db.Deliverable
		if err := rows.Scan(&d.ID, &d.BookingID, &d.Title, &d.PublicID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning deliverable: %w", err)
		}
		deliverables = append(deliverables, d)
	}
	return deliverables, rows.Err()
}
