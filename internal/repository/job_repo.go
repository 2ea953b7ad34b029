package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"soundhaus/internal/db"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// StalePendingBookingIDs finds pending_deposit bookings created before the
// cutoff whose deposit was never paid.
func (r *JobRepository) StalePendingBookingIDs(before time.Time) ([]int, error) {
	rows, err := r.DB.Query(
		`SELECT id FROM bookings WHERE status = $1 AND created_at < $2`,
		db.StatusPendingDeposit, before)
	if err != nil {
		return nil, fmt.Errorf("error querying stale pending bookings: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) CancelBookings(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		db.StatusCancelled, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error cancelling stale bookings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Cancelled %d stale pending bookings", rowsAffected)
	}
	return nil
}
