package repository

import (
	"database/sql"
	"fmt"
	"time"

	"soundhaus/internal/db"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(database *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: database}
}

// ListBlockedIntervalsForDate returns every block covering the given
// calendar day. The conflict test itself runs in the service layer.
func (r *AvailabilityRepository) ListBlockedIntervalsForDate(date time.Time) ([]db.BlockedInterval, error) {
	rows, err := r.DB.Query(`
		SELECT id, date, entire_day, start_hour, end_hour, reason, created_at
		FROM blocked_intervals
		WHERE date = $1
		ORDER BY entire_day DESC, start_hour`,
		date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("error querying blocked intervals: %w", err)
	}
	defer rows.Close()

	return scanBlockedIntervals(rows)
}

// ListBlockedIntervalsFrom returns blocks on or after the given day, for the
// admin calendar view.
func (r *AvailabilityRepository) ListBlockedIntervalsFrom(from time.Time) ([]db.BlockedInterval, error) {
	rows, err := r.DB.Query(`
		SELECT id, date, entire_day, start_hour, end_hour, reason, created_at
		FROM blocked_intervals
		WHERE date >= $1
		ORDER BY date, entire_day DESC, start_hour`,
		from.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("error querying blocked intervals: %w", err)
	}
	defer rows.Close()

	return scanBlockedIntervals(rows)
}

func scanBlockedIntervals(rows *sql.Rows) ([]db.BlockedInterval, error) {
	var intervals []db.BlockedInterval
	for rows.Next() {
		var bi db.BlockedInterval
		if err := rows.Scan(&bi.ID, &bi.Date, &bi.EntireDay, &bi.StartHour, &bi.EndHour, &bi.Reason, &bi.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning blocked interval: %w", err)
		}
		intervals = append(intervals, bi)
	}
	return intervals, rows.Err()
}

func (r *AvailabilityRepository) CreateBlockedInterval(bi *db.BlockedInterval) error {
	err := r.DB.QueryRow(`
		INSERT INTO blocked_intervals (date, entire_day, start_hour, end_hour, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`,
		bi.Date.Format("2006-01-02"), bi.EntireDay, bi.StartHour, bi.EndHour, bi.Reason,
	).Scan(&bi.ID, &bi.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting blocked interval: %w", err)
	}
	return nil
}

// DeleteBlockedInterval removes a block. Blocks are immutable, so replacing
// one is delete plus create.
func (r *AvailabilityRepository) DeleteBlockedInterval(id int) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM blocked_intervals WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("error deleting blocked interval %d: %w", id, err)
	}
	return result.RowsAffected()
}
