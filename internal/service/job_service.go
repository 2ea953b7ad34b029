package service

import (
	"fmt"
	"log"
	"time"

	"soundhaus/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CancelStalePendingBookings cancels pending_deposit bookings whose deposit
// was never paid within maxAge. Frees the slots they were holding.
func (s *JobService) CancelStalePendingBookings(maxAge time.Duration) error {
	log.Println("Cron Job: Checking for stale pending bookings...")

	cutoff := time.Now().UTC().Add(-maxAge)
	ids, err := s.Repo.StalePendingBookingIDs(cutoff)
	if err != nil {
		return fmt.Errorf("cron job: failed to get stale pending bookings: %w", err)
	}

	if len(ids) == 0 {
		log.Println("Cron Job: No stale pending bookings found.")
		return nil
	}

	log.Printf("Cron Job: Found %d stale pending bookings to cancel. IDs: %v", len(ids), ids)

	if err := s.Repo.CancelBookings(ids); err != nil {
		return fmt.Errorf("cron job: failed to cancel stale bookings: %w", err)
	}
	return nil
}
