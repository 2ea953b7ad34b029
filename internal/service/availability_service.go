package service

import (
	"log"
	"time"

	"soundhaus/internal/db"
	"soundhaus/internal/entities"
	httperrors "soundhaus/internal/errors"
)

// BlockedIntervalStore is the slice of the availability repository the
// checker needs. Pure read.
type BlockedIntervalStore interface {
	ListBlockedIntervalsForDate(date time.Time) ([]db.BlockedInterval, error)
}

type AvailabilityService struct {
	store BlockedIntervalStore
}

func NewAvailabilityService(store BlockedIntervalStore) *AvailabilityService {
	return &AvailabilityService{store: store}
}

// ValidateSlot rejects malformed requests before any store read. A bad
// request must never come back as a false "available".
func ValidateSlot(startHour, durationHours int) error {
	if startHour < 0 || startHour > 23 {
		return httperrors.Validation("start_hour must be between 0 and 23")
	}
	if durationHours < 1 {
		return httperrors.Validation("duration_hours must be a positive integer")
	}
	if startHour+durationHours > 24 {
		return httperrors.Validation("session must end by hour 24")
	}
	return nil
}

// CheckAvailability reports whether [startHour, startHour+durationHours)
// intersects any blocked interval on the given date, and returns the
// conflicting intervals so the caller can explain the refusal.
func (s *AvailabilityService) CheckAvailability(date time.Time, startHour, durationHours int) (*entities.AvailabilityResponse, error) {
	if err := ValidateSlot(startHour, durationHours); err != nil {
		return nil, err
	}

	intervals, err := s.store.ListBlockedIntervalsForDate(date)
	if err != nil {
		log.Printf("Error reading blocked intervals for %s: %v", date.Format("2006-01-02"), err)
		return nil, httperrors.TransientStore("could not determine availability")
	}

	requestedEnd := startHour + durationHours
	resp := &entities.AvailabilityResponse{
		Available:    true,
		Date:         date.Format("2006-01-02"),
		StartHour:    startHour,
		EndHour:      requestedEnd,
		BlockedSlots: []entities.BlockedSlot{},
	}

	for _, bi := range intervals {
		if !intervalConflicts(bi, startHour, requestedEnd) {
			continue
		}
		resp.Available = false
		resp.BlockedSlots = append(resp.BlockedSlots, toBlockedSlot(bi))
	}

	return resp, nil
}

// intervalConflicts applies the half-open overlap test: intervals that only
// touch at an endpoint do not conflict.
func intervalConflicts(bi db.BlockedInterval, reqStart, reqEnd int) bool {
	if bi.EntireDay {
		return true
	}
	return reqStart < int(bi.EndHour.Int64) && reqEnd > int(bi.StartHour.Int64)
}

func toBlockedSlot(bi db.BlockedInterval) entities.BlockedSlot {
	slot := entities.BlockedSlot{EntireDay: bi.EntireDay}
	if !bi.EntireDay {
		start := int(bi.StartHour.Int64)
		end := int(bi.EndHour.Int64)
		slot.StartHour = &start
		slot.EndHour = &end
	}
	return slot
}
