package service

import (
	"fmt"
	"log"
	"time"

	"soundhaus/internal/db"
	httperrors "soundhaus/internal/errors"
)

type BlockedIntervalAdminStore interface {
	ListBlockedIntervalsFrom(from time.Time) ([]db.BlockedInterval, error)
	CreateBlockedInterval(bi *db.BlockedInterval) error
	DeleteBlockedInterval(id int) (int64, error)
}

// BlockService manages the availability store. Blocks are immutable once
// created; replacing one means delete plus create.
type BlockService struct {
	store BlockedIntervalAdminStore
}

func NewBlockService(store BlockedIntervalAdminStore) *BlockService {
	return &BlockService{store: store}
}

func (s *BlockService) ListUpcomingBlocks() ([]db.BlockedInterval, error) {
	blocks, err := s.store.ListBlockedIntervalsFrom(time.Now().UTC().Truncate(24 * time.Hour))
	if err != nil {
		log.Printf("Error listing blocked intervals: %v", err)
		return nil, httperrors.TransientStore("could not list blocked intervals")
	}
	return blocks, nil
}

// CreateBlock enforces the interval invariant: entire-day blocks carry no
// hours; partial blocks need both, with start < end.
func (s *BlockService) CreateBlock(dateStr string, entireDay bool, startHour, endHour *int, reason string) (*db.BlockedInterval, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, httperrors.Validation("date must be in YYYY-MM-DD format")
	}

	block := &db.BlockedInterval{
		Date:      date,
		EntireDay: entireDay,
		Reason:    reason,
	}
	if !entireDay {
		if startHour == nil || endHour == nil {
			return nil, httperrors.Validation("start_hour and end_hour are required unless entire_day is set")
		}
		if *startHour < 0 || *startHour > 23 || *endHour < 1 || *endHour > 24 {
			return nil, httperrors.Validation("hours must lie within a single day")
		}
		if *startHour >= *endHour {
			return nil, httperrors.Validation("start_hour must be before end_hour")
		}
		block.StartHour.Valid = true
		block.StartHour.Int64 = int64(*startHour)
		block.EndHour.Valid = true
		block.EndHour.Int64 = int64(*endHour)
	}

	if err := s.store.CreateBlockedInterval(block); err != nil {
		log.Printf("Error creating blocked interval: %v", err)
		return nil, httperrors.TransientStore("could not create blocked interval")
	}
	return block, nil
}

func (s *BlockService) DeleteBlock(id int) error {
	rows, err := s.store.DeleteBlockedInterval(id)
	if err != nil {
		log.Printf("Error deleting blocked interval %d: %v", id, err)
		return httperrors.TransientStore("could not delete blocked interval")
	}
	if rows == 0 {
		return httperrors.NotFound(fmt.Sprintf("blocked interval %d not found", id))
	}
	return nil
}
