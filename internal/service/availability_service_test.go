package service

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"soundhaus/internal/db"
	httperrors "soundhaus/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlockedStore struct {
	intervals []db.BlockedInterval
	err       error
}

func (f *fakeBlockedStore) ListBlockedIntervalsForDate(date time.Time) ([]db.BlockedInterval, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.intervals, nil
}

func partialBlock(start, end int) db.BlockedInterval {
	return db.BlockedInterval{
		StartHour: sql.NullInt64{Int64: int64(start), Valid: true},
		EndHour:   sql.NullInt64{Int64: int64(end), Valid: true},
	}
}

var testDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func TestCheckAvailability(t *testing.T) {
	t.Run("no blocks means available", func(t *testing.T) {
		svc := NewAvailabilityService(&fakeBlockedStore{})
		resp, err := svc.CheckAvailability(testDate, 10, 4)
		require.NoError(t, err)
		assert.True(t, resp.Available)
		assert.Empty(t, resp.BlockedSlots)
	})

	t.Run("touching intervals do not conflict", func(t *testing.T) {
		store := &fakeBlockedStore{intervals: []db.BlockedInterval{partialBlock(11, 13)}}
		svc := NewAvailabilityService(store)

		resp, err := svc.CheckAvailability(testDate, 9, 2)
		require.NoError(t, err)
		assert.True(t, resp.Available, "request [9,11) vs blocked [11,13) must be available")

		resp, err = svc.CheckAvailability(testDate, 13, 2)
		require.NoError(t, err)
		assert.True(t, resp.Available, "request [13,15) vs blocked [11,13) must be available")
	})

	t.Run("contained request conflicts", func(t *testing.T) {
		store := &fakeBlockedStore{intervals: []db.BlockedInterval{partialBlock(9, 15)}}
		svc := NewAvailabilityService(store)

		resp, err := svc.CheckAvailability(testDate, 10, 4)
		require.NoError(t, err)
		assert.False(t, resp.Available)
		require.Len(t, resp.BlockedSlots, 1)
		assert.Equal(t, 9, *resp.BlockedSlots[0].StartHour)
		assert.Equal(t, 15, *resp.BlockedSlots[0].EndHour)
	})

	t.Run("partial overlap conflicts", func(t *testing.T) {
		store := &fakeBlockedStore{intervals: []db.BlockedInterval{partialBlock(12, 14)}}
		svc := NewAvailabilityService(store)

		resp, err := svc.CheckAvailability(testDate, 10, 3)
		require.NoError(t, err)
		assert.False(t, resp.Available)
	})

	t.Run("entire day blocks everything", func(t *testing.T) {
		store := &fakeBlockedStore{intervals: []db.BlockedInterval{{EntireDay: true}}}
		svc := NewAvailabilityService(store)

		resp, err := svc.CheckAvailability(testDate, 0, 1)
		require.NoError(t, err)
		assert.False(t, resp.Available)
		require.Len(t, resp.BlockedSlots, 1)
		assert.True(t, resp.BlockedSlots[0].EntireDay)
	})

	t.Run("all conflicting intervals are returned", func(t *testing.T) {
		store := &fakeBlockedStore{intervals: []db.BlockedInterval{
			partialBlock(8, 10),
			partialBlock(11, 12),
			partialBlock(15, 18),
		}}
		svc := NewAvailabilityService(store)

		resp, err := svc.CheckAvailability(testDate, 9, 4)
		require.NoError(t, err)
		assert.False(t, resp.Available)
		assert.Len(t, resp.BlockedSlots, 2)
	})

	t.Run("malformed input is a validation error", func(t *testing.T) {
		svc := NewAvailabilityService(&fakeBlockedStore{})

		cases := []struct {
			name     string
			start    int
			duration int
		}{
			{"negative start", -1, 2},
			{"start past midnight", 24, 1},
			{"zero duration", 10, 0},
			{"negative duration", 10, -3},
			{"runs past midnight", 22, 4},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.CheckAvailability(testDate, tc.start, tc.duration)
				var he *httperrors.HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, 400, he.Code)
			})
		}
	})

	t.Run("store failure is not unavailable", func(t *testing.T) {
		store := &fakeBlockedStore{err: errors.New("connection reset")}
		svc := NewAvailabilityService(store)

		resp, err := svc.CheckAvailability(testDate, 10, 2)
		assert.Nil(t, resp)
		var he *httperrors.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 500, he.Code)
	})
}
