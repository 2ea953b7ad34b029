package service

import (
	"testing"
	"time"

	"soundhaus/internal/db"
	httperrors "soundhaus/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlockAdminStore struct {
	blocks []db.BlockedInterval
}

func (f *fakeBlockAdminStore) ListBlockedIntervalsFrom(from time.Time) ([]db.BlockedInterval, error) {
	return f.blocks, nil
}

func (f *fakeBlockAdminStore) CreateBlockedInterval(bi *db.BlockedInterval) error {
	bi.ID = len(f.blocks) + 1
	f.blocks = append(f.blocks, *bi)
	return nil
}

func (f *fakeBlockAdminStore) DeleteBlockedInterval(id int) (int64, error) {
	for i, b := range f.blocks {
		if b.ID == id {
			f.blocks = append(f.blocks[:i], f.blocks[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func TestCreateBlock(t *testing.T) {
	hour := func(h int) *int { return &h }

	t.Run("entire-day block ignores hours", func(t *testing.T) {
		svc := NewBlockService(&fakeBlockAdminStore{})
		block, err := svc.CreateBlock("2026-09-14", true, nil, nil, "studio maintenance")
		require.NoError(t, err)
		assert.True(t, block.EntireDay)
		assert.False(t, block.StartHour.Valid)
		assert.False(t, block.EndHour.Valid)
	})

	t.Run("partial block requires both hours", func(t *testing.T) {
		svc := NewBlockService(&fakeBlockAdminStore{})
		_, err := svc.CreateBlock("2026-09-14", false, hour(9), nil, "")
		var he *httperrors.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 400, he.Code)
	})

	t.Run("start must precede end", func(t *testing.T) {
		svc := NewBlockService(&fakeBlockAdminStore{})
		_, err := svc.CreateBlock("2026-09-14", false, hour(12), hour(12), "")
		var he *httperrors.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 400, he.Code)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		svc := NewBlockService(&fakeBlockAdminStore{})
		_, err := svc.CreateBlock("14/09/2026", true, nil, nil, "")
		var he *httperrors.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 400, he.Code)
	})

	t.Run("valid partial block is stored", func(t *testing.T) {
		store := &fakeBlockAdminStore{}
		svc := NewBlockService(store)
		block, err := svc.CreateBlock("2026-09-14", false, hour(9), hour(13), "label showcase")
		require.NoError(t, err)
		assert.Equal(t, int64(9), block.StartHour.Int64)
		assert.Equal(t, int64(13), block.EndHour.Int64)
		assert.Len(t, store.blocks, 1)
	})
}

func TestDeleteBlock(t *testing.T) {
	store := &fakeBlockAdminStore{}
	svc := NewBlockService(store)
	block, err := svc.CreateBlock("2026-09-14", true, nil, nil, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBlock(block.ID))

	err = svc.DeleteBlock(block.ID)
	var he *httperrors.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 404, he.Code)
}
