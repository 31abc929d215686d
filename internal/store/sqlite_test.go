// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)

	s := New(db)
	require.NoError(t, s.InitSchema(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndListRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.Save(ctx, Calculation{
			ID:            uuid.New().String(),
			Ingredient:    "sugar",
			QuantityInput: "400g",
			Price:         100,
			PerKG:         250,
			PerG:          0.25,
			PerMG:         0.00025,
			Source:        "single",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	got, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
	assert.Equal(t, "sugar", got[0].Ingredient)
	assert.Equal(t, "400g", got[0].QuantityInput)
	assert.InDelta(t, 250, got[0].PerKG, 1e-9)
}

func TestStore_ListRecentLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, Calculation{
			ID:            uuid.New().String(),
			Ingredient:    "flour",
			QuantityInput: "1kg",
			Price:         50,
			PerKG:         50,
			PerG:          0.05,
			PerMG:         0.00005,
			Source:        "batch",
		}))
	}

	got, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestStore_EmptyList(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open("/nonexistent-dir/sub/test.db", DefaultConfig())
	assert.Error(t, err)
}
