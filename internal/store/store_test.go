package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewStore("sqlite", filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	memory, err := NewStore("memory", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseIfSupported(sqlite) })
	return map[string]Store{"memory": memory, "sqlite": sqlite}
}

func TestNewStoreRejectsUnknownBackend(t *testing.T) {
	_, err := NewStore("badger", "")
	assert.Error(t, err)
	_, err = NewStore("sqlite", "")
	assert.Error(t, err)
}

func TestSaveAndGetRun(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Init(ctx))

			saved, err := s.SaveRun(ctx, Run{
				Algorithm:   "ga",
				Dataset:     "toy-1",
				Seed:        7,
				Fitness:     912.5,
				Value:       913,
				Size:        480,
				Capacity:    480,
				Feasible:    true,
				FoundAt:     42,
				Evaluations: 98000,
				Duration:    1500 * time.Millisecond,
				Solution:    "1100",
				Config:      "population: 100\n",
			})
			require.NoError(t, err)
			assert.NotEmpty(t, saved.ID)
			assert.False(t, saved.CreatedAt.IsZero())

			got, ok, err := s.GetRun(ctx, saved.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, saved.ID, got.ID)
			assert.Equal(t, 912.5, got.Fitness)
			assert.Equal(t, 42, got.FoundAt)
			assert.True(t, got.Feasible)
			assert.Equal(t, 1500*time.Millisecond, got.Duration)
			assert.Equal(t, "1100", got.Solution)
			assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))

			_, ok, err = s.GetRun(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSaveRunOverwritesExistingID(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Init(ctx))
			first, err := s.SaveRun(ctx, Run{ID: "run-1", Algorithm: "sa", Fitness: 1})
			require.NoError(t, err)
			first.Fitness = 2
			_, err = s.SaveRun(ctx, first)
			require.NoError(t, err)

			runs, err := s.ListRuns(ctx, 0)
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.Equal(t, 2.0, runs[0].Fitness)
		})
	}
}

func TestListRunsNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Init(ctx))
			for i, id := range []string{"a", "b", "c"} {
				_, err := s.SaveRun(ctx, Run{ID: id, Algorithm: "ga", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
				require.NoError(t, err)
			}

			runs, err := s.ListRuns(ctx, 2)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "c", runs[0].ID)
			assert.Equal(t, "b", runs[1].ID)

			all, err := s.ListRuns(ctx, 0)
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestUninitializedStoreFails(t *testing.T) {
	ctx := context.Background()
	_, err := NewMemoryStore().SaveRun(ctx, Run{})
	assert.Error(t, err)
	_, err = NewSQLiteStore(filepath.Join(t.TempDir(), "x.db")).ListRuns(ctx, 1)
	assert.Error(t, err)
	assert.NoError(t, NewSQLiteStore("unused").Close())
}
