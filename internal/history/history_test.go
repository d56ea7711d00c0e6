package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tumor-screen/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "screening.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	_, err := store.Append(ctx, history.Record{
		ReportID:      "abcd1234",
		ImagePath:     "scans/Y_1.png",
		Label:         1,
		Confidence:    0.87,
		HasConfidence: true,
		Tier:          "adaptive",
		CreatedAt:     base,
	})
	require.NoError(t, err)

	_, err = store.Append(ctx, history.Record{
		ImagePath: "scans/N_2.png",
		Label:     0,
		Tier:      "heuristic",
		CreatedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, "scans/N_2.png", records[0].ImagePath)
	assert.Equal(t, "heuristic", records[0].Tier)
	assert.False(t, records[0].HasConfidence, "missing confidence round-trips as NULL")
	assert.Empty(t, records[0].ReportID)

	assert.Equal(t, "scans/Y_1.png", records[1].ImagePath)
	assert.Equal(t, 1, records[1].Label)
	assert.True(t, records[1].HasConfidence)
	assert.InDelta(t, 0.87, records[1].Confidence, 1e-9)
	assert.Equal(t, "abcd1234", records[1].ReportID)
	assert.True(t, records[1].CreatedAt.Equal(base))
}

func TestRecentLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, history.Record{
			ImagePath: "scan.png",
			Label:     i % 2,
			Tier:      "random",
		})
		require.NoError(t, err)
	}

	records, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "screening.db")
	store, err := history.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
