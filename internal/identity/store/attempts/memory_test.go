package attempts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryWindow(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	window := 15 * time.Minute

	for i, at := range []time.Duration{0, time.Minute, 14 * time.Minute} {
		n, err := store.RecordFailure(ctx, "a@example.com", start.Add(at), window)
		require.NoError(t, err)
		assert.Equal(t, i+1, n)
	}

	n, _ := store.Failures(ctx, "a@example.com", start.Add(16*time.Minute))
	assert.Equal(t, 3, n, "each failure restarts the window")

	n, _ = store.Failures(ctx, "a@example.com", start.Add(28*time.Minute))
	assert.Equal(t, 3, n)

	n, _ = store.Failures(ctx, "a@example.com", start.Add(29*time.Minute))
	assert.Zero(t, n, "window ends after the last failure")

	n, _ = store.RecordFailure(ctx, "a@example.com", start.Add(30*time.Minute), window)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Reset(ctx, "a@example.com"))
	n, _ = store.Failures(ctx, "a@example.com", start.Add(30*time.Minute))
	assert.Zero(t, n)
}
