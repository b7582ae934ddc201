package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLogKeepsOrder(t *testing.T) {
	l := NewMemoryLog[int]()
	for i := 0; i < 5; i++ {
		l.Append(i)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, l.All())
	assert.Equal(t, 5, l.Count())

	// All returns a copy
	items := l.All()
	items[0] = 42
	assert.Equal(t, 0, l.All()[0])

	l.Reset()
	assert.Zero(t, l.Count())
	assert.Empty(t, l.All())
}

func TestMemoryReportStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryReportStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Append(ctx, testReport("A→C", "2025-01-01T10:01:00Z")))
		}()
	}
	wg.Wait()

	reports, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 10)

	require.NoError(t, store.Clear(ctx))
	reports, err = store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.NoError(t, store.Close())
}
