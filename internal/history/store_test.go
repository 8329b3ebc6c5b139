package history

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, max int) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "history.db"), max)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewStore_RejectsZeroBound(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "h.db"), 0)
	assert.Error(t, err)
}

func TestStore_AppendAndList(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	fixed := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Append(ctx, "what time is it", "The current time is 02:00 PM"))
	require.NoError(t, s.Append(ctx, "bye", "Goodbye! Take care."))

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "what time is it", entries[0].Command)
	assert.Equal(t, "bye", entries[1].Command)
	assert.Less(t, entries[0].ID, entries[1].ID, "ids sort by insertion even within one millisecond")
	assert.True(t, fixed.Equal(entries[0].CreatedAt))
}

func TestStore_ListLimitReturnsMostRecent(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, s.Append(ctx, fmt.Sprintf("cmd %d", i), "ok"))
	}

	entries, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cmd 3", entries[0].Command)
	assert.Equal(t, "cmd 4", entries[1].Command)
}

func TestStore_PrunesBeyondBound(t *testing.T) {
	s := newTestStore(t, 3)
	ctx := context.Background()

	for i := range 6 {
		require.NoError(t, s.Append(ctx, fmt.Sprintf("cmd %d", i), "ok"))
	}

	entries, err := s.List(ctx, 100)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "cmd 3", entries[0].Command)
	assert.Equal(t, "cmd 5", entries[2].Command)
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "hello", "hi"))
	require.NoError(t, s.Clear(ctx))

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_ConcurrentAppend(t *testing.T) {
	s := newTestStore(t, 100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, fmt.Sprintf("cmd %d", i), "ok"))
		}()
	}
	wg.Wait()

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := NewStore(path, 10)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, "hello", "hi"))
	require.NoError(t, s.Close())

	s, err = NewStore(path, 10)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Command)
}
