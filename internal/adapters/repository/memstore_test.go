package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/rugbylens/internal/domain/model"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)}
}

func table(files ...string) *model.Table {
	return &model.Table{Columns: []string{model.ColSourceFile}, Files: files}
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.Equal(t, 0, store.Count(ctx))

	created, err := store.Create(ctx, table("a.csv"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 1, store.Count(ctx))

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv"}, got.Table.Files)

	replaced, err := store.Replace(ctx, created.ID, table("b.csv", "c.csv"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, []string{"b.csv", "c.csv"}, replaced.Table.Files)

	require.NoError(t, store.Delete(ctx, created.ID))
	assert.Equal(t, 0, store.Count(ctx))

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, created.ID), ErrNotFound)
}

func TestMemoryStore_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCapacity(0))

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		s, err := store.Create(ctx, table())
		require.NoError(t, err)
		_, dup := seen[s.ID]
		require.False(t, dup, "duplicate id %s", s.ID)
		seen[s.ID] = struct{}{}
	}
	assert.Equal(t, 100, store.Count(ctx))
}

func TestMemoryStore_NilTable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Create(ctx, nil)
	assert.ErrorIs(t, err, ErrNilTable)

	s, err := store.Create(ctx, table())
	require.NoError(t, err)
	_, err = store.Replace(ctx, s.ID, nil)
	assert.ErrorIs(t, err, ErrNilTable)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := NewMemoryStore(WithTTL(time.Minute), WithClock(clock.Now))

	s, err := store.Create(ctx, table())
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	_, err = store.Get(ctx, s.ID)
	require.NoError(t, err, "access within ttl")

	// Access refreshed the idle timer.
	clock.Advance(45 * time.Second)
	_, err = store.Get(ctx, s.ID)
	require.NoError(t, err)

	clock.Advance(61 * time.Second)
	assert.Equal(t, 0, store.Count(ctx))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := NewMemoryStore(WithTTL(time.Minute), WithClock(clock.Now))

	old, err := store.Create(ctx, table())
	require.NoError(t, err)
	clock.Advance(50 * time.Second)
	fresh, err := store.Create(ctx, table())
	require.NoError(t, err)

	clock.Advance(20 * time.Second)
	assert.Equal(t, 1, store.Sweep(ctx))
	assert.Equal(t, 1, store.Count(ctx))

	_, err = store.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_CapacityEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := NewMemoryStore(WithCapacity(2), WithClock(clock.Now))

	first, err := store.Create(ctx, table("1"))
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := store.Create(ctx, table("2"))
	require.NoError(t, err)
	clock.Advance(time.Second)

	// Touch first so second becomes the eviction candidate.
	_, err = store.Get(ctx, first.ID)
	require.NoError(t, err)

	third, err := store.Create(ctx, table("3"))
	require.NoError(t, err)
	assert.Equal(t, 2, store.Count(ctx))

	_, err = store.Get(ctx, second.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, first.ID)
	assert.NoError(t, err)
	_, err = store.Get(ctx, third.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore()

	_, err := store.Create(ctx, table())
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCapacity(0))

	var wg sync.WaitGroup
	ids := make(chan string, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 8; j++ {
				s, err := store.Create(ctx, table())
				if err != nil {
					t.Errorf("create: %v", err)
					return
				}
				ids <- s.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := store.Get(ctx, id); err != nil {
				t.Errorf("get %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()
	assert.Equal(t, 64, store.Count(ctx))
}
