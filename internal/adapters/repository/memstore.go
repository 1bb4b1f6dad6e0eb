package repository

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rugbylens/internal/domain/model"
	"github.com/okian/rugbylens/pkg/metrics"
)

// Eviction reasons reported to metrics.
const (
	reasonExpired  = "expired"
	reasonCapacity = "capacity"
	reasonDeleted  = "deleted"
)

const (
	defaultTTL      = 2 * time.Hour
	defaultCapacity = 64
)

// MemoryStore is an in-memory Store. Idle sessions expire lazily once
// their TTL passes; when full, the least recently used session is evicted.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*list.Element
	lru      *list.List // front is most recently used
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// NewMemoryStore constructs a store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:     make(map[string]*list.Element),
		lru:      list.New(),
		ttl:      defaultTTL,
		capacity: defaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements Store.Create.
func (s *MemoryStore) Create(ctx context.Context, t *model.Table) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if t == nil {
		return Session{}, ErrNilTable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	for s.capacity > 0 && s.lru.Len() >= s.capacity {
		s.removeLocked(s.lru.Back(), reasonCapacity)
	}

	sess := &Session{
		ID:         uuid.NewString(),
		Table:      t,
		CreatedAt:  now,
		UpdatedAt:  now,
		LastAccess: now,
	}
	s.byID[sess.ID] = s.lru.PushFront(sess)

	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(s.lru.Len())
	return *sess, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}

	// Get mutates recency, so it takes the write lock.
	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.liveLocked(id, s.now())
	if err != nil {
		return Session{}, err
	}
	sess := el.Value.(*Session)
	sess.LastAccess = s.now()
	s.lru.MoveToFront(el)
	return *sess, nil
}

// Replace implements Store.Replace.
func (s *MemoryStore) Replace(ctx context.Context, id string, t *model.Table) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if t == nil {
		return Session{}, ErrNilTable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	el, err := s.liveLocked(id, now)
	if err != nil {
		return Session{}, err
	}
	sess := el.Value.(*Session)
	sess.Table = t
	sess.UpdatedAt = now
	sess.LastAccess = now
	s.lru.MoveToFront(el)
	return *sess, nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.liveLocked(id, s.now())
	if err != nil {
		return err
	}
	s.removeLocked(el, reasonDeleted)
	metrics.UpdateActiveSessions(s.lru.Len())
	return nil
}

// Count implements Store.Count. Expired sessions that have not been swept
// yet are not counted.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ttl == 0 {
		return s.lru.Len()
	}
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for el := s.lru.Front(); el != nil; el = el.Next() {
		if el.Value.(*Session).LastAccess.Before(cutoff) {
			// Everything behind this element is older still.
			break
		}
		n++
	}
	return n
}

// Sweep drops every expired session and returns how many were removed.
func (s *MemoryStore) Sweep(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.sweepLocked(s.now())
	if n > 0 {
		metrics.UpdateActiveSessions(s.lru.Len())
	}
	return n
}

// liveLocked finds a session, evicting it if it has expired.
func (s *MemoryStore) liveLocked(id string, now time.Time) (*list.Element, error) {
	el, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(el.Value.(*Session), now) {
		s.removeLocked(el, reasonExpired)
		metrics.UpdateActiveSessions(s.lru.Len())
		return nil, ErrNotFound
	}
	return el, nil
}

// sweepLocked removes expired sessions from the cold end of the list.
func (s *MemoryStore) sweepLocked(now time.Time) int {
	n := 0
	for el := s.lru.Back(); el != nil; {
		if !s.expired(el.Value.(*Session), now) {
			break
		}
		prev := el.Prev()
		s.removeLocked(el, reasonExpired)
		el = prev
		n++
	}
	return n
}

func (s *MemoryStore) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastAccess) > s.ttl
}

func (s *MemoryStore) removeLocked(el *list.Element, reason string) {
	sess := s.lru.Remove(el).(*Session)
	delete(s.byID, sess.ID)
	metrics.RecordSessionEvicted(reason)
}
