package cache

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
)

// sweepInterval is how often expired keys are evicted
const sweepInterval = 5 * time.Minute

// slot is a reserved key. resp stays nil while the first request is in flight.
type slot struct {
	resp     *shared.StoredResponse
	deadline time.Time
}

func (s slot) liveAt(now time.Time) bool { return now.Before(s.deadline) }

// InMemoryIdempotencyStore keeps keys in process memory. Replays do not
// survive restarts or span replicas; use the Redis store for that.
type InMemoryIdempotencyStore struct {
	mu    sync.RWMutex
	slots map[string]slot

	stop context.CancelFunc
	done chan struct{}
}

// NewInMemoryIdempotencyStore starts a sweeper goroutine that runs until Close.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return newInMemoryIdempotencyStore(sweepInterval)
}

func newInMemoryIdempotencyStore(every time.Duration) *InMemoryIdempotencyStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &InMemoryIdempotencyStore{
		slots: make(map[string]slot),
		stop:  cancel,
		done:  make(chan struct{}),
	}
	go s.sweep(ctx, every)
	return s
}

func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.slots[key]; ok && cur.liveAt(now) {
		return false, nil
	}
	s.slots[key] = slot{deadline: now.Add(ttl)}
	return true, nil
}

// Complete attaches resp to key and restarts its TTL. The body is copied.
func (s *InMemoryIdempotencyStore) Complete(_ context.Context, key string, resp shared.StoredResponse, ttl time.Duration) error {
	resp.Body = slices.Clone(resp.Body)

	s.mu.Lock()
	s.slots[key] = slot{resp: &resp, deadline: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Lookup returns nil while key is unknown, expired or still in flight.
func (s *InMemoryIdempotencyStore) Lookup(_ context.Context, key string) (*shared.StoredResponse, error) {
	s.mu.RLock()
	cur, ok := s.slots[key]
	s.mu.RUnlock()

	if !ok || cur.resp == nil || !cur.liveAt(time.Now()) {
		return nil, nil
	}
	replay := *cur.resp
	return &replay, nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.slots, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. It may be called more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.stop()
	<-s.done
	return nil
}

// Size counts stored keys, expired ones included.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

func (s *InMemoryIdempotencyStore) sweep(ctx context.Context, every time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.mu.Lock()
			maps.DeleteFunc(s.slots, func(_ string, v slot) bool { return !v.liveAt(now) })
			s.mu.Unlock()
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
