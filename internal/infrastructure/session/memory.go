package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pricelens/web/internal/domain"
)

// DefaultSweepInterval is how often expired sessions are evicted
const DefaultSweepInterval = time.Minute

// entry represents a single session with expiration
type entry[T any] struct {
	Value      T
	Expiration time.Time
}

// MemoryStore is a thread-safe in-memory session store with sliding TTL.
// Every successful Get extends the session.
type MemoryStore[T any] struct {
	data    map[string]entry[T]
	mutex   sync.RWMutex
	ttl     time.Duration
	onEvict func(T)
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a store whose sessions live for ttl after their last
// use. onEvict, if set, is called for every value that expires or is deleted.
func NewMemoryStore[T any](ttl time.Duration, sweepInterval time.Duration, onEvict func(T)) *MemoryStore[T] {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	store := &MemoryStore[T]{
		data:    make(map[string]entry[T]),
		ttl:     ttl,
		onEvict: onEvict,
		done:    make(chan struct{}),
	}

	go store.cleanupExpired(sweepInterval)

	return store
}

// NewID returns a fresh random session ID
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of an ID from NewID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get retrieves a session and extends its lifetime
func (s *MemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var zero T
	item, exists := s.data[id]
	if !exists || time.Now().After(item.Expiration) {
		return zero, domain.ErrSessionNotFound
	}

	item.Expiration = time.Now().Add(s.ttl)
	s.data[id] = item
	return item.Value, nil
}

// Set stores a session under id, evicting whatever was there before
func (s *MemoryStore[T]) Set(ctx context.Context, id string, value T) error {
	s.mutex.Lock()
	previous, existed := s.data[id]
	s.data[id] = entry[T]{
		Value:      value,
		Expiration: time.Now().Add(s.ttl),
	}
	s.mutex.Unlock()

	if existed {
		s.evict(previous.Value)
	}
	return nil
}

// Delete removes a session
func (s *MemoryStore[T]) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	item, existed := s.data[id]
	delete(s.data, id)
	s.mutex.Unlock()

	if existed {
		s.evict(item.Value)
	}
	return nil
}

// Exists checks if a session exists and is not expired
func (s *MemoryStore[T]) Exists(ctx context.Context, id string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[id]
	if !exists {
		return false, nil
	}

	return !time.Now().After(item.Expiration), nil
}

// Size returns the current number of sessions
func (s *MemoryStore[T]) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Sweep evicts every expired session and returns how many were removed
func (s *MemoryStore[T]) Sweep() int {
	s.mutex.Lock()
	now := time.Now()
	var expired []T
	for id, item := range s.data {
		if now.After(item.Expiration) {
			expired = append(expired, item.Value)
			delete(s.data, id)
		}
	}
	s.mutex.Unlock()

	for _, v := range expired {
		s.evict(v)
	}
	return len(expired)
}

// Clear removes all sessions
func (s *MemoryStore[T]) Clear() {
	s.mutex.Lock()
	old := s.data
	s.data = make(map[string]entry[T])
	s.mutex.Unlock()

	for _, item := range old {
		s.evict(item.Value)
	}
}

// Close stops the sweeper and evicts every session
func (s *MemoryStore[T]) Close() {
	s.once.Do(func() {
		close(s.done)
		s.Clear()
	})
}

func (s *MemoryStore[T]) evict(v T) {
	if s.onEvict != nil {
		s.onEvict(v)
	}
}

// cleanupExpired removes expired sessions periodically until Close
func (s *MemoryStore[T]) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Printf("[SESSION] Evicted %d expired sessions", n)
			}
		case <-s.done:
			return
		}
	}
}
