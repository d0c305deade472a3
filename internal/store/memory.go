package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-outlook/internal/visit"
)

var (
	// ErrNotFound is returned when no visit exists for an ID.
	ErrNotFound = errors.New("visit not found")
)

type entry struct {
	visit    *visit.Visit
	lastSeen time.Time
}

// MemoryStore is a concurrency-safe in-memory set of live visits.
type MemoryStore struct {
	mu sync.RWMutex

	// key: visit ID
	data map[string]*entry

	// retention configuration
	maxCount int           // max number of live visits
	maxAge   time.Duration // max idle time before Sweep drops a visit

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// Non-positive limits are treated as unlimited.
func NewMemoryStore(maxCount int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]*entry),
		maxCount: maxCount,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Save stores v and evicts the least recently seen visits beyond maxCount.
func (s *MemoryStore) Save(v *visit.Visit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[v.ID] = &entry{visit: v, lastSeen: s.now()}

	// Enforce retention by count.
	for s.maxCount > 0 && len(s.data) > s.maxCount {
		var (
			oldestID string
			oldest   time.Time
		)
		for id, e := range s.data {
			if id == v.ID {
				continue
			}
			if oldestID == "" || e.lastSeen.Before(oldest) {
				oldestID, oldest = id, e.lastSeen
			}
		}
		if oldestID == "" {
			return
		}
		delete(s.data, oldestID)
	}
}

// Get returns the visit and marks it as seen.
func (s *MemoryStore) Get(id string) (*visit.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.visit, nil
}

// Delete removes a visit. Deleting an unknown ID is a no-op.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}

// Len reports the number of live visits.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Sweep drops visits idle for longer than maxAge as of now and returns how
// many were removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	if s.maxAge <= 0 {
		return 0
	}
	cutoff := now.Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.data {
		if e.lastSeen.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}
