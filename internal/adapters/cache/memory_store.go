package cache

import (
	"sync"
	"time"

	"github.com/zatekoja/medmatch/internal/domain/entities"
)

// DatasetKey is the validity key of a cached dataset: the logical dataset,
// the resolved file path it was loaded from, and the file's modification
// time at load. A change to any component is a cache miss by construction.
type DatasetKey struct {
	Dataset entities.Dataset
	Path    string
	ModTime int64 // mtime as unix nanoseconds; keeps the key comparable
}

type entry struct {
	providers []entities.Provider
	createdAt time.Time
}

// MemoryStore is the in-process dataset cache. One coarse mutex guards the
// whole store; expected concurrency is a handful of interactive sessions,
// not a high-throughput service.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[DatasetKey]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose entries expire ttl after creation
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[DatasetKey]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetClock overrides the store's clock. Tests only.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get returns the cached dataset for key if present and within TTL.
// Expired entries are dropped on access; there is no background sweeper.
func (s *MemoryStore) Get(key DatasetKey) ([]entities.Provider, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.createdAt) >= s.ttl {
		delete(s.entries, key)
		return nil, false
	}
	return e.providers, true
}

// Put stores a dataset under key and evicts entries for the same logical
// dataset and path recorded under an older modification time.
func (s *MemoryStore) Put(key DatasetKey, providers []entities.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.entries {
		if k.Dataset == key.Dataset && k.Path == key.Path && k.ModTime != key.ModTime {
			delete(s.entries, k)
		}
	}
	s.entries[key] = entry{providers: providers, createdAt: s.now()}
}

// PurgeAll unconditionally drops every entry
func (s *MemoryStore) PurgeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[DatasetKey]entry)
}

// Len returns the number of live entries (expired entries included until touched)
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
