// Package snapshot maintains the bounded in-memory cache of the most recent
// sign-in records and keeps it current by reconciling live change events.
package snapshot

import (
	"sort"
	"sync"

	"github.com/oakline/gatehouse/internal/domain/signin"
	"github.com/oakline/gatehouse/internal/repository"
)

// DefaultLimit bounds the cache to keep memory and render cost flat.
// Callers needing older records query the store directly instead.
const DefaultLimit = 400

// Store is the id-keyed cache of the most recent records, ordered
// created_at descending. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	limit int
	rows  []*signin.SignInRecord
	index map[string]int
}

// NewStore creates an empty snapshot with the given cap. A non-positive
// limit falls back to DefaultLimit.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		limit: limit,
		index: make(map[string]int),
	}
}

// Init replaces the whole cache with the bulk-fetch result, ordered
// created_at descending and capped at the limit.
func (s *Store) Init(rows []*signin.SignInRecord) {
	sorted := append([]*signin.SignInRecord(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > s.limit {
		sorted = sorted[:s.limit]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = sorted
	s.reindex()
}

// Reconcile merges one change event. Inserts upsert (replace if present,
// else add as newest); updates replace only a present id; deletes remove a
// present id. Events referencing an unknown id are no-ops, not errors: the
// stream and the bulk fetch are only eventually consistent with each other.
// Applying the same event twice yields the same state as applying it once.
func (s *Store) Reconcile(ev repository.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case repository.ChangeInsert:
		if ev.Record == nil {
			return
		}
		if i, ok := s.index[ev.Record.ID]; ok {
			s.rows[i] = ev.Record
			return
		}
		s.rows = append([]*signin.SignInRecord{ev.Record}, s.rows...)
		if len(s.rows) > s.limit {
			s.rows = s.rows[:s.limit]
		}
		s.reindex()
	case repository.ChangeUpdate:
		if ev.Record == nil {
			return
		}
		if i, ok := s.index[ev.Record.ID]; ok {
			s.rows[i] = ev.Record
		}
	case repository.ChangeDelete:
		i, ok := s.index[ev.ID]
		if !ok {
			return
		}
		s.rows = append(s.rows[:i], s.rows[i+1:]...)
		s.reindex()
	}
}

// Get returns the cached record for id.
func (s *Store) Get(id string) (*signin.SignInRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.rows[i], true
}

// Put upserts the canonical result of a write, keeping newest-first order
// for records the cache has not seen yet.
func (s *Store) Put(rec *signin.SignInRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[rec.ID]; ok {
		s.rows[i] = rec
		return
	}
	s.rows = append([]*signin.SignInRecord{rec}, s.rows...)
	if len(s.rows) > s.limit {
		s.rows = s.rows[:s.limit]
	}
	s.reindex()
}

// List returns the cached records, newest first.
func (s *Store) List() []*signin.SignInRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*signin.SignInRecord(nil), s.rows...)
}

// Len reports the number of cached records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// reindex rebuilds the id index. Callers hold the write lock.
func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.rows))
	for i, r := range s.rows {
		s.index[r.ID] = i
	}
}
