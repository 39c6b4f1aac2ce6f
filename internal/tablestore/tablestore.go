// Package tablestore holds trained symbol tables in memory, addressed by an
// opaque handle, so an HTTP client can train a table once and reuse it
// across many encode/decode requests without re-sending the dump each time.
package tablestore

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gofsst/fsst"
)

// Store is a concurrency-safe registry of trained tables. The zero value is
// ready to use.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*fsst.Table
	nextID uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{tables: make(map[string]*fsst.Table)}
}

// Put registers t under a freshly minted handle and returns it.
func (s *Store) Put(t *fsst.Table) string {
	handle := s.newHandle()

	s.mu.Lock()
	if s.tables == nil {
		s.tables = make(map[string]*fsst.Table)
	}
	s.tables[handle] = t
	s.mu.Unlock()

	return handle
}

// Get returns the table registered under handle, or false if no such handle
// exists.
func (s *Store) Get(handle string) (*fsst.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[handle]
	return t, ok
}

// Delete removes handle from the store. It is a no-op if handle is unknown.
func (s *Store) Delete(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, handle)
}

// Len returns the number of tables currently registered.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

func (s *Store) newHandle() string {
	id := atomic.AddUint64(&s.nextID, 1)
	return fmt.Sprintf("tbl-%x", id)
}
