// Package data provides in-memory storage and reloading of the preset table.
package data

import (
	"sync"
	"time"

	"github.com/savid/stream-tuner/internal/transcode"
)

// Store provides thread-safe in-memory storage for the active preset table.
type Store struct {
	mu       sync.RWMutex
	table    *transcode.PresetTable
	source   string
	lastSync time.Time
}

// NewStore creates a new empty preset store.
func NewStore() *Store {
	return &Store{}
}

// SetTable replaces the active preset table. source names where it was loaded from.
func (s *Store) SetTable(table transcode.PresetTable, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table = &table
	s.source = source
	s.lastSync = time.Now()
}

// Table returns the active preset table. Returns false if nothing has been loaded.
func (s *Store) Table() (transcode.PresetTable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return transcode.PresetTable{}, false
	}

	return *s.table, true
}

// Source returns where the active table was loaded from.
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.source
}

// HasData returns true if a preset table has been loaded.
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.table != nil
}

// LastSync returns the time the table was last replaced.
func (s *Store) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSync
}
