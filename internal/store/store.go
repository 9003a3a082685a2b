// File: internal/store/store.go
// Package store implements the per-node LocalStore: a mutex-guarded
// ordered sequence of concrete Value tuples, matched against Request
// tuples by linear scan. Grounded on control.ConfigStore's mutex+map
// shape (control/config.go) — simplicity over throughput, per spec §9's
// explicit preference for a mutex-guarded container over a lock-free one.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package store

import (
	"sync"

	"github.com/momentics/lindaring/internal/value"
)

// LocalStore holds a node's tuple space: an ordered sequence of
// concrete Value tuples. All elements are concrete (no empty variants).
type LocalStore struct {
	mu     sync.Mutex
	tuples []value.Tuple[value.Value]
}

// New returns an empty LocalStore.
func New() *LocalStore {
	return &LocalStore{}
}

// Insert appends t to the store.
func (s *LocalStore) Insert(t value.Tuple[value.Value]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tuples = append(s.tuples, t)
}

// Remove extracts and returns the first tuple satisfying req, scanning
// in insertion order (first-come-first-served per spec §4.4). Reports
// ok=false if no tuple matches.
func (s *LocalStore) Remove(req value.Tuple[value.Request]) (t value.Tuple[value.Value], ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, candidate := range s.tuples {
		if value.TupleSatisfies(req, candidate) {
			s.tuples = append(s.tuples[:i], s.tuples[i+1:]...)
			return candidate, true
		}
	}
	return nil, false
}

// Len reports the number of tuples currently held.
func (s *LocalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tuples)
}
