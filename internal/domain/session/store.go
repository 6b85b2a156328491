// Package session holds the current analysis run: the latest backend result
// and the lab values the user submitted to get it. The dashboard shares one
// session, so this is a single slot, not a per-user map.
package session

import (
	"encoding/json"
	"sync"
)

// Store keeps the active analysis state. nil means empty.
type Store struct {
	mu     sync.RWMutex
	result json.RawMessage
	input  json.RawMessage
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetResult(result json.RawMessage) {
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
}

func (s *Store) SetInput(input json.RawMessage) {
	s.mu.Lock()
	s.input = input
	s.mu.Unlock()
}

func (s *Store) Result() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Store) Input() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

// Reset clears both the result and the input that produced it.
func (s *Store) Reset() {
	s.mu.Lock()
	s.result = nil
	s.input = nil
	s.mu.Unlock()
}

// ResetAll clears every session slot. With a single shared session it is
// equivalent to Reset.
func (s *Store) ResetAll() {
	s.Reset()
}
