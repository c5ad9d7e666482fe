// Package viewmodel holds the plumbing shared by the feature view-models:
// the sequence guard, the single error slot and the processing marker.
package viewmodel

import "sync"

// State is embedded by every view-model. Its mutex also guards the
// view-model's own data, which is only touched inside View and Settle.
type State struct {
	mu         sync.Mutex
	seq        uint64
	closed     bool
	loading    bool
	processing string
	err        string
}

// Begin issues the next sequence number. Any result tagged with an older
// number is discarded by Settle.
func (s *State) Begin(loading bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if loading {
		s.loading = true
	}
	return s.seq
}

// Settle finishes the operation tagged seq. When seq is still the latest and
// the view-model is open, the loading flag drops, msg replaces the error slot
// ("" clears it) and apply runs under the lock. It reports whether the result
// was applied.
func (s *State) Settle(seq uint64, msg string, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		return false
	}
	s.loading = false
	s.err = msg
	if apply != nil {
		apply()
	}
	return true
}

// Reject records a message for an operation that never left the client.
func (s *State) Reject(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.err = msg
}

// View runs fn with the state lock held.
func (s *State) View(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Close marks the view-model as gone; late results are dropped from now on.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.loading = false
}

func (s *State) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Err returns the active error message, or "".
func (s *State) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearErr dismisses the active message.
func (s *State) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Mark flags id as being processed.
func (s *State) Mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = id
}

// Unmark clears the processing marker if it still points at id.
func (s *State) Unmark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing == id {
		s.processing = ""
	}
}

// Processing returns the id currently being processed, or "".
func (s *State) Processing() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}
