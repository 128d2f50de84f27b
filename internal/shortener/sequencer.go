package shortener

import (
	"sync"

	"github.com/google/uuid"
)

// Ticket identifies one in-flight shorten request.
type Ticket string

// Sequencer tracks the most recently issued request so that a response
// arriving after a newer request was started can be discarded.
type Sequencer struct {
	mu      sync.Mutex
	current Ticket
}

// Begin issues a ticket that supersedes every earlier one.
func (s *Sequencer) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Ticket(uuid.NewString())
	return s.current
}

// Current reports whether t is the latest ticket and has not been cancelled.
func (s *Sequencer) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t != "" && t == s.current
}

// Cancel invalidates any outstanding ticket.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}
