package store

import "sync"

// GenerationSession is the in-memory state of one infinite generation
// chain. Sessions live only for the process lifetime: a restart drops
// every active chain. That durability gap is deliberate — the graph
// itself is persisted, so a lost session costs nothing but the loop.
//
// One pointer is shared between the run loop goroutine and the HTTP
// handlers (stop, continue), so all field access goes through the
// locked methods; the registry's own lock only orders Get/Set/Delete.
type GenerationSession struct {
	mu               sync.Mutex
	id               string
	state            string
	lastThoughtID    string
	previousThoughts []string
	iteration        int
}

const (
	// StateRunning is the only state in which generation attempts occur.
	StateRunning = "RUNNING"

	// Terminal states. A session in any of these is removed from the
	// registry; a second stop on the same id reports not-found.
	StateStopped        = "STOPPED"
	StateFatalError     = "FATAL_ERROR"
	StateCeilingReached = "CEILING_REACHED"
)

// ContextWindow caps the previous-thoughts window.
const ContextWindow = 3

// NewGenerationSession returns a running session seeded with its first
// thought.
func NewGenerationSession(id, seedThoughtID, seedText string) *GenerationSession {
	return &GenerationSession{
		id:               id,
		state:            StateRunning,
		lastThoughtID:    seedThoughtID,
		previousThoughts: []string{seedText},
	}
}

func (s *GenerationSession) ID() string {
	return s.id
}

// IsRunning reports whether the session should keep scheduling ticks.
func (s *GenerationSession) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRunning
}

// SetState transitions the session. The run loop observes the change at
// its next state check.
func (s *GenerationSession) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// LastThoughtID returns the current chain head.
func (s *GenerationSession) LastThoughtID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastThoughtID
}

// Window returns a copy of the context window.
func (s *GenerationSession) Window() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.previousThoughts...)
}

// Advance records a newly persisted thought: it becomes the chain head
// and enters the context window, trimmed to the last ContextWindow
// entries.
func (s *GenerationSession) Advance(thoughtID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastThoughtID = thoughtID
	s.previousThoughts = append(s.previousThoughts, text)
	if len(s.previousThoughts) > ContextWindow {
		s.previousThoughts = s.previousThoughts[len(s.previousThoughts)-ContextWindow:]
	}
}

// Iteration returns how many ticks have completed.
func (s *GenerationSession) Iteration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iteration
}

// NextIteration counts one completed tick and returns the new total.
func (s *GenerationSession) NextIteration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iteration++
	return s.iteration
}
