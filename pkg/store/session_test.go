package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationSession(t *testing.T) {
	s := NewGenerationSession("inf_1", "seed-id", "seed text")

	assert.Equal(t, "inf_1", s.ID())
	assert.True(t, s.IsRunning())
	assert.Equal(t, "seed-id", s.LastThoughtID())
	assert.Equal(t, []string{"seed text"}, s.Window())
	assert.Equal(t, 0, s.Iteration())
}

func TestAdvance_TrimsWindow(t *testing.T) {
	s := NewGenerationSession("inf_1", "seed-id", "one")
	s.Advance("id-2", "two")
	s.Advance("id-3", "three")
	s.Advance("id-4", "four")

	assert.Equal(t, "id-4", s.LastThoughtID())
	assert.Equal(t, []string{"two", "three", "four"}, s.Window())
}

func TestWindow_ReturnsCopy(t *testing.T) {
	s := NewGenerationSession("inf_1", "seed-id", "one")
	w := s.Window()
	w[0] = "mutated"

	assert.Equal(t, []string{"one"}, s.Window())
}

func TestSetState_EndsRunning(t *testing.T) {
	s := NewGenerationSession("inf_1", "seed-id", "one")
	s.SetState(StateStopped)
	assert.False(t, s.IsRunning())
}

// One session pointer is shared between the run loop and the HTTP
// handlers, so concurrent readers and writers must not corrupt it.
// Meaningful under -race.
func TestGenerationSession_ConcurrentAccess(t *testing.T) {
	s := NewGenerationSession("inf_1", "seed-id", "seed")

	const (
		goroutines = 8
		iterations = 200
	)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				switch g % 4 {
				case 0:
					s.Advance(fmt.Sprintf("id-%d-%d", g, i), fmt.Sprintf("text %d", i))
					s.NextIteration()
				case 1:
					_ = s.IsRunning()
					_ = s.LastThoughtID()
				case 2:
					for _, text := range s.Window() {
						_ = text
					}
				case 3:
					s.SetState(StateRunning)
				}
			}
		}(g)
	}
	wg.Wait()

	require.LessOrEqual(t, len(s.Window()), ContextWindow)
	assert.Equal(t, 2*iterations, s.Iteration())

	s.SetState(StateStopped)
	assert.False(t, s.IsRunning())
}
