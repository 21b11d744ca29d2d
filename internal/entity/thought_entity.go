package entity

import (
	"time"

	"github.com/google/uuid"
)

// Thought is the persisted graph node. Connections are directed edges:
// "this thought led to that thought". The list only ever grows.
type Thought struct {
	Id          uuid.UUID
	Text        string
	Tags        []string
	Mood        string
	Connections []uuid.UUID
	Embedding   []float32
	CreatedAt   time.Time
}
