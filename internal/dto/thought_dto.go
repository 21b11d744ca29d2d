package dto

import (
	"time"

	"github.com/google/uuid"
)

type ThoughtResponse struct {
	Id          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	Tags        []string  `json:"tags"`
	Mood        string    `json:"mood,omitempty"`
	Connections []string  `json:"connections"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListThoughtsRequest struct {
	Mood   string
	Tag    string
	Search string
	Limit  int
}

type CreateThoughtRequest struct {
	Text      string    `json:"text" validate:"required"`
	Tags      []string  `json:"tags"`
	Mood      string    `json:"mood"`
	Embedding []float32 `json:"embedding"`
}

type GenerateThoughtRequest struct {
	Context string `json:"context"`
	Mood    string `json:"mood"`
}

type GenerateThoughtResponse struct {
	Text string   `json:"text"`
	Mood string   `json:"mood"`
	Tags []string `json:"tags"`
}

type BranchThoughtsRequest struct {
	ThoughtId   string `json:"thoughtId"`
	ThoughtText string `json:"thoughtText" validate:"required"`
	Count       int    `json:"count"`
}

type ExpandThoughtsRequest struct {
	SeedThought string `json:"seedThought" validate:"required"`
	Count       int    `json:"count"`
}

type StartInfiniteRequest struct {
	SeedThought string `json:"seedThought" validate:"required"`
	SessionId   string `json:"sessionId"`
}

type StartInfiniteResponse struct {
	SessionId     string    `json:"sessionId"`
	SeedThoughtId uuid.UUID `json:"seedThoughtId"`
	Message       string    `json:"message,omitempty"`
}

type ContinueInfiniteRequest struct {
	SessionId        string   `json:"sessionId" validate:"required"`
	LastThoughtId    string   `json:"lastThoughtId" validate:"required"`
	PreviousThoughts []string `json:"previousThoughts"`
}

type ContinueInfiniteResponse struct {
	NewThought       *ThoughtResponse `json:"newThought"`
	LastThoughtId    uuid.UUID        `json:"lastThoughtId"`
	PreviousThoughts []string         `json:"previousThoughts"`
}

type ResetResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

// PublishEmbedThoughtMessage travels on the in-process embedding topic.
type PublishEmbedThoughtMessage struct {
	ThoughtId uuid.UUID `json:"thought_id"`
}
