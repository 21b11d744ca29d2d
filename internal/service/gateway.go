package service

import (
	"context"

	"mindloop-be/pkg/classifier"
)

// GenerationGateway is the slice of pkg/generation the services depend
// on. *generation.Gateway satisfies it; tests substitute a fake.
type GenerationGateway interface {
	Configured() bool
	GenerateThought(ctx context.Context, contextText, mood string) (string, error)
	GeneratePrompted(ctx context.Context, prompt string) (string, error)
	ClassifyMood(ctx context.Context, text string) classifier.Mood
}
