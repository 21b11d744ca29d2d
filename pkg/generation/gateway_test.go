package generation

import (
	"context"
	"fmt"
	"testing"

	"mindloop-be/pkg/classifier"
	"mindloop-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

// fakeProvider scripts one response per model name. The empty model key
// holds the primary-model response.
type fakeProvider struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}
	f.calls = append(f.calls, options.Model)
	if err, ok := f.errs[options.Model]; ok {
		return "", err
	}
	return f.responses[options.Model], nil
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func TestGenerateThought(t *testing.T) {
	ctx := context.Background()

	t.Run("returns trimmed text", func(t *testing.T) {
		p := &fakeProvider{responses: map[string]string{"": "  a thought  "}}
		g := NewGateway(p, true, nil)

		text, err := g.GenerateThought(ctx, "", "")
		assert.NoError(t, err)
		assert.Equal(t, "a thought", text)
	})

	t.Run("empty response is EmptyGeneration", func(t *testing.T) {
		p := &fakeProvider{responses: map[string]string{"": "   "}}
		g := NewGateway(p, true, nil)

		_, err := g.GenerateThought(ctx, "", "")
		assert.ErrorIs(t, err, ErrEmptyGeneration)
	})

	t.Run("model not found walks fallbacks in order", func(t *testing.T) {
		p := &fakeProvider{
			errs: map[string]error{
				"":      fmt.Errorf("primary: %w", llm.ErrModelNotFound),
				"alt-1": fmt.Errorf("alt-1: %w", llm.ErrModelNotFound),
			},
			responses: map[string]string{"alt-2": "rescued"},
		}
		g := NewGateway(p, true, []string{"alt-1", "alt-2", "alt-3"})

		text, err := g.GenerateThought(ctx, "some context", "")
		assert.NoError(t, err)
		assert.Equal(t, "rescued", text)
		assert.Equal(t, []string{"", "alt-1", "alt-2"}, p.calls)
	})

	t.Run("all fallbacks failing is AllModelsExhausted", func(t *testing.T) {
		p := &fakeProvider{
			errs: map[string]error{
				"":      llm.ErrModelNotFound,
				"alt-1": llm.ErrModelNotFound,
				"alt-2": llm.ErrModelNotFound,
			},
		}
		g := NewGateway(p, true, []string{"alt-1", "alt-2"})

		_, err := g.GenerateThought(ctx, "", "")
		assert.ErrorIs(t, err, ErrAllModelsExhausted)
	})

	t.Run("rate limit passes through untouched", func(t *testing.T) {
		p := &fakeProvider{errs: map[string]error{"": fmt.Errorf("quota: %w", llm.ErrRateLimited)}}
		g := NewGateway(p, true, nil)

		_, err := g.GenerateThought(ctx, "", "")
		assert.ErrorIs(t, err, llm.ErrRateLimited)
	})

	t.Run("invalid credential fails fast inside fallback walk", func(t *testing.T) {
		p := &fakeProvider{
			errs: map[string]error{
				"":      llm.ErrModelNotFound,
				"alt-1": fmt.Errorf("rejected: %w", llm.ErrInvalidCredential),
			},
			responses: map[string]string{"alt-2": "never reached"},
		}
		g := NewGateway(p, true, []string{"alt-1", "alt-2"})

		_, err := g.GenerateThought(ctx, "", "")
		assert.ErrorIs(t, err, llm.ErrInvalidCredential)
		assert.Equal(t, []string{"", "alt-1"}, p.calls)
	})
}

func TestClassifyMood(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		answer string
		err    error
		want   classifier.Mood
	}{
		{name: "clean answer", answer: "chaotic", want: classifier.MoodChaotic},
		{name: "decorated answer", answer: "**Weird**.", want: classifier.MoodWeird},
		{name: "answer with trailing prose", answer: "sad because the text is gloomy", want: classifier.MoodSad},
		{name: "out of vocabulary", answer: "grumpy", want: classifier.MoodNeutral},
		{name: "empty answer", answer: "", want: classifier.MoodNeutral},
		{name: "provider error degrades to neutral", err: llm.ErrRateLimited, want: classifier.MoodNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{responses: map[string]string{"": tt.answer}}
			if tt.err != nil {
				p.errs = map[string]error{"": tt.err}
			}
			g := NewGateway(p, true, nil)
			assert.Equal(t, tt.want, g.ClassifyMood(ctx, "whatever"))
		})
	}
}

func TestBuildChainPrompt(t *testing.T) {
	t.Run("single thought", func(t *testing.T) {
		prompt := BuildChainPrompt([]string{"seed"})
		assert.Contains(t, prompt, `Starting from: "seed"`)
	})

	t.Run("window caps at three", func(t *testing.T) {
		prompt := BuildChainPrompt([]string{"one", "two", "three", "four"})
		assert.NotContains(t, prompt, `"one"`)
		assert.Contains(t, prompt, `1. "two"`)
		assert.Contains(t, prompt, `3. "four"`)
	})
}
