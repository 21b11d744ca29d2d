package generation

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"mindloop-be/pkg/classifier"
	"mindloop-be/pkg/llm"
)

var (
	// ErrEmptyGeneration means the provider answered with nothing usable.
	// Callers retry or skip; the chain state must not advance.
	ErrEmptyGeneration = errors.New("empty generation")

	// ErrAllModelsExhausted means the primary and every fallback model
	// failed for one generation attempt.
	ErrAllModelsExhausted = errors.New("all model fallbacks failed")
)

// DefaultFallbackModels is the ordered list tried when the primary model
// is not found on the backend.
var DefaultFallbackModels = []string{
	"gemini-2.0-flash-exp",
	"gemini-2.0-flash-thinking-exp",
	"gemini-pro",
}

// classifyTimeout bounds the mood-classification call so it can never
// stall the generate-and-persist path.
const classifyTimeout = 5 * time.Second

var nonLetterRe = regexp.MustCompile(`[^a-z]`)

// Gateway wraps the external text-generation provider: prompt
// construction, fallback-model selection and error normalization. It
// never sleeps; pacing and backoff belong to the callers.
type Gateway struct {
	provider       llm.LLMProvider
	configured     bool
	fallbackModels []string
}

func NewGateway(provider llm.LLMProvider, configured bool, fallbackModels []string) *Gateway {
	if fallbackModels == nil {
		fallbackModels = DefaultFallbackModels
	}
	return &Gateway{
		provider:       provider,
		configured:     configured,
		fallbackModels: fallbackModels,
	}
}

// Configured reports whether a provider credential is present. Endpoints
// that trigger generation short-circuit when it is not.
func (g *Gateway) Configured() bool {
	return g.configured
}

// GenerateThought produces one thought from an optional context and mood
// hint. On a model-not-found failure it walks the fallback-model list in
// order and returns the first non-empty result.
func (g *Gateway) GenerateThought(ctx context.Context, contextText, mood string) (string, error) {
	return g.GeneratePrompted(ctx, buildThoughtPrompt(contextText, mood))
}

// GeneratePrompted runs a fully built prompt through the same fallback
// and validation discipline as GenerateThought.
func (g *Gateway) GeneratePrompted(ctx context.Context, prompt string) (string, error) {
	text, err := g.provider.Generate(ctx, prompt)
	if err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return "", ErrEmptyGeneration
		}
		return text, nil
	}

	if !errors.Is(err, llm.ErrModelNotFound) {
		return "", err
	}

	for _, model := range g.fallbackModels {
		text, err = g.provider.Generate(ctx, prompt, llm.WithModel(model))
		if err != nil {
			if errors.Is(err, llm.ErrInvalidCredential) {
				return "", err
			}
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
	}

	return "", ErrAllModelsExhausted
}

// ClassifyMood asks the provider for a single-word mood and decodes it
// against the closed vocabulary. Classification is best-effort: timeouts,
// failures and unparseable answers all degrade to neutral.
func (g *Gateway) ClassifyMood(ctx context.Context, text string) classifier.Mood {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	answer, err := g.provider.Generate(ctx, buildMoodPrompt(text))
	if err != nil {
		return classifier.MoodNeutral
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	fields := strings.Fields(answer)
	if len(fields) == 0 {
		return classifier.MoodNeutral
	}
	word := nonLetterRe.ReplaceAllString(fields[0], "")

	return classifier.ParseMood(word)
}
