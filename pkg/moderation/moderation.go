package moderation

import (
	"regexp"
	"strings"
)

// Result is the outcome of a moderation check.
type Result struct {
	IsSafe bool
	Reason string
}

// CategoryRule flags text matching a pattern with a human-readable reason.
type CategoryRule struct {
	Pattern *regexp.Regexp
	Reason  string
}

// Policy holds the denylist and category rules. It is injected as a value
// so deployments can swap the English defaults without touching the
// filter's contract.
type Policy struct {
	BlockedWords []string
	Rules        []CategoryRule
}

// DefaultPolicy mirrors the production denylist and harmful-content
// categories.
var DefaultPolicy = Policy{
	BlockedWords: []string{
		"explicit",
		"nsfw",
	},
	Rules: []CategoryRule{
		{regexp.MustCompile(`(?i)\b(kill|suicide|self-harm|cutting)\b`), "Contains potentially harmful content"},
		{regexp.MustCompile(`(?i)\b(violence|attack|harm)\b`), "Contains potentially harmful content"},
		{regexp.MustCompile(`(?i)\b(hate|racist|discriminat)\b`), "Contains potentially harmful content"},
	},
}

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	markupTagRe   = regexp.MustCompile(`<[^>]+>`)
)

// Filter validates and cleans user-submitted text before it is persisted.
// Generated text is intentionally not filtered; the prompt templates own
// that responsibility.
type Filter struct {
	policy Policy
}

func New(policy Policy) *Filter {
	return &Filter{policy: policy}
}

func NewDefault() *Filter {
	return New(DefaultPolicy)
}

// Sanitize strips script blocks, remaining markup tags and surrounding
// whitespace. It never fails.
func (f *Filter) Sanitize(text string) string {
	text = scriptBlockRe.ReplaceAllString(text, "")
	text = markupTagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Moderate runs the denylist substring check followed by the category
// rules, case-insensitive. The first match decides the reason.
func (f *Filter) Moderate(text string) Result {
	lower := strings.ToLower(text)

	for _, word := range f.policy.BlockedWords {
		if strings.Contains(lower, word) {
			return Result{IsSafe: false, Reason: "Contains inappropriate content"}
		}
	}

	for _, rule := range f.policy.Rules {
		if rule.Pattern.MatchString(text) {
			return Result{IsSafe: false, Reason: rule.Reason}
		}
	}

	return Result{IsSafe: true}
}
