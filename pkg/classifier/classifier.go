package classifier

import (
	"regexp"
	"strings"
)

// Mood is the closed mood vocabulary. Every classification path in the
// system resolves to one of these values; raw model output never leaves
// the gateway boundary.
type Mood string

const (
	MoodChaotic     Mood = "chaotic"
	MoodExistential Mood = "existential"
	MoodFunny       Mood = "funny"
	MoodIntrusive   Mood = "intrusive"
	MoodSad         Mood = "sad"
	MoodWeird       Mood = "weird"
	MoodWholesome   Mood = "wholesome"
	MoodNeutral     Mood = "neutral"
)

// ValidMoods lists every accepted mood value.
var ValidMoods = []Mood{
	MoodChaotic,
	MoodExistential,
	MoodFunny,
	MoodIntrusive,
	MoodSad,
	MoodWeird,
	MoodWholesome,
	MoodNeutral,
}

// IsValidMood reports whether s is one of the closed mood values.
func IsValidMood(s string) bool {
	for _, m := range ValidMoods {
		if string(m) == s {
			return true
		}
	}
	return false
}

// ParseMood normalizes arbitrary text into a Mood. Anything outside the
// closed vocabulary becomes neutral.
func ParseMood(s string) Mood {
	s = strings.ToLower(strings.TrimSpace(s))
	if IsValidMood(s) {
		return Mood(s)
	}
	return MoodNeutral
}

// MoodRule maps a text pattern onto a mood. Rules are evaluated in order;
// the first match wins.
type MoodRule struct {
	Pattern *regexp.Regexp
	Mood    Mood
}

// Ruleset is an ordered list of mood rules. It is injected rather than
// hardcoded so the English defaults can be swapped per deployment.
type Ruleset []MoodRule

// DefaultRuleset covers all non-neutral moods. Category ordering follows
// the original pattern lists: dark first, contemplative near the end.
var DefaultRuleset = Ruleset{
	{regexp.MustCompile(`dark|death|die|kill|hate|angry|rage|fury`), MoodIntrusive},
	{regexp.MustCompile(`sad|depress|lonely|empty|lost|hopeless`), MoodSad},
	{regexp.MustCompile(`funny|laugh|joke|hilarious|absurd`), MoodFunny},
	{regexp.MustCompile(`happy|joy|love|excit|amazing|wonderful`), MoodWholesome},
	{regexp.MustCompile(`weird|strange|odd|bizarre`), MoodWeird},
	{regexp.MustCompile(`wtf|crazy|chaos|random|unhinged`), MoodChaotic},
	{regexp.MustCompile(`think|wonder|what if|why|how|meaning`), MoodExistential},
	{regexp.MustCompile(`fear|scare|terror|anxiety|panic|dread`), MoodIntrusive},
}

// DefaultVocabulary is the fixed tag vocabulary. ExtractTags only ever
// returns members of this list, in list order.
var DefaultVocabulary = []string{
	"fear",
	"loneliness",
	"love",
	"death",
	"time",
	"reality",
	"memory",
	"dream",
	"future",
	"past",
	"identity",
	"purpose",
}

// Classifier performs deterministic, rule-based mood and tag extraction.
// It exists so that generated thoughts do not pay an extra provider call
// for classification.
type Classifier struct {
	rules      Ruleset
	vocabulary []string
}

func New(rules Ruleset, vocabulary []string) *Classifier {
	if rules == nil {
		rules = DefaultRuleset
	}
	if vocabulary == nil {
		vocabulary = DefaultVocabulary
	}
	return &Classifier{rules: rules, vocabulary: vocabulary}
}

// NewDefault returns a classifier with the built-in English ruleset.
func NewDefault() *Classifier {
	return New(nil, nil)
}

// DetectMood maps text to exactly one mood value. Matching is
// case-insensitive; unmatched text is neutral.
func (c *Classifier) DetectMood(text string) Mood {
	lower := strings.ToLower(text)
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(lower) {
			return rule.Mood
		}
	}
	return MoodNeutral
}

// ExtractTags returns every vocabulary entry whose lowercase form occurs
// in the lowercased text, in vocabulary order.
func (c *Classifier) ExtractTags(text string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0)
	for _, tag := range c.vocabulary {
		if strings.Contains(lower, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}
