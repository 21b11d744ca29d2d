package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMood(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name string
		text string
		want Mood
	}{
		{name: "dark text", text: "Everything goes dark in the end", want: MoodIntrusive},
		{name: "sad text", text: "I feel so lonely tonight", want: MoodSad},
		{name: "joyful text", text: "What a wonderful morning", want: MoodWholesome},
		{name: "weird text", text: "A bizarre shape in the corner", want: MoodWeird},
		{name: "chaotic text", text: "wtf is even happening", want: MoodChaotic},
		{name: "contemplative text", text: "what if time doesn't exist", want: MoodExistential},
		{name: "anxious text", text: "the panic creeps in slowly", want: MoodIntrusive},
		{name: "funny text", text: "that joke about penguins", want: MoodFunny},
		{name: "no match defaults to neutral", text: "the table has four legs", want: MoodNeutral},
		{name: "case insensitive", text: "DEATH AND RAGE", want: MoodIntrusive},
		{name: "first rule wins", text: "a dark and lonely place", want: MoodIntrusive},
		{name: "empty input", text: "", want: MoodNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DetectMood(tt.text))
		})
	}
}

func TestDetectMoodIsTotal(t *testing.T) {
	c := NewDefault()
	inputs := []string{"", "   ", "zzzzz", "12345", "what if dark sad joy"}
	for _, in := range inputs {
		mood := c.DetectMood(in)
		assert.True(t, IsValidMood(string(mood)), "input %q produced %q", in, mood)
	}
}

func TestExtractTags(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "matching tags in vocabulary order",
			text: "I fear the future and think about death",
			want: []string{"fear", "death", "future"},
		},
		{
			name: "no matching tags",
			text: "This is a random sentence",
			want: []string{},
		},
		{
			name: "case insensitive",
			text: "LOVE and MEMORY",
			want: []string{"love", "memory"},
		},
		{
			// "time" is embedded in "sometimes": matching is plain
			// substring containment, not word boundaries.
			name: "substring match inside larger word",
			text: "sometimes reality bends",
			want: []string{"time", "reality"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ExtractTags(tt.text))
		})
	}
}

func TestExtractTagsSubsetOfVocabulary(t *testing.T) {
	c := NewDefault()
	tags := c.ExtractTags("fear love death time reality memory dream future past identity purpose loneliness")
	for _, tag := range tags {
		assert.Contains(t, DefaultVocabulary, tag)
	}
}

func TestParseMood(t *testing.T) {
	assert.Equal(t, MoodChaotic, ParseMood("chaotic"))
	assert.Equal(t, MoodSad, ParseMood("  SAD  "))
	assert.Equal(t, MoodNeutral, ParseMood("grumpy"))
	assert.Equal(t, MoodNeutral, ParseMood(""))
}
