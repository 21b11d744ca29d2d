package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModerate(t *testing.T) {
	f := NewDefault()

	tests := []struct {
		name     string
		text     string
		wantSafe bool
	}{
		{name: "safe content", text: "This is a normal thought", wantSafe: true},
		{name: "harmful content", text: "I want to harm myself", wantSafe: false},
		{name: "case insensitive", text: "I WANT TO KILL", wantSafe: false},
		{name: "blocked word", text: "some nsfw stuff", wantSafe: false},
		{name: "empty text", text: "", wantSafe: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.Moderate(tt.text)
			assert.Equal(t, tt.wantSafe, res.IsSafe)
			if !tt.wantSafe {
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	f := NewDefault()

	t.Run("removes script blocks", func(t *testing.T) {
		out := f.Sanitize("<script>alert('xss')</script>Hello")
		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "Hello")
	})

	t.Run("removes markup tags", func(t *testing.T) {
		out := f.Sanitize("<b>bold</b> idea")
		assert.Equal(t, "bold idea", out)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		assert.Equal(t, "Hello World", f.Sanitize("  Hello World  "))
	})

	t.Run("never leaves surrounding whitespace", func(t *testing.T) {
		inputs := []string{" x ", "\t tab \n", "<p> wrapped </p>"}
		for _, in := range inputs {
			out := f.Sanitize(in)
			assert.Equal(t, strings.TrimSpace(out), out)
		}
	})
}
