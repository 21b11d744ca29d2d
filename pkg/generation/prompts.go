package generation

import (
	"fmt"
	"strings"
)

const basePrompt = `Generate a random, intrusive, or chaotic thought. Make it short (1-2 sentences max), raw, unfiltered, and provocative. It should be the kind of thought that pops into your head unexpectedly - dark, weird, existential, or just completely random. Be creative and don't hold back.`

const chainPromptSuffix = `

Generate the NEXT thought in this continuous chain. It should:
- Be directly related to the previous thought(s) but take it deeper/darker/weirder
- Feel like a natural continuation or unexpected tangent
- Be short (1-2 sentences max), raw, unfiltered, and provocative
- Create a sense of endless, looping consciousness

The thought should flow naturally from what came before, like thoughts connecting in an infinite loop.`

// BranchVariations are the fixed prompt framings cycled through during a
// fan-out. Drawn round-robin so sibling branches diverge in character.
var BranchVariations = []string{
	"a natural continuation that goes deeper or darker",
	"a related tangent that explores a weird angle",
	"an associated but unexpected intrusive thought",
	"a provocative take on this idea",
	"a chaotic or existential spin on this thought",
}

// chainWindow caps how many previous thoughts feed the chain prompt,
// bounding prompt size and cost.
const chainWindow = 3

// buildThoughtPrompt assembles the single-generation prompt from the base
// template plus optional context and mood hint.
func buildThoughtPrompt(contextText, mood string) string {
	prompt := basePrompt
	if contextText != "" {
		prompt = fmt.Sprintf(`Based on this thought: %q, generate a related intrusive or chaotic thought. Make it short (1-2 sentences max), raw, unfiltered, and provocative. It should be a natural continuation, tangent, or unexpected association.`, contextText)
	}
	if mood != "" {
		prompt += fmt.Sprintf(" The mood should be %s.", mood)
	}
	return prompt
}

// BuildChainPrompt assembles the infinite-chain prompt from at most the
// last three previous thoughts.
func BuildChainPrompt(previousThoughts []string) string {
	window := previousThoughts
	if len(window) > chainWindow {
		window = window[len(window)-chainWindow:]
	}

	var contextText string
	if len(window) > 1 {
		numbered := make([]string, len(window))
		for i, t := range window {
			numbered[i] = fmt.Sprintf("%d. %q", i+1, t)
		}
		contextText = "Previous thoughts in sequence: " + strings.Join(numbered, " ")
	} else if len(window) == 1 {
		contextText = fmt.Sprintf("Starting from: %q", window[0])
	}

	return fmt.Sprintf("You are generating an infinite loop of connected intrusive thoughts. %s.%s", contextText, chainPromptSuffix)
}

// BuildBranchPrompt frames a fan-out generation with the i-th variation.
func BuildBranchPrompt(parentText string, variation int) string {
	framing := BranchVariations[variation%len(BranchVariations)]
	return fmt.Sprintf("Based on this thought: %q, generate %s. Make it short (1-2 sentences), raw, and unfiltered.", parentText, framing)
}

// BuildRetryPrompt is the simplified prompt used for the single retry
// after a rate-limited fan-out item.
func BuildRetryPrompt(parentText string) string {
	return fmt.Sprintf("Based on: %q, generate a related intrusive thought. Keep it short and raw.", parentText)
}

// BuildExpandPrompt frames an expansion from a seed thought.
func BuildExpandPrompt(seedText string) string {
	return fmt.Sprintf("Based on this thought: %q, generate a related but different thought. Make it a natural continuation, tangent, or associated idea.", seedText)
}

func buildMoodPrompt(text string) string {
	return fmt.Sprintf(`Analyze the mood/sentiment of this thought and return ONLY one word from this list: chaotic, existential, funny, intrusive, sad, weird, wholesome, neutral. Do not include any explanation, just the word. Thought: %q`, text)
}
