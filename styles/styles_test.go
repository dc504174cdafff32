package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPresetsAreComplete(t *testing.T) {
	presets := All()
	require.Len(t, presets, 7)

	seen := map[string]bool{}
	for _, s := range presets {
		assert.NotEmpty(t, s.Key)
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Subtitle)
		assert.NotEmpty(t, s.Prompt)
		assert.False(t, seen[s.Key], "duplicate key %q", s.Key)
		seen[s.Key] = true

		// Every preset carries the structural-preservation constraints.
		assert.Contains(t, s.Prompt, "ABSOLUTE NON-NEGOTIABLE CONSTRAINTS")
	}
}

func TestByKey(t *testing.T) {
	s, ok := ByKey("coastal-modern")
	require.True(t, ok)
	assert.Equal(t, "Coastal Modern", s.Name)

	_, ok = ByKey("no-such-style")
	assert.False(t, ok)

	_, ok = ByKey("")
	assert.False(t, ok)
}

func TestBuildPromptDefaultsToModernize(t *testing.T) {
	prompt, name := BuildPrompt("", "")
	assert.Empty(t, name)
	assert.Contains(t, prompt, "top-tier luxury redesign")
	assert.NotContains(t, prompt, "ADDITIONAL USER INSTRUCTIONS")

	// Unknown keys fall back to the same default.
	fallback, name := BuildPrompt("no-such-style", "")
	assert.Empty(t, name)
	assert.Equal(t, prompt, fallback)
}

func TestBuildPromptUsesPresetAndAppendsUserInstructions(t *testing.T) {
	prompt, name := BuildPrompt("pure-form", "keep the blue sofa")
	assert.Equal(t, "Pure Form", name)
	assert.Contains(t, prompt, "DESIGN DIRECTION - PURE FORM")
	assert.True(t, strings.HasSuffix(prompt, "ADDITIONAL USER INSTRUCTIONS: keep the blue sofa"))
}

func TestAllReturnsACopy(t *testing.T) {
	first := All()
	first[0].Key = "mutated"
	assert.NotEqual(t, "mutated", All()[0].Key)
}
