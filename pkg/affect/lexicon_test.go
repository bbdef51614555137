package affect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewText(t *testing.T) {
	txt := newText("Hello, World! I’m here")
	assert.Equal(t, []string{"hello", "world", "i'm", "here"}, txt.words)
	assert.Equal(t, " hello world i'm here ", txt.padded)
}

func TestTextHas(t *testing.T) {
	txt := newText("I'm here for you. Trust me.")
	assert.True(t, txt.has("i'm here for you"))
	assert.True(t, txt.has("trust"))
	assert.False(t, txt.has("us"), "matches on word boundaries only")
	assert.False(t, txt.has(""))

	assert.True(t, newText("they abandoned me").has("abandon*"))
	assert.False(t, newText("they abandoned me").has("abandon"))
}

func TestTextCountDistinct(t *testing.T) {
	txt := newText("sad sad sad and lonely")
	assert.Equal(t, 2, txt.count(negativeWords))
}

func TestExtractThemes(t *testing.T) {
	assert.Equal(t, []Theme{ThemeConnection, ThemeSafety}, extractThemes(newText("we are together, I feel safe")))
	assert.Empty(t, extractThemes(newText("the weather")))
	assert.True(t, sharesTheme([]Theme{ThemeLoss, ThemeSafety}, []Theme{ThemeSafety}))
	assert.False(t, sharesTheme([]Theme{ThemeLoss}, nil))
}

func TestTriggerCandidates(t *testing.T) {
	got := triggerCandidates(newText("because everything happened because everything was over"))
	assert.Equal(t, []string{"everything", "happened"}, got)
}
