package profanity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainsWholeWord(t *testing.T) {
	m := New()

	require.True(t, m.Contains("what the hell"))
	require.True(t, m.Contains("Damn Yankees"))
	require.True(t, m.Contains("HELL"))

	// substrings are not words
	require.False(t, m.Contains("assassin"))
	require.False(t, m.Contains("Hello, World"))
	require.False(t, m.Contains("classic"))
	require.False(t, m.Contains(""))
}

func TestContainsCustomWords(t *testing.T) {
	m := NewWithWords([]string{"frak", ""})

	require.True(t, m.Contains("what the frak"))
	require.False(t, m.Contains("what the hell"))
}

func TestEmptyWordList(t *testing.T) {
	m := NewWithWords(nil)

	require.False(t, m.Contains("anything at all"))
	require.Equal(t, "text", m.Clean("text"))
}

func TestClean(t *testing.T) {
	m := New()

	require.Equal(t, "what the ****", m.Clean("what the hell"))
	require.Equal(t, "clean title", m.Clean("clean title"))
}
