package slack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessage_ShortTextIsSinglePart(t *testing.T) {
	parts := SplitMessage("こんにちは．", 3000)
	assert.Equal(t, []string{"こんにちは．"}, parts)
}

func TestSplitMessage_PrefersSentenceTerminator(t *testing.T) {
	text := strings.Repeat("あ", 10) + "．" + strings.Repeat("い", 10)
	parts := SplitMessage(text, 15)

	assert.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("あ", 10)+"．", parts[0])
	assert.Equal(t, strings.Repeat("い", 10), parts[1])
}

func TestSplitMessage_FallsBackToNewline(t *testing.T) {
	text := strings.Repeat("a", 10) + "\n" + strings.Repeat("b", 10)
	parts := SplitMessage(text, 15)

	assert.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("a", 10)+"\n", parts[0])
	assert.Equal(t, strings.Repeat("b", 10), parts[1])
}

func TestSplitMessage_HardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 25)
	parts := SplitMessage(text, 10)

	assert.Equal(t, []string{
		strings.Repeat("x", 10),
		strings.Repeat("x", 10),
		strings.Repeat("x", 5),
	}, parts)
}

func TestSplitMessage_CountsRunesNotBytes(t *testing.T) {
	// 3000 Japanese characters are well over 3000 bytes but must stay one part.
	text := strings.Repeat("あ", 3000)
	parts := SplitMessage(text, MessageLimit)
	assert.Len(t, parts, 1)
}

func TestSplitMessage_NoPartExceedsLimit(t *testing.T) {
	text := strings.Repeat("あ．い\nう", 2000)
	for _, part := range SplitMessage(text, 100) {
		if n := len([]rune(part)); n > 100 {
			t.Errorf("part exceeds limit: %d runes", n)
		}
	}
}

func TestFormatParts_SinglePartUnchanged(t *testing.T) {
	parts := FormatParts([]string{"answer"})
	assert.Equal(t, []string{"answer"}, parts)
}

func TestFormatParts_AddsNumberedHeaders(t *testing.T) {
	parts := FormatParts([]string{"first", "second"})

	assert.Len(t, parts, 2)
	assert.Equal(t, "*1/2*\n\nfirst", parts[0])
	assert.Equal(t, "*2/2*\n\nsecond", parts[1])
}
