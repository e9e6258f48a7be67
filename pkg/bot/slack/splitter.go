package slack

import "fmt"

// MessageLimit is the maximum number of characters posted in one Slack
// message. Counted in runes: the limit is a code point limit, and byte
// counting would over-split Japanese text.
const MessageLimit = 3000

// SplitMessage splits text into parts of at most limit runes. Within each
// window it prefers to cut after the last sentence terminator, then after
// the last newline, and falls back to a hard cut.
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	pos := 0
	for pos < len(runes) {
		end := pos + limit
		if end >= len(runes) {
			parts = append(parts, string(runes[pos:]))
			break
		}

		window := runes[pos:end]
		split := lastIndexRune(window, '．')
		if split == -1 {
			split = lastIndexRune(window, '\n')
		}
		if split <= 0 {
			parts = append(parts, string(window))
			pos = end
			continue
		}

		// Keep the terminator with the part it ends.
		parts = append(parts, string(runes[pos:pos+split+1]))
		pos += split + 1
	}
	return parts
}

// FormatParts prefixes each part with a "*i/n*" header when the message was
// split. A single part is returned unchanged.
func FormatParts(parts []string) []string {
	if len(parts) <= 1 {
		return parts
	}
	formatted := make([]string, len(parts))
	for i, part := range parts {
		formatted[i] = fmt.Sprintf("*%d/%d*\n\n%s", i+1, len(parts), part)
	}
	return formatted
}

// lastIndexRune returns the index of the last occurrence of r in runes, or -1.
func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
