package yootles

import "strings"

// EndMarker stops parsing: anything below it is scratch text.
const EndMarker = "[MAGIC_LEDGER_END]"

// line is a meaningful source line.
type line struct {
	num  int // 1-based
	text string
}

// splitLines returns the trimmed lines of src that may hold an entry: blank
// lines and comments (# or (*) are dropped and nothing after EndMarker is
// returned.
func splitLines(src string) []line {
	var lines []line
	for i, raw := range strings.Split(src, "\n") {
		text := strings.TrimSpace(raw)
		if text == EndMarker {
			break
		}
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "(*") {
			continue
		}
		lines = append(lines, line{num: i + 1, text: text})
	}
	return lines
}
