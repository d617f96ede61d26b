package asm

import "strings"

// Line is one physical source line and its 1-based position in the text
// that entered the pipeline.
type Line struct {
	No   int
	Text string
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitLines breaks text into physical lines. CR, LF and CRLF all end a
// line. Nothing is trimmed or dropped, so numbering matches an editor.
func SplitLines(text string) []Line {
	parts := strings.Split(newlines.Replace(text), "\n")
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = Line{No: i + 1, Text: p}
	}
	return lines
}

// TrimLines trims every line and drops the ones left empty.
func TrimLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		out = append(out, Line{No: l.No, Text: text})
	}
	return out
}

// JoinLines is the inverse of SplitLines for the line texts. Numbering is
// not preserved.
func JoinLines(lines []Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}
