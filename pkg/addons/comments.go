package addons

import (
	"strings"

	"vmasm/pkg/asm"
)

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = "#"

// StripComments is the text form of the comments addon. Lines are trimmed
// and joined with "\n"; blank lines are kept.
func StripComments(source string) string {
	lines, _ := StripCommentLines(asm.SplitLines(source))
	return asm.JoinLines(lines)
}

// StripCommentLines removes comments and surrounding whitespace from every
// line, keeping line numbers.
func StripCommentLines(lines []asm.Line) ([]asm.Line, error) {
	out := make([]asm.Line, len(lines))
	for i, l := range lines {
		text, _, _ := strings.Cut(l.Text, CommentMarker)
		out[i] = asm.Line{No: l.No, Text: strings.TrimSpace(text)}
	}
	return out, nil
}
