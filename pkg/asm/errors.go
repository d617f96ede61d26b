package asm

import "fmt"

// ErrorKind classifies assembly failures.
type ErrorKind int

const (
	KindMalformedLine ErrorKind = iota + 1
	KindInvalidOpcode
	KindInvalidSize
	KindInvalidForm
	KindInvalidFlag
	KindInvalidLiteral
	KindDuplicateLabel
	KindUnknownLabel
	KindMissingReach
)

var kindNames = map[ErrorKind]string{
	KindMalformedLine:  "malformed line",
	KindInvalidOpcode:  "invalid opcode",
	KindInvalidSize:    "invalid size",
	KindInvalidForm:    "invalid form",
	KindInvalidFlag:    "invalid flag",
	KindInvalidLiteral: "invalid literal",
	KindDuplicateLabel: "duplicate label",
	KindUnknownLabel:   "unknown label",
	KindMissingReach:   "missing reach",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned by every stage of the assembler. Line is 1-based and
// refers to the line of the text handed to the pipeline.
type Error struct {
	Kind   ErrorKind
	Line   int
	Text   string
	Detail string
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrMalformedLine  = &Error{Kind: KindMalformedLine}
	ErrInvalidOpcode  = &Error{Kind: KindInvalidOpcode}
	ErrInvalidSize    = &Error{Kind: KindInvalidSize}
	ErrInvalidForm    = &Error{Kind: KindInvalidForm}
	ErrInvalidFlag    = &Error{Kind: KindInvalidFlag}
	ErrInvalidLiteral = &Error{Kind: KindInvalidLiteral}
	ErrDuplicateLabel = &Error{Kind: KindDuplicateLabel}
	ErrUnknownLabel   = &Error{Kind: KindUnknownLabel}
	ErrMissingReach   = &Error{Kind: KindMissingReach}
)

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Kind.String()
	}
	msg := fmt.Sprintf("%s on line %d: %q", e.Kind, e.Line, e.Text)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf builds an *Error for the given line and raw text.
func Errorf(kind ErrorKind, lineNo int, text string, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: lineNo, Text: text, Detail: fmt.Sprintf(format, args...)}
}
