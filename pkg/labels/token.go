package labels

import "strings"

// Sigil starts every label reference.
const Sigil = "~"

// Reference is a parsed ~NAME token. Tail is the verbatim "$ptr", ":reach"
// and flag suffix that follows the name.
type Reference struct {
	Name string
	Tail string
}

// IsReference reports whether an argument token refers to a label.
func IsReference(tok string) bool {
	return strings.HasPrefix(tok, Sigil)
}

// ParseDeclaration matches a whole line of the form NAME:digits:.
func ParseDeclaration(text string) (name, size string, ok bool) {
	name = leadingUpper(text)
	if name == "" || !strings.HasPrefix(text[len(name):], ":") {
		return "", "", false
	}
	rest := text[len(name)+1:]
	size = leadingDigits(rest)
	if size == "" || rest[len(size):] != ":" {
		return "", "", false
	}
	return name, size, true
}

// ParseReference matches ~NAME followed by optional $digits, :digits and a
// lowercase flag letter, in that order.
func ParseReference(tok string) (Reference, bool) {
	if !IsReference(tok) {
		return Reference{}, false
	}
	s := tok[len(Sigil):]
	name := leadingUpper(s)
	if name == "" {
		return Reference{}, false
	}
	tail := s[len(name):]

	rest := tail
	for _, prefix := range []string{"$", ":"} {
		if strings.HasPrefix(rest, prefix) {
			d := leadingDigits(rest[1:])
			if d == "" {
				return Reference{}, false
			}
			rest = rest[1+len(d):]
		}
	}
	if len(rest) > 1 || (rest != "" && (rest[0] < 'a' || rest[0] > 'z')) {
		return Reference{}, false
	}
	return Reference{Name: name, Tail: tail}, true
}

func leadingUpper(s string) string {
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	return s[:i]
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
