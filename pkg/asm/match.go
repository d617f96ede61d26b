package asm

import "strings"

// OperationMatch holds the raw fields of an operation token such as "add16f".
type OperationMatch struct {
	Name       string
	ReturnSize string
	ReturnFlag string
}

// ArgumentMatch holds the raw fields of an argument token such as
// "-12i16$32:8f". Reach is only ever set for address arguments.
type ArgumentMatch struct {
	Literal     string
	Form        string
	ValueSize   string
	IsPointer   bool
	PointerSize string
	HasReach    bool
	Reach       string
	Flag        string
}

// LineMatch is a fully matched instruction line.
type LineMatch struct {
	Operation  OperationMatch
	AddressArg ArgumentMatch
	ValueArg   ArgumentMatch
	Line       Line
}

// SplitLine splits an instruction line on single spaces into its operation,
// address argument and value argument tokens.
func SplitLine(l Line) (op, address, value string, err error) {
	parts := strings.Split(l.Text, " ")
	if len(parts) != 3 {
		return "", "", "", Errorf(KindMalformedLine, l.No, l.Text, "expected 3 parts, found %d", len(parts))
	}
	return parts[0], parts[1], parts[2], nil
}

// MatchLine splits l and matches all three tokens.
func MatchLine(l Line) (LineMatch, error) {
	opRaw, addrRaw, valueRaw, err := SplitLine(l)
	if err != nil {
		return LineMatch{}, err
	}
	op, err := MatchOperation(opRaw, l.No)
	if err != nil {
		return LineMatch{}, err
	}
	addr, err := MatchAddressArgument(addrRaw, l.No)
	if err != nil {
		return LineMatch{}, err
	}
	value, err := MatchValueArgument(valueRaw, l.No)
	if err != nil {
		return LineMatch{}, err
	}
	return LineMatch{
		Operation:  op,
		AddressArg: addr,
		ValueArg:   value,
		Line:       l,
	}, nil
}

// MatchOperation matches <3 lowercase letters><digits><optional letter>.
func MatchOperation(tok string, lineNo int) (OperationMatch, error) {
	fail := func() (OperationMatch, error) {
		return OperationMatch{}, Errorf(KindMalformedLine, lineNo, tok, "operation is not structured correctly")
	}
	if len(tok) < 3 {
		return fail()
	}
	for i := 0; i < 3; i++ {
		if !isLower(tok[i]) {
			return fail()
		}
	}
	rest := tok[3:]
	digits := leadingDigits(rest)
	flag := rest[len(digits):]
	if len(flag) > 1 || (flag != "" && !isLower(flag[0])) {
		return fail()
	}
	return OperationMatch{Name: tok[:3], ReturnSize: digits, ReturnFlag: flag}, nil
}

// MatchAddressArgument matches an argument whose ":reach" group is mandatory.
func MatchAddressArgument(tok string, lineNo int) (ArgumentMatch, error) {
	m, ok := matchArgument(tok, true)
	if !ok {
		return ArgumentMatch{}, Errorf(KindMalformedLine, lineNo, tok, "address argument is not structured correctly")
	}
	if !m.HasReach {
		return ArgumentMatch{}, Errorf(KindMissingReach, lineNo, tok, "address argument needs a :reach suffix")
	}
	return m, nil
}

// MatchValueArgument matches an argument without a reach group.
func MatchValueArgument(tok string, lineNo int) (ArgumentMatch, error) {
	m, ok := matchArgument(tok, false)
	if !ok {
		return ArgumentMatch{}, Errorf(KindMalformedLine, lineNo, tok, "value argument is not structured correctly")
	}
	return m, nil
}

// matchArgument peels the token from the right: flag letter, ":reach",
// "$pointer", size digits, form letter, leaving the literal. The size is
// the whole trailing digit run, so the form is the last letter before it.
func matchArgument(tok string, allowReach bool) (ArgumentMatch, bool) {
	var m ArgumentMatch
	s := tok

	if n := len(s); n > 0 && isLower(s[n-1]) {
		m.Flag = s[n-1:]
		s = s[:n-1]
	}

	if allowReach {
		if rest, d := trailingDigits(s); d != "" && strings.HasSuffix(rest, ":") {
			m.HasReach = true
			m.Reach = d
			s = rest[:len(rest)-1]
		}
	}

	if rest, d := trailingDigits(s); d != "" && strings.HasSuffix(rest, "$") {
		m.IsPointer = true
		m.PointerSize = d
		s = rest[:len(rest)-1]
	}

	rest, size := trailingDigits(s)
	if size == "" || len(rest) < 2 || !isLower(rest[len(rest)-1]) {
		return ArgumentMatch{}, false
	}
	m.ValueSize = size
	m.Form = rest[len(rest)-1:]
	m.Literal = rest[:len(rest)-1]

	if !validLiteral(m.Literal) {
		return ArgumentMatch{}, false
	}
	return m, true
}

func validLiteral(lit string) bool {
	lit = strings.TrimPrefix(lit, "-")
	if lit == "" {
		return false
	}
	for i := 0; i < len(lit); i++ {
		if !isLower(lit[i]) && !isDigit(lit[i]) {
			return false
		}
	}
	return true
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i]
}

func trailingDigits(s string) (rest, digits string) {
	i := len(s)
	for i > 0 && isDigit(s[i-1]) {
		i--
	}
	return s[:i], s[i:]
}
