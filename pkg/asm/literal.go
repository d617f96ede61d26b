package asm

import (
	"math"
	"strconv"

	"vmasm/pkg/isa"
)

// ParseSize parses a width field. what names the field in the error.
func ParseSize(raw string, lineNo int, text, what string) (isa.Size, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > math.MaxUint8 || !isa.Size(n).Valid() {
		return 0, Errorf(KindInvalidSize, lineNo, text, "%s %q, expected 8 | 16 | 32 | 64", what, raw)
	}
	return isa.Size(n), nil
}

// ParseFlag accepts "f" or nothing.
func ParseFlag(raw string, lineNo int, text string) (bool, error) {
	switch raw {
	case "":
		return false, nil
	case "f":
		return true, nil
	}
	return false, Errorf(KindInvalidFlag, lineNo, text, "flag %q, expected 'f' or none", raw)
}

// EncodeLiteral interprets lit according to form and returns its bit
// pattern at the given width.
//
//	u unsigned decimal   i signed decimal (two's complement)
//	f decimal float      c code of the first character
//	x hexadecimal        b binary          o octal
func EncodeLiteral(lit, form string, size isa.Size, lineNo int, text string) (uint64, error) {
	bits := int(size)
	bad := func(err error) (uint64, error) {
		return 0, Errorf(KindInvalidLiteral, lineNo, text, "%q as %s%d: %v", lit, form, bits, err)
	}

	switch form {
	case "u", "x", "b", "o":
		v, err := strconv.ParseUint(lit, bases[form], bits)
		if err != nil {
			return bad(err)
		}
		return v, nil

	case "i":
		v, err := strconv.ParseInt(lit, 10, bits)
		if err != nil {
			return bad(err)
		}
		return uint64(v) & mask(size), nil

	case "c":
		// The matcher guarantees a non-empty literal.
		return uint64(lit[0]), nil

	case "f":
		if !size.ValidFloat() {
			return 0, Errorf(KindInvalidSize, lineNo, text, "float size %d, expected 32 | 64", bits)
		}
		v, err := strconv.ParseFloat(lit, bits)
		if err != nil {
			return bad(err)
		}
		if size == isa.Size32 {
			return uint64(math.Float32bits(float32(v))), nil
		}
		return math.Float64bits(v), nil
	}

	return 0, Errorf(KindInvalidForm, lineNo, text, "form %q, expected u | i | f | c | x | b | o", form)
}

var bases = map[string]int{"u": 10, "x": 16, "b": 2, "o": 8}

func mask(size isa.Size) uint64 {
	if size == isa.Size64 {
		return math.MaxUint64
	}
	return 1<<uint(size) - 1
}
