// Package labels replaces symbolic labels with literal addresses.
//
// A label is declared on a line of its own as NAME:width: and referenced
// from either argument position as ~NAME, optionally followed by the
// pointer, reach and flag suffixes of a normal argument:
//
//	LOOP:16:
//	jmp8 0u8:8 ~LOOP$32
//
// Resolution takes three passes because an instruction's length depends on
// the width of every label it references, and a label may be referenced
// before it is declared. CollectSizes records every declared width,
// ComputeAddresses walks the program with those widths to find each
// label's byte address, and Rewrite swaps every reference for an unsigned
// literal (~LOOP$32 becomes 0u16$32 above) and drops the declarations.
package labels

import (
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"vmasm/pkg/asm"
	"vmasm/pkg/isa"
)

// Sizes maps label names to their declared width.
type Sizes map[string]isa.Size

// Addresses maps label names to the byte address of the next instruction
// after their declaration.
type Addresses map[string]*big.Int

// Resolve is the text form of ResolveLines.
func Resolve(text string) (string, error) {
	lines, err := ResolveLines(asm.SplitLines(text))
	if err != nil {
		return "", err
	}
	return asm.JoinLines(lines), nil
}

// ResolveLines trims lines, drops blank ones and runs the three passes.
// Rewritten lines keep their original numbers.
func ResolveLines(lines []asm.Line) ([]asm.Line, error) {
	lines = asm.TrimLines(lines)

	sizes, err := CollectSizes(lines)
	if err != nil {
		return nil, err
	}
	addresses, err := ComputeAddresses(lines, sizes)
	if err != nil {
		return nil, err
	}
	slog.Debug("labels resolved", "labels", len(sizes))
	return Rewrite(lines, sizes, addresses)
}

// CollectSizes is the first pass: it records the width of every declaration.
func CollectSizes(lines []asm.Line) (Sizes, error) {
	sizes := make(Sizes)
	for _, l := range lines {
		name, rawSize, ok := ParseDeclaration(l.Text)
		if !ok {
			continue
		}
		size, err := asm.ParseSize(rawSize, l.No, l.Text, "label size")
		if err != nil {
			return nil, err
		}
		if _, exists := sizes[name]; exists {
			return nil, asm.Errorf(asm.KindDuplicateLabel, l.No, l.Text, "label %s declared twice", name)
		}
		sizes[name] = size
	}
	return sizes, nil
}

// ComputeAddresses is the second pass. Declarations take no space; every
// other line adds the header and the width of both arguments.
func ComputeAddresses(lines []asm.Line, sizes Sizes) (Addresses, error) {
	addresses := make(Addresses, len(sizes))
	address := new(big.Int)
	for _, l := range lines {
		if name, _, ok := ParseDeclaration(l.Text); ok {
			addresses[name] = new(big.Int).Set(address)
			continue
		}
		n, err := lineBytes(l, sizes)
		if err != nil {
			return nil, err
		}
		address.Add(address, big.NewInt(int64(n)))
	}
	return addresses, nil
}

func lineBytes(l asm.Line, sizes Sizes) (int, error) {
	_, addressArg, valueArg, err := asm.SplitLine(l)
	if err != nil {
		return 0, err
	}
	addressBytes, err := argumentBytes(addressArg, l, sizes, asm.MatchAddressArgument)
	if err != nil {
		return 0, err
	}
	valueBytes, err := argumentBytes(valueArg, l, sizes, asm.MatchValueArgument)
	if err != nil {
		return 0, err
	}
	return isa.HeaderSize + addressBytes + valueBytes, nil
}

func argumentBytes(tok string, l asm.Line, sizes Sizes, match func(string, int) (asm.ArgumentMatch, error)) (int, error) {
	if IsReference(tok) {
		ref, err := lookup(tok, l, sizes)
		if err != nil {
			return 0, err
		}
		return sizes[ref.Name].Bytes(), nil
	}
	m, err := match(tok, l.No)
	if err != nil {
		return 0, err
	}
	size, err := asm.ParseSize(m.ValueSize, l.No, l.Text, "value size")
	if err != nil {
		return 0, err
	}
	return size.Bytes(), nil
}

// Rewrite is the third pass. Declarations are dropped and each reference
// becomes <address>u<width><tail>, the tail copied from the reference.
// Lines without references pass through untouched, so rewriting resolved
// text is a no-op.
func Rewrite(lines []asm.Line, sizes Sizes, addresses Addresses) ([]asm.Line, error) {
	out := make([]asm.Line, 0, len(lines))
	for _, l := range lines {
		if _, _, ok := ParseDeclaration(l.Text); ok {
			continue
		}
		op, addressArg, valueArg, err := asm.SplitLine(l)
		if err != nil {
			return nil, err
		}
		if addressArg, err = rewriteArgument(addressArg, l, sizes, addresses); err != nil {
			return nil, err
		}
		if valueArg, err = rewriteArgument(valueArg, l, sizes, addresses); err != nil {
			return nil, err
		}
		text := strings.Join([]string{op, addressArg, valueArg}, " ")
		if text != l.Text {
			asm.Trace("label rewrite", "line", l.No, "from", l.Text, "to", text)
		}
		out = append(out, asm.Line{No: l.No, Text: text})
	}
	return out, nil
}

func rewriteArgument(tok string, l asm.Line, sizes Sizes, addresses Addresses) (string, error) {
	if !IsReference(tok) {
		return tok, nil
	}
	ref, err := lookup(tok, l, sizes)
	if err != nil {
		return "", err
	}
	address, ok := addresses[ref.Name]
	if !ok {
		return "", asm.Errorf(asm.KindUnknownLabel, l.No, l.Text, "label %s has no address", ref.Name)
	}
	return fmt.Sprintf("%su%d%s", address.String(), sizes[ref.Name], ref.Tail), nil
}

func lookup(tok string, l asm.Line, sizes Sizes) (Reference, error) {
	ref, ok := ParseReference(tok)
	if !ok {
		return Reference{}, asm.Errorf(asm.KindMalformedLine, l.No, tok, "invalid label reference")
	}
	if _, ok := sizes[ref.Name]; !ok {
		return Reference{}, asm.Errorf(asm.KindUnknownLabel, l.No, tok, "label %s not found", ref.Name)
	}
	return ref, nil
}
