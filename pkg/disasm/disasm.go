// Package disasm turns machine code back into assembler source.
package disasm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"vmasm/pkg/asm"
	"vmasm/pkg/isa"
)

var (
	ErrTruncated  = errors.New("truncated instruction")
	ErrBadOpcode  = errors.New("unknown opcode")
	ErrBadPointer = errors.New("invalid pointer size code")
	ErrReachBits  = errors.New("value argument has reach bits set")
)

// Decode splits code into instructions. Errors carry the byte offset of
// the instruction that failed.
func Decode(code []byte) ([]asm.Instruction, error) {
	var out []asm.Instruction
	for offset := 0; offset < len(code); {
		in, n, err := DecodeAt(code, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
		offset += n
	}
	return out, nil
}

// DecodeAt decodes the instruction starting at offset and returns its length.
func DecodeAt(code []byte, offset int) (asm.Instruction, int, error) {
	if len(code)-offset < isa.HeaderSize {
		return asm.Instruction{}, 0, errors.Wrapf(ErrTruncated, "offset %d", offset)
	}
	h := code[offset : offset+isa.HeaderSize]

	var in asm.Instruction
	in.Op.OpCode, in.Op.ReturnSize, in.Op.ReturnIsFloat = isa.DecodeOperation(h[0])
	if isa.Name(in.Op.OpCode) == "" {
		return asm.Instruction{}, 0, errors.Wrapf(ErrBadOpcode, "offset %d: opcode %d", offset, in.Op.OpCode)
	}

	a := &in.AddressArg
	var ok bool
	a.PointerSize, a.ValueSize, a.Reach, a.IsFloat, ok = isa.DecodeAddressArgument(h[1])
	if !ok {
		return asm.Instruction{}, 0, errors.Wrapf(ErrBadPointer, "offset %d: address argument", offset)
	}

	v := &in.ValueArg
	v.PointerSize, v.ValueSize, v.IsFloat, ok = isa.DecodeValueArgument(h[2])
	if !ok {
		if _, valid := isa.PointerFromCode(h[2] >> 5); !valid {
			return asm.Instruction{}, 0, errors.Wrapf(ErrBadPointer, "offset %d: value argument", offset)
		}
		return asm.Instruction{}, 0, errors.Wrapf(ErrReachBits, "offset %d", offset)
	}

	n := in.ByteSize()
	if len(code)-offset < n {
		return asm.Instruction{}, 0, errors.Wrapf(ErrTruncated, "offset %d: need %d bytes, have %d", offset, n, len(code)-offset)
	}
	payload := code[offset+isa.HeaderSize:]
	a.Value = readValue(payload, a.ValueSize)
	v.Value = readValue(payload[a.ValueSize.Bytes():], v.ValueSize)
	return in, n, nil
}

func readValue(b []byte, size isa.Size) uint64 {
	switch size {
	case isa.Size8:
		return uint64(b[0])
	case isa.Size16:
		return uint64(binary.BigEndian.Uint16(b))
	case isa.Size32:
		return uint64(binary.BigEndian.Uint32(b))
	}
	return binary.BigEndian.Uint64(b)
}

// Format prints in as source text that assembles back to the same bytes.
// Every literal is written in unsigned form.
func Format(in asm.Instruction) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%d%s ", isa.Name(in.Op.OpCode), in.Op.ReturnSize, flag(in.Op.ReturnIsFloat))

	a := in.AddressArg
	fmt.Fprintf(&sb, "%du%d%s:%d%s ", a.Value, a.ValueSize, pointer(a.PointerSize), a.Reach, flag(a.IsFloat))

	v := in.ValueArg
	fmt.Fprintf(&sb, "%du%d%s%s", v.Value, v.ValueSize, pointer(v.PointerSize), flag(v.IsFloat))
	return sb.String()
}

// Disassemble decodes code and formats one instruction per line.
func Disassemble(code []byte) (string, error) {
	instructions, err := Decode(code)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(instructions))
	for i, in := range instructions {
		lines[i] = Format(in)
	}
	return strings.Join(lines, "\n"), nil
}

func flag(b bool) string {
	if b {
		return "f"
	}
	return ""
}

func pointer(s isa.Size) string {
	if s == 0 {
		return ""
	}
	return fmt.Sprintf("$%d", s)
}
