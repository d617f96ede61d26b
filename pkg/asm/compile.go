// Package asm turns label-free source text into machine code for the
// virtual machine.
//
// A line holds exactly three tokens separated by single spaces:
//
//	add16f 255u8$16:16 -3i32f
//
// The operation token is a three letter mnemonic, a return size and an
// optional float flag. Both arguments are a literal, a form letter and a
// value size, optionally followed by "$" and a pointer size. The address
// argument must also carry ":" and a reach. A trailing "f" marks an
// argument as float.
package asm

import (
	"log/slog"

	"vmasm/pkg/isa"
)

// Assemble compiles label-free source text. It returns the binary and a map
// from the byte offset of each instruction to its source line.
func Assemble(code string) ([]byte, map[int]int, error) {
	mc, err := CompileLines(SplitLines(code))
	if err != nil {
		return nil, nil, err
	}
	return mc.Bytes(), mc.SourceMap(), nil
}

// CompileLines compiles every non-blank line into one instruction. The first
// error aborts the run; nothing is returned for a partial program.
func CompileLines(lines []Line) (*MachineCode, error) {
	mc := &MachineCode{}
	for _, l := range TrimLines(lines) {
		in, err := CompileLine(l)
		if err != nil {
			return nil, err
		}
		mc.Add(in, l.No)
	}
	slog.Debug("compiled", "instructions", len(mc.instructions), "bytes", mc.ByteSize())
	return mc, nil
}

// CompileLine compiles one trimmed instruction line.
func CompileLine(l Line) (Instruction, error) {
	m, err := MatchLine(l)
	if err != nil {
		return Instruction{}, err
	}
	op, err := compileOperation(m.Operation, l)
	if err != nil {
		return Instruction{}, err
	}
	addr, err := compileArgument(m.AddressArg, l)
	if err != nil {
		return Instruction{}, err
	}
	value, err := compileArgument(m.ValueArg, l)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Op: op,
		AddressArg: AddressArgument{
			Value:       addr.value,
			PointerSize: addr.pointerSize,
			ValueSize:   addr.valueSize,
			Reach:       addr.reach,
			IsFloat:     addr.isFloat,
		},
		ValueArg: ValueArgument{
			Value:       value.value,
			PointerSize: value.pointerSize,
			ValueSize:   value.valueSize,
			IsFloat:     value.isFloat,
		},
	}, nil
}

func compileOperation(m OperationMatch, l Line) (Operation, error) {
	code, ok := isa.Lookup(m.Name)
	if !ok {
		return Operation{}, Errorf(KindInvalidOpcode, l.No, l.Text, "%q is not a valid operator", m.Name)
	}
	returnSize, err := ParseSize(m.ReturnSize, l.No, l.Text, "return size")
	if err != nil {
		return Operation{}, err
	}
	returnIsFloat, err := ParseFlag(m.ReturnFlag, l.No, l.Text)
	if err != nil {
		return Operation{}, err
	}
	return Operation{OpCode: code, ReturnSize: returnSize, ReturnIsFloat: returnIsFloat}, nil
}

type argument struct {
	value       uint64
	pointerSize isa.Size
	valueSize   isa.Size
	reach       isa.Size
	isFloat     bool
}

func compileArgument(m ArgumentMatch, l Line) (argument, error) {
	var arg argument
	var err error

	if arg.valueSize, err = ParseSize(m.ValueSize, l.No, l.Text, "value size"); err != nil {
		return argument{}, err
	}
	if m.IsPointer {
		if arg.pointerSize, err = ParseSize(m.PointerSize, l.No, l.Text, "pointer size"); err != nil {
			return argument{}, err
		}
	}
	if m.HasReach {
		if arg.reach, err = ParseSize(m.Reach, l.No, l.Text, "reach"); err != nil {
			return argument{}, err
		}
	}
	if arg.value, err = EncodeLiteral(m.Literal, m.Form, arg.valueSize, l.No, l.Text); err != nil {
		return argument{}, err
	}
	if arg.isFloat, err = ParseFlag(m.Flag, l.No, l.Text); err != nil {
		return argument{}, err
	}
	return arg, nil
}
