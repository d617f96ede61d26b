package asm

import (
	"encoding/binary"

	"vmasm/pkg/isa"
)

// Operation is the decoded operation token of an instruction.
type Operation struct {
	OpCode        uint8
	ReturnSize    isa.Size
	ReturnIsFloat bool
}

// AddressArgument is the first operand. Value holds the raw bits at
// ValueSize; PointerSize is 0 for a direct operand.
type AddressArgument struct {
	Value       uint64
	PointerSize isa.Size
	ValueSize   isa.Size
	Reach       isa.Size
	IsFloat     bool
}

// ValueArgument is the second operand. It never carries a reach.
type ValueArgument struct {
	Value       uint64
	PointerSize isa.Size
	ValueSize   isa.Size
	IsFloat     bool
}

type Instruction struct {
	Op         Operation
	AddressArg AddressArgument
	ValueArg   ValueArgument
}

// ByteSize is the encoded length: the header plus both operand payloads.
func (in Instruction) ByteSize() int {
	return isa.HeaderSize + in.AddressArg.ValueSize.Bytes() + in.ValueArg.ValueSize.Bytes()
}

// AppendTo appends the encoding of in to buf.
func (in Instruction) AppendTo(buf []byte) []byte {
	buf = append(buf,
		isa.EncodeOperation(in.Op.OpCode, in.Op.ReturnSize, in.Op.ReturnIsFloat),
		isa.EncodeAddressArgument(in.AddressArg.PointerSize, in.AddressArg.ValueSize, in.AddressArg.Reach, in.AddressArg.IsFloat),
		isa.EncodeValueArgument(in.ValueArg.PointerSize, in.ValueArg.ValueSize, in.ValueArg.IsFloat),
	)
	buf = appendValue(buf, in.AddressArg.Value, in.AddressArg.ValueSize)
	return appendValue(buf, in.ValueArg.Value, in.ValueArg.ValueSize)
}

func appendValue(buf []byte, v uint64, size isa.Size) []byte {
	switch size {
	case isa.Size8:
		return append(buf, byte(v))
	case isa.Size16:
		return binary.BigEndian.AppendUint16(buf, uint16(v))
	case isa.Size32:
		return binary.BigEndian.AppendUint32(buf, uint32(v))
	}
	return binary.BigEndian.AppendUint64(buf, v)
}

// MachineCode is an append-only instruction stream. It also remembers the
// source line of every instruction.
type MachineCode struct {
	instructions []Instruction
	lines        []int
	byteSize     int
}

// Add appends in, which came from source line lineNo.
func (mc *MachineCode) Add(in Instruction, lineNo int) {
	mc.instructions = append(mc.instructions, in)
	mc.lines = append(mc.lines, lineNo)
	mc.byteSize += in.ByteSize()
}

// SourceMap maps the byte offset of each instruction to its source line.
func (mc *MachineCode) SourceMap() map[int]int {
	sourceMap := make(map[int]int, len(mc.instructions))
	offset := 0
	for i, in := range mc.instructions {
		sourceMap[offset] = mc.lines[i]
		offset += in.ByteSize()
	}
	return sourceMap
}

// Instructions returns the stream in source order. The slice must not be modified.
func (mc *MachineCode) Instructions() []Instruction {
	return mc.instructions
}

// ByteSize is the sum of all instruction sizes.
func (mc *MachineCode) ByteSize() int {
	return mc.byteSize
}

// Bytes concatenates every instruction's encoding in source order.
func (mc *MachineCode) Bytes() []byte {
	buf := make([]byte, 0, mc.byteSize)
	for _, in := range mc.instructions {
		buf = in.AppendTo(buf)
	}
	return buf
}
