// Package isa describes the instruction set of the virtual machine: the
// opcode table, the operand widths it understands and how the three header
// bytes of an instruction are packed.
package isa

import "fmt"

const (
	OpSET uint8 = 0
	OpINP uint8 = 1
	OpOUT uint8 = 2
	OpRDS uint8 = 3
	OpJMP uint8 = 4
	OpJIF uint8 = 5
	OpJNI uint8 = 6
	OpEND uint8 = 7
	OpADD uint8 = 8
	OpSUB uint8 = 9
	OpMUL uint8 = 10
	OpDIV uint8 = 11
	OpMOD uint8 = 12
	OpAND uint8 = 13
	OpIOR uint8 = 14
	OpXOR uint8 = 15
	OpNOT uint8 = 16
	OpSLS uint8 = 17
	OpSRS uint8 = 18
	OpSRU uint8 = 19
)

// HeaderSize is the number of fixed bytes at the start of every instruction.
const HeaderSize = 3

var opcodes = map[string]uint8{
	"set": OpSET,
	"inp": OpINP,
	"out": OpOUT,
	"rds": OpRDS,
	"jmp": OpJMP,
	"jif": OpJIF,
	"jni": OpJNI,
	"end": OpEND,

	"add": OpADD,
	"sub": OpSUB,
	"mul": OpMUL,
	"div": OpDIV,
	"mod": OpMOD,

	"and": OpAND,
	"ior": OpIOR,
	"xor": OpXOR,
	"not": OpNOT,
	"sls": OpSLS,
	"srs": OpSRS,
	"sru": OpSRU,
}

var opNames = func() [20]string {
	var names [20]string
	for name, code := range opcodes {
		names[code] = name
	}
	return names
}()

// Lookup returns the opcode for a mnemonic.
func Lookup(name string) (uint8, bool) {
	op, ok := opcodes[name]
	return op, ok
}

// Name returns the mnemonic of an opcode, or "" if the opcode is unknown.
func Name(op uint8) string {
	if int(op) >= len(opNames) {
		return ""
	}
	return opNames[op]
}

// Size is an operand, return or reach width in bits.
type Size uint8

const (
	Size8  Size = 8
	Size16 Size = 16
	Size32 Size = 32
	Size64 Size = 64
)

// Valid reports whether s is one of 8, 16, 32 or 64.
func (s Size) Valid() bool {
	switch s {
	case Size8, Size16, Size32, Size64:
		return true
	}
	return false
}

// ValidFloat reports whether s can hold an IEEE-754 value.
func (s Size) ValidFloat() bool {
	return s == Size32 || s == Size64
}

// Bytes is the storage size of s.
func (s Size) Bytes() int {
	return int(s) / 8
}

// Code is the two-bit field used for value, return and reach widths.
func (s Size) Code() uint8 {
	switch s {
	case Size8:
		return 0
	case Size16:
		return 1
	case Size32:
		return 2
	case Size64:
		return 3
	}
	panic(fmt.Sprintf("isa: invalid size %d", s))
}

// PointerCode is the three-bit pointer field. A zero size means "not a pointer".
func PointerCode(s Size) uint8 {
	if s == 0 {
		return 0
	}
	return s.Code() + 1
}

// SizeFromCode inverts Size.Code.
func SizeFromCode(code uint8) (Size, bool) {
	if code > 3 {
		return 0, false
	}
	return Size8 << code, true
}

// PointerFromCode inverts PointerCode.
func PointerFromCode(code uint8) (Size, bool) {
	if code == 0 {
		return 0, true
	}
	return SizeFromCode(code - 1)
}

func flagBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// EncodeOperation packs header byte 1: 00000 00 0 (opcode, return size, float).
func EncodeOperation(op uint8, returnSize Size, returnIsFloat bool) byte {
	return op<<3 | returnSize.Code()<<1 | flagBit(returnIsFloat)
}

// EncodeAddressArgument packs header byte 2: 000 00 00 0 (pointer, value size, reach, float).
func EncodeAddressArgument(pointerSize, valueSize, reach Size, isFloat bool) byte {
	return PointerCode(pointerSize)<<5 | valueSize.Code()<<3 | reach.Code()<<1 | flagBit(isFloat)
}

// EncodeValueArgument packs header byte 3: 000 00 0 0 (pointer, value size, unused, float).
func EncodeValueArgument(pointerSize, valueSize Size, isFloat bool) byte {
	return PointerCode(pointerSize)<<5 | valueSize.Code()<<3 | flagBit(isFloat)
}

// DecodeOperation splits header byte 1 into its fields.
func DecodeOperation(b byte) (op uint8, returnSize Size, returnIsFloat bool) {
	returnSize, _ = SizeFromCode(b >> 1 & 0x03)
	return b >> 3, returnSize, b&1 == 1
}

// DecodeAddressArgument splits header byte 2. ok is false for an unused pointer code.
func DecodeAddressArgument(b byte) (pointerSize, valueSize, reach Size, isFloat, ok bool) {
	pointerSize, ok = PointerFromCode(b >> 5)
	valueSize, _ = SizeFromCode(b >> 3 & 0x03)
	reach, _ = SizeFromCode(b >> 1 & 0x03)
	return pointerSize, valueSize, reach, b&1 == 1, ok
}

// DecodeValueArgument splits header byte 3. ok is false for an unused pointer
// code or when the reach bits, which value arguments never carry, are set.
func DecodeValueArgument(b byte) (pointerSize, valueSize Size, isFloat, ok bool) {
	pointerSize, ok = PointerFromCode(b >> 5)
	valueSize, _ = SizeFromCode(b >> 3 & 0x03)
	return pointerSize, valueSize, b&1 == 1, ok && b&0x06 == 0
}
