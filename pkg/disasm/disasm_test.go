package disasm

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vmasm/pkg/asm"
	"vmasm/pkg/isa"
)

func TestDecode(t *testing.T) {
	code := []byte{
		0b00000_00_0, 0b000_00_00_0, 0b000_00_00_0, 0x00, 0x01,
		0b01000_01_1, 0b000_00_01_0, 0b100_10_00_1, 0xFF, 0xFF, 0xFF, 0xFF, 0xFD,
	}
	got, err := Decode(code)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, asm.Instruction{
		Op:         asm.Operation{OpCode: isa.OpSET, ReturnSize: isa.Size8},
		AddressArg: asm.AddressArgument{Value: 0, ValueSize: isa.Size8, Reach: isa.Size8},
		ValueArg:   asm.ValueArgument{Value: 1, ValueSize: isa.Size8},
	}, got[0])
	assert.Equal(t, asm.Instruction{
		Op:         asm.Operation{OpCode: isa.OpADD, ReturnSize: isa.Size16, ReturnIsFloat: true},
		AddressArg: asm.AddressArgument{Value: 255, ValueSize: isa.Size8, Reach: isa.Size16},
		ValueArg:   asm.ValueArgument{Value: 0xFFFFFFFD, PointerSize: isa.Size64, ValueSize: isa.Size32, IsFloat: true},
	}, got[1])
}

func TestDecodeErrors(t *testing.T) {
	valid := []byte{0, 0, 0, 0, 1}
	tests := []struct {
		name   string
		code   []byte
		want   error
		offset string
	}{
		{"short header", append(valid, 0, 0), ErrTruncated, "offset 5"},
		{"short payload", append(valid, 0, 0b000_11_00_0, 0, 1, 2), ErrTruncated, "offset 5"},
		{"opcode out of table", append(valid, 20<<3, 0, 0, 0, 0), ErrBadOpcode, "offset 5"},
		{"address pointer code", []byte{0, 0b101_00_00_0, 0, 0, 0}, ErrBadPointer, "offset 0"},
		{"value pointer code", []byte{0, 0, 0b111_00_00_0, 0, 0}, ErrBadPointer, "offset 0"},
		{"value reach bits", []byte{0, 0, 0b000_00_10_0, 0, 0}, ErrReachBits, "offset 0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.code)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Contains(t, err.Error(), tc.offset)
		})
	}
}

func TestFormat(t *testing.T) {
	in := asm.Instruction{
		Op:         asm.Operation{OpCode: isa.OpJMP, ReturnSize: isa.Size64},
		AddressArg: asm.AddressArgument{Value: 258, PointerSize: isa.Size8, ValueSize: isa.Size16, Reach: isa.Size64},
		ValueArg:   asm.ValueArgument{Value: 255, ValueSize: isa.Size8, IsFloat: true},
	}
	assert.Equal(t, "jmp64 258u16$8:64 255u8f", Format(in))
}

func TestRoundTrip(t *testing.T) {
	src := `set8 0u8:8 1u8
add16f 255u8:16 -3i32$64f
jmp64 258u16$8:64 ffx8
out8 ac8:8 1f64f
sru32 -1i64$16:32 777o16
not8 1010b8:8 0u8`

	code, _, err := asm.Assemble(src)
	require.NoError(t, err)

	text, err := Disassemble(code)
	require.NoError(t, err)

	again, _, err := asm.Assemble(text)
	require.NoError(t, err, "disassembly:\n%s", text)
	if !assert.Equal(t, code, again) {
		first, _ := Decode(code)
		second, _ := Decode(again)
		t.Logf("first:\n%s\nsecond:\n%s", spew.Sdump(first), spew.Sdump(second))
	}
}

func TestDisassembleEmpty(t *testing.T) {
	text, err := Disassemble(nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
