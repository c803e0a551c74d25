package bytecode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripEveryShape(t *testing.T) {
	cases := []struct {
		op  Op
		ops []uint16
	}{
		{Return, nil},
		{Jump, []uint16{1234}},
		{Constant, []uint16{200}},
		{ConstantLong, []uint16{60000}},
		{Add, nil},
		{Invoke, []uint16{42, 3}},
		{Import, []uint16{7, 9}},
		{UpvalueIndex, []uint16{uint16(CaptureUpvalue), 5}},
		{Call, []uint16{255}},
	}

	for _, tc := range cases {
		t.Run(tc.op.String(), func(t *testing.T) {
			b := NewChunkBuilder[int]()
			b.Emit(tc.op, 1, tc.ops...)
			code := b.Chunk().Code()

			inst, ok := Decode(code, 0)
			require.True(t, ok)
			assert.Equal(t, tc.op, inst.Op)
			assert.Equal(t, len(code), inst.Len)

			switch len(tc.ops) {
			case 2:
				assert.Equal(t, tc.ops[0], inst.A)
				assert.Equal(t, tc.ops[1], inst.B)
			case 1:
				assert.Equal(t, tc.ops[0], inst.A)
			}
		})
	}
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	_, ok := Decode([]byte{0xFF}, 0)
	assert.False(t, ok)
}

func TestDecodeRejectsTruncatedOperand(t *testing.T) {
	_, ok := Decode([]byte{byte(ConstantLong), 0x01}, 0)
	assert.False(t, ok)
}

func TestLineTableMonotonic(t *testing.T) {
	b := NewChunkBuilder[int]()
	b.Emit(Nil, 1)
	b.Emit(True, 1)
	b.Emit(False, 2)
	b.Emit(Return, 3)

	lines := b.Chunk().Lines()
	assert.Equal(t, 1, lines.GetLine(0))
	assert.Equal(t, 1, lines.GetLine(1))
	assert.Equal(t, 2, lines.GetLine(2))
	assert.Equal(t, 3, lines.GetLine(3))
}

func TestTryTableInnermostMatch(t *testing.T) {
	var tt TryTable
	tt.Add(0, 100)
	tt.Add(10, 20)
	tt.Add(30, 90)

	end, ok := tt.HasCatchJump(15)
	require.True(t, ok)
	assert.Equal(t, 20, end)

	end, ok = tt.HasCatchJump(95)
	require.True(t, ok)
	assert.Equal(t, 100, end)

	_, ok = tt.HasCatchJump(200)
	assert.False(t, ok)
}

func TestDisassembleSmoke(t *testing.T) {
	b := NewChunkBuilder[string]()
	idx := b.AddConstant("x")
	b.Emit(Constant, 1, uint16(idx))
	b.Emit(Return, 1)

	out := Disassemble(b.Chunk(), "test", func(i int) string {
		c, _ := b.Chunk().Constant(i)
		return c
	})
	assert.Contains(t, out, "Constant")
	assert.Contains(t, out, fmt.Sprintf("'%s'", "x"))
}
