package bits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTripIntegers(t *testing.T) {
	buf := make([]byte, 32)

	PutU8(buf, 0, 0xAB)
	assert.Equal(t, uint8(0xAB), U8(buf[0:]))

	PutU16(buf, 1, 0x1234)
	assert.Equal(t, uint16(0x1234), U16(buf[1:]))

	PutU32(buf, 4, 0xDEADBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), U32(buf[4:]))

	PutU64(buf, 8, 0x0123456789ABCDEF)
	assert.Equal(t, uint64(0x0123456789ABCDEF), U64(buf[8:]))
}

func TestRoundTripFloat(t *testing.T) {
	buf := make([]byte, 8)
	for _, v := range []float64{0, 1, -1, 3.14159, -0.0} {
		PutF64(buf, 0, v)
		assert.Equal(t, v, F64(buf))
	}
}

func TestShortReadsReturnZero(t *testing.T) {
	assert.Equal(t, uint8(0), U8(nil))
	assert.Equal(t, uint16(0), U16([]byte{1}))
	assert.Equal(t, uint32(0), U32([]byte{1, 2, 3}))
	assert.Equal(t, uint64(0), U64([]byte{1, 2, 3, 4, 5, 6, 7}))
}

func TestBoundsHelpers(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}

	s, ok := Slice(buf, 1, 3)
	assert.True(t, ok)
	assert.Equal(t, []byte{2, 3, 4}, s)

	_, ok = Slice(buf, 3, 3)
	assert.False(t, ok)

	assert.True(t, Has(buf, 0, 5))
	assert.False(t, Has(buf, 0, 6))
	assert.False(t, Has(buf, -1, 1))
}
