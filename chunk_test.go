package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWriteTracksLines(t *testing.T) {
	c := NewChunk()
	c.Write(byte(OpNil), 1)
	c.Write(byte(OpPop), 1)
	c.Write(byte(OpReturn), 2)

	require.Equal(t, 3, c.Len())
	assert.Equal(t, []int{1, 1, 2}, c.Lines)
}

func TestChunkU16RoundTrip(t *testing.T) {
	c := NewChunk()
	c.WriteU16(0xBEEF, 1)
	assert.Equal(t, uint16(0xBEEF), c.ReadU16(0))

	c.PatchU16(0, 0x0102)
	assert.Equal(t, byte(0x01), c.Code[0])
	assert.Equal(t, byte(0x02), c.Code[1])
}

func TestChunkAddConstant(t *testing.T) {
	c := NewChunk()
	idx, ok := c.AddConstant(IntValue(7))
	require.True(t, ok)
	assert.Equal(t, uint8(0), idx)
	assert.Equal(t, IntValue(7), c.Constants[0])
}

func TestChunkAddConstantOverflows(t *testing.T) {
	c := NewChunk()
	for i := 0; i < maxConstants; i++ {
		_, ok := c.AddConstant(IntValue(int64(i)))
		require.True(t, ok)
	}
	_, ok := c.AddConstant(IntValue(999))
	assert.False(t, ok, "257th constant must fail")
}
