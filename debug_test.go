package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleInstructionAdvancesByOperandWidth(t *testing.T) {
	chunk := NewChunk()
	idx, ok := chunk.AddConstant(IntValue(7))
	require.True(t, ok)
	chunk.Write(byte(OpConstant), 1)
	chunk.Write(idx, 1)
	chunk.Write(byte(OpReturn), 1)

	next := DisassembleInstruction(chunk, 0)
	assert.Equal(t, 2, next)

	next = DisassembleInstruction(chunk, next)
	assert.Equal(t, 3, next)
}

func TestDisassembleInstructionSkipsJumpOperand(t *testing.T) {
	chunk := NewChunk()
	chunk.Write(byte(OpJumpIfFalse), 1)
	chunk.WriteU16(5, 1)
	for i := 0; i < 5; i++ {
		chunk.Write(byte(OpPop), 1)
	}

	next := DisassembleInstruction(chunk, 0)
	assert.Equal(t, 3, next)
}
