package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceBufferAdvanceTracksLineAndColumn(t *testing.T) {
	buf := newSourceBuffer([]byte("ab\ncd"), "")

	assert.Equal(t, byte('a'), buf.advance())
	assert.Equal(t, 1, buf.line)
	assert.Equal(t, 2, buf.column)

	assert.Equal(t, byte('b'), buf.advance())
	assert.Equal(t, byte('\n'), buf.advance())
	assert.Equal(t, 2, buf.line)
	assert.Equal(t, 1, buf.column)
}

func TestSourceBufferMatch(t *testing.T) {
	buf := newSourceBuffer([]byte("=="), "")
	assert.True(t, buf.match('='))
	assert.Equal(t, 1, buf.current)
	assert.False(t, buf.match('x'))
	assert.Equal(t, 1, buf.current)
}

func TestSourceStackAddAndActivate(t *testing.T) {
	stack := newSourceStack(newSourceBuffer([]byte("outer"), "main"))
	require.False(t, stack.sourceBuffersRemain())

	stack.addSource(newSourceBuffer([]byte("inner"), "imported"))
	assert.True(t, stack.sourceBuffersRemain())
	assert.Equal(t, "imported", stack.current().origin)

	stack.activateNextBuffer()
	assert.False(t, stack.sourceBuffersRemain())
	assert.Equal(t, "main", stack.current().origin)
}
