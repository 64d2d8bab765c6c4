package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeapInternStringCanonicalizesEqualBytes(t *testing.T) {
	h := newHeap()
	a := h.internString([]byte("hello"))
	b := h.internString([]byte("hello"))
	assert.Same(t, a, b, "equal bytes must intern to the same handle")

	c := h.internString([]byte("world"))
	assert.NotSame(t, a, c)
}

func TestObjectsEqualIsPointerIdentityForStrings(t *testing.T) {
	h := newHeap()
	a := h.internString([]byte("x"))
	notInterned := &Object{Kind: ObjString, asString: &ObjectString{bytes: []byte("x"), hash: fnvHash([]byte("x"))}}

	assert.True(t, objectsEqual(a, a))
	assert.False(t, objectsEqual(a, notInterned), "only interning guarantees equal bytes share a handle")
}

func TestFnvHashIsDeterministic(t *testing.T) {
	assert.Equal(t, fnvHash([]byte("abc")), fnvHash([]byte("abc")))
	assert.NotEqual(t, fnvHash([]byte("abc")), fnvHash([]byte("abd")))
}
