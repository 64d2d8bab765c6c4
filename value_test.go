package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEqualIsStrictPerCase(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int-int equal", IntValue(2), IntValue(2), true},
		{"int-int differ", IntValue(2), IntValue(3), false},
		{"int-real never equal", IntValue(2), RealValue(2.0), false},
		{"real-real equal", RealValue(1.5), RealValue(1.5), true},
		{"bool-bool equal", BoolValue(true), BoolValue(true), true},
		{"bool-bool differ", BoolValue(true), BoolValue(false), false},
		{"nil-nil equal", NilValue(), NilValue(), true},
		{"nil-bool never equal", NilValue(), BoolValue(false), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.a.Equal(c.b))
		})
	}
}

func TestValueIsFalsey(t *testing.T) {
	assert.True(t, NilValue().IsFalsey())
	assert.True(t, BoolValue(false).IsFalsey())
	assert.False(t, BoolValue(true).IsFalsey())
	assert.False(t, IntValue(0).IsFalsey())
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{BoolValue(true), "true"},
		{BoolValue(false), "false"},
		{NilValue(), "nil"},
		{IntValue(42), "42"},
		{RealValue(3.5), "3.5"},
		{RealValue(2.0), "2"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			assert.Equal(t, c.want, c.v.String())
		})
	}
}

func TestValueStringObject(t *testing.T) {
	h := newHeap()
	obj := h.internString([]byte("hi"))
	v := ObjValue(obj)
	assert.Equal(t, "hi", v.String())
	assert.Equal(t, "'hi'", v.QuotedString())
}
