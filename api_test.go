package cube

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithReusesVMState(t *testing.T) {
	vm := NewVM()
	var out bytes.Buffer
	vm.Out = &out

	result := RunWith(vm, "var total = 0;", false, false)
	require.Equal(t, InterpretOK, result)

	result = RunWith(vm, "total = total + 5; print total;", false, false)
	require.Equal(t, InterpretOK, result)
	assert.Equal(t, "5\n", out.String())
}

func TestRunReportsRuntimeErrorResult(t *testing.T) {
	vm := NewVM()
	result := RunWith(vm, "print 1 / 0;", false, false)
	assert.Equal(t, InterpretRuntimeError, result)
}

func TestRunReportsCompileErrorResult(t *testing.T) {
	vm := NewVM()
	result := RunWith(vm, "1 + 2 = 3;", false, false)
	assert.Equal(t, InterpretCompileError, result)
}
