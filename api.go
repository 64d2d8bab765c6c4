package cube

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Run compiles and executes source against a fresh VM, printing
// compile/runtime errors to stderr in the exact format spec.md
// mandates and returning the three-way result code a CLI driver
// reports through its exit status.
func Run(source string, dump bool, trace bool) InterpretResult {
	vm := NewVM()
	return RunWith(vm, source, dump, trace)
}

// RunWith reuses vm across calls, which is what lets a REPL retain
// globals and interned strings between lines.
func RunWith(vm *VM, source string, dump bool, trace bool) InterpretResult {
	vm.Trace = trace

	if dump {
		chunk := NewChunk()
		ok, errs := Compile(source, chunk, vm.heap)
		for _, e := range errs {
			reportCompileError(e)
		}
		if !ok {
			return InterpretCompileError
		}
		DisassembleChunk(chunk, "dump")
		DumpConstants(chunk)
	}

	result, errs, err := vm.Interpret(source)
	switch result {
	case InterpretCompileError:
		for _, e := range errs {
			reportCompileError(e)
		}
	case InterpretRuntimeError:
		fmt.Fprintln(os.Stderr, err.Error())
	}
	return result
}

func reportCompileError(e CompileError) {
	fmt.Fprintln(os.Stderr, e.Error())
	logrus.WithFields(logrus.Fields{
		"line":   e.Line,
		"column": e.Column,
		"lexeme": e.Lexeme,
	}).Debug("compile error")
}
