package cube

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
)

// stackMax is the fixed operand-stack depth spec.md 3 mandates; the
// VM never grows it, it simply overflows into a runtime error.
const stackMax = 256

// InterpretResult is the three-way outcome Interpret reports.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// VM is the register-less stack machine that executes a Chunk. It
// owns the heap (so string interning survives across repeated
// Interpret calls in a REPL) and the global-variable table.
type VM struct {
	chunk *Chunk
	ip    int

	stack    [stackMax]Value
	stackTop int

	globals *table
	heap    *heap

	Trace bool
	Out   io.Writer
}

func NewVM() *VM {
	return &VM{
		globals: newTable(),
		heap:    newHeap(),
		Out:     os.Stdout,
	}
}

func (vm *VM) push(v Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
}

// Interpret compiles source and, if compilation succeeds, runs it to
// completion. The VM's globals and heap persist across calls, which
// is what lets a REPL build up state line by line.
func (vm *VM) Interpret(source string) (InterpretResult, []CompileError, error) {
	chunk := NewChunk()
	ok, errs := Compile(source, chunk, vm.heap)
	if !ok {
		return InterpretCompileError, errs, nil
	}

	vm.chunk = chunk
	vm.ip = 0
	vm.resetStack()

	err := vm.run()
	if err != nil {
		return InterpretRuntimeError, nil, err
	}
	return InterpretOK, nil, nil
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readU16() uint16 {
	hi := vm.readByte()
	lo := vm.readByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readConstant() Value {
	return vm.chunk.Constants[vm.readByte()]
}

func (vm *VM) currentLine() int {
	if vm.ip == 0 {
		return vm.chunk.Lines[0]
	}
	return vm.chunk.Lines[vm.ip-1]
}

func (vm *VM) runtimeError(format string, args ...interface{}) error {
	return RuntimeError{Message: fmt.Sprintf(format, args...), Line: vm.currentLine()}
}

// run is the fetch-decode-execute loop. Every opcode in opcodes.go
// has a case here; arithmetic follows the Int/Real promotion rules
// laid out next to each operator.
func (vm *VM) run() error {
	for {
		if vm.Trace {
			logrus.WithFields(logrus.Fields{
				"ip":         vm.ip,
				"opcode":     OpCode(vm.chunk.Code[vm.ip]).String(),
				"stackDepth": vm.stackTop,
			}).Debug("dispatch")
			DisassembleInstruction(vm.chunk, vm.ip)
		}
		instruction := OpCode(vm.readByte())
		switch instruction {
		case OpConstant, OpNil, OpGetLocal, OpGetGlobal:
			if vm.stackTop == stackMax {
				return vm.runtimeError("Stack overflow.")
			}
		}
		switch instruction {
		case OpConstant:
			vm.push(vm.readConstant())

		case OpNil:
			vm.push(NilValue())

		case OpPop:
			vm.pop()

		case OpGetLocal:
			slot := vm.readByte()
			vm.push(vm.stack[slot])

		case OpSetLocal:
			slot := vm.readByte()
			vm.stack[slot] = vm.peek(0)

		case OpGetGlobal:
			name := vm.readConstant().AsObj()
			v, ok := vm.globals.search(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.String())
			}
			vm.push(v)

		case OpDefineGlobal:
			name := vm.readConstant().AsObj()
			vm.globals.insert(name, vm.peek(0))
			vm.pop()

		case OpSetGlobal:
			name := vm.readConstant().AsObj()
			if vm.globals.insert(name, vm.peek(0)) {
				vm.globals.delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.String())
			}

		case OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolValue(a.Equal(b)))

		case OpGreater:
			if err := vm.binaryComparison(func(a, b float64) bool { return a > b }); err != nil {
				return err
			}

		case OpLess:
			if err := vm.binaryComparison(func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case OpAdd:
			if err := vm.add(); err != nil {
				return err
			}

		case OpSub:
			if err := vm.arithmetic('-'); err != nil {
				return err
			}

		case OpMul:
			if err := vm.arithmetic('*'); err != nil {
				return err
			}

		case OpDiv:
			if err := vm.arithmetic('/'); err != nil {
				return err
			}

		case OpMod:
			if err := vm.arithmetic('%'); err != nil {
				return err
			}

		case OpPow:
			if err := vm.arithmetic('^'); err != nil {
				return err
			}

		case OpNot:
			vm.push(BoolValue(vm.pop().IsFalsey()))

		case OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			v := vm.pop()
			if v.IsInt() {
				vm.push(IntValue(-v.AsInt()))
			} else {
				vm.push(RealValue(-v.AsReal()))
			}

		case OpPrint:
			fmt.Fprintln(vm.Out, vm.pop().String())

		case OpJump:
			offset := vm.readU16()
			vm.ip += int(offset)

		case OpJumpIfFalse:
			offset := vm.readU16()
			if vm.peek(0).IsFalsey() {
				vm.ip += int(offset)
			}

		case OpLoop:
			offset := vm.readU16()
			vm.ip -= int(offset)

		case OpReturn:
			return nil

		default:
			return vm.runtimeError("Unknown opcode %d.", instruction)
		}
	}
}

// add implements OP_ADD's two forms: numeric addition (with Int/Real
// promotion) and string concatenation when both operands are strings.
func (vm *VM) add() error {
	b := vm.peek(0)
	a := vm.peek(1)

	switch {
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		concatenated := append(append([]byte(nil), a.AsString().bytes...), b.AsString().bytes...)
		vm.push(ObjValue(vm.heap.internString(concatenated)))
		return nil
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		if a.IsInt() && b.IsInt() {
			vm.push(IntValue(a.AsInt() + b.AsInt()))
		} else {
			vm.push(RealValue(a.AsFloat64() + b.AsFloat64()))
		}
		return nil
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}

// arithmetic implements -, *, /, %, and ^. Two Ints stay Int (except
// ^, which spec.md 4.3 always promotes to Real); any Real operand
// promotes the result to Real. Division and modulo by zero are
// runtime errors rather than producing Inf/NaN.
func (vm *VM) arithmetic(op byte) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop()
	a := vm.pop()

	bothInt := a.IsInt() && b.IsInt() && op != '^'

	if bothInt {
		ai, bi := a.AsInt(), b.AsInt()
		switch op {
		case '-':
			vm.push(IntValue(ai - bi))
		case '*':
			vm.push(IntValue(ai * bi))
		case '/':
			if bi == 0 {
				return vm.runtimeError("Attempt to divide by zero.")
			}
			vm.push(IntValue(ai / bi))
		case '%':
			if bi == 0 {
				return vm.runtimeError("Attempt to divide by zero.")
			}
			vm.push(IntValue(ai % bi))
		}
		return nil
	}

	af, bf := a.AsFloat64(), b.AsFloat64()
	switch op {
	case '-':
		vm.push(RealValue(af - bf))
	case '*':
		vm.push(RealValue(af * bf))
	case '/':
		if bf == 0 {
			return vm.runtimeError("Attempt to divide by zero.")
		}
		vm.push(RealValue(af / bf))
	case '%':
		if bf == 0 {
			return vm.runtimeError("Attempt to divide by zero.")
		}
		vm.push(RealValue(math.Mod(af, bf)))
	case '^':
		vm.push(RealValue(math.Pow(af, bf)))
	}
	return nil
}

func (vm *VM) binaryComparison(cmp func(a, b float64) bool) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop()
	a := vm.pop()
	vm.push(BoolValue(cmp(a.AsFloat64(), b.AsFloat64())))
	return nil
}
