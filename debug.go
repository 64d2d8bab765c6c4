package cube

import (
	"fmt"

	"github.com/alecthomas/repr"
	"github.com/dlains/cube/ascii"
)

// DisassembleChunk prints every instruction in chunk under a banner,
// matching the column layout debug.h's disassembler used: existing
// golden traces from that tool stay readable against this output.
func DisassembleChunk(chunk *Chunk, name string) {
	fmt.Printf("== %s ==\n", name)
	for offset := 0; offset < chunk.Len(); {
		offset = DisassembleInstruction(chunk, offset)
	}
}

// Colorized turns on ANSI highlighting of mnemonics in
// DisassembleInstruction's output; the CLI's -d flag leaves it off so
// piped/golden-trace output stays plain text, enabling it only when
// asked for an interactive, colorized dump.
var Colorized = false

// DisassembleInstruction prints the instruction at offset and returns
// the offset of the next one. Format: 4-digit offset, '|' when this
// instruction shares its source line with the previous one (else a
// 4-digit line number), the mnemonic padded to 16 columns, any inline
// operand, and - for constant-bearing opcodes - the constant itself
// in single quotes.
func DisassembleInstruction(chunk *Chunk, offset int) int {
	fmt.Printf("%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		fmt.Print("   | ")
	} else {
		fmt.Printf("%4d ", chunk.Lines[offset])
	}

	op := OpCode(chunk.Code[offset])
	info, known := opTable[op]
	if !known {
		fmt.Printf("Unknown opcode %d\n", op)
		return offset + 1
	}

	name := fmt.Sprintf("%-16s", info.name)
	if Colorized {
		name = ascii.Color(ascii.DefaultTheme.Operator, "%s", name)
	}

	switch info.operandLen {
	case 0:
		fmt.Println(name)
		return offset + 1

	case 1:
		slot := chunk.Code[offset+1]
		if info.isConstant {
			value := chunk.Constants[slot]
			fmt.Printf("%s %4d %s\n", name, slot, value.QuotedString())
		} else {
			fmt.Printf("%s %4d\n", name, slot)
		}
		return offset + 2

	case 2:
		jump := chunk.ReadU16(offset + 1)
		target := offset + 3
		if op == OpLoop {
			target = offset + 3 - int(jump)
		} else {
			target = offset + 3 + int(jump)
		}
		fmt.Printf("%s %4d -> %d\n", name, offset, target)
		return offset + 3

	default:
		fmt.Println(name)
		return offset + 1 + info.operandLen
	}
}

// DumpConstants pretty-prints a chunk's constant pool for -d/--dump,
// using repr for a readable Go-literal-shaped rendering of each Value.
func DumpConstants(chunk *Chunk) {
	fmt.Println("constants:")
	for i, v := range chunk.Constants {
		fmt.Printf("  %3d = %s\n", i, repr.String(v, repr.Indent("  ")))
	}
}
