// Package disasm renders a bytecode.Program as human-readable text, one
// instruction per line, for debugging and for tests that assert on the
// generator's output independent of VM execution order.
package disasm

import (
	"fmt"
	"strings"

	"github.com/CrimsonDemon567/kyra/internal/bytecode"
)

// operandCarrying is the set of opcodes whose operand is meaningful;
// the rest carry a conventional zero operand that String omits.
var operandCarrying = map[bytecode.OpCode]bool{
	bytecode.PUSH:         true,
	bytecode.STORE:        true,
	bytecode.LOAD:         true,
	bytecode.JMP:          true,
	bytecode.JMP_IF_FALSE: true,
}

// String renders prog as a numbered instruction listing, e.g.:
//
//	0000 PUSH 1
//	0001 PUSH 2
//	0002 ADD
//	0003 PRINT
//	0004 HALT
func String(prog *bytecode.Program) string {
	var b strings.Builder
	for i, instr := range prog.Instructions {
		fmt.Fprintf(&b, "%04d %s", i, instr.Op)
		if operandCarrying[instr.Op] {
			fmt.Fprintf(&b, " %s", instr.Operand)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
