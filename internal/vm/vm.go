// Package vm implements the stack-based virtual machine that executes
// a bytecode.Program. The VM is single-threaded and not reentrant: each
// concurrently executing program must use its own VM instance.
package vm

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/CrimsonDemon567/kyra/internal/bytecode"
)

// RuntimeError is a single fatal failure raised during Run. It carries
// the program counter at the point of failure.
type RuntimeError struct {
	PC  int
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime error at PC %d: %s", e.PC, e.Msg)
}

// VM is the stack evaluator. It owns its operand stack and variable
// array exclusively; nothing is shared with any other VM instance.
type VM struct {
	stack     []bytecode.Value
	variables []bytecode.Value
	pc        int
	program   *bytecode.Program
	stdout    io.Writer
}

// New creates a VM that writes PRINT output to stdout.
func New(stdout io.Writer) *VM {
	return &VM{stdout: stdout}
}

// Run clears the stack and variable state, then executes program from
// instruction 0 until HALT or a runtime error. A runtime error aborts
// execution with a diagnostic naming pc and cause and is returned to
// the caller rather than panicking the host process.
func (vm *VM) Run(program *bytecode.Program) error {
	vm.stack = vm.stack[:0]
	vm.variables = make([]bytecode.Value, program.NumSlots)
	vm.pc = 0
	vm.program = program

	for vm.pc < len(program.Instructions) {
		instr := program.Instructions[vm.pc]
		advance := true

		switch instr.Op {
		case bytecode.PUSH:
			vm.push(instr.Operand)

		case bytecode.POP:
			vm.pop()

		case bytecode.STORE:
			idx := int(instr.Operand.AsInt())
			v, err := vm.top()
			if err != nil {
				return vm.fail(err.Error())
			}
			if err := vm.setVariable(idx, v); err != nil {
				return vm.fail(err.Error())
			}
			// leaves v on the stack (see DESIGN.md decision #2)

		case bytecode.LOAD:
			idx := int(instr.Operand.AsInt())
			v, err := vm.variable(idx)
			if err != nil {
				return vm.fail(err.Error())
			}
			vm.push(v)

		case bytecode.ADD:
			if err := vm.binaryAdd(); err != nil {
				return vm.fail(err.Error())
			}

		case bytecode.SUB, bytecode.MUL, bytecode.DIV:
			if err := vm.binaryArith(instr.Op); err != nil {
				return vm.fail(err.Error())
			}

		case bytecode.CMP_EQ, bytecode.CMP_NE, bytecode.CMP_LT,
			bytecode.CMP_LE, bytecode.CMP_GT, bytecode.CMP_GE:
			if err := vm.binaryCompare(instr.Op); err != nil {
				return vm.fail(err.Error())
			}

		case bytecode.JMP:
			vm.pc = int(instr.Operand.AsInt())
			advance = false

		case bytecode.JMP_IF_FALSE:
			cond, err := vm.pop()
			if err != nil {
				return vm.fail(err.Error())
			}
			if !cond.Truthy() {
				vm.pc = int(instr.Operand.AsInt())
				advance = false
			}

		case bytecode.PRINT:
			v, err := vm.pop()
			if err != nil {
				return vm.fail(err.Error())
			}
			fmt.Fprintln(vm.stdout, v.String())

		case bytecode.HALT:
			return nil

		default:
			return vm.fail(fmt.Sprintf("unknown opcode %v", instr.Op))
		}

		if advance {
			vm.pc++
		}
	}

	return nil
}

func (vm *VM) fail(msg string) error {
	return &RuntimeError{PC: vm.pc, Msg: msg}
}

func (vm *VM) push(v bytecode.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() (bytecode.Value, error) {
	if len(vm.stack) == 0 {
		return bytecode.Value{}, fmt.Errorf("stack underflow")
	}
	last := len(vm.stack) - 1
	v := vm.stack[last]
	vm.stack = vm.stack[:last]
	return v, nil
}

func (vm *VM) top() (bytecode.Value, error) {
	if len(vm.stack) == 0 {
		return bytecode.Value{}, fmt.Errorf("stack underflow")
	}
	return vm.stack[len(vm.stack)-1], nil
}

func (vm *VM) variable(idx int) (bytecode.Value, error) {
	if idx < 0 || idx >= len(vm.variables) {
		return bytecode.Value{}, fmt.Errorf("bad variable index %d", idx)
	}
	return vm.variables[idx], nil
}

func (vm *VM) setVariable(idx int, v bytecode.Value) error {
	if idx < 0 || idx >= len(vm.variables) {
		return fmt.Errorf("bad variable index %d", idx)
	}
	vm.variables[idx] = v
	return nil
}

// toNumber coerces a Value to a numeric Value (Int or Float): strings
// are parsed, booleans map to 0/1, null is rejected.
func toNumber(v bytecode.Value) (bytecode.Value, error) {
	switch {
	case v.IsInt(), v.IsFloat():
		return v, nil
	case v.IsBool():
		if v.AsBool() {
			return bytecode.Int(1), nil
		}
		return bytecode.Int(0), nil
	case v.IsString():
		s := v.AsString()
		if strings.Contains(s, ".") {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return bytecode.Value{}, fmt.Errorf("invalid number format")
			}
			return bytecode.Float(f), nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return bytecode.Value{}, fmt.Errorf("invalid number format")
		}
		return bytecode.Int(i), nil
	default:
		return bytecode.Value{}, fmt.Errorf("cannot convert value to number")
	}
}

func asFloat(v bytecode.Value) float64 {
	if v.IsInt() {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

// binaryAdd implements ADD's dual concat/arithmetic behavior: if either
// operand is a string, the other is rendered and concatenated
// left-then-right; otherwise both are coerced to numeric and summed,
// staying integer only if both operands are integer.
func (vm *VM) binaryAdd() error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}

	if a.IsString() || b.IsString() {
		vm.push(bytecode.Str(a.String() + b.String()))
		return nil
	}

	na, err := toNumber(a)
	if err != nil {
		return err
	}
	nb, err := toNumber(b)
	if err != nil {
		return err
	}

	if na.IsInt() && nb.IsInt() {
		vm.push(bytecode.Int(na.AsInt() + nb.AsInt()))
		return nil
	}
	vm.push(bytecode.Float(asFloat(na) + asFloat(nb)))
	return nil
}

// binaryArith implements SUB/MUL/DIV: both operands are coerced to
// numeric; the result stays integer only if both operands are integer.
// DIV by an integer or float zero is a runtime error; integer division
// truncates toward zero.
func (vm *VM) binaryArith(op bytecode.OpCode) error {
	rawB, err := vm.pop()
	if err != nil {
		return err
	}
	rawA, err := vm.pop()
	if err != nil {
		return err
	}

	a, err := toNumber(rawA)
	if err != nil {
		return err
	}
	b, err := toNumber(rawB)
	if err != nil {
		return err
	}

	if a.IsInt() && b.IsInt() {
		ai, bi := a.AsInt(), b.AsInt()
		switch op {
		case bytecode.SUB:
			vm.push(bytecode.Int(ai - bi))
		case bytecode.MUL:
			vm.push(bytecode.Int(ai * bi))
		case bytecode.DIV:
			if bi == 0 {
				return fmt.Errorf("Division by zero")
			}
			vm.push(bytecode.Int(ai / bi))
		}
		return nil
	}

	af, bf := asFloat(a), asFloat(b)
	switch op {
	case bytecode.SUB:
		vm.push(bytecode.Float(af - bf))
	case bytecode.MUL:
		vm.push(bytecode.Float(af * bf))
	case bytecode.DIV:
		if bf == 0 || math.IsNaN(bf) {
			return fmt.Errorf("Division by zero")
		}
		vm.push(bytecode.Float(af / bf))
	}
	return nil
}

// binaryCompare implements CMP_*: lexicographic if both operands are
// strings, otherwise both coerced to numeric and compared as floats.
func (vm *VM) binaryCompare(op bytecode.OpCode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}

	var result bool
	if a.IsString() && b.IsString() {
		sa, sb := a.AsString(), b.AsString()
		switch op {
		case bytecode.CMP_EQ:
			result = sa == sb
		case bytecode.CMP_NE:
			result = sa != sb
		case bytecode.CMP_LT:
			result = sa < sb
		case bytecode.CMP_LE:
			result = sa <= sb
		case bytecode.CMP_GT:
			result = sa > sb
		case bytecode.CMP_GE:
			result = sa >= sb
		}
	} else {
		na, err := toNumber(a)
		if err != nil {
			return err
		}
		nb, err := toNumber(b)
		if err != nil {
			return err
		}
		af, bf := asFloat(na), asFloat(nb)
		switch op {
		case bytecode.CMP_EQ:
			result = af == bf
		case bytecode.CMP_NE:
			result = af != bf
		case bytecode.CMP_LT:
			result = af < bf
		case bytecode.CMP_LE:
			result = af <= bf
		case bytecode.CMP_GT:
			result = af > bf
		case bytecode.CMP_GE:
			result = af >= bf
		}
	}

	vm.push(bytecode.Bool(result))
	return nil
}
