package vm

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/xirelogy/go-reckon/internal/bytecode"
)

// VM is a stack-based bytecode interpreter for a single chunk.
// A VM is not safe for concurrent use.
type VM struct {
	chunk     *bytecode.Chunk
	ip        int
	lastOp    int
	stack     []Value
	sp        int
	traceOut  io.Writer
	traceHook TraceHook
	log       *logrus.Entry
}

// DefaultStackMax is the value stack capacity used by New.
const DefaultStackMax = 1024

// New constructs a VM with the default stack capacity.
func New() *VM {
	return NewWithStack(DefaultStackMax)
}

// NewWithStack constructs a VM whose value stack holds at most max values.
func NewWithStack(max int) *VM {
	if max <= 0 {
		max = DefaultStackMax
	}
	return &VM{
		stack: make([]Value, max),
		log:   logrus.NewEntry(logrus.StandardLogger()),
	}
}

// SetTraceHook registers a callback for instruction-level tracing.
func (vm *VM) SetTraceHook(h TraceHook) {
	vm.traceHook = h
}

// SetTraceWriter prints the stack and each instruction to w before it
// executes. A nil writer disables tracing.
func (vm *VM) SetTraceWriter(w io.Writer) {
	vm.traceOut = w
}

// SetLogger sets the logger used for runtime diagnostics.
func (vm *VM) SetLogger(l *logrus.Entry) {
	if l != nil {
		vm.log = l
	}
}

// StackMax reports the stack capacity.
func (vm *VM) StackMax() int {
	return len(vm.stack)
}

// ResetState clears transient execution state.
func (vm *VM) ResetState() {
	vm.chunk = nil
	vm.ip = 0
	vm.lastOp = -1
	vm.sp = 0
}

// Run executes chunk from its first instruction on a fresh stack and
// returns the value produced by OP_RETURN. The chunk is only read.
//
// Malformed bytecode yields a *RuntimeError. Stack overflow or underflow
// means the compiler emitted a broken chunk; Run panics with *StackFault.
func (vm *VM) Run(chunk *bytecode.Chunk) (Value, error) {
	vm.ResetState()
	if chunk == nil {
		return 0, vm.errorf(-1, ErrMalformed, "no chunk to run")
	}
	vm.chunk = chunk
	defer func() { vm.chunk = nil }()

	code := chunk.Code
	for {
		offset := vm.ip
		if offset >= len(code) {
			return 0, vm.errorf(offset, ErrMalformed, "unexpected end of bytecode")
		}
		op := code[offset]
		vm.ip++
		vm.lastOp = offset
		vm.trace(offset, op)

		switch op {
		case bytecode.OP_CONSTANT:
			if vm.ip >= len(code) {
				return 0, vm.errorf(offset, ErrMalformed, "unexpected end of bytecode")
			}
			idx := int(code[vm.ip])
			vm.ip++
			if idx >= len(chunk.Constants) {
				return 0, vm.errorf(offset, ErrMalformed, "constant index %d out of range", idx)
			}
			vm.push(chunk.Constants[idx])
		case bytecode.OP_ADD, bytecode.OP_SUBTRACT, bytecode.OP_MULTIPLY, bytecode.OP_DIVIDE:
			b := vm.pop()
			a := vm.pop()
			vm.push(binaryOp(op, a, b))
		case bytecode.OP_NEGATE:
			vm.push(-vm.pop())
		case bytecode.OP_RETURN:
			return vm.pop(), nil
		default:
			return 0, vm.errorf(offset, ErrUnknownOpcode, "unknown opcode 0x%02X", op)
		}
	}
}

// binaryOp applies IEEE-754 arithmetic; division by zero yields Inf or NaN.
func binaryOp(op byte, a, b Value) Value {
	switch op {
	case bytecode.OP_ADD:
		return a + b
	case bytecode.OP_SUBTRACT:
		return a - b
	case bytecode.OP_MULTIPLY:
		return a * b
	default:
		return a / b
	}
}

func (vm *VM) push(v Value) {
	if vm.sp >= len(vm.stack) {
		panic(&StackFault{Kind: StackOverflow, Depth: vm.sp, Offset: vm.lastOp})
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() Value {
	if vm.sp == 0 {
		panic(&StackFault{Kind: StackUnderflow, Depth: vm.sp, Offset: vm.lastOp})
	}
	vm.sp--
	return vm.stack[vm.sp]
}
