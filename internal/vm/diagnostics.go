package vm

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownOpcode marks an instruction byte outside the opcode set.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrMalformed marks bytecode that cannot be decoded or ends early.
	ErrMalformed = errors.New("malformed bytecode")
)

// TraceInfo describes a single instruction dispatch for debugging/tracing.
type TraceInfo struct {
	Op    byte
	Line  int
	IP    int
	Depth int // values on the stack before the instruction runs
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

// RuntimeError is a user-facing execution failure. No partial result is
// produced when one is returned.
type RuntimeError struct {
	Message string
	Line    int
	Offset  int
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Unwrap exposes the sentinel classifying the failure.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// StackFaultKind distinguishes overflow from underflow.
type StackFaultKind int

const (
	StackOverflow StackFaultKind = iota
	StackUnderflow
)

func (k StackFaultKind) String() string {
	if k == StackOverflow {
		return "stack overflow"
	}
	return "stack underflow"
}

// StackFault is the panic value raised when an ill-formed chunk drives the
// stack past its bounds. It signals a compiler bug, never bad user input.
type StackFault struct {
	Kind   StackFaultKind
	Depth  int
	Offset int
}

func (f *StackFault) Error() string {
	return fmt.Sprintf("internal error: %s at offset %d (depth %d)", f.Kind, f.Offset, f.Depth)
}

func (vm *VM) errorf(offset int, cause error, format string, args ...interface{}) error {
	err := &RuntimeError{
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Cause:   cause,
	}
	if vm.chunk != nil {
		err.Line = vm.chunk.LineAt(offset)
		if err.Line == 0 && offset >= vm.chunk.Len() {
			err.Line = vm.chunk.LineAt(vm.chunk.Len() - 1)
		}
	}
	vm.log.WithFields(logrus.Fields{
		"line":   err.Line,
		"offset": offset,
	}).Debug(err.Message)
	return err
}
