package vm

import (
	"fmt"

	"github.com/xirelogy/go-reckon/internal/bytecode"
)

// trace reports the instruction about to run at offset. Tracing only
// reads VM state.
func (vm *VM) trace(offset int, op byte) {
	if vm.traceHook != nil {
		vm.traceHook(TraceInfo{
			Op:    op,
			Line:  vm.chunk.LineAt(offset),
			IP:    offset,
			Depth: vm.sp,
		})
	}
	if vm.traceOut == nil {
		return
	}
	text, _ := bytecode.FormatInstruction(vm.chunk, offset)
	fmt.Fprintln(vm.traceOut, formatStack(vm.stack[:vm.sp]))
	fmt.Fprintln(vm.traceOut, text)
}
