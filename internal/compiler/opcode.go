package compiler

import "github.com/xirelogy/go-reckon/internal/bytecode"

const (
	OP_RETURN   = bytecode.OP_RETURN
	OP_ADD      = bytecode.OP_ADD
	OP_SUBTRACT = bytecode.OP_SUBTRACT
	OP_MULTIPLY = bytecode.OP_MULTIPLY
	OP_DIVIDE   = bytecode.OP_DIVIDE
	OP_NEGATE   = bytecode.OP_NEGATE
	OP_CONSTANT = bytecode.OP_CONSTANT
)
