package bytecode

// OpCode enumerates bytecode operations.
// Zero is reserved so that zeroed memory never decodes as an instruction.
const (
	_ byte = iota // reserved
	OP_RETURN
	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_NEGATE
	OP_CONSTANT
)

// OpInfo describes an opcode for decoding and disassembly.
type OpInfo struct {
	Name     string
	Opcode   byte
	Operands int // operand bytes following the opcode
}

var opInfo = map[byte]OpInfo{
	OP_RETURN:   {Name: "OP_RETURN", Opcode: OP_RETURN},
	OP_ADD:      {Name: "OP_ADD", Opcode: OP_ADD},
	OP_SUBTRACT: {Name: "OP_SUBTRACT", Opcode: OP_SUBTRACT},
	OP_MULTIPLY: {Name: "OP_MULTIPLY", Opcode: OP_MULTIPLY},
	OP_DIVIDE:   {Name: "OP_DIVIDE", Opcode: OP_DIVIDE},
	OP_NEGATE:   {Name: "OP_NEGATE", Opcode: OP_NEGATE},
	OP_CONSTANT: {Name: "OP_CONSTANT", Opcode: OP_CONSTANT, Operands: 1},
}

// LookupOpInfo returns opcode metadata if op is a known instruction.
func LookupOpInfo(op byte) (OpInfo, bool) {
	info, ok := opInfo[op]
	return info, ok
}
