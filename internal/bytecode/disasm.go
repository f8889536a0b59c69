package bytecode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Disassembler formats bytecode as a readable assembly-style dump.
type Disassembler struct {
	w io.Writer
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// DisassembleChunk writes a titled dump of every instruction in chunk.
func (d *Disassembler) DisassembleChunk(title string, chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("nil chunk")
	}
	if _, err := fmt.Fprintf(d.w, "== %s ==\n", title); err != nil {
		return err
	}
	for offset := 0; offset < len(chunk.Code); {
		next, err := d.DisassembleInstruction(chunk, offset)
		if err != nil {
			return err
		}
		offset = next
	}
	return nil
}

// DisassembleInstruction writes the instruction at offset and returns the
// offset of the following instruction.
func (d *Disassembler) DisassembleInstruction(chunk *Chunk, offset int) (int, error) {
	text, next := FormatInstruction(chunk, offset)
	if _, err := fmt.Fprintln(d.w, text); err != nil {
		return next, err
	}
	return next, nil
}

// Disassemble renders a whole chunk as a string.
func Disassemble(title string, chunk *Chunk) string {
	var sb strings.Builder
	_ = NewDisassembler(&sb).DisassembleChunk(title, chunk)
	return sb.String()
}

// FormatInstruction renders the instruction at offset. Consecutive
// instructions from the same source line show "|" instead of the line.
// It never mutates chunk.
func FormatInstruction(chunk *Chunk, offset int) (string, int) {
	if chunk == nil || offset < 0 || offset >= len(chunk.Code) {
		return fmt.Sprintf("%04d <out of range>", offset), offset + 1
	}
	lineStr := "|"
	if offset == 0 || chunk.LineAt(offset) != chunk.LineAt(offset-1) {
		lineStr = strconv.Itoa(chunk.LineAt(offset))
	}
	prefix := fmt.Sprintf("%04d %4s ", offset, lineStr)

	op := chunk.Code[offset]
	info, ok := LookupOpInfo(op)
	if !ok {
		return prefix + fmt.Sprintf("Unknown opcode 0x%02X", op), offset + 1
	}
	switch op {
	case OP_CONSTANT:
		if offset+1 >= len(chunk.Code) {
			return prefix + fmt.Sprintf("%-16s <truncated>", info.Name), len(chunk.Code)
		}
		idx := chunk.Code[offset+1]
		return prefix + fmt.Sprintf("%-16s %4d '%s'", info.Name, idx, formatConstRef(chunk, int(idx))), offset + 2
	default:
		return prefix + info.Name, offset + 1 + info.Operands
	}
}

func formatConstRef(chunk *Chunk, idx int) string {
	if idx >= len(chunk.Constants) {
		return "<invalid>"
	}
	return FormatValue(chunk.Constants[idx])
}

// FormatValue renders a number the way the REPL prints results.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
