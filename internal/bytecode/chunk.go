package bytecode

import (
	"errors"
	"math"
)

// MaxConstants is the number of constants addressable by a one-byte operand.
const MaxConstants = math.MaxUint8 + 1

const initialCapacity = 8

// ErrTooManyConstants is returned when the constant pool is full.
var ErrTooManyConstants = errors.New("too many constants in one chunk")

// Chunk is a compiled bytecode sequence with its constant pool.
// Lines[i] is the source line that produced Code[i].
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []float64
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends one byte of code tagged with its source line.
func (c *Chunk) Write(b byte, line int) {
	if len(c.Code) == cap(c.Code) {
		c.grow()
	}
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// AddConstant appends v to the constant pool and returns its index.
// Indices are never reused or reordered.
func (c *Chunk) AddConstant(v float64) (int, error) {
	if len(c.Constants) >= MaxConstants {
		return 0, ErrTooManyConstants
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1, nil
}

// Len returns the number of code bytes.
func (c *Chunk) Len() int {
	return len(c.Code)
}

// LineAt returns the source line for the byte at offset, or 0 if the
// offset is out of range.
func (c *Chunk) LineAt(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}

func (c *Chunk) grow() {
	n := cap(c.Code) * 2
	if n < initialCapacity {
		n = initialCapacity
	}
	code := make([]byte, len(c.Code), n)
	copy(code, c.Code)
	lines := make([]int, len(c.Lines), n)
	copy(lines, c.Lines)
	c.Code = code
	c.Lines = lines
}
