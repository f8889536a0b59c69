package compiler

import (
	"io"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/xirelogy/go-reckon/internal/bytecode"
	"github.com/xirelogy/go-reckon/internal/lexer"
	"github.com/xirelogy/go-reckon/internal/token"
)

// DefaultMaxDepth bounds expression nesting. It must stay below the VM
// stack capacity: every nesting level holds at most one pending operand.
const DefaultMaxDepth = 256

// Option configures a compilation.
type Option func(*options)

type options struct {
	maxDepth int
	trace    io.Writer
	log      *logrus.Entry
}

// WithMaxDepth overrides the expression nesting limit.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithTrace dumps the disassembled chunk to w after a successful compile.
func WithTrace(w io.Writer) Option {
	return func(o *options) {
		o.trace = w
	}
}

// WithLogger sets the logger used for compile diagnostics.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Compile scans and compiles source into a chunk in a single pass.
// On failure the returned error is a *multierror.Error holding one
// *CompileError per reported problem and no chunk is returned.
func Compile(source string, opts ...Option) (*Chunk, error) {
	c := newCompiler(source, opts...)
	if !c.compile() {
		return nil, c.errs
	}
	if c.opts.trace != nil {
		if err := bytecode.NewDisassembler(c.opts.trace).DisassembleChunk("code", c.chunk); err != nil {
			c.opts.log.WithError(err).Warn("trace dump failed")
		}
	}
	return c.chunk, nil
}

type compiler struct {
	lexer    *lexer.Lexer
	chunk    *Chunk
	opts     options
	current  token.Token
	previous token.Token

	errs      *multierror.Error
	panicMode bool
	panicLine int
	depth     int
}

func newCompiler(source string, opts ...Option) *compiler {
	o := options{
		maxDepth: DefaultMaxDepth,
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &compiler{
		lexer: lexer.New(source),
		chunk: bytecode.NewChunk(),
		opts:  o,
	}
}

// compile drives the parse and reports whether it succeeded.
func (c *compiler) compile() bool {
	c.advance()
	c.expression()
	for !c.check(token.EOF) {
		c.errorAtCurrent("Expect end of expression.")
		c.synchronize()
		if !c.check(token.EOF) {
			c.expression()
		}
	}
	c.consume(token.EOF, "Expect end of expression.")
	c.emitByte(OP_RETURN)

	c.opts.log.WithFields(logrus.Fields{
		"bytes":     c.chunk.Len(),
		"constants": len(c.chunk.Constants),
		"errors":    len(Diagnostics(c.errs.ErrorOrNil())),
	}).Debug("compile finished")

	if c.hadError() {
		c.errs.ErrorFormat = formatErrors
		return false
	}
	return true
}

func (c *compiler) hadError() bool {
	return c.errs != nil
}

func (c *compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.lexer.NextToken()
		if c.current.Type != token.Error {
			return
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *compiler) check(t token.Type) bool {
	return c.current.Type == t
}

func (c *compiler) consume(t token.Type, msg string) {
	if c.check(t) {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

// synchronize skips the rest of the line the error was reported on.
// Newlines separate independent expressions, so the first token on a
// later line is a safe place to resume.
func (c *compiler) synchronize() {
	for !c.check(token.EOF) && c.current.Line <= c.panicLine {
		c.advance()
	}
	c.panicMode = false
}

func (c *compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *compiler) parsePrecedence(prec Precedence) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.opts.maxDepth {
		c.errorAtCurrent("Expression nests too deeply.")
		return
	}

	c.advance()
	prefix := ruleFor(c.previous.Type).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}
	prefix(c)

	for prec <= ruleFor(c.current.Type).prec {
		c.advance()
		ruleFor(c.previous.Type).infix(c)
	}
}

func (c *compiler) number() {
	v, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(v)
}

func (c *compiler) grouping() {
	c.expression()
	c.consume(token.RParen, "Expect ')' after expression.")
}

func (c *compiler) unary() {
	op := c.previous.Type
	c.parsePrecedence(PrecUnary)
	switch op {
	case token.Minus:
		c.emitByte(OP_NEGATE)
	}
}

func (c *compiler) binary() {
	op := c.previous.Type
	c.parsePrecedence(ruleFor(op).prec + 1)
	switch op {
	case token.Plus:
		c.emitByte(OP_ADD)
	case token.Minus:
		c.emitByte(OP_SUBTRACT)
	case token.Star:
		c.emitByte(OP_MULTIPLY)
	case token.Slash:
		c.emitByte(OP_DIVIDE)
	}
}

func (c *compiler) emitConstant(v float64) {
	idx, ok := c.makeConstant(v)
	if !ok {
		return
	}
	c.emitBytes(OP_CONSTANT, idx)
}

func (c *compiler) makeConstant(v float64) (byte, bool) {
	idx, err := c.chunk.AddConstant(v)
	if err != nil {
		c.error("Too many constants in one chunk.")
		return 0, false
	}
	return byte(idx), true
}

func (c *compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *compiler) emitBytes(b ...byte) {
	for _, x := range b {
		c.emitByte(x)
	}
}
