package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/xirelogy/go-reckon/internal/token"
)

// CompileError is a single syntax or resource-limit error.
type CompileError struct {
	Line    int
	Where   string // " at 'x'", " at end" or empty for scanner errors
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// Diagnostics returns the individual compile errors carried by err.
func Diagnostics(err error) []*CompileError {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		var ce *CompileError
		if errors.As(err, &ce) {
			return []*CompileError{ce}
		}
		return nil
	}
	out := make([]*CompileError, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		var ce *CompileError
		if errors.As(e, &ce) {
			out = append(out, ce)
		}
	}
	return out
}

func formatErrors(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

func (c *compiler) error(msg string) {
	c.errorAt(c.previous, msg)
}

func (c *compiler) errorAtCurrent(msg string) {
	c.errorAt(c.current, msg)
}

// errorAt records an error unless one is already being recovered from.
func (c *compiler) errorAt(tok token.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.panicLine = tok.Line

	where := ""
	switch tok.Type {
	case token.EOF:
		where = " at end"
	case token.Error:
		// the message already describes the problem
	default:
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	c.errs = multierror.Append(c.errs, &CompileError{
		Line:    tok.Line,
		Where:   where,
		Message: msg,
	})
}
