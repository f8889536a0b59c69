package reckon

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestInterpreter(opts ...Option) (*Interpreter, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	logger, _ := test.NewNullLogger()
	base := []Option{WithOutput(&stdout, &stderr), WithLogger(logger)}
	return New(append(base, opts...)...), &stdout, &stderr
}

func TestAPIInterpretScenarios(t *testing.T) {
	in, _, stderr := newTestInterpreter()

	v, res := in.Interpret("(1 + 2) * 3 - 4 / 2")
	be.Equal(t, res, ResultOK)
	be.Equal(t, v, 7.0)

	v, res = in.Interpret("-5")
	be.Equal(t, res, ResultOK)
	be.Equal(t, v, -5.0)

	v, res = in.Interpret("1 / 0")
	be.Equal(t, res, ResultOK)
	be.True(t, math.IsInf(v, 1))

	be.Equal(t, stderr.String(), "")
}

func TestAPICompileErrorSkipsVM(t *testing.T) {
	var ran bool
	in, _, stderr := newTestInterpreter(WithTraceHook(func(TraceInfo) { ran = true }))

	_, res := in.Interpret("(1 + 2")
	be.Equal(t, res, ResultCompileError)
	be.Equal(t, res.ExitCode(), 65)
	be.True(t, !ran)
	be.Equal(t, stderr.String(), "[line 1] Error at end: Expect ')' after expression.\n")
}

func TestAPIReportsEveryCompileError(t *testing.T) {
	in, _, stderr := newTestInterpreter()
	_, res := in.Interpret("1)\n2 + )")
	be.Equal(t, res, ResultCompileError)
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	be.Equal(t, lines, []string{
		"[line 1] Error at ')': Expect end of expression.",
		"[line 2] Error at ')': Expect expression.",
	})
}

func TestAPIRuntimeError(t *testing.T) {
	in, _, stderr := newTestInterpreter()
	chunk := &Chunk{}
	chunk.Write(0xEE, 2)
	_, err := in.Run(chunk)
	be.True(t, err != nil)

	var rte *RuntimeError
	be.True(t, errors.As(err, &rte))
	be.Equal(t, rte.Line, 2)
	be.Equal(t, stderr.String(), "")
}

func TestAPICompileHelpers(t *testing.T) {
	chunk, err := Compile("2 * 3")
	be.Err(t, err, nil)
	be.Equal(t, chunk.Constants, []float64{2, 3})

	_, err = Compile("2 *\n* 3")
	errs := CompileErrors(err)
	be.Equal(t, len(errs), 1)
	be.Equal(t, errs[0].Line, 2)
}

func TestAPITraceDoesNotChangeResult(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trace = true
	in, stdout, _ := newTestInterpreter(WithConfig(cfg))

	v, res := in.Interpret("(1 + 2) * 3 - 4 / 2")
	be.Equal(t, res, ResultOK)
	be.Equal(t, v, 7.0)

	out := stdout.String()
	be.True(t, strings.HasPrefix(out, "== code ==\n"))
	be.True(t, strings.Contains(out, "          [ 9 ][ 4 ]"))
	be.True(t, strings.Contains(out, "OP_RETURN"))
}

func TestAPIInterpretFile(t *testing.T) {
	in, _, _ := newTestInterpreter()
	path := filepath.Join(t.TempDir(), "expr.rk")
	be.Err(t, os.WriteFile(path, []byte("// doubles\n21 * 2\n"), 0o644), nil)

	v, res, err := in.InterpretFile(path)
	be.Err(t, err, nil)
	be.Equal(t, res, ResultOK)
	be.Equal(t, v, 42.0)

	_, _, err = in.InterpretFile(filepath.Join(t.TempDir(), "missing.rk"))
	be.True(t, err != nil)
}

func TestAPIConfigLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 4
	in, _, stderr := newTestInterpreter(WithConfig(cfg))
	_, res := in.Interpret("((((((1))))))")
	be.Equal(t, res, ResultCompileError)
	be.True(t, strings.Contains(stderr.String(), "Expression nests too deeply."))
}

func TestAPINestingCappedBySmallStack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StackMax = 64
	in, _, stderr := newTestInterpreter(WithConfig(cfg))

	deep := strings.Repeat("1 + (", 100) + "1" + strings.Repeat(")", 100)
	_, res := in.Interpret(deep)
	be.Equal(t, res, ResultCompileError)
	be.True(t, strings.Contains(stderr.String(), "Expression nests too deeply."))

	fits := strings.Repeat("1 + (", 30) + "1" + strings.Repeat(")", 30)
	v, res := in.Interpret(fits)
	be.Equal(t, res, ResultOK)
	be.Equal(t, v, 31.0)
}

func TestAPILogsRuntimeFault(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	in := New(WithLogger(logger), WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))

	chunk := &Chunk{}
	chunk.Write(0xEE, 1)
	_, err := in.Run(chunk)
	be.True(t, err != nil)

	entry := hook.LastEntry()
	be.True(t, entry != nil)
	be.Equal(t, entry.Data["component"], any("vm"))
	be.Equal(t, entry.Data["line"], any(1))
}

func TestResultExitCodes(t *testing.T) {
	be.Equal(t, ResultOK.ExitCode(), 0)
	be.Equal(t, ResultCompileError.ExitCode(), 65)
	be.Equal(t, ResultRuntimeError.ExitCode(), 70)
	be.Equal(t, ResultRuntimeError.String(), "runtime error")
}
