package reckon

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/xirelogy/go-reckon/internal/bytecode"
	"github.com/xirelogy/go-reckon/internal/compiler"
	"github.com/xirelogy/go-reckon/internal/config"
	"github.com/xirelogy/go-reckon/internal/vm"
)

// Chunk is a compiled expression: bytecode, line table and constants.
type Chunk = bytecode.Chunk

// CompileError is a single syntax or resource-limit error.
type CompileError = compiler.CompileError

// RuntimeError is a source-aware execution error surfaced from the VM.
type RuntimeError = vm.RuntimeError

// TraceInfo describes one instruction dispatch observed by a trace hook.
type TraceInfo = vm.TraceInfo

// Config tunes the interpreter; see DefaultConfig and LoadConfig.
type Config = config.Config

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads a reckon.toml file.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// FormatValue renders a result the way traces and the REPL print it.
func FormatValue(v float64) string {
	return bytecode.FormatValue(v)
}

// Result is the outcome of interpreting a source text.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultCompileError:
		return "compile error"
	case ResultRuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// ExitCode maps r to the conventional process exit status.
func (r Result) ExitCode() int {
	switch r {
	case ResultOK:
		return 0
	case ResultCompileError:
		return 65
	default:
		return 70
	}
}

// Compile compiles source with the default limits. On failure the error
// lists every reported problem; use CompileErrors to inspect them.
func Compile(source string) (*Chunk, error) {
	return compiler.Compile(source)
}

// CompileErrors extracts the individual errors from a failed Compile.
func CompileErrors(err error) []*CompileError {
	return compiler.Diagnostics(err)
}

// Interpreter compiles and runs expressions under one configuration.
// Each call uses a fresh VM, so an Interpreter may be reused but is not
// safe for concurrent use.
type Interpreter struct {
	cfg    Config
	log    *logrus.Logger
	stdout io.Writer
	stderr io.Writer
	hook   vm.TraceHook
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(in *Interpreter) {
		in.cfg = cfg
	}
}

// WithOutput sets where traces (stdout) and error reports (stderr) go.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(in *Interpreter) {
		if stdout != nil {
			in.stdout = stdout
		}
		if stderr != nil {
			in.stderr = stderr
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *logrus.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.log = l
		}
	}
}

// WithTraceHook observes every instruction the VM dispatches.
func WithTraceHook(h func(TraceInfo)) Option {
	return func(in *Interpreter) {
		in.hook = h
	}
}

// New constructs an Interpreter.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		cfg:    config.Default(),
		log:    logrus.StandardLogger(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Config returns the active configuration.
func (in *Interpreter) Config() Config {
	return in.cfg
}

// limits returns the VM stack capacity and the nesting depth the compiler
// may accept. Each nesting level holds at most one pending operand, so the
// depth is capped below the stack capacity whatever the configuration says.
func (in *Interpreter) limits() (stackMax, maxDepth int) {
	stackMax = in.cfg.StackMax
	if stackMax <= 0 {
		stackMax = vm.DefaultStackMax
	}
	maxDepth = in.cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = compiler.DefaultMaxDepth
	}
	return stackMax, max(1, min(maxDepth, stackMax-1))
}

// Compile compiles source using the interpreter's limits and trace setting.
func (in *Interpreter) Compile(source string) (*Chunk, error) {
	_, maxDepth := in.limits()
	opts := []compiler.Option{
		compiler.WithMaxDepth(maxDepth),
		compiler.WithLogger(in.log.WithField("component", "compiler")),
	}
	if in.cfg.Trace {
		opts = append(opts, compiler.WithTrace(in.stdout))
	}
	return compiler.Compile(source, opts...)
}

// Run executes a chunk produced by a successful Compile on a fresh VM.
func (in *Interpreter) Run(chunk *Chunk) (float64, error) {
	stackMax, _ := in.limits()
	machine := vm.NewWithStack(stackMax)
	machine.SetLogger(in.log.WithField("component", "vm"))
	if in.cfg.Trace {
		machine.SetTraceWriter(in.stdout)
	}
	machine.SetTraceHook(in.hook)
	return machine.Run(chunk)
}

// Interpret compiles source and, only if that succeeds, runs it. Errors
// are written to the error writer; the VM never sees a chunk from a failed
// compile.
func (in *Interpreter) Interpret(source string) (float64, Result) {
	chunk, err := in.Compile(source)
	if err != nil {
		for _, ce := range compiler.Diagnostics(err) {
			fmt.Fprintln(in.stderr, ce.Error())
		}
		return 0, ResultCompileError
	}

	v, err := in.Run(chunk)
	if err != nil {
		var rte *RuntimeError
		if errors.As(err, &rte) {
			fmt.Fprintf(in.stderr, "%s\n[line %d] in script\n", rte.Message, rte.Line)
		} else {
			fmt.Fprintln(in.stderr, err.Error())
		}
		return 0, ResultRuntimeError
	}
	return v, ResultOK
}

// InterpretFile reads path and interprets its contents. A non-nil error
// means the file could not be read and nothing was compiled.
func (in *Interpreter) InterpretFile(path string) (float64, Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, ResultOK, fmt.Errorf("cannot read %s: %w", path, err)
	}
	in.log.WithField("file", path).Debug("interpreting file")
	v, res := in.Interpret(string(data))
	return v, res, nil
}
