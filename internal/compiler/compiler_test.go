package compiler

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/nalgeon/be"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/xirelogy/go-reckon/internal/bytecode"
	"github.com/xirelogy/go-reckon/internal/token"
)

func compileSource(t *testing.T, src string) *Chunk {
	t.Helper()
	chunk, err := Compile(src)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return chunk
}

func compileErrors(t *testing.T, src string) []string {
	t.Helper()
	chunk, err := Compile(src)
	if err == nil {
		t.Fatalf("expected compile error for %q", src)
	}
	be.True(t, chunk == nil)
	var msgs []string
	for _, ce := range Diagnostics(err) {
		msgs = append(msgs, ce.Error())
	}
	return msgs
}

func TestCompileSimpleExpression(t *testing.T) {
	chunk := compileSource(t, "1 + 2")
	expectedOps := []byte{
		OP_CONSTANT, 0x00,
		OP_CONSTANT, 0x01,
		OP_ADD,
		OP_RETURN,
	}
	be.Equal(t, chunk.Code, expectedOps)
	be.Equal(t, chunk.Constants, []float64{1, 2})
	be.Equal(t, len(chunk.Lines), len(chunk.Code))
}

func TestCompilePrecedence(t *testing.T) {
	chunk := compileSource(t, "1 + 2 * -3")
	expectedOps := []byte{
		OP_CONSTANT, 0x00,
		OP_CONSTANT, 0x01,
		OP_CONSTANT, 0x02,
		OP_NEGATE,
		OP_MULTIPLY,
		OP_ADD,
		OP_RETURN,
	}
	be.Equal(t, chunk.Code, expectedOps)
}

func TestCompileLeftAssociative(t *testing.T) {
	chunk := compileSource(t, "8 - 4 - 2")
	expectedOps := []byte{
		OP_CONSTANT, 0x00,
		OP_CONSTANT, 0x01,
		OP_SUBTRACT,
		OP_CONSTANT, 0x02,
		OP_SUBTRACT,
		OP_RETURN,
	}
	be.Equal(t, chunk.Code, expectedOps)
}

func TestCompileGrouping(t *testing.T) {
	chunk := compileSource(t, "(1 + 2) / 3")
	expectedOps := []byte{
		OP_CONSTANT, 0x00,
		OP_CONSTANT, 0x01,
		OP_ADD,
		OP_CONSTANT, 0x02,
		OP_DIVIDE,
		OP_RETURN,
	}
	be.Equal(t, chunk.Code, expectedOps)
}

func TestCompileLinesFollowPreviousToken(t *testing.T) {
	chunk := compileSource(t, "1 +\n2\n// done\n")
	be.Equal(t, chunk.Lines, []int{1, 1, 2, 2, 2, 4})
}

func TestCompileDuplicateLiteralsAreNotShared(t *testing.T) {
	chunk := compileSource(t, "2 * 2")
	be.Equal(t, chunk.Constants, []float64{2, 2})
}

func TestCompileErrorMessages(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"(1 + 2", []string{"[line 1] Error at end: Expect ')' after expression."}},
		{"", []string{"[line 1] Error at end: Expect expression."}},
		{"1 +", []string{"[line 1] Error at end: Expect expression."}},
		{"* 2", []string{"[line 1] Error at '*': Expect expression."}},
		{"1 2", []string{"[line 1] Error at '2': Expect end of expression."}},
		{"1 @ 2", []string{"[line 1] Error: Unexpected character."}},
		{"\"abc", []string{"[line 1] Error: Unterminated string."}},
		{"!1", []string{"[line 1] Error at '!': Expect expression."}},
		{"1 == 1", []string{"[line 1] Error at '==': Expect end of expression."}},
		{"x + 1", []string{"[line 1] Error at 'x': Expect expression."}},
	}
	for _, tt := range tests {
		got := compileErrors(t, tt.src)
		be.Equal(t, got, tt.want)
	}
}

func TestCompileReportsIndependentErrors(t *testing.T) {
	got := compileErrors(t, "1 + 2)\n3 * 4)")
	be.Equal(t, got, []string{
		"[line 1] Error at ')': Expect end of expression.",
		"[line 2] Error at ')': Expect end of expression.",
	})
}

func TestCompileResyncSkipsRestOfLine(t *testing.T) {
	got := compileErrors(t, "1 ) + 2 )")
	be.Equal(t, got, []string{"[line 1] Error at ')': Expect end of expression."})
}

func TestCompilePanicModeSuppressesCascade(t *testing.T) {
	got := compileErrors(t, "(* ) ) ) @ )")
	be.Equal(t, len(got), 1)
}

func TestCompileErrorFormat(t *testing.T) {
	_, err := Compile("1)\n2)")
	var merr *multierror.Error
	be.True(t, errors.As(err, &merr))
	be.Equal(t, err.Error(), "[line 1] Error at ')': Expect end of expression.\n[line 2] Error at ')': Expect end of expression.")
}

func literalSum(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "1"
	}
	return strings.Join(parts, " + ")
}

func TestCompileConstantPoolBoundary(t *testing.T) {
	chunk := compileSource(t, literalSum(bytecode.MaxConstants))
	be.Equal(t, len(chunk.Constants), bytecode.MaxConstants)

	got := compileErrors(t, literalSum(bytecode.MaxConstants+1))
	be.Equal(t, got, []string{"[line 1] Error at '1': Too many constants in one chunk."})
}

func TestCompileConstantOverflowEmitsNothingForLiteral(t *testing.T) {
	c := newCompiler(literalSum(bytecode.MaxConstants + 1))
	be.True(t, !c.compile())

	constants := 0
	for i := 0; i < len(c.chunk.Code); {
		op := c.chunk.Code[i]
		if op == OP_CONSTANT {
			constants++
		}
		info, ok := bytecode.LookupOpInfo(op)
		be.True(t, ok)
		i += 1 + info.Operands
	}
	be.Equal(t, constants, bytecode.MaxConstants)
	be.Equal(t, len(c.chunk.Constants), bytecode.MaxConstants)
}

func TestCompileNestingLimit(t *testing.T) {
	deep := strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)
	got := compileErrors(t, deep)
	be.Equal(t, len(got), 1)
	be.True(t, strings.HasSuffix(got[0], "Expression nests too deeply."))

	shallow := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)
	compileSource(t, shallow)

	_, err := Compile(shallow, WithMaxDepth(10))
	be.True(t, err != nil)
}

func TestCompileTraceDumpsChunk(t *testing.T) {
	var buf bytes.Buffer
	_, err := Compile("1 + 2", WithTrace(&buf))
	be.Err(t, err, nil)
	out := buf.String()
	be.True(t, strings.HasPrefix(out, "== code ==\n"))
	be.True(t, strings.Contains(out, "OP_ADD"))

	buf.Reset()
	_, err = Compile("1 +", WithTrace(&buf))
	be.True(t, err != nil)
	be.Equal(t, buf.String(), "")
}

func TestCompileLogsSummary(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := Compile("1 + 2", WithLogger(logrus.NewEntry(logger)))
	be.Err(t, err, nil)

	entry := hook.LastEntry()
	be.True(t, entry != nil)
	be.Equal(t, entry.Message, "compile finished")
	be.Equal(t, entry.Data["constants"], any(2))
	be.Equal(t, entry.Data["errors"], any(0))
}

func TestRuleTable(t *testing.T) {
	be.Equal(t, ruleFor(token.Plus).prec, PrecTerm)
	be.Equal(t, ruleFor(token.Minus).prec, PrecTerm)
	be.Equal(t, ruleFor(token.Star).prec, PrecFactor)
	be.Equal(t, ruleFor(token.Slash).prec, PrecFactor)
	be.Equal(t, ruleFor(token.RParen).prec, PrecNone)
	be.True(t, ruleFor(token.Number).prefix != nil)
	be.True(t, ruleFor(token.LParen).prefix != nil)
	be.True(t, ruleFor(token.EOF).prefix == nil)
}
