package vm

import (
	"strings"

	"github.com/xirelogy/go-reckon/internal/bytecode"
)

// Value is the only runtime type: an IEEE-754 double.
type Value = float64

// FormatValue renders v the way results are printed.
func FormatValue(v Value) string {
	return bytecode.FormatValue(v)
}

func formatStack(stack []Value) string {
	var sb strings.Builder
	sb.WriteString("          ")
	for _, v := range stack {
		sb.WriteString("[ ")
		sb.WriteString(FormatValue(v))
		sb.WriteString(" ]")
	}
	return sb.String()
}
