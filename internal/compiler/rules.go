package compiler

import "github.com/xirelogy/go-reckon/internal/token"

// Precedence orders binding strength from loosest to tightest.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

type parseFn func(*compiler)

type parseRule struct {
	prefix parseFn
	infix  parseFn
	prec   Precedence
}

// rules is filled in init because the handlers refer back to the table.
var rules map[token.Type]parseRule

func init() {
	rules = map[token.Type]parseRule{
		token.LParen: {prefix: (*compiler).grouping},
		token.Minus:  {prefix: (*compiler).unary, infix: (*compiler).binary, prec: PrecTerm},
		token.Plus:   {infix: (*compiler).binary, prec: PrecTerm},
		token.Slash:  {infix: (*compiler).binary, prec: PrecFactor},
		token.Star:   {infix: (*compiler).binary, prec: PrecFactor},
		token.Number: {prefix: (*compiler).number},
	}
}

// ruleFor returns the parse rule for t. Token types without an entry have
// no handlers and PrecNone, so they end an expression.
func ruleFor(t token.Type) parseRule {
	return rules[t]
}
