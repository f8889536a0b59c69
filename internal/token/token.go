package token

// Type identifies the category of a token.
type Type string

// Token carries a lexical item and the source line it started on.
// Lexeme is a slice of the scanned source; for Error tokens it holds the
// diagnostic message instead.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
}

const (
	Error Type = "ERROR"
	EOF   Type = "EOF"

	// single-character tokens
	LParen    Type = "LPAREN"
	RParen    Type = "RPAREN"
	LBrace    Type = "LBRACE"
	RBrace    Type = "RBRACE"
	Comma     Type = "COMMA"
	Dot       Type = "DOT"
	Minus     Type = "MINUS"     // -
	Plus      Type = "PLUS"      // +
	Semicolon Type = "SEMICOLON" // ;
	Slash     Type = "SLASH"     // /
	Star      Type = "STAR"      // *

	// one or two character tokens
	Bang         Type = "BANG"         // !
	BangEqual    Type = "BANGEQUAL"    // !=
	Assign       Type = "ASSIGN"       // =
	Equal        Type = "EQUAL"        // ==
	Greater      Type = "GREATER"      // >
	GreaterEqual Type = "GREATEREQUAL" // >=
	Less         Type = "LESS"         // <
	LessEqual    Type = "LESSEQUAL"    // <=

	// literals
	Ident  Type = "IDENT"
	String Type = "STRING"
	Number Type = "NUMBER"

	// keywords
	And    Type = "AND"
	Class  Type = "CLASS"
	Else   Type = "ELSE"
	False  Type = "FALSE"
	For    Type = "FOR"
	Fun    Type = "FUN"
	If     Type = "IF"
	Nil    Type = "NIL"
	Or     Type = "OR"
	Print  Type = "PRINT"
	Return Type = "RETURN"
	Super  Type = "SUPER"
	This   Type = "THIS"
	True   Type = "TRUE"
	Var    Type = "VAR"
	While  Type = "WHILE"
)

var keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupIdent returns the keyword token type or Ident.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return Ident
}
