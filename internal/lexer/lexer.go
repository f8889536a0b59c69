package lexer

import (
	"github.com/xirelogy/go-reckon/internal/token"
)

// Lexer converts source text into a lazy stream of tokens.
type Lexer struct {
	input   string
	pos     int  // position of ch
	readPos int  // next read position
	ch      byte // current char, 0 at end of input
	line    int
	start   int // offset where the token being scanned begins
}

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// NextToken returns the next token from the input. Once the input is
// exhausted every further call returns an EOF token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	l.start = l.pos

	if l.atEnd() {
		return l.makeToken(token.EOF)
	}

	ch := l.ch
	l.readChar()

	if isLetter(ch) {
		return l.readIdentifier()
	}
	if isDigit(ch) {
		return l.readNumber()
	}

	switch ch {
	case '(':
		return l.makeToken(token.LParen)
	case ')':
		return l.makeToken(token.RParen)
	case '{':
		return l.makeToken(token.LBrace)
	case '}':
		return l.makeToken(token.RBrace)
	case ';':
		return l.makeToken(token.Semicolon)
	case ',':
		return l.makeToken(token.Comma)
	case '.':
		return l.makeToken(token.Dot)
	case '-':
		return l.makeToken(token.Minus)
	case '+':
		return l.makeToken(token.Plus)
	case '/':
		return l.makeToken(token.Slash)
	case '*':
		return l.makeToken(token.Star)
	case '!':
		return l.makeToken(l.pick('=', token.BangEqual, token.Bang))
	case '=':
		return l.makeToken(l.pick('=', token.Equal, token.Assign))
	case '<':
		return l.makeToken(l.pick('=', token.LessEqual, token.Less))
	case '>':
		return l.makeToken(l.pick('=', token.GreaterEqual, token.Greater))
	case '"':
		return l.readString()
	}

	return l.errorToken("Unexpected character.")
}

// Line reports the line the lexer is currently positioned on.
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) makeToken(t token.Type) token.Token {
	return token.Token{
		Type:   t,
		Lexeme: l.input[l.start:l.pos],
		Line:   l.line,
	}
}

func (l *Lexer) errorToken(msg string) token.Token {
	return token.Token{
		Type:   token.Error,
		Lexeme: msg,
		Line:   l.line,
	}
}

// pick consumes expected when it is the current char and returns matched,
// otherwise it consumes nothing and returns single.
func (l *Lexer) pick(expected byte, matched, single token.Type) token.Type {
	if l.atEnd() || l.ch != expected {
		return single
	}
	l.readChar()
	return matched
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
		case '\n':
			l.line++
			l.readChar()
		case '/':
			if l.peekChar() != '/' {
				return
			}
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() token.Token {
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.makeToken(token.LookupIdent(l.input[l.start:l.pos]))
}

func (l *Lexer) readNumber() token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	// a trailing dot without digits is left for the next token
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.makeToken(token.Number)
}

func (l *Lexer) readString() token.Token {
	line := l.line
	for !l.atEnd() && l.ch != '"' {
		if l.ch == '\n' {
			l.line++
		}
		l.readChar()
	}
	if l.atEnd() {
		return l.errorToken("Unterminated string.")
	}
	l.readChar() // closing quote
	tok := l.makeToken(token.String)
	tok.Line = line
	return tok
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.pos = len(l.input)
		l.ch = 0
		return
	}
	l.ch = l.input[l.readPos]
	l.pos = l.readPos
	l.readPos++
}
