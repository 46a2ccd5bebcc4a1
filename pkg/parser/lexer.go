package parser

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/vql/pkg/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	// Column bookkeeping uses the character being left behind so a newline
	// moves the *next* character to column 1.
	if l.pos < len(l.input) && l.readPos > 0 && l.input[l.pos] == '\n' {
		l.line++
		l.col = 0
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token. At end of input it keeps returning EOF.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	if l.atEOF() {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case '+':
		tok = l.single(token.PLUS, pos)
	case '-':
		tok = l.single(token.MINUS, pos)
	case '*':
		tok = l.single(token.STAR, pos)
	case '/':
		tok = l.single(token.SLASH, pos)
	case '%':
		tok = l.single(token.PERCENT, pos)
	case '=':
		tok = l.single(token.EQ, pos)
	case '.':
		tok = l.single(token.DOT, pos)
	case ',':
		tok = l.single(token.COMMA, pos)
	case ';':
		tok = l.single(token.SEMICOLON, pos)
	case '(':
		tok = l.single(token.LPAREN, pos)
	case ')':
		tok = l.single(token.RPAREN, pos)
	case '<':
		switch l.peekChar() {
		case '=':
			tok = l.double(token.LE, pos)
		case '>':
			tok = l.double(token.NE, pos)
		default:
			tok = l.single(token.LT, pos)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.double(token.GE, pos)
		} else {
			tok = l.single(token.GT, pos)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.double(token.NE, pos)
		} else {
			tok = l.single(token.ILLEGAL, pos)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.double(token.DPIPE, pos)
		} else {
			tok = l.single(token.ILLEGAL, pos)
		}
	case '\'':
		lit, ok := l.readQuoted('\'')
		tok = token.Token{Type: token.STRING, Literal: lit, Pos: pos}
		if !ok {
			tok.Type = token.ILLEGAL
			tok.Literal = ErrUnterminatedString
		}
	case '"':
		lit, ok := l.readQuoted('"')
		tok = token.Token{Type: token.IDENT, Literal: lit, Quoted: true, Pos: pos}
		if !ok {
			tok.Type = token.ILLEGAL
			tok.Literal = ErrUnterminatedIdent
			tok.Quoted = false
		}
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(strings.ToLower(tok.Literal))
		case isDigit(l.ch):
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
		default:
			tok = l.single(token.ILLEGAL, pos)
		}
	}

	return tok
}

func (l *Lexer) single(t token.TokenType, pos token.Position) token.Token {
	tok := token.Token{Type: t, Literal: string(l.ch), Pos: pos}
	l.readChar()
	return tok
}

func (l *Lexer) double(t token.TokenType, pos token.Position) token.Token {
	lit := l.input[l.pos : l.pos+2]
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

// skipWhitespaceAndComments skips whitespace, -- line comments and /* */ block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for !l.atEOF() && (l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r') {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar() // skip '/'
			l.readChar() // skip '*'
			for !l.atEOF() {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}

		break
	}
}

// readQuoted reads a literal delimited by quote. A doubled quote inside the
// literal stands for one quote character: 'it''s' -> it's.
// The second result is false when input ends before the closing quote.
func (l *Lexer) readQuoted(quote byte) (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for !l.atEOF() {
		if l.ch == quote {
			if l.peekChar() == quote {
				result.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), true
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return result.String(), false
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_') {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// isLetter returns true if ch is a letter. Bytes >= 0x80 are treated as
// letters so UTF-8 encoded identifiers stay in one token.
func isLetter(ch byte) bool {
	return ch >= utf8Self || unicode.IsLetter(rune(ch))
}

const utf8Self = 0x80

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, ending with EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
