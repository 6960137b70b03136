package parser

import (
	"unicode"

	"github.com/leapstack-labs/fixpq/pkg/token"
)

const eof rune = -1

// Lexer tokenizes SQL input. It keeps the position tracker for the
// character under examination and stamps it onto every token.
type Lexer struct {
	input []rune
	pos   int // index of the current char in input
	line  int // current line number (1-based)
	col   int // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
		line:  1,
		col:   1,
	}
}

// Pos returns the position of the character under examination.
func (l *Lexer) Pos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// current returns the character under examination, or eof.
func (l *Lexer) current() rune {
	return l.at(l.pos)
}

func (l *Lexer) at(i int) rune {
	if i >= len(l.input) {
		return eof
	}
	return l.input[i]
}

// readChar advances past the current character, updating line and column.
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

// Next returns the next token. The second result is false once the input
// is exhausted.
func (l *Lexer) Next() (Token, bool) {
	l.skipWhitespace()

	ch := l.current()
	if ch == eof {
		return Token{}, false
	}

	pos := l.Pos()
	switch {
	case token.IsOperator(ch):
		l.readChar()
		return Token{Category: token.Operator, Text: string(ch), Pos: pos}, true
	case token.IsSeparator(ch):
		l.readChar()
		return Token{Category: token.Separator, Text: string(ch), Pos: pos}, true
	case ch == '\'' || ch == '"':
		if end, ok := l.closingQuote(ch); ok {
			text := l.readUntil(end)
			cat := token.Literal
			if ch == '"' {
				cat = token.Identifier
			}
			return Token{Category: cat, Text: text, Pos: pos}, true
		}
		// An unterminated quote is just part of a word.
	}

	text := l.readWord()
	return Token{Category: classifyWord(text), Text: text, Pos: pos}, true
}

// skipWhitespace skips whitespace; it is never emitted as a token.
func (l *Lexer) skipWhitespace() {
	for ch := l.current(); ch != eof && unicode.IsSpace(ch); ch = l.current() {
		l.readChar()
	}
}

// closingQuote finds the index just past the quote that closes the quoted
// run starting at the current character. A doubled quote is an escape.
func (l *Lexer) closingQuote(quote rune) (int, bool) {
	for i := l.pos + 1; i < len(l.input); i++ {
		if l.input[i] != quote {
			continue
		}
		if l.at(i+1) == quote {
			i++
			continue
		}
		return i + 1, true
	}
	return 0, false
}

// readUntil consumes characters up to (excluding) index end and returns them.
func (l *Lexer) readUntil(end int) string {
	start := l.pos
	for l.pos < end {
		l.readChar()
	}
	return string(l.input[start:end])
}

// readWord reads a maximal run of characters that are neither whitespace,
// operators nor separators.
func (l *Lexer) readWord() string {
	start := l.pos
	for ch := l.current(); ch != eof && !isBreak(ch); ch = l.current() {
		l.readChar()
	}
	return string(l.input[start:l.pos])
}

func isBreak(ch rune) bool {
	return unicode.IsSpace(ch) || token.IsOperator(ch) || token.IsSeparator(ch)
}

// classifyWord sorts a word into Keyword, Identifier or Literal.
func classifyWord(word string) token.Category {
	if token.LookupKeyword(word) {
		return token.Keyword
	}
	if isIdentifier(word) {
		return token.Identifier
	}
	return token.Literal
}

// isIdentifier returns true for a bare name: a letter or underscore
// followed by letters, digits, underscores or dollar signs.
func isIdentifier(word string) bool {
	for i, ch := range word {
		switch {
		case isLetter(ch) || ch == '_':
		case i > 0 && (isDigit(ch) || ch == '$'):
		default:
			return false
		}
	}
	return word != ""
}

// isLetter returns true if ch is a letter.
func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}

// isDigit returns true if ch is an ASCII digit.
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input. It never fails: characters
// that fit no other category end up in a Literal.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
