// Package token defines the token categories produced by the tokenizer and
// the fixed keyword, operator and separator tables of the dialect.
package token

import (
	"fmt"
	"unicode/utf8"
)

// Category is the tokenizer's classification of a token.
type Category int

// Token categories.
const (
	Keyword Category = iota
	Identifier
	Operator
	Separator
	Literal
)

var categoryNames = [...]string{
	Keyword:    "Keyword",
	Identifier: "Identifier",
	Operator:   "Operator",
	Separator:  "Separator",
	Literal:    "Literal",
}

// String returns a human-readable representation of the category.
func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Keyword spellings. Matching is case-sensitive.
const (
	SELECT    = "SELECT"
	FROM      = "FROM"
	CREATE    = "CREATE"
	ALTER     = "ALTER"
	DROP      = "DROP"
	TABLE     = "TABLE"
	FUNCTION  = "FUNCTION"
	EXTENSION = "EXTENSION"
)

var keywords = map[string]struct{}{
	SELECT:    {},
	FROM:      {},
	CREATE:    {},
	ALTER:     {},
	DROP:      {},
	TABLE:     {},
	FUNCTION:  {},
	EXTENSION: {},
}

// LookupKeyword reports whether s is one of the recognized keywords.
func LookupKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// Keywords returns the recognized keywords in declaration order.
func Keywords() []string {
	return []string{SELECT, FROM, CREATE, ALTER, DROP, TABLE, FUNCTION, EXTENSION}
}

// IsOperator reports whether r is a single-character operator.
func IsOperator(r rune) bool {
	switch r {
	case '=', '+', '-', '*', '/', '%', '|', '&':
		return true
	}
	return false
}

// IsSeparator reports whether r is a single-character separator.
func IsSeparator(r rune) bool {
	switch r {
	case ';', '<', '>', '(', ')', '.', ',':
		return true
	}
	return false
}

// Token is a classified piece of source text. Tokens are immutable once
// produced; the parser only holds indexes into the tokenizer's slice.
type Token struct {
	Category Category
	Text     string
	Pos      Position
}

// Is reports whether the token has the given category and text.
func (t Token) Is(c Category, text string) bool {
	return t.Category == c && t.Text == text
}

// Len returns the length of the token text in runes.
func (t Token) Len() int {
	return utf8.RuneCountInString(t.Text)
}

// End returns the position just past the last rune of the token, assuming
// the token does not span lines.
func (t Token) End() Position {
	n := t.Len()
	return Position{Line: t.Pos.Line, Column: t.Pos.Column + n, Offset: t.Pos.Offset + n}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Category, t.Text, t.Pos)
}
