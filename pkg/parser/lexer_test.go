package parser_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/leapstack-labs/fixpq/pkg/parser"
	"github.com/leapstack-labs/fixpq/pkg/token"
)

func TestTokenizeCategories(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		cats    []token.Category
		texts   []string
		columns []int
	}{
		{
			name:    "create extension",
			input:   "CREATE EXTENSION xyz;",
			cats:    []token.Category{token.Keyword, token.Keyword, token.Identifier, token.Separator},
			texts:   []string{"CREATE", "EXTENSION", "xyz", ";"},
			columns: []int{1, 8, 18, 21},
		},
		{
			name:    "select star",
			input:   "SELECT * FROM users;",
			cats:    []token.Category{token.Keyword, token.Operator, token.Keyword, token.Identifier, token.Separator},
			texts:   []string{"SELECT", "*", "FROM", "users", ";"},
			columns: []int{1, 8, 10, 15, 20},
		},
		{
			name:    "operators without spaces",
			input:   "1+2.5*a",
			cats:    []token.Category{token.Literal, token.Operator, token.Literal, token.Separator, token.Literal, token.Operator, token.Identifier},
			texts:   []string{"1", "+", "2", ".", "5", "*", "a"},
			columns: []int{1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:    "comparison is two tokens",
			input:   "a<=b",
			cats:    []token.Category{token.Identifier, token.Separator, token.Operator, token.Identifier},
			texts:   []string{"a", "<", "=", "b"},
			columns: []int{1, 2, 3, 4},
		},
		{
			name:    "keywords are case sensitive",
			input:   "select FROM",
			cats:    []token.Category{token.Identifier, token.Keyword},
			texts:   []string{"select", "FROM"},
			columns: []int{1, 8},
		},
		{
			name:    "identifier with dollar and digits",
			input:   "_tmp$1 9lives",
			cats:    []token.Category{token.Identifier, token.Literal},
			texts:   []string{"_tmp$1", "9lives"},
			columns: []int{1, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := parser.Tokenize(tt.input)
			require.Len(t, tokens, len(tt.cats))
			for i, tok := range tokens {
				assert.Equal(t, tt.cats[i], tok.Category, "token %d category", i)
				assert.Equal(t, tt.texts[i], tok.Text, "token %d text", i)
				assert.Equal(t, tt.columns[i], tok.Pos.Column, "token %d column", i)
				assert.Equal(t, 1, tok.Pos.Line, "token %d line", i)
			}
		})
	}
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, parser.Tokenize(""))
	assert.Empty(t, parser.Tokenize(" \t\r\n\n  "))
}

func TestTokenizePositionsAcrossLines(t *testing.T) {
	input := "SELECT a\n  FROM b;\n\nDROP TABLE c;"
	tokens := parser.Tokenize(input)
	require.Len(t, tokens, 9)

	want := []token.Position{
		{Line: 1, Column: 1, Offset: 0},
		{Line: 1, Column: 8, Offset: 7},
		{Line: 2, Column: 3, Offset: 11},
		{Line: 2, Column: 8, Offset: 16},
		{Line: 2, Column: 9, Offset: 17},
		{Line: 4, Column: 1, Offset: 20},
		{Line: 4, Column: 6, Offset: 25},
		{Line: 4, Column: 12, Offset: 31},
		{Line: 4, Column: 13, Offset: 32},
	}
	for i, tok := range tokens {
		assert.Equal(t, want[i], tok.Pos, "token %d (%s)", i, tok.Text)
	}
}

func TestTokenizeColumnsCountRunes(t *testing.T) {
	tokens := parser.Tokenize("naïve ü")
	require.Len(t, tokens, 2)
	assert.Equal(t, "naïve", tokens[0].Text)
	assert.Equal(t, 7, tokens[1].Pos.Column)
	assert.Equal(t, 6, tokens[1].Pos.Offset)
}

func TestTokenizeQuoted(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cat   token.Category
		text  string
		count int
	}{
		{"single quoted literal", "'hello world'", token.Literal, "'hello world'", 1},
		{"double quoted identifier", `"My Table"`, token.Identifier, `"My Table"`, 1},
		{"escaped quote", "'it''s'", token.Literal, "'it''s'", 1},
		{"operators inside quotes", "'a+b;c'", token.Literal, "'a+b;c'", 1},
		{"unterminated quote is a word", "'abc def", token.Literal, "'abc", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := parser.Tokenize(tt.input)
			require.Len(t, tokens, tt.count)
			assert.Equal(t, tt.cat, tokens[0].Category)
			assert.Equal(t, tt.text, tokens[0].Text)
		})
	}
}

func TestTokenizeQuotedSpanningLines(t *testing.T) {
	tokens := parser.Tokenize("'a\nb' x")
	require.Len(t, tokens, 2)
	assert.Equal(t, "'a\nb'", tokens[0].Text)
	assert.Equal(t, token.Position{Line: 2, Column: 4, Offset: 6}, tokens[1].Pos)
}

func TestLexerNext(t *testing.T) {
	l := parser.NewLexer("a ;")

	tok, ok := l.Next()
	require.True(t, ok)
	assert.Equal(t, "a", tok.Text)

	tok, ok = l.Next()
	require.True(t, ok)
	assert.Equal(t, token.Separator, tok.Category)

	_, ok = l.Next()
	assert.False(t, ok)
	_, ok = l.Next()
	assert.False(t, ok, "exhausted lexer stays exhausted")
}

func TestDecode(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("SELECT 'café';")
	require.NoError(t, err)

	tests := []struct {
		name     string
		data     []byte
		encoding string
		want     string
	}{
		{"default utf-8", []byte("SELECT 1;"), "", "SELECT 1;"},
		{"utf-8 bom stripped", append([]byte{0xEF, 0xBB, 0xBF}, "SELECT 1;"...), "utf-8", "SELECT 1;"},
		{"latin1", []byte(latin1), "latin1", "SELECT 'café';"},
		{"name is case insensitive", []byte(latin1), "ISO-8859-1", "SELECT 'café';"},
		{"utf-16le with bom", []byte{0xFF, 0xFE, 'a', 0, ';', 0}, "utf-16le", "a;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Decode(bytes.NewReader(tt.data), tt.encoding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeUnknownEncoding(t *testing.T) {
	_, err := parser.Decode(strings.NewReader("x"), "ebcdic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}

func TestTokenizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE EXTENSION xyz;\n"), 0o600))

	tokens, err := parser.TokenizeFile(path, "")
	require.NoError(t, err)
	assert.Len(t, tokens, 4)

	_, err = parser.TokenizeFile(filepath.Join(t.TempDir(), "missing.sql"), "")
	require.Error(t, err)
}
