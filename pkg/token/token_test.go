package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKeyword(t *testing.T) {
	for _, kw := range Keywords() {
		assert.True(t, LookupKeyword(kw), kw)
	}

	// Matching is case-sensitive.
	assert.False(t, LookupKeyword("select"))
	assert.False(t, LookupKeyword("Table"))
	assert.False(t, LookupKeyword("WHERE"))
}

func TestOperatorAndSeparatorTables(t *testing.T) {
	for _, r := range "=+-*/%|&" {
		assert.True(t, IsOperator(r), string(r))
		assert.False(t, IsSeparator(r), string(r))
	}
	for _, r := range ";<>().," {
		assert.True(t, IsSeparator(r), string(r))
		assert.False(t, IsOperator(r), string(r))
	}
	assert.False(t, IsOperator('a'))
	assert.False(t, IsSeparator('\''))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "Keyword", Keyword.String())
	assert.Equal(t, "Literal", Literal.String())
	assert.Equal(t, "Category(42)", Category(42).String())
}

func TestTokenHelpers(t *testing.T) {
	tok := Token{Category: Identifier, Text: "größe", Pos: Position{Line: 2, Column: 3, Offset: 10}}

	assert.True(t, tok.Is(Identifier, "größe"))
	assert.False(t, tok.Is(Literal, "größe"))
	assert.Equal(t, 5, tok.Len())
	assert.Equal(t, Position{Line: 2, Column: 8, Offset: 15}, tok.End())
	assert.Equal(t, "2:3", tok.Pos.String())
}

func TestSpan(t *testing.T) {
	s := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 5, Offset: 4}}
	assert.True(t, s.IsValid())
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4))
	assert.False(t, Span{}.IsValid())
}
