package ast

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fixpq/pkg/token"
)

func leaf(kind Kind, text string, line, col int) *Node {
	return &Node{Kind: kind, Text: text, Pos: token.Position{Line: line, Column: col}, Source: NoSource}
}

// sample builds Semicolon(L: Select(R: Add(L: 1, R: 2))).
func sample() *Node {
	add := leaf(Add, "", 1, 9)
	add.Left = leaf(Number, "1", 1, 8)
	add.Right = leaf(Number, "2", 1, 10)
	sel := leaf(Select, "", 1, 1)
	sel.Right = add
	semi := leaf(Semicolon, "", 1, 11)
	semi.Left = sel
	return semi
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Select", Select.String())
	assert.Equal(t, "MultiLineComment", MultiLineComment.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())

	k, ok := ParseKind("LargerOrEqual")
	require.True(t, ok)
	assert.Equal(t, LargerOrEqual, k)

	_, ok = ParseKind("Nope")
	assert.False(t, ok)
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		kind      Kind
		statement bool
		clause    bool
		comment   bool
	}{
		{Create, true, false, false},
		{Alter, true, false, false},
		{Drop, true, false, false},
		{Table, false, true, false},
		{Function, false, true, false},
		{Extension, false, true, false},
		{InlineComment, false, false, true},
		{MultiLineComment, false, false, true},
		{Select, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.statement, tt.kind.IsStatement())
			assert.Equal(t, tt.clause, tt.kind.IsClause())
			assert.Equal(t, tt.comment, tt.kind.IsComment())
		})
	}
}

func TestWalkOrder(t *testing.T) {
	var kinds []Kind
	Walk(sample(), func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return true
	})
	assert.Equal(t, []Kind{Semicolon, Select, Add, Number, Number}, kinds)
}

func TestWalkSkipsChildren(t *testing.T) {
	var kinds []Kind
	Walk(sample(), func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != Select
	})
	assert.Equal(t, []Kind{Semicolon, Select}, kinds)
}

func TestCountDepthFind(t *testing.T) {
	root := sample()
	assert.Equal(t, 5, Count(root))
	assert.Equal(t, 4, Depth(root))
	assert.Equal(t, 0, Count(nil))

	two := Find(root, func(n *Node) bool { return n.Text == "2" })
	require.NotNil(t, two)
	assert.Equal(t, 10, two.Pos.Column)
	assert.Nil(t, Find(root, func(n *Node) bool { return n.Kind == Star }))
}

func TestReleaseVisitsEveryNodeOnce(t *testing.T) {
	root := sample()
	var all []*Node
	Walk(root, func(n *Node) bool {
		all = append(all, n)
		return true
	})

	assert.Equal(t, len(all), Release(root))
	for _, n := range all {
		assert.True(t, n.IsLeaf(), "%s still has children", n.Kind)
	}
	// A released tree has nothing left to free.
	assert.Equal(t, 1, Release(root))
	assert.Equal(t, 0, Release(nil))
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, sample()))

	want := `Semicolon @1:11
  L: Select @1:1
    R: Add @1:9
      L: Number "1" @1:8
      R: Number "2" @1:10
`
	assert.Equal(t, want, buf.String())
	assert.Equal(t, want, String(sample()))
	assert.Empty(t, String(nil))
}
