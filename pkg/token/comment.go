package token

// CommentKind distinguishes line vs block comments.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // -- comment
	BlockComment                    // /* comment */
)

// Comment is a comment rebuilt from the tokens that made it up.
type Comment struct {
	Kind CommentKind
	Text string // body without delimiters, original horizontal layout kept
	Span Span
}

// IsLineComment returns true if this is a line comment.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment
}

// IsBlockComment returns true if this is a block comment.
func (c *Comment) IsBlockComment() bool {
	return c.Kind == BlockComment
}
