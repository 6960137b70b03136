// Package parser turns SQL dump text into a single binary tree.
//
// # Usage
//
//	tokens := parser.Tokenize(src)
//	res := parser.Parse(tokens)
//	if !res.OK() {
//	    // handle res.Err
//	}
//
// Parsing runs in two strictly separate phases. The Lexer first consumes the
// whole source and produces the token slice; the reducer then walks that
// slice once, left to right, carrying the tree built so far from one step to
// the next. Every step returns the new tree together with the index of the
// next unconsumed token, so lookahead never rewinds shared state.
//
// The reducer is fail-fast: the first structural error stops the walk and is
// the only one reported. The partial tree stays available for inspection.
package parser

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/leapstack-labs/fixpq/pkg/ast"
	"github.com/leapstack-labs/fixpq/pkg/token"
)

// Parser reduces a token slice into a tree. A Parser is single use.
type Parser struct {
	tokens     []Token // borrowed, never modified
	logger     *slog.Logger
	maxTextLen int

	status   Status
	err      *Error
	consumed int

	allocated int
	discarded int
	comments  []*token.Comment
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxTextLen bounds the text a single node may accumulate, in runes.
// Exceeding it fails the parse with AllocFailed. Zero means no bound.
func WithMaxTextLen(n int) Option {
	return func(p *Parser) {
		p.maxTextLen = n
	}
}

// NewParser creates a parser over tokens.
func NewParser(tokens []Token, opts ...Option) *Parser {
	p := &Parser{
		tokens: tokens,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of a parse.
type Result struct {
	Root   *ast.Node
	Status Status
	Err    error // nil when Status is Valid

	// Allocated counts every node created; Discarded counts nodes released
	// during the parse (fused operators). Allocated-Discarded nodes are
	// reachable from Root.
	Allocated int
	Discarded int

	// Consumed is the number of tokens reduced before the walk stopped.
	Consumed int

	// Comments holds the rebuilt text of every comment, in source order.
	Comments []*token.Comment
}

// OK reports whether the parse finished without error.
func (r *Result) OK() bool {
	return r.Status == Valid
}

// Nodes returns the number of nodes reachable from Root.
func (r *Result) Nodes() int {
	return ast.Count(r.Root)
}

// Release discards the tree and returns the number of nodes freed.
func (r *Result) Release() int {
	n := ast.Release(r.Root)
	r.Root = nil
	return n
}

// Parse reduces tokens into a tree.
func Parse(tokens []Token, opts ...Option) *Result {
	return NewParser(tokens, opts...).Parse()
}

// ParseString tokenizes src and parses the tokens. The tokens are returned
// because tree nodes refer back to them by index.
func ParseString(src string, opts ...Option) ([]Token, *Result) {
	tokens := Tokenize(src)
	return tokens, Parse(tokens, opts...)
}

// Parse runs the reduction loop until the tokens are exhausted or an error
// is recorded.
func (p *Parser) Parse() *Result {
	var tree *ast.Node
	i := 0
	for p.status == Valid && i < len(p.tokens) {
		tree, i = p.reduce(tree, nil, i)
	}
	if p.status == Valid {
		p.consumed = len(p.tokens)
	}

	res := &Result{
		Root:      tree,
		Status:    p.status,
		Allocated: p.allocated,
		Discarded: p.discarded,
		Consumed:  p.consumed,
		Comments:  p.comments,
	}
	if p.err != nil {
		res.Err = p.err
	}

	p.logger.Debug("parsed tree",
		slog.Int("tokens", len(p.tokens)),
		slog.Int("consumed", res.Consumed),
		slog.Int("nodes", res.Nodes()),
		slog.String("status", p.status.String()))
	return res
}

// ---------- Helpers ----------

// peek returns up to n tokens starting at index i without consuming them.
func (p *Parser) peek(i, n int) []Token {
	if i < 0 || i >= len(p.tokens) {
		return nil
	}
	end := min(i+n, len(p.tokens))
	return p.tokens[i:end]
}

// peekIs reports whether the token at index i has the given category and text.
func (p *Parser) peekIs(i int, c token.Category, text string) bool {
	next := p.peek(i, 1)
	return len(next) == 1 && next[0].Is(c, text)
}

// newNode allocates a node for the token at index i.
func (p *Parser) newNode(kind ast.Kind, i int) *ast.Node {
	p.allocated++
	return ast.New(kind, p.tokens[i], i)
}

// discard releases a node the reducer no longer needs. The caller must have
// detached anything that is still in use.
func (p *Parser) discard(n *ast.Node) {
	p.discarded += ast.Release(n)
}

// setText stores text on n, enforcing the text budget.
func (p *Parser) setText(n *ast.Node, text string) bool {
	if p.maxTextLen > 0 && utf8.RuneCountInString(text) > p.maxTextLen {
		p.fail(AllocFailed, n.Source, ErrMsgTextTooLong, n.Kind, p.maxTextLen)
		return false
	}
	n.Text = text
	return true
}

// fail records the first error and returns the index that ends the walk.
func (p *Parser) fail(status Status, i int, format string, args ...any) int {
	if p.status != Valid {
		return len(p.tokens)
	}
	tok := p.tokens[i]
	p.status = status
	p.consumed = i + 1
	p.err = &Error{
		Status:  status,
		Pos:     tok.Pos,
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
	}
	p.logger.Debug("parse failed",
		slog.String("status", status.String()),
		slog.String("pos", tok.Pos.String()),
		slog.String("message", p.err.Message))
	return len(p.tokens)
}

// isKeywordNode reports whether n was produced from a Keyword token.
func (p *Parser) isKeywordNode(n *ast.Node) bool {
	return n.Source >= 0 && n.Source < len(p.tokens) && p.tokens[n.Source].Category == token.Keyword
}
