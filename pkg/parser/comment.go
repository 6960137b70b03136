package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/fixpq/pkg/ast"
	"github.com/leapstack-labs/fixpq/pkg/token"
)

// reduceInlineComment turns the Subtraction node n (the first "-" of a
// "--" pair at index i) into an InlineComment that absorbs every following
// token on the same source line.
func (p *Parser) reduceInlineComment(n *ast.Node, i int) (*ast.Node, int) {
	n.Kind = ast.InlineComment

	start := i + 2
	line := p.tokens[i].Pos.Line
	end := start
	for end < len(p.tokens) && p.tokens[end].Pos.Line == line {
		end++
	}
	body := p.tokens[start:end]

	span := token.Span{Start: p.tokens[i].Pos, End: p.tokens[i+1].End()}
	if len(body) > 0 {
		span.End = body[len(body)-1].End()
	}
	return p.finishComment(n, token.LineComment, layoutLine(body, 0), span, end)
}

// opensBlockComment reports whether the "/" at index i is immediately
// followed by "*" on the same line.
func (p *Parser) opensBlockComment(i int) bool {
	return p.adjacentPair(i, "/", "*")
}

// adjacentPair reports whether tokens i and i+1 are the operators a and b
// written with no gap between them.
func (p *Parser) adjacentPair(i int, a, b string) bool {
	if !p.peekIs(i, token.Operator, a) || !p.peekIs(i+1, token.Operator, b) {
		return false
	}
	first, second := p.tokens[i].Pos, p.tokens[i+1].Pos
	return first.Line == second.Line && second.Column == first.Column+1
}

// reduceBlockComment turns the Divide node n (the "/" of "/*" at index i)
// into a MultiLineComment that absorbs every token up to the closing "*/".
// An unterminated comment runs to the end of input.
func (p *Parser) reduceBlockComment(n *ast.Node, i int) (*ast.Node, int) {
	n.Kind = ast.MultiLineComment

	start := i + 2
	end, next := len(p.tokens), len(p.tokens)
	for j := start; j < len(p.tokens); j++ {
		if p.adjacentPair(j, "*", "/") {
			end, next = j, j+2
			break
		}
	}
	body := p.tokens[start:end]

	span := token.Span{Start: p.tokens[i].Pos, End: p.tokens[next-1].End()}
	return p.finishComment(n, token.BlockComment, layoutBlock(body), span, next)
}

func (p *Parser) finishComment(n *ast.Node, kind token.CommentKind, text string, span token.Span, next int) (*ast.Node, int) {
	if !p.setText(n, text) {
		return n, len(p.tokens)
	}
	p.comments = append(p.comments, &token.Comment{Kind: kind, Text: text, Span: span})
	return n, next
}

// layoutBlock rebuilds a multi-line comment body. Each source line is laid
// out relative to the leftmost token of the whole body; lines with no
// tokens come out empty.
func layoutBlock(body []Token) string {
	if len(body) == 0 {
		return ""
	}

	base := body[0].Pos.Column
	for _, tok := range body[1:] {
		base = min(base, tok.Pos.Column)
	}

	firstLine := body[0].Pos.Line
	lines := make([]string, body[len(body)-1].Pos.Line-firstLine+1)
	for k := 0; k < len(body); {
		line := body[k].Pos.Line
		end := k
		for end < len(body) && body[end].Pos.Line == line {
			end++
		}
		lines[line-firstLine] = layoutLine(body[k:end], body[k].Pos.Column-base)
		k = end
	}
	return strings.Join(lines, "\n")
}

// layoutLine writes the tokens of one source line into a space-filled
// buffer at their column offsets from the first token, after indent
// leading spaces. The buffer ends with the last token's text.
//
// A token that does not fit the buffer means the positions are out of
// order; that is a bug in the lexer or a hand-built token slice, so it
// panics with *InternalError.
func layoutLine(toks []Token, indent int) string {
	if len(toks) == 0 {
		return ""
	}

	first := toks[0].Pos.Column
	last := toks[len(toks)-1]
	size := last.Pos.Column - first + last.Len()

	buf := make([]rune, size)
	for k := range buf {
		buf[k] = ' '
	}
	for _, tok := range toks {
		off := tok.Pos.Column - first
		for j, r := range []rune(tok.Text) {
			at := off + j
			if at < 0 || at >= size {
				panic(&InternalError{
					Pos:     tok.Pos,
					Message: fmt.Sprintf("comment text %q overflows %d-character line buffer", tok.Text, size),
				})
			}
			buf[at] = r
		}
	}
	return strings.Repeat(" ", indent) + string(buf)
}
