package parser

import (
	"github.com/leapstack-labs/fixpq/pkg/ast"
	"github.com/leapstack-labs/fixpq/pkg/token"
)

// reduce folds the token at index i into tree and returns the new tree and
// the index of the next unconsumed token. scope is the node whose Right is
// being filled by an eager lookahead, or nil at top level.
func (p *Parser) reduce(tree, scope *ast.Node, i int) (*ast.Node, int) {
	if p.status != Valid || i >= len(p.tokens) {
		return tree, len(p.tokens)
	}

	switch p.tokens[i].Category {
	case token.Keyword:
		return p.reduceKeyword(tree, i)
	case token.Identifier:
		return p.reduceIdentifier(tree, i)
	case token.Operator:
		return p.reduceOperator(tree, scope, i)
	case token.Separator:
		return p.reduceSeparator(tree, scope, i)
	case token.Literal:
		return p.reduceLiteral(tree, scope, i)
	}
	return tree, i + 1
}

// reduceRight eagerly reduces the token after index last into n.Right and
// returns the index to resume at.
func (p *Parser) reduceRight(n *ast.Node, last int) int {
	if last+1 >= len(p.tokens) {
		return last + 1
	}
	right, next := p.reduce(nil, n, last+1)
	n.Right = right
	return next
}

// ---------- Keywords ----------

func (p *Parser) reduceKeyword(tree *ast.Node, i int) (*ast.Node, int) {
	switch p.tokens[i].Text {
	case token.SELECT:
		return p.reduceArgumentClause(ast.Select, tree, i)
	case token.FROM:
		return p.reduceArgumentClause(ast.From, tree, i)
	case token.CREATE:
		return p.reduceStatement(ast.Create, tree, i)
	case token.ALTER:
		return p.reduceStatement(ast.Alter, tree, i)
	case token.DROP:
		return p.reduceStatement(ast.Drop, tree, i)
	case token.TABLE:
		return p.attachClause(tree, p.newNode(ast.Table, i), i)
	case token.FUNCTION:
		return p.attachClause(tree, p.newNode(ast.Function, i), i)
	case token.EXTENSION:
		return p.attachClause(tree, p.newNode(ast.Extension, i), i)
	}
	// A keyword outside the recognized set leaves the tree untouched.
	return tree, i + 1
}

// reduceArgumentClause handles SELECT and FROM: the clause takes the tree as
// Left and immediately reduces its argument into Right.
func (p *Parser) reduceArgumentClause(kind ast.Kind, tree *ast.Node, i int) (*ast.Node, int) {
	n := p.newNode(kind, i)
	n.Left = tree
	return n, p.reduceRight(n, i)
}

// reduceStatement handles CREATE, ALTER and DROP. Right stays empty until a
// clause attaches to it.
func (p *Parser) reduceStatement(kind ast.Kind, tree *ast.Node, i int) (*ast.Node, int) {
	n := p.newNode(kind, i)
	n.Left = tree
	return n, i + 1
}

// attachClause nests a TABLE, FUNCTION or EXTENSION clause under the
// statement held by tree. Anything else is a structural error; the clause
// then becomes the root, keeping tree as its Left.
func (p *Parser) attachClause(tree, clause *ast.Node, i int) (*ast.Node, int) {
	name := p.tokens[i].Text
	switch {
	case tree == nil:
		return clause, p.fail(InvalidTableParent, i, ErrMsgNoParent, name)
	case tree.Kind.IsStatement() && tree.Right == nil:
		tree.Right = clause
		return tree, i + 1
	case tree.Kind.IsStatement():
		clause.Left = tree
		return clause, p.fail(InvalidTableParent, i, ErrMsgParentTaken, tree.Kind, tree.Right.Kind)
	default:
		clause.Left = tree
		return clause, p.fail(InvalidTableParent, i, ErrMsgInvalidParent, name, tree.Kind)
	}
}

// ---------- Identifiers and literals ----------

func (p *Parser) reduceIdentifier(tree *ast.Node, i int) (*ast.Node, int) {
	n := p.newNode(ast.Identifier, i)
	if !p.setText(n, p.tokens[i].Text) {
		n.Left = tree
		return n, len(p.tokens)
	}

	// Under SELECT and FROM the identifier arrives as the clause's eager
	// right operand with no tree, so the clause stays the spine.
	n.Left = tree
	return n, i + 1
}

// reduceLiteral builds a Number or Literal node. When an operator follows,
// the literal is its left operand and the operator's result is returned.
func (p *Parser) reduceLiteral(tree, scope *ast.Node, i int) (*ast.Node, int) {
	text := p.tokens[i].Text
	kind := ast.Literal
	if isNumber(text) {
		kind = ast.Number
	}

	n := p.newNode(kind, i)
	n.Left = tree
	if !p.setText(n, text) {
		return n, len(p.tokens)
	}

	if next := p.peek(i+1, 1); len(next) == 1 && next[0].Category == token.Operator {
		return p.reduceOperator(n, scope, i+1)
	}
	return n, i + 1
}

// isNumber reports whether s is ASCII digits with at most one dot.
func isNumber(s string) bool {
	digits, dots := 0, 0
	for _, ch := range s {
		switch {
		case isDigit(ch):
			digits++
		case ch == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}
