package ast

import "fmt"

// Kind identifies what a tree node stands for.
type Kind int

// Node kinds.
const (
	Select Kind = iota
	From
	Create
	Alter
	Drop
	Table
	Function
	Extension
	Identifier
	Number
	Literal // any literal that is not a plain number
	Star
	Add
	Subtraction
	Multiply
	Divide
	Modulo
	BinaryOr
	BinaryAnd
	Assign
	Equal
	Smaller
	SmallerOrEqual
	Larger
	LargerOrEqual
	Semicolon
	Dot
	Comma
	LeftParenthesis
	RightParenthesis
	InlineComment
	MultiLineComment
)

var kindNames = [...]string{
	Select:           "Select",
	From:             "From",
	Create:           "Create",
	Alter:            "Alter",
	Drop:             "Drop",
	Table:            "Table",
	Function:         "Function",
	Extension:        "Extension",
	Identifier:       "Identifier",
	Number:           "Number",
	Literal:          "Literal",
	Star:             "Star",
	Add:              "Add",
	Subtraction:      "Subtraction",
	Multiply:         "Multiply",
	Divide:           "Divide",
	Modulo:           "Modulo",
	BinaryOr:         "BinaryOr",
	BinaryAnd:        "BinaryAnd",
	Assign:           "Assign",
	Equal:            "Equal",
	Smaller:          "Smaller",
	SmallerOrEqual:   "SmallerOrEqual",
	Larger:           "Larger",
	LargerOrEqual:    "LargerOrEqual",
	Semicolon:        "Semicolon",
	Dot:              "Dot",
	Comma:            "Comma",
	LeftParenthesis:  "LeftParenthesis",
	RightParenthesis: "RightParenthesis",
	InlineComment:    "InlineComment",
	MultiLineComment: "MultiLineComment",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsStatement reports whether k opens a DDL statement (CREATE, ALTER, DROP).
func (k Kind) IsStatement() bool {
	return k == Create || k == Alter || k == Drop
}

// IsClause reports whether k is a clause that must hang under a statement.
func (k Kind) IsClause() bool {
	return k == Table || k == Function || k == Extension
}

// IsComment reports whether k is one of the comment kinds.
func (k Kind) IsComment() bool {
	return k == InlineComment || k == MultiLineComment
}
