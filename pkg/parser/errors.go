package parser

import (
	"errors"
	"fmt"
)

// Status is the outcome of a parse.
type Status int

// Parse statuses.
const (
	Valid Status = iota
	// AllocFailed means accumulating node text exceeded the text budget.
	AllocFailed
	// InvalidTableParent means a TABLE, FUNCTION or EXTENSION clause appeared
	// without a CREATE, ALTER or DROP statement to hang under.
	InvalidTableParent
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "Valid"
	case AllocFailed:
		return "AllocFailed"
	case InvalidTableParent:
		return "InvalidTableParent"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Sentinel errors matched by errors.Is against an *Error.
var (
	ErrAllocFailed        = errors.New("text buffer growth failed")
	ErrInvalidTableParent = errors.New("clause without CREATE, ALTER or DROP parent")
)

// Common error messages
const (
	ErrMsgInvalidParent = "%s must follow CREATE, ALTER or DROP, found %s"
	ErrMsgNoParent      = "%s must follow CREATE, ALTER or DROP"
	ErrMsgParentTaken   = "%s already has a %s clause"
	ErrMsgTextTooLong   = "text of %s node exceeds %d characters"
)

// Error is a parse error with position information. Only the first error
// of a parse is ever reported.
type Error struct {
	Status  Status
	Pos     Position
	Token   Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Is matches the sentinel that corresponds to the error's status.
func (e *Error) Is(target error) bool {
	switch e.Status {
	case AllocFailed:
		return target == ErrAllocFailed
	case InvalidTableParent:
		return target == ErrInvalidTableParent
	}
	return false
}

// InternalError reports a broken invariant inside the parser itself. It is
// raised with panic, never returned: it means a bug, not bad input.
type InternalError struct {
	Pos     Position
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal parser error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
