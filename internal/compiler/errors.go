package compiler

import (
	"errors"
	"fmt"
)

// CompileError represents an error detected while compiling a program.
//
// Compile errors are fatal: the engine refuses to build and the caller
// must fix the source program. They never occur at evaluation time.
type CompileError struct {
	// Code identifies the error category.
	Code CompileErrorCode

	// Message is a human-readable description.
	Message string

	// Clause is the index of the offending clause, or -1.
	Clause int

	// Relation is the offending relation identifier, or -1.
	Relation int
}

// CompileErrorCode categorizes compile errors.
type CompileErrorCode string

const (
	// ErrCodeMalformedLiteral indicates an equality literal with two
	// constant arguments or the wrong arity.
	ErrCodeMalformedLiteral CompileErrorCode = "MALFORMED_LITERAL"

	// ErrCodeUnstratifiedNegation indicates a negated atom whose relation
	// is not in a strictly earlier stratum than the clause head.
	ErrCodeUnstratifiedNegation CompileErrorCode = "UNSTRATIFIED_NEGATION"
)

// Error implements the error interface.
func (e *CompileError) Error() string {
	switch {
	case e.Clause >= 0 && e.Relation >= 0:
		return fmt.Sprintf("%s: %s (clause=%d, relation=%d)", e.Code, e.Message, e.Clause, e.Relation)
	case e.Clause >= 0:
		return fmt.Sprintf("%s: %s (clause=%d)", e.Code, e.Message, e.Clause)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsMalformedLiteral returns true if the error is a malformed equality
// literal error. Uses errors.As to handle wrapped errors.
func IsMalformedLiteral(err error) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeMalformedLiteral
	}
	return false
}

// IsUnstratifiedNegation returns true if the error is a stratification
// failure. Uses errors.As to handle wrapped errors.
func IsUnstratifiedNegation(err error) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeUnstratifiedNegation
	}
	return false
}

// NewMalformedLiteralError creates a CompileError for a bad equality atom.
func NewMalformedLiteralError(message string) *CompileError {
	return &CompileError{
		Code:     ErrCodeMalformedLiteral,
		Message:  message,
		Clause:   -1,
		Relation: -1,
	}
}

// NewUnstratifiedNegationError creates a CompileError for a negated atom
// that does not reach a strictly earlier stratum.
func NewUnstratifiedNegationError(clause, relation int) *CompileError {
	return &CompileError{
		Code:     ErrCodeUnstratifiedNegation,
		Message:  "negated atom's relation must be in a strictly earlier stratum than the clause head",
		Clause:   clause,
		Relation: relation,
	}
}
