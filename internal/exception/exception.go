// Package exception defines the error taxonomy shared by every stage of the
// Drift pipeline: lexer, parser, semantic pass, compiler and VM.
package exception

import "fmt"

// Kind tags the class of failure. The string form is what gets printed to
// the user, so it is kept stable across the Kind values below.
type Kind string

const (
	// Lexical
	UnknownSymbol Kind = "UnknownSymbol"
	CharacterExp  Kind = "CharacterExp"
	StringExp     Kind = "StringExp"

	// Syntactic
	Unexpected   Kind = "Unexpected"
	InvalidSyntax Kind = "InvalidSyntax"
	IncrementOp  Kind = "IncrementOp"

	// Semantic / compile
	TypeError    Kind = "TypeError"
	DivisionZero Kind = "DivisionZero"
	CannotPublic Kind = "CannotPublic"
	Enumeration  Kind = "Enumeration"
	CallInherit  Kind = "CallInherit"

	// Runtime
	RuntimeError Kind = "RuntimeError"
)

// Exception is the single error type that crosses CORE package boundaries.
// It satisfies the standard error interface so it can be returned and
// wrapped the way any other Go error is.
type Exception struct {
	Kind    Kind
	Message string
	Line    int
}

// New builds an Exception of the given kind.
func New(kind Kind, message string, line int) *Exception {
	return &Exception{Kind: kind, Message: message, Line: line}
}

func (e *Exception) Error() string {
	return fmt.Sprintf("<Exception { Kind=%s Message=%q Line=%d }>", e.Kind, e.Message, e.Line)
}
