package parser

import (
	"errors"
	"fmt"

	"geogit/internal/store"
)

var (
	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrUnknownStatement = errors.New("unknown statement")
	ErrArgumentCount    = errors.New("wrong number of arguments")
	ErrTrailingData     = errors.New("unexpected trailing data")
)

// SyntaxError is a grammatical violation located in the script.
type SyntaxError struct {
	Pos       store.Pos
	Statement string // keyword of the statement being parsed, if known
	Found     string // offending token text
	Err       error
	Detail    string
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("line %d col %d", e.Pos.Line, e.Pos.Col)
	if e.Statement != "" {
		msg += ": " + e.Statement
	}
	msg += ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Found != "" {
		msg += fmt.Sprintf(" (found %q)", e.Found)
	}
	return msg
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
