package lexer

import (
	"errors"
	"fmt"
)

// Kind represents the type of a lexical token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	Semicolon
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case Semicolon:
		return "';'"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token is a lexical token. Start and End are byte offsets into the source
// buffer the cursor was created with.
type Token struct {
	Kind  Kind
	Start int
	End   int
	Line  int
	Col   int
	Value float64 // Number only
}

// Text returns the token's bytes as a slice of src, without copying.
func (t Token) Text(src string) string {
	return src[t.Start:t.End]
}

var ErrMalformedNumber = errors.New("malformed numeric literal")

// Error is a lexical error located in the source.
type Error struct {
	Offset int
	Line   int
	Col    int
	Text   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d col %d: %v %q", e.Line, e.Col, e.Err, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Err
}
