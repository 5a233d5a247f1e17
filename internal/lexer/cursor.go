package lexer

import (
	"strconv"
	"unicode/utf8"
)

// Cursor walks a source buffer and produces tokens. It is a plain value:
// copying a Cursor snapshots its position, which is how Peek works.
type Cursor struct {
	src  string
	pos  int // current byte offset
	line int
	col  int
}

func NewCursor(src string) Cursor {
	return Cursor{src: src, line: 1, col: 1}
}

// Source returns the buffer the cursor reads from.
func (c *Cursor) Source() string {
	return c.src
}

// Clone returns an independent copy positioned at the same place.
func (c *Cursor) Clone() Cursor {
	return *c
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (Token, error) {
	ahead := c.Clone()
	return ahead.Next()
}

// Next consumes and returns the next token. At end of input it keeps
// returning an EOF token.
func (c *Cursor) Next() (Token, error) {
	c.skipWhitespace()

	start, line, col := c.pos, c.line, c.col
	if c.pos >= len(c.src) {
		return Token{Kind: EOF, Start: start, End: start, Line: line, Col: col}, nil
	}

	if c.peek() == ';' {
		c.advance()
		return Token{Kind: Semicolon, Start: start, End: c.pos, Line: line, Col: col}, nil
	}

	// Only a run that starts with a digit can be a number.
	numeric := isDigit(c.peek())
	for c.pos < len(c.src) {
		r := c.peek()
		if r == ';' || IsWhitespace(r) {
			break
		}
		if !isDigit(r) && r != '.' {
			numeric = false
		}
		c.advance()
	}

	tok := Token{Kind: Ident, Start: start, End: c.pos, Line: line, Col: col}
	if !numeric {
		return tok, nil
	}

	text := tok.Text(c.src)
	if !wellFormedNumber(text) {
		return tok, &Error{Offset: start, Line: line, Col: col, Text: text, Err: ErrMalformedNumber}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return tok, &Error{Offset: start, Line: line, Col: col, Text: text, Err: ErrMalformedNumber}
	}
	tok.Kind = Number
	tok.Value = v
	return tok, nil
}

func (c *Cursor) advance() rune {
	if c.pos >= len(c.src) {
		return 0
	}
	r, w := utf8.DecodeRuneInString(c.src[c.pos:])
	c.pos += w
	if r == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return r
}

func (c *Cursor) peek() rune {
	if c.pos >= len(c.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.src[c.pos:])
	return r
}

func (c *Cursor) skipWhitespace() {
	for c.pos < len(c.src) && IsWhitespace(c.peek()) {
		c.advance()
	}
}

// wellFormedNumber accepts a digit-led run with at most one dot.
func wellFormedNumber(s string) bool {
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			dots++
		} else {
			digits++
		}
	}
	return digits > 0 && dots <= 1
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsWhitespace reports whether r separates tokens.
func IsWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u0085',           // NEXT LINE
		'\u200E', '\u200F', // bidi marks
		'\u2028', '\u2029': // line and paragraph separators
		return true
	}
	return false
}

// Tokenize returns every token of src up to, but not including, EOF.
func Tokenize(src string) ([]Token, error) {
	c := NewCursor(src)
	var tokens []Token
	for {
		tok, err := c.Next()
		if err != nil {
			return tokens, err
		}
		if tok.Kind == EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
