package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_MatchesWhitespaceSplit(t *testing.T) {
	src := "ADDRECT  A 0 0 1.5 2\n\tUPDRECT B 10 20 30\u0085COMMIT\r\n"

	tokens, err := Tokenize(src)
	require.NoError(t, err)

	fields := strings.FieldsFunc(src, IsWhitespace)
	require.Len(t, tokens, len(fields))
	for i, tok := range tokens {
		assert.Equal(t, fields[i], tok.Text(src), "token %d", i)
	}
}

func TestCursor_Kinds(t *testing.T) {
	src := "addrect r1 12 0.25 3. 5;COMMIT"
	tokens, err := Tokenize(src)
	require.NoError(t, err)

	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []Kind{Ident, Ident, Number, Number, Number, Number, Semicolon, Ident}, kinds)

	assert.Equal(t, 12.0, tokens[2].Value)
	assert.Equal(t, 0.25, tokens[3].Value)
	assert.Equal(t, 3.0, tokens[4].Value)
	assert.Equal(t, 5.0, tokens[5].Value)
	assert.Equal(t, "COMMIT", tokens[7].Text(src))
}

func TestCursor_DecimalScale(t *testing.T) {
	// 1.05 must keep its fractional part; 1.0 and 1 are the same value.
	tokens, err := Tokenize("1.05 1.0 1 007.500")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, 1.05, tokens[0].Value)
	assert.Equal(t, 1.0, tokens[1].Value)
	assert.Equal(t, 1.0, tokens[2].Value)
	assert.Equal(t, 7.5, tokens[3].Value)
}

func TestCursor_MixedRunIsIdent(t *testing.T) {
	tokens, err := Tokenize("2nd r-1.5")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, Ident, tokens[0].Kind)
	assert.Equal(t, Ident, tokens[1].Kind)
}

func TestCursor_DotLedRunIsIdent(t *testing.T) {
	src := ".5 . ..;"
	tokens, err := Tokenize(src)
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	for i, want := range []string{".5", ".", ".."} {
		assert.Equal(t, Ident, tokens[i].Kind, want)
		assert.Equal(t, want, tokens[i].Text(src))
	}
	assert.Equal(t, Semicolon, tokens[3].Kind)
}

func TestCursor_Spans(t *testing.T) {
	src := "ab\n  cd;"
	c := NewCursor(src)

	tok, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, Token{Kind: Ident, Start: 0, End: 2, Line: 1, Col: 1}, tok)

	tok, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, Token{Kind: Ident, Start: 5, End: 7, Line: 2, Col: 3}, tok)

	tok, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, Semicolon, tok.Kind)
	assert.Equal(t, 1, tok.End-tok.Start)

	tok, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, EOF, tok.Kind)

	// EOF is sticky.
	tok, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, EOF, tok.Kind)
}

func TestCursor_PeekDoesNotAdvance(t *testing.T) {
	c := NewCursor("one two")

	peeked, err := c.Peek()
	require.NoError(t, err)
	assert.Equal(t, 0, c.pos)

	next, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, peeked, next)

	clone := c.Clone()
	_, err = clone.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, c.pos, "advancing a clone must not move the original")
}

func TestCursor_MalformedNumber(t *testing.T) {
	for _, src := range []string{"1.2.3", "1..;", "0.5.;"} {
		t.Run(src, func(t *testing.T) {
			_, err := Tokenize(src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedNumber)

			var lexErr *Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, 1, lexErr.Line)
			assert.Equal(t, 1, lexErr.Col)
		})
	}
}

func TestTokenize_Empty(t *testing.T) {
	tokens, err := Tokenize(" \n\t\u200E\u2028 ")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
