package parser

import (
	"strings"

	"geogit/internal/geo"
	"geogit/internal/lexer"
	"geogit/internal/store"
)

// CommitKeyword closes the commit being parsed.
const CommitKeyword = "COMMIT"

// Parser turns script text into commits. It reads tokens lazily from a
// lexer cursor and never copies the source.
type Parser struct {
	cursor lexer.Cursor
}

func New(src string) *Parser {
	return &Parser{cursor: lexer.NewCursor(src)}
}

// ParseCommits parses a whole script. A trailing commit that is not closed
// by COMMIT is closed at end of input.
func ParseCommits(src string) ([]store.Commit, error) {
	p := New(src)
	var commits []store.Commit
	for {
		c, ok, err := p.NextCommit()
		if err != nil {
			return commits, err
		}
		if !ok {
			return commits, nil
		}
		commits = append(commits, c)
	}
}

// NextCommit gathers statements up to the next COMMIT keyword or end of
// input. ok is false once the input is exhausted.
func (p *Parser) NextCommit() (c store.Commit, ok bool, err error) {
	tok, err := p.peek()
	if err != nil {
		return c, false, err
	}
	if tok.Kind == lexer.EOF {
		return c, false, nil
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return c, false, err
		}
		switch {
		case tok.Kind == lexer.EOF:
			return c, true, nil
		case tok.Kind == lexer.Ident && strings.EqualFold(p.text(tok), CommitKeyword):
			_, _ = p.next()
			return c, true, nil
		}

		action, err := p.NextAction()
		if err != nil {
			return c, false, err
		}
		c.Add(action)
	}
}

// NextAction parses exactly one statement and consumes its terminating
// ';' when present.
func (p *Parser) NextAction() (store.Action, error) {
	kw, err := p.next()
	if err != nil {
		return store.Action{}, err
	}
	if kw.Kind != lexer.Ident {
		return store.Action{}, p.unexpected("", kw, "expected a statement keyword")
	}

	pos := posOf(kw)
	keyword := strings.ToUpper(p.text(kw))

	var action store.Action
	switch keyword {
	case "ADDRECT":
		action, err = p.addRect()
	case "UPDRECT":
		action, err = p.update(keyword, geo.KindRect)
	case "DELRECT":
		action, err = p.delete(keyword, geo.KindRect)
	case "ADDLINE":
		action, err = p.addLine()
	case "UPDLINE":
		action, err = p.update(keyword, geo.KindLine)
	case "DELLINE":
		action, err = p.delete(keyword, geo.KindLine)
	default:
		return store.Action{}, &SyntaxError{Pos: pos, Found: p.text(kw), Err: ErrUnknownStatement}
	}
	if err != nil {
		return store.Action{}, err
	}
	action.Pos = pos

	if err := p.terminator(keyword); err != nil {
		return store.Action{}, err
	}
	return action, nil
}

// ADDRECT name llx lly urx ury (g | r g b)
func (p *Parser) addRect() (store.Action, error) {
	const stmt = "ADDRECT"
	name, shape, err := p.nameAndShape(stmt, geo.KindRect)
	if err != nil {
		return store.Action{}, err
	}
	a := store.Action{Op: store.OpAdd, Target: geo.KindRect, Name: name, Geometry: shape}

	start, _ := p.peek()
	trailing, err := p.numbers(stmt, 3)
	if err != nil {
		return store.Action{}, err
	}
	switch len(trailing) {
	case 1:
		a.Gradient = &trailing[0]
	case 3:
		c := geo.ColorFromFloats(trailing[0], trailing[1], trailing[2])
		a.Color = &c
	default:
		return store.Action{}, &SyntaxError{
			Pos: posOf(start), Statement: stmt, Err: ErrArgumentCount,
			Detail: "expected a criticality value or an r g b triple",
		}
	}
	return a, nil
}

// ADDLINE name x1 y1 x2 y2
func (p *Parser) addLine() (store.Action, error) {
	name, shape, err := p.nameAndShape("ADDLINE", geo.KindLine)
	if err != nil {
		return store.Action{}, err
	}
	return store.Action{Op: store.OpAdd, Target: geo.KindLine, Name: name, Geometry: shape}, nil
}

// UPDRECT|UPDLINE name [x1 y1 x2 y2] [r g b]
//
// Literals are grouped greedily from the left: four make a geometry, the
// next three a color. A partial group changes nothing.
func (p *Parser) update(stmt string, kind geo.Kind) (store.Action, error) {
	name, err := p.name(stmt)
	if err != nil {
		return store.Action{}, err
	}
	a := store.Action{Op: store.OpModify, Target: kind, Name: name}

	literals, err := p.numbers(stmt, 7)
	if err != nil {
		return store.Action{}, err
	}
	if len(literals) >= 4 {
		a.Geometry = geo.NewShape(kind, literals[0], literals[1], literals[2], literals[3])
		literals = literals[4:]
	}
	if len(literals) >= 3 {
		c := geo.ColorFromFloats(literals[0], literals[1], literals[2])
		a.Color = &c
	}
	return a, nil
}

// DELRECT|DELLINE name
func (p *Parser) delete(stmt string, kind geo.Kind) (store.Action, error) {
	name, err := p.name(stmt)
	if err != nil {
		return store.Action{}, err
	}
	tok, err := p.peek()
	if err != nil {
		return store.Action{}, err
	}
	if tok.Kind != lexer.Semicolon && tok.Kind != lexer.EOF {
		return store.Action{}, &SyntaxError{Pos: posOf(tok), Statement: stmt, Found: p.text(tok), Err: ErrTrailingData}
	}
	return store.Action{Op: store.OpDelete, Target: kind, Name: name}, nil
}

func (p *Parser) nameAndShape(stmt string, kind geo.Kind) (string, geo.Shape, error) {
	name, err := p.name(stmt)
	if err != nil {
		return "", nil, err
	}
	var xy [4]float64
	for i := range xy {
		if xy[i], err = p.number(stmt); err != nil {
			return "", nil, err
		}
	}
	return name, geo.NewShape(kind, xy[0], xy[1], xy[2], xy[3]), nil
}

func (p *Parser) name(stmt string) (string, error) {
	tok, err := p.next()
	if err != nil {
		return "", err
	}
	if tok.Kind != lexer.Ident {
		return "", p.unexpected(stmt, tok, "expected a name")
	}
	return p.text(tok), nil
}

func (p *Parser) number(stmt string) (float64, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	if tok.Kind != lexer.Number {
		return 0, p.unexpected(stmt, tok, "expected a number")
	}
	return tok.Value, nil
}

// numbers collects the numeric literals before the statement terminator.
// More than limit literals is an argument count error.
func (p *Parser) numbers(stmt string, limit int) ([]float64, error) {
	var out []float64
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.Semicolon, lexer.EOF:
			return out, nil
		case lexer.Number:
			if len(out) == limit {
				return nil, &SyntaxError{Pos: posOf(tok), Statement: stmt, Found: p.text(tok), Err: ErrArgumentCount}
			}
			out = append(out, tok.Value)
			_, _ = p.next()
		default:
			return nil, p.unexpected(stmt, tok, "expected a number or ';'")
		}
	}
}

// terminator consumes the ';' closing a statement. End of input is accepted.
func (p *Parser) terminator(stmt string) error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case lexer.EOF:
		return nil
	case lexer.Semicolon:
		_, err = p.next()
		return err
	default:
		return p.unexpected(stmt, tok, "expected ';'")
	}
}

// text slices a token out of the source being parsed.
func (p *Parser) text(tok lexer.Token) string {
	return tok.Text(p.cursor.Source())
}

func (p *Parser) next() (lexer.Token, error) {
	return p.cursor.Next()
}

func (p *Parser) peek() (lexer.Token, error) {
	return p.cursor.Peek()
}

func (p *Parser) unexpected(stmt string, tok lexer.Token, detail string) error {
	found := p.text(tok)
	if tok.Kind == lexer.EOF {
		found = ""
		detail += ", found end of input"
	}
	return &SyntaxError{Pos: posOf(tok), Statement: stmt, Found: found, Err: ErrUnexpectedToken, Detail: detail}
}

func posOf(tok lexer.Token) store.Pos {
	return store.Pos{Offset: tok.Start, Line: tok.Line, Col: tok.Col}
}
