package store

import (
	"errors"
	"fmt"

	"geogit/internal/geo"
)

// Op is the kind of edit an action performs.
type Op int

const (
	OpAdd Op = iota
	OpModify
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Pos locates the statement an action was parsed from. The zero value
// means the action was built programmatically.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

var (
	ErrEmptyName       = errors.New("entity name is empty")
	ErrUnknownTarget   = errors.New("unknown entity kind")
	ErrMissingGeometry = errors.New("add requires a geometry")
	ErrGeometryKind    = errors.New("geometry does not match the entity kind")
	ErrDeleteFields    = errors.New("delete carries no geometry, description or color")
)

// Action is one edit inside a commit. On Modify every optional field is a
// delta; nil means unchanged.
type Action struct {
	Op       Op
	Target   geo.Kind
	Name     string
	Geometry geo.Shape
	Desc     *string
	Color    *geo.Color
	Gradient *float64
	Pos      Pos
}

// Validate checks the structural constraints of the action's kind.
func (a Action) Validate() error {
	if a.Name == "" {
		return ErrEmptyName
	}
	if a.Target != geo.KindRect && a.Target != geo.KindLine {
		return fmt.Errorf("%w: %v", ErrUnknownTarget, a.Target)
	}
	if a.Geometry != nil && a.Geometry.Kind() != a.Target {
		return fmt.Errorf("%w: %v for %v", ErrGeometryKind, a.Geometry.Kind(), a.Target)
	}

	switch a.Op {
	case OpAdd:
		if a.Geometry == nil {
			return ErrMissingGeometry
		}
	case OpModify:
	case OpDelete:
		if a.Geometry != nil || a.Desc != nil || a.Color != nil || a.Gradient != nil {
			return ErrDeleteFields
		}
	default:
		return fmt.Errorf("unknown op %v", a.Op)
	}
	return nil
}

// Commit is an ordered batch of actions applied as one version.
type Commit struct {
	Actions []Action
}

func (c *Commit) Add(a Action) {
	c.Actions = append(c.Actions, a)
}

func (c Commit) Len() int {
	return len(c.Actions)
}
