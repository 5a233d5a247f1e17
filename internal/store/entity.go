package store

import "geogit/internal/geo"

// Geometry constrains the shapes an entity namespace can hold.
type Geometry interface {
	geo.Rect | geo.Line
	geo.Shape
}

// Info is the state of one named entity at some version.
type Info[S Geometry] struct {
	Name     string     `json:"name"`
	Geometry S          `json:"geometry"`
	Color    *geo.Color `json:"color,omitempty"`
	Desc     *string    `json:"desc,omitempty"`
}

type (
	RectInfo = Info[geo.Rect]
	LineInfo = Info[geo.Line]
)

// Clone returns a copy that shares no memory with i.
func (i Info[S]) Clone() Info[S] {
	out := i
	if i.Color != nil {
		c := *i.Color
		out.Color = &c
	}
	if i.Desc != nil {
		d := *i.Desc
		out.Desc = &d
	}
	return out
}

// Equal compares every field by value.
func (i Info[S]) Equal(o Info[S]) bool {
	return i.Name == o.Name &&
		i.Geometry == o.Geometry &&
		equalPtr(i.Color, o.Color) &&
		equalPtr(i.Desc, o.Desc)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
