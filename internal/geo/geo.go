package geo

import "fmt"

// Kind selects the namespace an entity lives in.
// A rect and a line may share a name without conflict.
type Kind int

const (
	KindRect Kind = iota
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Shape is the geometry carried by an entity. It is implemented only by
// Rect and Line; a nil Shape means no geometry was supplied.
type Shape interface {
	Kind() Kind
	Points() (Point, Point)
	isShape()
}

// Rect is an axis-aligned rectangle given by its lower-left and upper-right corners.
type Rect struct {
	LL Point `json:"ll"`
	UR Point `json:"ur"`
}

func (Rect) Kind() Kind { return KindRect }
func (r Rect) Points() (Point, Point) { return r.LL, r.UR }
func (Rect) isShape() {}
func (r Rect) Width() float64 { return r.UR.X - r.LL.X }
func (r Rect) Height() float64 { return r.UR.Y - r.LL.Y }
func (r Rect) String() string { return fmt.Sprintf("rect%v-%v", r.LL, r.UR) }

// Line is a segment between two endpoints.
type Line struct {
	LL Point `json:"ll"`
	UR Point `json:"ur"`
}

func (Line) Kind() Kind { return KindLine }
func (l Line) Points() (Point, Point) { return l.LL, l.UR }
func (Line) isShape() {}
func (l Line) String() string { return fmt.Sprintf("line%v-%v", l.LL, l.UR) }

// NewShape builds the shape of the given kind from four coordinates.
func NewShape(kind Kind, x1, y1, x2, y2 float64) Shape {
	ll, ur := Point{X: x1, Y: y1}, Point{X: x2, Y: y2}
	if kind == KindLine {
		return Line{LL: ll, UR: ur}
	}
	return Rect{LL: ll, UR: ur}
}
