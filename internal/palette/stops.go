package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"geogit/internal/geo"
)

// Blend selects the color space stops are interpolated in.
type Blend string

const (
	BlendLab Blend = "lab"
	BlendRGB Blend = "rgb"
	BlendHcl Blend = "hcl"
)

// DefaultStops runs from green (low criticality) to red.
var DefaultStops = []string{"#1a9850", "#fee08b", "#d73027"}

// Stops is a piecewise gradient through evenly spaced color stops.
type Stops struct {
	colors []colorful.Color
	blend  Blend
}

// NewStops parses hex stops ("#rrggbb" or "#rgb").
func NewStops(hex []string, blend Blend) (*Stops, error) {
	if len(hex) == 0 {
		return nil, fmt.Errorf("%w: no gradient stops", ErrInvalidGradient)
	}
	switch Blend(strings.ToLower(string(blend))) {
	case "", BlendLab:
		blend = BlendLab
	case BlendRGB:
		blend = BlendRGB
	case BlendHcl:
		blend = BlendHcl
	default:
		return nil, fmt.Errorf("%w: unknown blend %q", ErrInvalidGradient, blend)
	}

	colors := make([]colorful.Color, 0, len(hex))
	for _, h := range hex {
		c, err := colorful.Hex(strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("%w: stop %q: %v", ErrInvalidGradient, h, err)
		}
		colors = append(colors, c)
	}
	return &Stops{colors: colors, blend: blend}, nil
}

// At returns the color at t, which is clamped to [0, 1].
func (s *Stops) At(t float64) geo.Color {
	t = clamp01(t)
	if len(s.colors) == 1 {
		return toColor(s.colors[0])
	}

	segments := len(s.colors) - 1
	pos := t * float64(segments)
	i := int(pos)
	if i >= segments {
		i = segments - 1
	}
	local := pos - float64(i)

	a, b := s.colors[i], s.colors[i+1]
	var c colorful.Color
	switch s.blend {
	case BlendRGB:
		c = a.BlendRgb(b, local)
	case BlendHcl:
		c = a.BlendHcl(b, local)
	default:
		c = a.BlendLab(b, local)
	}
	return toColor(c.Clamped())
}

func toColor(c colorful.Color) geo.Color {
	r, g, b := c.RGB255()
	return geo.Color{R: r, G: g, B: b, A: math.MaxUint8}
}
