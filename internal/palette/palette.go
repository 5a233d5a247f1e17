package palette

import (
	"errors"
	"fmt"
	"math"

	"geogit/internal/geo"
)

// Mode selects how an entity's color is derived.
type Mode int

const (
	// ModeRGB uses the color given explicitly by the action.
	ModeRGB Mode = iota
	// ModeGradient maps the action's criticality scalar through a Generator.
	ModeGradient
)

func (m Mode) String() string {
	switch m {
	case ModeRGB:
		return "rgb"
	case ModeGradient:
		return "gradient"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Generator maps a normalized value in [0, 1] to a color.
type Generator interface {
	At(t float64) geo.Color
}

// GeneratorFunc adapts a plain function to a Generator.
type GeneratorFunc func(t float64) geo.Color

func (f GeneratorFunc) At(t float64) geo.Color { return f(t) }

// Grayscale maps 0 to black and 1 to white.
var Grayscale = GeneratorFunc(func(t float64) geo.Color {
	v := uint8(t * math.MaxUint8)
	return geo.Color{R: v, G: v, B: v, A: math.MaxUint8}
})

var ErrInvalidGradient = errors.New("invalid gradient configuration")

// Policy is the color configuration of a store. The zero value is the RGB policy.
type Policy struct {
	Mode      Mode
	Min       float64
	Max       float64
	Generator Generator
}

func RGB() Policy {
	return Policy{Mode: ModeRGB}
}

// NewGradient returns a gradient policy over [min, max]. min must differ
// from max and gen must be non-nil.
func NewGradient(min, max float64, gen Generator) (Policy, error) {
	if gen == nil {
		return Policy{}, fmt.Errorf("%w: no generator", ErrInvalidGradient)
	}
	if min == max || math.IsNaN(min) || math.IsNaN(max) {
		return Policy{}, fmt.Errorf("%w: min (%g) and max (%g) must be distinct numbers", ErrInvalidGradient, min, max)
	}
	return Policy{Mode: ModeGradient, Min: min, Max: max, Generator: gen}, nil
}

// Validate reports configuration violations of a hand-built policy.
func (p Policy) Validate() error {
	if p.Mode != ModeGradient {
		return nil
	}
	_, err := NewGradient(p.Min, p.Max, p.Generator)
	return err
}

// Normalize maps v into [0, 1] relative to the policy's range.
func (p Policy) Normalize(v float64) float64 {
	return clamp01((v - p.Min) / (p.Max - p.Min))
}

// Resolve derives the stored color of an entity. Under RGB the explicit
// color is returned unchanged; under a gradient the scalar is normalized,
// clamped once and passed to the generator. A gradient without a scalar
// resolves to nil.
func Resolve(explicit *geo.Color, scalar *float64, p Policy) *geo.Color {
	switch p.Mode {
	case ModeGradient:
		if scalar == nil || p.Generator == nil {
			return nil
		}
		c := p.Generator.At(p.Normalize(*scalar))
		return &c
	default:
		if explicit == nil {
			return nil
		}
		c := *explicit
		return &c
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
