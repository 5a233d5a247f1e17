package geo

import (
	"fmt"
	"math"
)

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Hex renders the color as #rrggbb. Alpha is not part of the output.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

// ColorFromFloats converts script literals into a color. Each channel is
// clamped to 0..255 and truncated; alpha is left at zero.
func ColorFromFloats(r, g, b float64) Color {
	return Color{R: channel(r), G: channel(g), B: channel(b)}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}
