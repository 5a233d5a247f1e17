package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geogit/internal/geo"
)

func TestSlicedDb_CanonicalText(t *testing.T) {
	empty := &SlicedDb{Version: 0}
	assert.Equal(t, []string{"Version: 0", "(empty)"}, empty.CanonicalText())

	desc := "gate"
	s := &SlicedDb{
		Version: 3,
		Rects: map[string]RectInfo{
			"b": {Name: "b", Geometry: geo.Rect{UR: geo.Point{X: 1, Y: 1}}},
			"a": {Name: "a", Geometry: geo.Rect{UR: geo.Point{X: 2, Y: 2}}, Color: &geo.Color{R: 255, A: 7}, Desc: &desc},
		},
		Lines: map[string]LineInfo{
			"l": {Name: "l", Geometry: geo.Line{UR: geo.Point{X: 0.5, Y: 1}}},
		},
	}
	assert.Equal(t, []string{
		"Version: 3",
		"rect a: geometry (0, 0) (2, 2)",
		"rect a: color #ff0000 alpha 7",
		`rect a: desc "gate"`,
		"rect b: geometry (0, 0) (1, 1)",
		"line l: geometry (0, 0) (0.5, 1)",
	}, s.CanonicalText())
}

func TestSlicedDb_Diff(t *testing.T) {
	from := &SlicedDb{
		Version: 1,
		Rects:   map[string]RectInfo{"a": {Name: "a", Geometry: geo.Rect{UR: geo.Point{X: 1, Y: 1}}}},
	}
	to := &SlicedDb{
		Version: 2,
		Rects: map[string]RectInfo{
			"a": {Name: "a", Geometry: geo.Rect{UR: geo.Point{X: 1, Y: 1}}},
			"b": {Name: "b", Geometry: geo.Rect{UR: geo.Point{X: 3, Y: 3}}},
		},
	}

	want := "--- version 1\n" +
		"+++ version 2\n" +
		"@@ -1,2 +1,3 @@\n" +
		"-Version: 1\n" +
		"+Version: 2\n" +
		" rect a: geometry (0, 0) (1, 1)\n" +
		"+rect b: geometry (0, 0) (3, 3)\n"
	got, err := from.Diff(to)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	same, err := to.Diff(to)
	require.NoError(t, err)
	assert.Empty(t, same)
}
