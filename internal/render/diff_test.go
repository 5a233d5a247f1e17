package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geogit/internal/geo"
	"geogit/internal/store"
)

func TestStatAndDiff(t *testing.T) {
	from := &store.SlicedDb{
		Version: 1,
		Rects:   map[string]store.RectInfo{"A": {Name: "A", Geometry: geo.Rect{UR: geo.Point{X: 1, Y: 1}}}},
	}
	to := &store.SlicedDb{
		Version: 2,
		Rects:   map[string]store.RectInfo{"A": {Name: "A", Geometry: geo.Rect{UR: geo.Point{X: 2, Y: 2}}}},
	}
	unified, err := from.Diff(to)
	require.NoError(t, err)

	stat, err := Stat(unified)
	require.NoError(t, err)
	assert.Equal(t, DiffStat{Added: 2, Removed: 2}, stat)

	var buf bytes.Buffer
	require.NoError(t, Diff(&buf, unified, Options{}))
	out := buf.String()
	assert.Contains(t, out, "--- version 1")
	assert.Contains(t, out, "+rect A: geometry (0, 0) (2, 2)")
	assert.Contains(t, out, "2 insertion(s)(+), 2 deletion(s)(-)")
}

func TestDiff_NoDifferences(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Diff(&buf, "", Options{}))
	assert.Equal(t, "no differences\n", buf.String())
}
