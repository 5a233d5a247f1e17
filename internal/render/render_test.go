package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geogit/internal/geo"
	"geogit/internal/store"
)

func ptr[T any](v T) *T { return &v }

func sample() *store.SlicedDb {
	return &store.SlicedDb{
		Version: 2,
		Rects: map[string]store.RectInfo{
			"B": {Name: "B", Geometry: geo.Rect{UR: geo.Point{X: 2, Y: 2}}, Color: &geo.Color{R: 255}},
			"A": {Name: "A", Geometry: geo.Rect{UR: geo.Point{X: 1, Y: 1}}, Desc: ptr("a|b")},
		},
		Lines: map[string]store.LineInfo{
			"L": {Name: "L", Geometry: geo.Line{UR: geo.Point{X: 3, Y: 4}}},
		},
	}
}

func TestTable_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sample(), Options{}))

	out := buf.String()
	assert.Contains(t, out, "Version 2")
	assert.Contains(t, out, "#ff0000")
	assert.Contains(t, out, "(0, 0) (3, 4)")
	assert.NotContains(t, out, swatch)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(" A ")), bytes.Index(buf.Bytes(), []byte(" B ")))
}

func TestTable_ColorSwatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sample(), Options{Color: true}))
	assert.Contains(t, buf.String(), swatch)
}

func TestTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, &store.SlicedDb{Version: 0}, Options{}))
	assert.Equal(t, "Version 0\n(empty)\n", buf.String())
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, sample()))

	want := "## Version 2\n\n" +
		"| Kind | Name | Geometry | Color | Description |\n" +
		"|---|---|---|---|---|\n" +
		"| rect | A | (0, 0) (1, 1) | - | a\\|b |\n" +
		"| rect | B | (0, 0) (2, 2) | `#ff0000` |  |\n" +
		"| line | L | (0, 0) (3, 4) | - |  |\n"
	assert.Equal(t, want, buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sample()))

	var got store.SlicedDb
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, store.VersionID(2), got.Version)
	assert.Len(t, got.Rects, 2)
	assert.Equal(t, geo.Point{X: 3, Y: 4}, got.Lines["L"].Geometry.UR)
}

func TestHistoryAndLog(t *testing.T) {
	records := []store.Record{
		{Version: 1, Live: true, Geometry: geo.Rect{UR: geo.Point{X: 1, Y: 1}}, Color: &geo.Color{G: 255}},
		{Version: 3},
	}
	var buf bytes.Buffer
	require.NoError(t, History(&buf, geo.KindRect, "A", records, Options{}))
	out := buf.String()
	assert.Contains(t, out, "rect A")
	assert.Contains(t, out, "#00ff00")
	assert.Contains(t, out, "deleted")

	buf.Reset()
	require.NoError(t, Log(&buf, []store.VersionInfo{{Version: 1, Actions: 2, Changes: 1}}, Options{}))
	assert.Contains(t, buf.String(), "VERSION")
}

func TestColorEnabled(t *testing.T) {
	assert.True(t, ColorEnabled("always", nil))
	assert.False(t, ColorEnabled("never", nil))
	assert.False(t, ColorEnabled("auto", nil))
}
