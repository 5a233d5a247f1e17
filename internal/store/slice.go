package store

import (
	"fmt"
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"geogit/internal/geo"
)

// SlicedDb is a read-only snapshot of all entities live at one version.
// It owns its data; mutating the Db afterwards never affects it.
type SlicedDb struct {
	Version VersionID           `json:"version"`
	Rects   map[string]RectInfo `json:"rects"`
	Lines   map[string]LineInfo `json:"lines"`
}

func (s *SlicedDb) Len() int {
	return len(s.Rects) + len(s.Lines)
}

func (s *SlicedDb) RectNames() []string {
	return sortedKeys(s.Rects)
}

func (s *SlicedDb) LineNames() []string {
	return sortedKeys(s.Lines)
}

// CanonicalText flattens the snapshot into deterministic lines suitable for
// diffing: one line per entity field, rects before lines, names sorted.
func (s *SlicedDb) CanonicalText() []string {
	lines := []string{fmt.Sprintf("Version: %d", s.Version)}
	for _, name := range s.RectNames() {
		lines = append(lines, rectLines(name, s.Rects[name])...)
	}
	for _, name := range s.LineNames() {
		lines = append(lines, lineLines(name, s.Lines[name])...)
	}
	if len(lines) == 1 {
		lines = append(lines, "(empty)")
	}
	return lines
}

func rectLines(name string, r RectInfo) []string {
	return entityLines(geo.KindRect, name, r.Geometry, r.Color, r.Desc)
}

func lineLines(name string, l LineInfo) []string {
	return entityLines(geo.KindLine, name, l.Geometry, l.Color, l.Desc)
}

func entityLines(kind geo.Kind, name string, shape geo.Shape, color *geo.Color, desc *string) []string {
	prefix := fmt.Sprintf("%s %s", kind, name)
	ll, ur := shape.Points()
	out := []string{fmt.Sprintf("%s: geometry %v %v", prefix, ll, ur)}
	if color != nil {
		out = append(out, fmt.Sprintf("%s: color %s alpha %d", prefix, color.Hex(), color.A))
	}
	if desc != nil {
		out = append(out, fmt.Sprintf("%s: desc %q", prefix, *desc))
	}
	return out
}

// Diff produces a unified diff from s to target over their canonical text.
// Identical snapshots give an empty diff.
func (s *SlicedDb) Diff(target *SlicedDb) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withNewlines(s.CanonicalText()),
		B:        withNewlines(target.CanonicalText()),
		FromFile: fmt.Sprintf("version %d", s.Version),
		ToFile:   fmt.Sprintf("version %d", target.Version),
		Context:  3,
	})
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
