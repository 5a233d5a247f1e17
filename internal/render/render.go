// Package render prints snapshots and entity timelines for the terminal,
// as Markdown, or as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"geogit/internal/geo"
	"geogit/internal/store"
)

const swatch = "██"

var (
	colorBorder = lipgloss.Color("#16858E")
	colorHeader = lipgloss.Color("#2CD7C7")
	colorMuted  = lipgloss.Color("#2C4A54")
)

// Options controls terminal rendering.
type Options struct {
	// Color enables ANSI styling and color swatches.
	Color bool
}

// ColorEnabled resolves a color setting ("auto", "always", "never") for f.
func ColorEnabled(setting string, f *os.File) bool {
	switch strings.ToLower(strings.TrimSpace(setting)) {
	case "always":
		return true
	case "never":
		return false
	}
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type row struct {
	kind     geo.Kind
	name     string
	geometry geo.Shape
	color    *geo.Color
	desc     *string
}

func rows(snap *store.SlicedDb) []row {
	out := make([]row, 0, snap.Len())
	for _, name := range snap.RectNames() {
		r := snap.Rects[name]
		out = append(out, row{geo.KindRect, name, r.Geometry, r.Color, r.Desc})
	}
	for _, name := range snap.LineNames() {
		l := snap.Lines[name]
		out = append(out, row{geo.KindLine, name, l.Geometry, l.Color, l.Desc})
	}
	return out
}

func newRenderer(w io.Writer, opts Options) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if opts.Color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func newTable(r *lipgloss.Renderer, headers ...string) *table.Table {
	header := r.NewStyle().Bold(true).Foreground(colorHeader).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

func colorCell(r *lipgloss.Renderer, c *geo.Color, opts Options) string {
	if c == nil {
		return r.NewStyle().Foreground(colorMuted).Render("-")
	}
	if !opts.Color {
		return c.Hex()
	}
	return r.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(swatch) + " " + c.Hex()
}

func geometryCell(s geo.Shape) string {
	ll, ur := s.Points()
	return fmt.Sprintf("%v %v", ll, ur)
}

func descCell(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}

// Table writes snap as a bordered terminal table.
func Table(w io.Writer, snap *store.SlicedDb, opts Options) error {
	r := newRenderer(w, opts)
	title := r.NewStyle().Bold(true).Render(fmt.Sprintf("Version %d", snap.Version))
	if snap.Len() == 0 {
		_, err := fmt.Fprintf(w, "%s\n(empty)\n", title)
		return err
	}

	t := newTable(r, "KIND", "NAME", "GEOMETRY", "COLOR", "DESC")
	for _, e := range rows(snap) {
		t.Row(e.kind.String(), e.name, geometryCell(e.geometry), colorCell(r, e.color, opts), descCell(e.desc))
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", title, t.String())
	return err
}

// Markdown writes snap as a GitHub-flavored Markdown table.
func Markdown(w io.Writer, snap *store.SlicedDb) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## Version %d\n\n", snap.Version)
	if snap.Len() == 0 {
		b.WriteString("_No live entities._\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("| Kind | Name | Geometry | Color | Description |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, e := range rows(snap) {
		color := "-"
		if e.color != nil {
			color = "`" + e.color.Hex() + "`"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.kind, escapeCell(e.name), geometryCell(e.geometry), color, escapeCell(descCell(e.desc)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// JSON writes snap as an indented JSON document.
func JSON(w io.Writer, snap *store.SlicedDb) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// History writes one entity's timeline, oldest entry first.
func History(w io.Writer, kind geo.Kind, name string, records []store.Record, opts Options) error {
	r := newRenderer(w, opts)
	title := r.NewStyle().Bold(true).Render(fmt.Sprintf("%s %s", kind, name))

	t := newTable(r, "VERSION", "STATE", "GEOMETRY", "COLOR", "DESC")
	for _, rec := range records {
		if !rec.Live {
			t.Row(fmt.Sprint(rec.Version), "deleted", "", "", "")
			continue
		}
		t.Row(fmt.Sprint(rec.Version), "live", geometryCell(rec.Geometry), colorCell(r, rec.Color, opts), descCell(rec.Desc))
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", title, t.String())
	return err
}

// Log writes the per-version summary of a store.
func Log(w io.Writer, log []store.VersionInfo, opts Options) error {
	r := newRenderer(w, opts)
	t := newTable(r, "VERSION", "ACTIONS", "CHANGES")
	for _, vi := range log {
		t.Row(fmt.Sprint(vi.Version), fmt.Sprint(vi.Actions), fmt.Sprint(vi.Changes))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
