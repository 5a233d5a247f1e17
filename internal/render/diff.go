package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	godiff "github.com/sourcegraph/go-diff/diff"
)

var (
	colorAdded   = lipgloss.Color("42")
	colorRemoved = lipgloss.Color("196")
	colorHunk    = lipgloss.Color("39")
)

// DiffStat counts the lines a unified diff adds and removes.
type DiffStat struct {
	Added   int
	Removed int
}

func (s DiffStat) String() string {
	return fmt.Sprintf("%d insertion(s)(+), %d deletion(s)(-)", s.Added, s.Removed)
}

// Stat parses a single-file unified diff.
func Stat(unified string) (DiffStat, error) {
	fd, err := godiff.ParseFileDiff([]byte(unified))
	if err != nil {
		return DiffStat{}, fmt.Errorf("parse diff: %w", err)
	}
	var stat DiffStat
	for _, hunk := range fd.Hunks {
		for _, line := range strings.Split(string(hunk.Body), "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				stat.Added++
			case strings.HasPrefix(line, "-"):
				stat.Removed++
			}
		}
	}
	return stat, nil
}

// Diff writes a unified diff, coloring added and removed lines, followed
// by its stat line.
func Diff(w io.Writer, unified string, opts Options) error {
	if strings.TrimSpace(unified) == "" {
		_, err := io.WriteString(w, "no differences\n")
		return err
	}
	stat, err := Stat(unified)
	if err != nil {
		return err
	}

	r := newRenderer(w, opts)
	added := r.NewStyle().Foreground(colorAdded)
	removed := r.NewStyle().Foreground(colorRemoved)
	hunk := r.NewStyle().Foreground(colorHunk)
	header := r.NewStyle().Bold(true)

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			line = header.Render(line)
		case strings.HasPrefix(line, "@@"):
			line = hunk.Render(line)
		case strings.HasPrefix(line, "+"):
			line = added.Render(line)
		case strings.HasPrefix(line, "-"):
			line = removed.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s\n", stat)
	_, err = io.WriteString(w, b.String())
	return err
}
