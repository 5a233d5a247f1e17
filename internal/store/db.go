package store

import (
	"io"
	"log/slog"
	"sort"

	"geogit/internal/geo"
	"geogit/internal/palette"
)

// VersionInfo summarizes what one commit did.
type VersionInfo struct {
	Version VersionID `json:"version"`
	Actions int       `json:"actions"`
	Changes int       `json:"changes"` // history entries written
}

// Db is the versioned store: one timeline per named entity, kept
// separately for rects and lines. It is not safe for concurrent use;
// snapshots returned by Slice are independent and may be shared.
type Db struct {
	version VersionID
	rects   *namespace[geo.Rect]
	lines   *namespace[geo.Line]
	policy  palette.Policy
	log     []VersionInfo
	logger  *slog.Logger
}

type Option func(*Db)

// WithLogger sets the logger used for debug records. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(db *Db) {
		if l != nil {
			db.logger = l
		}
	}
}

// New creates an empty store at Genesis using the given color policy.
func New(policy palette.Policy, opts ...Option) (*Db, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	db := &Db{
		version: Genesis,
		rects:   newNamespace[geo.Rect](geo.KindRect),
		lines:   newNamespace[geo.Line](geo.KindLine),
		policy:  policy,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Version returns the current (latest) version.
func (db *Db) Version() VersionID {
	return db.version
}

func (db *Db) Policy() palette.Policy {
	return db.policy
}

// Log returns one summary per created version, oldest first.
func (db *Db) Log() []VersionInfo {
	out := make([]VersionInfo, len(db.log))
	copy(out, db.log)
	return out
}

// CreateVersion applies a commit as the next version. Rect actions are
// applied first, then line actions, each in commit order. On failure the
// Db is rolled back to its previous version and a *CommitError is returned.
func (db *Db) CreateVersion(c Commit) (VersionID, error) {
	v := db.version.Next()

	for i, a := range c.Actions {
		if err := a.Validate(); err != nil {
			return db.version, db.fail(v, i, a, err)
		}
	}

	changes := 0
	for _, kind := range []geo.Kind{geo.KindRect, geo.KindLine} {
		for i, a := range c.Actions {
			if a.Target != kind {
				continue
			}
			var (
				changed bool
				err     error
			)
			if kind == geo.KindRect {
				changed, err = db.rects.apply(a, v, db.policy)
			} else {
				changed, err = db.lines.apply(a, v, db.policy)
			}
			if err != nil {
				db.rects.truncate(v)
				db.lines.truncate(v)
				return db.version, db.fail(v, i, a, err)
			}
			if changed {
				changes++
			}
		}
	}

	db.version = v
	db.log = append(db.log, VersionInfo{Version: v, Actions: len(c.Actions), Changes: changes})
	db.logger.Debug("version created", "version", v, "actions", len(c.Actions), "changes", changes)
	return v, nil
}

func (db *Db) fail(v VersionID, i int, a Action, err error) error {
	db.logger.Debug("commit rejected", "version", v, "index", i, "op", a.Op, "name", a.Name, "error", err)
	return &CommitError{Version: v, Index: i, Op: a.Op, Target: a.Target, Name: a.Name, Pos: a.Pos, Err: err}
}

// Slice materializes every entity live at v. The result shares no memory
// with the Db.
func (db *Db) Slice(v VersionID) *SlicedDb {
	return &SlicedDb{
		Version: v,
		Rects:   db.rects.slice(v),
		Lines:   db.lines.slice(v),
	}
}

// Latest is Slice at the current version.
func (db *Db) Latest() *SlicedDb {
	return db.Slice(db.version)
}

// RectHistory returns a copy of a rect's timeline.
func (db *Db) RectHistory(name string) (*History[RectInfo], bool) {
	return db.rects.history(name)
}

// LineHistory returns a copy of a line's timeline.
func (db *Db) LineHistory(name string) (*History[LineInfo], bool) {
	return db.lines.history(name)
}

// Names lists every entity of the given kind that ever existed, sorted.
func (db *Db) Names(kind geo.Kind) []string {
	if kind == geo.KindLine {
		return db.lines.names()
	}
	return db.rects.names()
}

// Record is a kind-independent view of one timeline entry.
type Record struct {
	Version  VersionID
	Live     bool
	Geometry geo.Shape
	Color    *geo.Color
	Desc     *string
}

// Timeline returns the entries of one entity regardless of its kind.
func (db *Db) Timeline(kind geo.Kind, name string) ([]Record, bool) {
	if kind == geo.KindLine {
		return db.lines.records(name)
	}
	return db.rects.records(name)
}

// namespace holds the timelines of one entity kind.
type namespace[S Geometry] struct {
	kind     geo.Kind
	entities map[string]*History[Info[S]]
}

func newNamespace[S Geometry](kind geo.Kind) *namespace[S] {
	return &namespace[S]{kind: kind, entities: make(map[string]*History[Info[S]])}
}

// apply runs one action at version v and reports whether a history entry
// was written.
func (ns *namespace[S]) apply(a Action, v VersionID, policy palette.Policy) (bool, error) {
	h, exists := ns.entities[a.Name]

	switch a.Op {
	case OpAdd:
		if exists {
			if _, live := h.At(v); live {
				return false, ErrDuplicateAdd
			}
		}
		if policy.Mode == palette.ModeGradient && a.Gradient == nil && ns.kind == geo.KindRect {
			return false, ErrMissingGradient
		}
		info := Info[S]{
			Name:     a.Name,
			Geometry: a.Geometry.(S),
			Color:    palette.Resolve(a.Color, a.Gradient, policy),
			Desc:     clonePtr(a.Desc),
		}
		if !exists {
			ns.entities[a.Name] = NewHistory(v, info)
			return true, nil
		}
		return true, h.Record(v, info)

	case OpModify:
		if !exists {
			return false, ErrNotFound
		}
		cur, live := h.At(v)
		if !live {
			return false, ErrNotFound
		}
		next, changed := modify(cur, a, policy)
		if !changed {
			return false, nil
		}
		return true, h.Record(v, next)

	case OpDelete:
		if !exists {
			return false, ErrNotFound
		}
		if _, live := h.At(v); !live {
			return false, ErrAlreadyDeleted
		}
		if h.Len() == 1 && h.entries[0].Version == v {
			// Created by this commit: the entity was never visible.
			delete(ns.entities, a.Name)
			return true, nil
		}
		return true, h.Tombstone(v)
	}
	return false, nil
}

// modify applies the supplied deltas of a to cur, field by field.
func modify[S Geometry](cur Info[S], a Action, policy palette.Policy) (Info[S], bool) {
	next := cur.Clone()
	changed := false

	if a.Desc != nil && !equalPtr(cur.Desc, a.Desc) {
		next.Desc = clonePtr(a.Desc)
		changed = true
	}
	// An explicit color is a raw delta; only a scalar goes through the policy.
	color := clonePtr(a.Color)
	if a.Gradient != nil {
		color = palette.Resolve(a.Color, a.Gradient, policy)
	}
	if color != nil && !equalPtr(cur.Color, color) {
		next.Color = color
		changed = true
	}
	if a.Geometry != nil {
		if g := a.Geometry.(S); g != cur.Geometry {
			next.Geometry = g
			changed = true
		}
	}
	return next, changed
}

// truncate removes everything written at or after v, dropping timelines
// that v created.
func (ns *namespace[S]) truncate(v VersionID) {
	for name, h := range ns.entities {
		h.truncate(v)
		if h.Len() == 0 {
			delete(ns.entities, name)
		}
	}
}

func (ns *namespace[S]) slice(v VersionID) map[string]Info[S] {
	out := make(map[string]Info[S])
	for name, h := range ns.entities {
		if info, ok := h.At(v); ok {
			out[name] = info.Clone()
		}
	}
	return out
}

func (ns *namespace[S]) history(name string) (*History[Info[S]], bool) {
	h, ok := ns.entities[name]
	if !ok {
		return nil, false
	}
	entries := h.Entries()
	for i := range entries {
		entries[i].Value = entries[i].Value.Clone()
	}
	return &History[Info[S]]{entries: entries}, true
}

func (ns *namespace[S]) records(name string) ([]Record, bool) {
	h, ok := ns.entities[name]
	if !ok {
		return nil, false
	}
	out := make([]Record, 0, h.Len())
	for _, e := range h.entries {
		r := Record{Version: e.Version, Live: e.Live}
		if e.Live {
			info := e.Value.Clone()
			r.Geometry, r.Color, r.Desc = info.Geometry, info.Color, info.Desc
		}
		out = append(out, r)
	}
	return out, true
}

func (ns *namespace[S]) names() []string {
	out := make([]string, 0, len(ns.entities))
	for name := range ns.entities {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
