package store

import (
	"errors"
	"fmt"
	"sort"
)

// VersionID identifies a point in the store's history. Versions are
// assigned by the Db, one per applied commit, starting after Genesis.
type VersionID uint32

// Genesis is the empty version every Db starts at.
const Genesis VersionID = 0

func (v VersionID) Next() VersionID {
	return v + 1
}

var ErrStaleVersion = errors.New("version precedes the last recorded entry")

// Entry is one recorded state of an entity. Live is false for a tombstone.
type Entry[T any] struct {
	Version VersionID
	Value   T
	Live    bool
}

// History is the timeline of a single entity: an append-only list of
// entries ordered by version. A later write at the same version replaces
// the earlier one.
type History[T any] struct {
	entries []Entry[T]
}

// NewHistory starts a timeline with its creation event.
func NewHistory[T any](created VersionID, value T) *History[T] {
	return &History[T]{entries: []Entry[T]{{Version: created, Value: value, Live: true}}}
}

func (h *History[T]) Record(v VersionID, value T) error {
	return h.put(Entry[T]{Version: v, Value: value, Live: true})
}

func (h *History[T]) Tombstone(v VersionID) error {
	var zero T
	return h.put(Entry[T]{Version: v, Value: zero})
}

func (h *History[T]) put(e Entry[T]) error {
	n := len(h.entries)
	if n > 0 {
		last := h.entries[n-1].Version
		switch {
		case e.Version == last:
			h.entries[n-1] = e
			return nil
		case e.Version < last:
			return fmt.Errorf("%w: %d < %d", ErrStaleVersion, e.Version, last)
		}
	}
	h.entries = append(h.entries, e)
	return nil
}

// At returns the state in effect at v: the value of the entry with the
// greatest version <= v. ok is false when the entity did not exist yet or
// was deleted.
func (h *History[T]) At(v VersionID) (value T, ok bool) {
	e, found := h.Lookup(v)
	if !found || !e.Live {
		return value, false
	}
	return e.Value, true
}

// Lookup returns the entry in effect at v, tombstones included.
func (h *History[T]) Lookup(v VersionID) (Entry[T], bool) {
	i := sort.Search(len(h.entries), func(i int) bool {
		return h.entries[i].Version > v
	})
	if i == 0 {
		return Entry[T]{}, false
	}
	return h.entries[i-1], true
}

func (h *History[T]) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the recorded entries in version order.
func (h *History[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(h.entries))
	copy(out, h.entries)
	return out
}

// Versions lists the versions at which the entity changed.
func (h *History[T]) Versions() []VersionID {
	out := make([]VersionID, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Version
	}
	return out
}

// truncate drops every entry recorded at or after v.
func (h *History[T]) truncate(v VersionID) {
	i := sort.Search(len(h.entries), func(i int) bool {
		return h.entries[i].Version >= v
	})
	h.entries = h.entries[:i]
}
