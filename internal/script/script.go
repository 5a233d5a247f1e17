// Package script turns a geometry script into a populated versioned store.
package script

import (
	"fmt"

	"geogit/internal/palette"
	"geogit/internal/parser"
	"geogit/internal/store"
)

// ReplayError reports which commit of a script could not be applied.
// Commit is zero-based in source order.
type ReplayError struct {
	Commit int
	Err    error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("commit %d: %v", e.Commit, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}

// Parse parses the whole script and replays every commit, in order, into a
// new store. Nothing is applied when the script does not parse.
func Parse(src string, policy palette.Policy, opts ...store.Option) (*store.Db, error) {
	commits, err := parser.ParseCommits(src)
	if err != nil {
		return nil, err
	}
	db, err := store.New(policy, opts...)
	if err != nil {
		return nil, err
	}
	if err := Replay(db, commits); err != nil {
		return db, err
	}
	return db, nil
}

// Replay applies commits to db one version each, stopping at the first
// failure. The store keeps every version created before it.
func Replay(db *store.Db, commits []store.Commit) error {
	for i, c := range commits {
		if _, err := db.CreateVersion(c); err != nil {
			return &ReplayError{Commit: i, Err: err}
		}
	}
	return nil
}
