package store

import (
	"errors"
	"fmt"

	"geogit/internal/geo"
)

var (
	ErrDuplicateAdd    = errors.New("entity is already live")
	ErrNotFound        = errors.New("entity does not exist")
	ErrAlreadyDeleted  = errors.New("entity is already deleted")
	ErrMissingGradient = errors.New("gradient policy requires a criticality value")
)

// CommitError reports the action that made CreateVersion fail. The Db is
// left at the version it had before the call.
type CommitError struct {
	Version VersionID // version the commit would have produced
	Index   int       // action index within the commit
	Op      Op
	Target  geo.Kind
	Name    string
	Pos     Pos
	Err     error
}

func (e *CommitError) Error() string {
	where := ""
	if e.Pos.IsValid() {
		where = " at " + e.Pos.String()
	}
	return fmt.Sprintf("version %d: action %d (%s %s %q)%s: %v",
		e.Version, e.Index, e.Op, e.Target, e.Name, where, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
