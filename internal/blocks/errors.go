package blocks

import (
	"errors"
	"fmt"
)

// ErrNoManifestsFound is returned when the build tree or the source tree
// holds no manifests. It usually means the configured roots are wrong.
var ErrNoManifestsFound = errors.New("no block manifests found")

// ReconciliationError reports a failure while scanning, deduplicating, or
// registering. Op names the failing step and Path the tree root or manifest
// involved.
type ReconciliationError struct {
	Op   string
	Path string
	Err  error
}

func (e *ReconciliationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("block reconciliation: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("block reconciliation: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

func noManifests(tree, root string) error {
	return fmt.Errorf("%w in %s tree %s", ErrNoManifestsFound, tree, root)
}
