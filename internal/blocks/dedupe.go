package blocks

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jcodify/blockreg/internal/manifest"
)

// Removal records a build directory deleted because a newer directory
// declares the same block name.
type Removal struct {
	Name string // declared block name
	Dir  string // directory holding the older manifest
	Path string // what was removed: Dir, or only its manifest when Dir holds Kept
	Kept string // directory that still declares Name
}

// ManifestOnly reports whether only the older manifest file was removed
// because its directory contains the kept copy.
func (rm Removal) ManifestOnly() bool { return rm.Path != rm.Dir }

// covers reports whether e is gone after rm.
func (rm Removal) covers(e ManifestEntry) bool {
	if rm.ManifestOnly() {
		return e.Path == rm.Path
	}
	return contains(rm.Dir, e.Dir)
}

// Deduplicate removes older build directories that declare the same block
// name as a newer one, so at most one manifest per name remains under
// buildRoot. Manifests that cannot be decoded or declare no name are left in
// place. Directory mtimes decide which copy is older; on a tie the directory
// seen first in walk order is kept. When the older directory contains the
// kept one only its manifest file is removed. Removal failures are logged and
// skipped. In dry-run mode the removals are reported but nothing is deleted.
// The returned error is always a scan failure.
func (r *Reconciler) Deduplicate(buildRoot string) ([]Removal, error) {
	res, err := r.scanner.Scan(buildRoot)
	if err != nil {
		return nil, err
	}

	var (
		kept     = make(map[string]ManifestEntry) // name -> kept manifest
		removals []Removal
	)

	for _, e := range res.Entries {
		if removedBy(e, removals) {
			continue
		}

		name, ok := manifest.DeclaredName(e.Path)
		if !ok {
			r.logger.Debug("manifest has no usable name, skipping dedupe", "path", e.Path)
			continue
		}

		prev, seen := kept[name]
		if !seen {
			kept[name] = e
			continue
		}

		prevMod, prevErr := modTime(prev.Dir)
		if prevErr != nil {
			// The earlier directory went away in this pass.
			kept[name] = e
			continue
		}
		curMod, curErr := modTime(e.Dir)
		if curErr != nil {
			continue
		}

		older, newer := e, prev
		if prevMod.Before(curMod) {
			older, newer = prev, e
		}
		kept[name] = newer

		rm := Removal{Name: name, Dir: older.Dir, Path: older.Dir, Kept: newer.Dir}
		if contains(older.Dir, newer.Dir) {
			rm.Path = older.Path
		}

		if r.dryRun {
			r.logger.Info("would remove duplicate block", "name", name, "path", rm.Path, "kept", rm.Kept)
		} else {
			if err := os.RemoveAll(rm.Path); err != nil {
				r.logger.Warn("removing duplicate block failed",
					"name", name, "path", rm.Path, "error", err)
				continue
			}
			r.logger.Info("removed duplicate block", "name", name, "path", rm.Path, "kept", rm.Kept)
		}
		removals = append(removals, rm)
	}

	return removals, nil
}

func modTime(dir string) (time.Time, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// contains reports whether child is parent or lies below it.
func contains(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func removedBy(e ManifestEntry, removals []Removal) bool {
	for _, rm := range removals {
		if rm.covers(e) {
			return true
		}
	}
	return false
}
