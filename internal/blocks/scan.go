package blocks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jcodify/blockreg/internal/manifest"
)

// ManifestEntry is one manifest file found during a scan.
type ManifestEntry struct {
	Path   string // absolute path to the manifest file
	Dir    string // absolute path to the directory holding it
	RelDir string // Dir relative to the scan root, see RelKey
}

// ScanResult holds the manifests found under one root, in walk order.
type ScanResult struct {
	Root    string
	Entries []ManifestEntry
	RelDirs map[string]struct{}
}

// Empty reports whether the scan found no manifests.
func (r *ScanResult) Empty() bool {
	return r == nil || len(r.Entries) == 0
}

// Has reports whether relDir is one of the scanned relative directories.
func (r *ScanResult) Has(relDir string) bool {
	if r == nil {
		return false
	}
	_, ok := r.RelDirs[relDir]
	return ok
}

// Paths returns the manifest paths in walk order.
func (r *ScanResult) Paths() []string {
	if r == nil {
		return nil
	}
	paths := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		paths = append(paths, e.Path)
	}
	return paths
}

func (r *ScanResult) add(e ManifestEntry) {
	r.Entries = append(r.Entries, e)
	r.RelDirs[e.RelDir] = struct{}{}
}

// Scanner finds manifest files by exact file name under a directory tree.
type Scanner struct {
	manifestFile string
	ignore       []string
}

// NewScanner returns a scanner matching manifestFile (block.json when empty)
// that skips directories matching any of the doublestar ignore globs. Globs are
// matched against slash-separated paths relative to the scan root.
func NewScanner(manifestFile string, ignore []string) (*Scanner, error) {
	if manifestFile == "" {
		manifestFile = manifest.FileName
	}
	for _, pat := range ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pat)
		}
	}
	return &Scanner{
		manifestFile: manifestFile,
		ignore:       append([]string(nil), ignore...),
	}, nil
}

// ManifestFile returns the file name the scanner matches.
func (s *Scanner) ManifestFile() string { return s.manifestFile }

// Scan walks root recursively and returns every manifest file below it. A
// root that does not exist yields an empty result. Walk order is lexical, so
// repeated scans of an unchanged tree return the same entries in the same
// order.
func (s *Scanner) Scan(root string) (*ScanResult, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	root = filepath.Clean(abs)

	result := &ScanResult{
		Root:    root,
		RelDirs: make(map[string]struct{}),
	}

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Entries removed while walking are not failures.
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}

		if d.IsDir() {
			if path != root && s.ignored(root, path) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != s.manifestFile || !isFile(path, d) {
			return nil
		}

		dir := filepath.Dir(path)
		result.add(ManifestEntry{
			Path:   path,
			Dir:    dir,
			RelDir: RelKey(root, dir),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return result, nil
}

// RelKey returns the reconciliation key of dir below root: a slash-separated
// path with a leading "/". The root itself maps to "/". Both arguments are
// expected to be clean absolute paths.
func RelKey(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

func (s *Scanner) ignored(root, path string) bool {
	if len(s.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range s.ignore {
		if matched, matchErr := doublestar.Match(pat, rel); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// isFile reports whether d is a regular file, following symlinks.
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
