package blocks

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeBlock creates root/rel/block.json declaring name. An empty name writes
// a manifest without a name field.
func writeBlock(t *testing.T, root, rel, name string) string {
	t.Helper()
	content := `{ "title": "Untitled" }`
	if name != "" {
		content = fmt.Sprintf("{\n\t\"apiVersion\": 3,\n\t\"name\": %q\n}\n", name)
	}
	return writeRaw(t, root, rel, content)
}

// writeRaw creates root/rel/block.json with the given content.
func writeRaw(t *testing.T, root, rel, content string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	path := filepath.Join(dir, "block.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// touch sets the access and modification time of path.
func touch(t *testing.T, path string, when time.Time) {
	t.Helper()
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("setting times on %s: %v", path, err)
	}
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s to be removed, but it exists", path)
	}
}

// recorder collects registered paths.
type recorder struct {
	paths []string
}

func (r *recorder) Register(path string) error {
	r.paths = append(r.paths, path)
	return nil
}

func newReconciler(t *testing.T, reg Registrar) *Reconciler {
	t.Helper()
	r, err := New(reg, Options{Ignore: []string{"**/node_modules"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
