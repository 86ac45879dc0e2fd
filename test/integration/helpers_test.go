//go:build integration

package integration_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testEnv holds paths to an isolated project layout.
type testEnv struct {
	HomeDir   string // BLOCKREG_HOME, holds config.yaml
	BaseDir   string // project base directory
	BuildRoot string // BaseDir/blocks/build
	SrcRoot   string // BaseDir/blocks/src
}

// setupTestEnv creates isolated temp directories and points BLOCKREG_HOME at
// one of them so no user configuration leaks into the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	base := t.TempDir()
	env := &testEnv{
		HomeDir:   t.TempDir(),
		BaseDir:   base,
		BuildRoot: filepath.Join(base, "blocks", "build"),
		SrcRoot:   filepath.Join(base, "blocks", "src"),
	}
	t.Setenv("BLOCKREG_HOME", env.HomeDir)

	for _, dir := range []string{env.BuildRoot, env.SrcRoot} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}
	return env
}

// setupPlugin lays out a small plugin: three blocks in both trees, one
// build-only leftover, and a node_modules manifest that must be ignored.
func setupPlugin(t *testing.T, env *testEnv) {
	t.Helper()

	for _, b := range []struct{ rel, name string }{
		{"card", "jcodify/card"},
		{"hero", "jcodify/hero"},
		{"layout/columns", "jcodify/columns"},
	} {
		writeManifest(t, env.SrcRoot, b.rel, b.name, "1.0.0")
		writeManifest(t, env.BuildRoot, b.rel, b.name, "1.0.0")
		writeFile(t, filepath.Join(env.BuildRoot, filepath.FromSlash(b.rel), "index.js"), "// built\n")
	}

	writeManifest(t, env.BuildRoot, "legacy-banner", "jcodify/legacy-banner", "0.9.0")
	writeManifest(t, env.SrcRoot, "node_modules/vendor/block", "vendor/block", "2.0.0")
}

// writeManifest creates root/<rel>/block.json declaring name and version.
func writeManifest(t *testing.T, root, rel, name, version string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel), "block.json")
	content := fmt.Sprintf(`{
	"$schema": "https://schemas.wp.org/trunk/block.json",
	"apiVersion": 3,
	"name": %q,
	"title": %q,
	"category": "widgets",
	"version": %q,
	"editorScript": "file:./index.js"
}
`, name, filepath.Base(rel), version)
	writeFile(t, path, content)
	return path
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// age sets the modification time of path to d in the past.
func age(t *testing.T, path string, d time.Duration) {
	t.Helper()
	when := time.Now().Add(-d)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("setting times on %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
