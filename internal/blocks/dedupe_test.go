package blocks

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDeduplicateKeepsNewest(t *testing.T) {
	base := time.Now().Add(-time.Hour)

	tests := []struct {
		name       string
		aMod, bMod time.Time
		removed    string
		kept       string
	}{
		{"first seen is older", base, base.Add(time.Minute), "a", "b"},
		{"first seen is newer", base.Add(time.Minute), base, "b", "a"},
		{"equal times keep first seen", base, base, "b", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeBlock(t, root, "a", "jcodify/card")
			writeBlock(t, root, "b", "jcodify/card")
			touch(t, filepath.Join(root, "a"), tt.aMod)
			touch(t, filepath.Join(root, "b"), tt.bMod)

			r := newReconciler(t, &recorder{})
			removals, err := r.Deduplicate(root)
			if err != nil {
				t.Fatalf("Deduplicate: %v", err)
			}

			assertNotExists(t, filepath.Join(root, tt.removed))
			assertExists(t, filepath.Join(root, tt.kept, "block.json"))

			if len(removals) != 1 {
				t.Fatalf("removals = %+v, want 1", removals)
			}
			got := removals[0]
			if got.Name != "jcodify/card" || got.Dir != filepath.Join(root, tt.removed) || got.Kept != filepath.Join(root, tt.kept) {
				t.Errorf("removal = %+v", got)
			}

			res, err := r.Scan(root)
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(res.Entries) != 1 || res.Entries[0].RelDir != "/"+tt.kept {
				t.Errorf("entries after dedupe = %+v, want only /%s", res.Entries, tt.kept)
			}
		})
	}
}

func TestDeduplicateThreeCopies(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeBlock(t, root, "a", "jcodify/card")
	writeBlock(t, root, "b", "jcodify/card")
	writeBlock(t, root, "c", "jcodify/card")
	writeBlock(t, root, "d", "jcodify/other")
	touch(t, filepath.Join(root, "a"), base.Add(2*time.Minute))
	touch(t, filepath.Join(root, "b"), base.Add(3*time.Minute))
	touch(t, filepath.Join(root, "c"), base)

	r := newReconciler(t, &recorder{})
	removals, err := r.Deduplicate(root)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}

	if len(removals) != 2 {
		t.Fatalf("removals = %+v, want 2", removals)
	}
	assertNotExists(t, filepath.Join(root, "a"))
	assertExists(t, filepath.Join(root, "b", "block.json"))
	assertNotExists(t, filepath.Join(root, "c"))
	assertExists(t, filepath.Join(root, "d", "block.json"))
}

func TestDeduplicateSkipsUnparseableAndNameless(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeRaw(t, root, "broken-a", `{ "name": "jcodify/card", `)
	writeRaw(t, root, "broken-b", `{ "name": "jcodify/card", `)
	writeBlock(t, root, "nameless-a", "")
	writeBlock(t, root, "nameless-b", "")
	touch(t, filepath.Join(root, "broken-a"), base)
	touch(t, filepath.Join(root, "nameless-a"), base)

	r := newReconciler(t, &recorder{})
	removals, err := r.Deduplicate(root)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}
	if len(removals) != 0 {
		t.Errorf("removals = %+v, want none", removals)
	}

	res, err := r.Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Entries) != 4 {
		t.Errorf("entries = %d, want 4 (unparseable manifests stay discoverable)", len(res.Entries))
	}
}

func TestDeduplicateAncestorOfKeptLosesOnlyItsManifest(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeBlock(t, root, "outer", "jcodify/card")
	writeBlock(t, root, "outer/inner", "jcodify/card")
	touch(t, filepath.Join(root, "outer", "inner"), base.Add(time.Minute))
	touch(t, filepath.Join(root, "outer"), base)

	r := newReconciler(t, &recorder{})
	removals, err := r.Deduplicate(root)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}

	outerManifest := filepath.Join(root, "outer", "block.json")
	if len(removals) != 1 {
		t.Fatalf("removals = %+v, want 1", removals)
	}
	if got := removals[0]; got.Path != outerManifest || got.Dir != filepath.Join(root, "outer") || !got.ManifestOnly() {
		t.Errorf("removal = %+v, want only %s", got, outerManifest)
	}
	assertNotExists(t, outerManifest)
	assertExists(t, filepath.Join(root, "outer", "inner", "block.json"))

	res, err := r.Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Entries) != 1 || res.Entries[0].RelDir != "/outer/inner" {
		t.Errorf("entries after dedupe = %+v, want only /outer/inner", res.Entries)
	}
}

func TestDeduplicateDryRunDeletesNothing(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeBlock(t, root, "a", "jcodify/card")
	writeBlock(t, root, "b", "jcodify/card")
	writeBlock(t, root, "outer", "jcodify/hero")
	writeBlock(t, root, "outer/inner", "jcodify/hero")
	touch(t, filepath.Join(root, "a"), base)
	touch(t, filepath.Join(root, "b"), base.Add(time.Minute))
	touch(t, filepath.Join(root, "outer", "inner"), base.Add(time.Minute))
	touch(t, filepath.Join(root, "outer"), base)

	r, err := New(nil, Options{DryRun: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	removals, err := r.Deduplicate(root)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}

	if len(removals) != 2 {
		t.Fatalf("removals = %+v, want 2 planned", removals)
	}
	if removals[0].Path != filepath.Join(root, "a") {
		t.Errorf("removals[0].Path = %s, want %s", removals[0].Path, filepath.Join(root, "a"))
	}
	if removals[1].Path != filepath.Join(root, "outer", "block.json") {
		t.Errorf("removals[1].Path = %s, want the outer manifest", removals[1].Path)
	}
	for _, rel := range []string{"a", "b", "outer", "outer/inner"} {
		assertExists(t, filepath.Join(root, filepath.FromSlash(rel), "block.json"))
	}
}

func TestDeduplicateSkipsEntriesInsideRemovedDirectory(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeBlock(t, root, "a", "jcodify/card")
	writeBlock(t, root, "a/z", "jcodify/nested")
	writeBlock(t, root, "b", "jcodify/card")
	writeBlock(t, root, "c", "jcodify/nested")
	touch(t, filepath.Join(root, "a", "z"), base)
	touch(t, filepath.Join(root, "a"), base)
	touch(t, filepath.Join(root, "b"), base.Add(time.Minute))
	touch(t, filepath.Join(root, "c"), base)

	r := newReconciler(t, &recorder{})
	removals, err := r.Deduplicate(root)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}

	// a goes because b is newer; a/z went with it, so c has no rival left.
	if len(removals) != 1 || removals[0].Dir != filepath.Join(root, "a") {
		t.Errorf("removals = %+v, want only %s", removals, filepath.Join(root, "a"))
	}
	assertExists(t, filepath.Join(root, "c", "block.json"))
}

func TestDeduplicateMissingRoot(t *testing.T) {
	r := newReconciler(t, &recorder{})
	removals, err := r.Deduplicate(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}
	if len(removals) != 0 {
		t.Errorf("removals = %+v, want none", removals)
	}
}
