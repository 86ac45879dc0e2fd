package manifest

import (
	"testing"
)

func TestValidateFile_ValidManifests(t *testing.T) {
	for _, file := range []string{"valid-card.json", "valid-minimal.json"} {
		t.Run(file, func(t *testing.T) {
			result, err := ValidateFile(testPath(file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) error: %v", file, err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got invalid with %d issues:", len(result.Issues))
				for _, issue := range result.Issues {
					t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
			}
		})
	}
}

func TestValidateFile_InvalidManifests(t *testing.T) {
	tests := []struct {
		file    string
		keyword string
		path    string
	}{
		{"invalid-missing-name.json", "required", ""},
		{"invalid-bad-name-pattern.json", "pattern", "/name"},
		{"invalid-bad-version.json", "semver", "/version"},
		{"invalid-api-version.json", "type", "/apiVersion"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateFile(testPath(tt.file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Fatalf("expected invalid for %s, got valid", tt.file)
			}

			var found bool
			for _, issue := range result.Issues {
				if issue.Keyword == tt.keyword && issue.Path == tt.path {
					found = true
				}
				if issue.Message == "" {
					t.Errorf("issue %+v has empty message", issue)
				}
			}
			if !found {
				t.Errorf("no issue with keyword %q at %q in %+v", tt.keyword, tt.path, result.Issues)
			}
		})
	}
}

func TestValidateFile_Unparseable(t *testing.T) {
	if _, err := ValidateFile(testPath("invalid-truncated.json")); err == nil {
		t.Fatal("expected error for truncated JSON, got nil")
	}
}

func TestValidateFile_NotFound(t *testing.T) {
	if _, err := ValidateFile(testPath("nonexistent.json")); err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"", true},
		{"1.0.0", true},
		{"v2.3.4", true},
		{"1.0.0-beta.1", true},
		{"1.0", false},
		{"latest", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			issue := CheckVersion(tt.version)
			if got := issue == nil; got != tt.valid {
				t.Errorf("CheckVersion(%q) valid = %v, want %v (issue %+v)", tt.version, got, tt.valid, issue)
			}
		})
	}
}
