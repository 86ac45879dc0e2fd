package manifest

import (
	"bytes"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse reads a manifest file and returns the decoded block manifest.
// block.json is JSON, which the YAML decoder reads as a flow document.
func Parse(path string) (*BlockManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// ParseBytes decodes manifest content. Empty input is an error.
func ParseBytes(data []byte) (*BlockManifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("manifest is empty")
	}
	var m BlockManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeclaredName returns the manifest's name field. ok is false when the file
// cannot be read or decoded, or declares no name.
func DeclaredName(path string) (name string, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", false
	}

	name, isString := raw["name"].(string)
	if !isString || name == "" {
		return "", false
	}
	return name, true
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
