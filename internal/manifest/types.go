package manifest

import "strings"

// FileName is the default manifest file name inside a block directory.
const FileName = "block.json"

// BlockManifest represents the metadata a block directory declares in its
// block.json. Only Name takes part in reconciliation; the remaining fields are
// recorded in the block index.
type BlockManifest struct {
	Name         string   `yaml:"name" json:"name"`
	Title        string   `yaml:"title,omitempty" json:"title,omitempty"`
	Category     string   `yaml:"category,omitempty" json:"category,omitempty"`
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	Version      string   `yaml:"version,omitempty" json:"version,omitempty"`
	APIVersion   int      `yaml:"apiVersion,omitempty" json:"apiVersion,omitempty"`
	TextDomain   string   `yaml:"textdomain,omitempty" json:"textdomain,omitempty"`
	Parent       []string `yaml:"parent,omitempty" json:"parent,omitempty"`
	Keywords     []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	EditorScript Assets   `yaml:"editorScript,omitempty" json:"editorScript,omitempty"`
	Script       Assets   `yaml:"script,omitempty" json:"script,omitempty"`
	ViewScript   Assets   `yaml:"viewScript,omitempty" json:"viewScript,omitempty"`
	Style        Assets   `yaml:"style,omitempty" json:"style,omitempty"`
	EditorStyle  Assets   `yaml:"editorStyle,omitempty" json:"editorStyle,omitempty"`
	Render       string   `yaml:"render,omitempty" json:"render,omitempty"`
}

// Namespace returns the part of Name before the first slash, or "" when the
// name carries no namespace.
func (m *BlockManifest) Namespace() string {
	ns, _, found := strings.Cut(m.Name, "/")
	if !found {
		return ""
	}
	return ns
}
