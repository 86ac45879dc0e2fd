package registry

import "time"

// BlockRecord describes one registered block.
type BlockRecord struct {
	Name         string    `json:"name" yaml:"name"`
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	Category     string    `json:"category,omitempty" yaml:"category,omitempty"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	Version      string    `json:"version,omitempty" yaml:"version,omitempty"`
	APIVersion   int       `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	ManifestPath string    `json:"manifest_path" yaml:"manifest_path"`
	Dir          string    `json:"dir" yaml:"dir"`
	ModTime      time.Time `json:"mod_time" yaml:"mod_time"`
}

// BlockIndex is the on-disk form of a registration pass.
type BlockIndex struct {
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	BuildRoot   string        `json:"build_root" yaml:"build_root"`
	SourceRoot  string        `json:"source_root,omitempty" yaml:"source_root,omitempty"`
	Blocks      []BlockRecord `json:"blocks" yaml:"blocks"`
	Rejected    []Rejection   `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

// Rejection records a manifest the index declined to register.
type Rejection struct {
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`
	Reason       string `json:"reason" yaml:"reason"`
}

// Lookup returns the record registered under name.
func (idx *BlockIndex) Lookup(name string) (BlockRecord, bool) {
	for _, b := range idx.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return BlockRecord{}, false
}
