package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jcodify/blockreg/internal/logging"
	"github.com/jcodify/blockreg/internal/manifest"
	"go.yaml.in/yaml/v3"
)

// Index is a registrar that records every registered manifest as a
// BlockRecord. A block name may be registered once per Index.
type Index struct {
	buildRoot  string
	sourceRoot string
	records    []BlockRecord
	rejected   []Rejection
	byName     map[string]string // name -> manifest path
	logger     *log.Logger
	now        func() time.Time
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithLogger sets the logger that reports rejected manifests.
func WithLogger(l *log.Logger) IndexOption {
	return func(x *Index) {
		if l != nil {
			x.logger = l
		}
	}
}

// NewIndex returns an empty index for one registration pass. sourceRoot may
// be empty when the pass does not reconcile against a source tree.
func NewIndex(buildRoot, sourceRoot string, opts ...IndexOption) *Index {
	x := &Index{
		buildRoot:  buildRoot,
		sourceRoot: sourceRoot,
		byName:     make(map[string]string),
		logger:     logging.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Register parses the manifest at manifestPath and records it. A manifest
// that cannot be decoded, declares no name, or repeats a name already
// registered is rejected: it is logged and listed in Rejected, and the pass
// goes on. Only a manifest that cannot be read is an error.
func (x *Index) Register(manifestPath string) error {
	m, err := manifest.Parse(manifestPath)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return err
		}
		x.reject(manifestPath, err.Error())
		return nil
	}
	if m.Name == "" {
		x.reject(manifestPath, "manifest declares no name")
		return nil
	}
	if prev, ok := x.byName[m.Name]; ok {
		x.reject(manifestPath, fmt.Sprintf("block %q already registered from %s", m.Name, prev))
		return nil
	}

	dir := filepath.Dir(manifestPath)
	rec := BlockRecord{
		Name:         m.Name,
		Title:        m.Title,
		Category:     m.Category,
		Description:  m.Description,
		Version:      m.Version,
		APIVersion:   m.APIVersion,
		ManifestPath: manifestPath,
		Dir:          dir,
	}
	if info, err := os.Stat(dir); err == nil {
		rec.ModTime = info.ModTime().UTC()
	}

	x.byName[m.Name] = manifestPath
	x.records = append(x.records, rec)
	return nil
}

func (x *Index) reject(manifestPath, reason string) {
	x.logger.Warn("block manifest rejected", "path", manifestPath, "reason", reason)
	x.rejected = append(x.rejected, Rejection{ManifestPath: manifestPath, Reason: reason})
}

// Len returns the number of registered blocks.
func (x *Index) Len() int { return len(x.records) }

// Rejected returns the manifests declined so far, in registration order.
func (x *Index) Rejected() []Rejection {
	return append([]Rejection(nil), x.rejected...)
}

// Snapshot returns the index contents in registration order.
func (x *Index) Snapshot() BlockIndex {
	blocks := make([]BlockRecord, len(x.records))
	copy(blocks, x.records)
	return BlockIndex{
		GeneratedAt: x.now().UTC(),
		BuildRoot:   x.buildRoot,
		SourceRoot:  x.sourceRoot,
		Blocks:      blocks,
		Rejected:    x.Rejected(),
	}
}

// Write serializes the index to path, as YAML when the extension is .yaml or
// .yml and as JSON otherwise. Parent directories are created as needed.
func (x *Index) Write(path string) error {
	snap := x.Snapshot()

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(&snap)
	} else {
		data, err = json.MarshalIndent(&snap, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding block index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing block index %s: %w", path, err)
	}
	return nil
}

// Load reads an index written by Index.Write.
func Load(path string) (*BlockIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading block index %s: %w", path, err)
	}

	var idx BlockIndex
	if isYAML(path) {
		err = yaml.Unmarshal(data, &idx)
	} else {
		err = json.Unmarshal(data, &idx)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing block index %s: %w", path, err)
	}
	return &idx, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
