package blocks

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jcodify/blockreg/internal/logging"
)

// Registrar receives the manifests that survive reconciliation.
type Registrar interface {
	Register(manifestPath string) error
}

// RegistrarFunc adapts a function to the Registrar interface.
type RegistrarFunc func(manifestPath string) error

// Register calls f(manifestPath).
func (f RegistrarFunc) Register(manifestPath string) error { return f(manifestPath) }

// Options configure a Reconciler.
type Options struct {
	ManifestFile string      // manifest file name, block.json when empty
	Ignore       []string    // doublestar globs of directories to skip
	Logger       *log.Logger // nil discards log output

	// DryRun makes Deduplicate report removals without deleting anything.
	// Register* then skip the manifests a real run would have removed.
	DryRun bool
}

// Report describes one successful registration pass.
type Report struct {
	Registered []string  // manifest paths handed to the registrar, in order
	Skipped    []string  // build manifests with no source counterpart
	Removed    []Removal // duplicate build output deleted first, or planned in dry-run mode
}

// Reconciler deduplicates a build tree, matches it against a source tree,
// and registers the surviving manifests. It keeps no state between calls.
type Reconciler struct {
	scanner   *Scanner
	registrar Registrar
	logger    *log.Logger
	dryRun    bool
}

// New returns a Reconciler that registers manifests with registrar. A nil
// registrar is allowed for callers that only scan or deduplicate; the
// Register methods then fail.
func New(registrar Registrar, opts Options) (*Reconciler, error) {
	scanner, err := NewScanner(opts.ManifestFile, opts.Ignore)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reconciler{
		scanner:   scanner,
		registrar: registrar,
		logger:    logger,
		dryRun:    opts.DryRun,
	}, nil
}

// Scan returns the manifests under root.
func (r *Reconciler) Scan(root string) (*ScanResult, error) {
	return r.scanner.Scan(root)
}

// Reconcile returns the build manifest paths whose relative directory also
// appears in the source scan, in build walk order.
func Reconcile(build, src *ScanResult) []string {
	matched, _ := partition(build, src)
	return matched
}

func partition(build, src *ScanResult) (matched, orphaned []string) {
	if build == nil {
		return nil, nil
	}
	for _, e := range build.Entries {
		if src.Has(e.RelDir) {
			matched = append(matched, e.Path)
		} else {
			orphaned = append(orphaned, e.Path)
		}
	}
	return matched, orphaned
}

// RegisterReconciled removes duplicate build directories, scans both trees,
// and registers every build manifest that has a source counterpart, in build
// walk order. It returns ErrNoManifestsFound when either tree is empty and a
// *ReconciliationError for any other failure, including a panicking
// registrar. Registration stops at the first failure and no report is
// returned.
func (r *Reconciler) RegisterReconciled(sourceRoot, buildRoot string) (report *Report, err error) {
	op := "dedupe"
	defer r.recoverInto(&op, &report, &err)

	removals, err := r.Deduplicate(buildRoot)
	if err != nil {
		return nil, &ReconciliationError{Op: "dedupe", Path: buildRoot, Err: err}
	}

	op = "scan"
	build, err := r.scanner.Scan(buildRoot)
	if err != nil {
		return nil, &ReconciliationError{Op: "scan", Path: buildRoot, Err: err}
	}
	src, err := r.scanner.Scan(sourceRoot)
	if err != nil {
		return nil, &ReconciliationError{Op: "scan", Path: sourceRoot, Err: err}
	}
	build = withoutRemoved(build, removals)
	r.logger.Debug("scanned trees",
		"build", build.Root, "build_manifests", len(build.Entries),
		"source", src.Root, "source_manifests", len(src.Entries))

	if build.Empty() {
		return nil, noManifests("build", build.Root)
	}
	if src.Empty() {
		return nil, noManifests("source", src.Root)
	}

	matched, orphaned := partition(build, src)
	for _, path := range orphaned {
		r.logger.Debug("build manifest has no source counterpart", "path", path)
	}

	op = "register"
	if err := r.registerAll(matched); err != nil {
		return nil, err
	}

	return &Report{
		Registered: matched,
		Skipped:    orphaned,
		Removed:    removals,
	}, nil
}

// RegisterAll registers every manifest under buildRoot without deduplication
// or reconciliation. It is meant for deployments that ship no source tree.
func (r *Reconciler) RegisterAll(buildRoot string) (report *Report, err error) {
	op := "scan"
	defer r.recoverInto(&op, &report, &err)

	build, err := r.scanner.Scan(buildRoot)
	if err != nil {
		return nil, &ReconciliationError{Op: "scan", Path: buildRoot, Err: err}
	}
	if build.Empty() {
		return nil, noManifests("build", build.Root)
	}

	paths := build.Paths()
	op = "register"
	if err := r.registerAll(paths); err != nil {
		return nil, err
	}
	return &Report{Registered: paths}, nil
}

func (r *Reconciler) registerAll(paths []string) error {
	if r.registrar == nil {
		return &ReconciliationError{Op: "register", Err: errors.New("no registrar configured")}
	}
	for _, path := range paths {
		if err := r.registrar.Register(path); err != nil {
			return &ReconciliationError{Op: "register", Path: path, Err: err}
		}
		r.logger.Debug("registered block", "path", path)
	}
	return nil
}

// withoutRemoved drops the entries covered by removals. After a real dedupe
// pass they are already gone; in dry-run mode they are still on disk.
func withoutRemoved(res *ScanResult, removals []Removal) *ScanResult {
	if len(removals) == 0 {
		return res
	}
	out := &ScanResult{Root: res.Root, RelDirs: make(map[string]struct{})}
	for _, e := range res.Entries {
		if !removedBy(e, removals) {
			out.add(e)
		}
	}
	return out
}

// recoverInto turns a panic raised below a Register* call into a
// *ReconciliationError for the step named by *op.
func (r *Reconciler) recoverInto(op *string, report **Report, err *error) {
	p := recover()
	if p == nil {
		return
	}
	*report = nil
	if e, ok := p.(error); ok {
		*err = &ReconciliationError{Op: *op, Err: fmt.Errorf("panic: %w", e)}
		return
	}
	*err = &ReconciliationError{Op: *op, Err: fmt.Errorf("panic: %v", p)}
}
