// Package migration upgrades the stored document from the schema version it
// was written at to CurrentVersion.
//
// The schema version marker is a separate record from the document. Steps
// operate on the raw stored bytes so that fields this build does not know
// about survive an upgrade. Reconciling progress against the shipped catalog
// is a different concern and lives in package merge.
package migration

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/keepers/internal/catalog"
	"github.com/dmitrijs2005/keepers/internal/logging"
	"github.com/dmitrijs2005/keepers/internal/repositories/records"
	"github.com/dmitrijs2005/keepers/internal/storage"
)

const (
	// CurrentVersion is the schema version this build writes.
	CurrentVersion = 2

	// DefaultVersion is assumed when no marker is stored. It is the format
	// that predates the marker.
	DefaultVersion = 1
)

// ApplyFunc transforms the raw stored document. raw is nil when nothing is
// stored yet; the returned bytes replace it.
type ApplyFunc func(ctx context.Context, raw []byte, cat *catalog.Catalog) ([]byte, error)

// Step upgrades a document to Version.
type Step struct {
	Version int
	Name    string
	Apply   ApplyFunc
}

// Result describes what Run did.
type Result struct {
	From    int
	To      int
	Applied []int
	Failed  []int
}

// Engine runs the registered steps against the records repository.
type Engine struct {
	records     records.Repository
	catalog     *catalog.Catalog
	steps       []Step
	current     int
	retryFailed bool
	log         logging.Logger
}

type Option func(*Engine)

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRetryFailed controls the failure policy. When false (the default) a
// failed step is skipped for good and the marker still advances. When true
// the marker stops before the failed step so it runs again on next start.
func WithRetryFailed(retry bool) Option {
	return func(e *Engine) { e.retryFailed = retry }
}

// WithSteps replaces the registered steps and sets the target version to the
// highest step version.
func WithSteps(steps ...Step) Option {
	return func(e *Engine) {
		e.steps = slices.Clone(steps)
		e.current = DefaultVersion
		for _, s := range steps {
			e.current = max(e.current, s.Version)
		}
	}
}

// NewEngine returns an engine with the built-in steps.
func NewEngine(repo records.Repository, cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		records: repo,
		catalog: cat,
		steps:   Steps(),
		current: CurrentVersion,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	slices.SortStableFunc(e.steps, func(a, b Step) int { return a.Version - b.Version })
	return e
}

// CurrentVersion returns the version Run brings storage to.
func (e *Engine) CurrentVersion() int {
	return e.current
}

// StoredVersion reads the marker. A missing or unparsable marker yields
// DefaultVersion.
func (e *Engine) StoredVersion(ctx context.Context) (int, error) {
	raw, err := e.records.Get(ctx, storage.VersionKey)
	if err != nil {
		return 0, err
	}
	return parseVersion(raw), nil
}

func parseVersion(raw []byte) int {
	v, err := strconv.Atoi(string(bytes.TrimSpace(raw)))
	if err != nil {
		return DefaultVersion
	}
	return v
}

// Run brings the stored document to the current version. A failing step never
// aborts startup; only storage errors are returned.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	stored, err := e.StoredVersion(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Result{From: stored, To: stored}

	switch {
	case stored == e.current:
		return res, nil
	case stored > e.current:
		e.log.Warn(ctx, "stored data version is newer than this build, skipping migrations",
			"stored", stored, "current", e.current)
		if err := e.writeMarker(ctx, e.records, e.current); err != nil {
			return res, err
		}
		res.To = e.current
		return res, nil
	}

	e.log.Info(ctx, "migrating data", "from", stored, "to", e.current)

	raw, err := e.records.Get(ctx, storage.DocumentKey)
	if err != nil {
		return res, err
	}

	doc := raw
	target := e.current
	for _, step := range e.steps {
		if step.Version <= stored || step.Version > e.current {
			continue
		}

		next, err := e.apply(ctx, step, doc)
		if err != nil {
			e.log.Error(ctx, "migration step failed", "version", step.Version, "name", step.Name, "error", err)
			res.Failed = append(res.Failed, step.Version)
			if e.retryFailed {
				target = step.Version - 1
				break
			}
			continue
		}

		doc = next
		res.Applied = append(res.Applied, step.Version)
		e.log.Info(ctx, "migration step applied", "version", step.Version, "name", step.Name)
	}

	changed := !bytes.Equal(doc, raw)
	err = e.records.InTx(ctx, func(ctx context.Context, tx records.Repository) error {
		if changed {
			if err := tx.Set(ctx, storage.DocumentKey, doc); err != nil {
				return err
			}
		}
		return e.writeMarker(ctx, tx, target)
	})
	if err != nil {
		return res, fmt.Errorf("failed to store migrated data: %w", err)
	}

	res.To = target
	return res, nil
}

func (e *Engine) writeMarker(ctx context.Context, repo records.Repository, v int) error {
	return repo.Set(ctx, storage.VersionKey, []byte(strconv.Itoa(v)))
}

// apply runs one step, turning a panic into an error.
func (e *Engine) apply(ctx context.Context, step Step, raw []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return step.Apply(ctx, slices.Clone(raw), e.catalog)
}
