// Package validation defines the outcome of a validation test, the interface
// every test implements and a registry resolving tests by name.
package validation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Sumatoshi-tech/colordist/internal/artifact"
	"github.com/Sumatoshi-tech/colordist/internal/catalog"
)

// Status is the outcome of a validation test.
type Status string

// Test outcomes.
const (
	StatusPassed  Status = "PASSED"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// Sentinel errors.
var (
	ErrUnknownTest   = errors.New("unknown validation test")
	ErrDuplicateTest = errors.New("validation test already registered")
)

// Result is the immutable outcome of one test run.
type Result struct {
	Status  Status
	Message string
	// Colors holds the per-color records of tests that compare colors.
	Colors []artifact.ColorRecord
}

// Record converts the result to its artifact form.
func (r Result) Record(testName, catalogName string) artifact.RunRecord {
	return artifact.RunRecord{
		Test:    testName,
		Catalog: catalogName,
		Status:  string(r.Status),
		Message: r.Message,
		Colors:  slices.Clone(r.Colors),
	}
}

// Test is a validation test run against one catalog.
type Test interface {
	// Name returns the registry name of the test.
	Name() string
	// Run validates the catalog and writes artifacts into outputDir.
	Run(ctx context.Context, cat catalog.Catalog, catalogName, outputDir string) (Result, error)
}

// Execute runs the test and writes its result file into dir.
func Execute(ctx context.Context, t Test, cat catalog.Catalog, catalogName string, dir artifact.Dir) (Result, error) {
	res, err := t.Run(ctx, cat, catalogName, dir.Path)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", t.Name(), err)
	}

	err = dir.WriteResult(res.Record(t.Name(), catalogName))
	if err != nil {
		return Result{}, err
	}

	return res, nil
}

// Params are the per-invocation switches passed to a test factory.
type Params struct {
	TestMode bool
	PlotPDF  bool
}

// Factory builds a configured test.
type Factory func(Params) (Test, error)

// Registry maps test names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTest, name)
	}

	r.factories[name] = f

	return nil
}

// New builds the test registered under name.
func (r *Registry) New(name string, p Params) (Test, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTest, name)
	}

	return f(p)
}

// Names returns the registered test names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.factories))
}
