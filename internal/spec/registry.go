package spec

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SuiteFactory builds a fresh Suite. Each run constructs its own instance;
// suites share no mutable state across runs or goroutines.
type SuiteFactory func() (*Suite, error)

// Registry holds named suite factories for CLI-driven execution.
type Registry struct {
	mu        sync.Mutex
	factories map[string]SuiteFactory
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]SuiteFactory),
	}
}

// Register adds a factory under name. Re-registering a name is an error.
func (r *Registry) Register(name string, factory SuiteFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("suite %q is already registered", name)
	}
	r.factories[name] = factory
	r.order = append(r.order, name)
	return nil
}

// Names returns the registered suite names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (SuiteFactory, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.factories[name]
	return f, ok
}

// Build constructs a fresh suite for name.
func (r *Registry) Build(name string) (*Suite, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("no suite registered as %q", name)
	}
	return f()
}

// RunAll builds and runs every registered suite. Independent suites run
// concurrently; each suite is strictly sequential internally. opts.Sink
// must be safe for concurrent use when more than one suite is registered.
// The first construction or fatal error cancels the remaining suites.
func (r *Registry) RunAll(ctx context.Context, opts RunOptions) (map[string]*RunStatus, error) {
	names := r.Names()
	results := make(map[string]*RunStatus, len(names))
	var resultsMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			suite, err := r.Build(name)
			if err != nil {
				return fmt.Errorf("building suite %q: %w", name, err)
			}
			status, err := suite.Run(opts)
			if err != nil {
				return fmt.Errorf("suite %q aborted: %w", name, err)
			}

			resultsMu.Lock()
			results[name] = status
			resultsMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the CLI.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a factory to the default registry.
func Register(name string, factory SuiteFactory) error {
	return defaultRegistry.Register(name, factory)
}

// SortedStatusNames returns the suite names of a RunAll result in lexical
// order, for stable report output.
func SortedStatusNames(results map[string]*RunStatus) []string {
	names := make([]string, 0, len(results))
	for n := range results {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
