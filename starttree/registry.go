package starttree

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/caseysm/decenttree/stitchup"
	"github.com/caseysm/decenttree/upgma"
)

// BuilderFactory creates a fresh engine instance. logger may be nil;
// engines treat a nil logger as "no milestone output".
type BuilderFactory func(logger *slog.Logger) TreeBuilder

// Registry maps algorithm names to tree-builder factories. Lookup is
// case-insensitive; names list in sorted order.
type Registry struct {
	factories    map[string]BuilderFactory
	descriptions map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories:    make(map[string]BuilderFactory),
		descriptions: make(map[string]string),
	}
}

// Register adds (or replaces) a factory under name.
func (r *Registry) Register(name, description string, factory BuilderFactory) {
	key := strings.ToUpper(name)
	r.factories[key] = factory
	r.descriptions[key] = description
}

// GetTreeBuilderByName instantiates the engine registered under name.
// Returns ErrUnknownAlgorithm when nothing is registered there.
func (r *Registry) GetTreeBuilderByName(name string, logger *slog.Logger) (TreeBuilder, error) {
	factory, ok := r.factories[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownAlgorithm)
	}

	return factory(logger), nil
}

// Names returns the registered algorithm names in sorted order, each
// suffixed with its description when withDescriptions is set.
func (r *Registry) Names(withDescriptions bool) []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	if withDescriptions {
		for i, name := range names {
			names[i] = name + ": " + r.descriptions[name]
		}
	}

	return names
}

// defaultRegistry carries the stock engines. UPGMA runs on float32
// (half the memory traffic of float64 in the row scans, accurate
// enough for distance data); the heap-driven engines run on float64.
var defaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Register("NJ", "Neighbor Joining (Saitou, Nei 1987)",
		func(logger *slog.Logger) TreeBuilder {
			return stitchup.NewNJMatrix[float64](logger)
		})
	r.Register("UPGMA", "UPGMA (Unweighted Pair Group Method with Arithmetic mean)",
		func(logger *slog.Logger) TreeBuilder {
			opts := upgma.DefaultOptions()
			opts.Logger = logger
			return upgma.NewMatrix[float32](opts)
		})
	r.Register("STITCH", "Family Stitch-up (Lowest Cost)",
		func(logger *slog.Logger) TreeBuilder {
			return stitchup.NewMatrix[float64](logger)
		})
	r.Register("NTCJ", "Cluster joining by nearest (NJ) taxon distance",
		func(logger *slog.Logger) TreeBuilder {
			return stitchup.NewNTCJMatrix[float64](logger)
		})

	return r
}()

// Default returns the registry pre-populated with the stock engines.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a factory to the default registry.
func Register(name, description string, factory BuilderFactory) {
	defaultRegistry.Register(name, description, factory)
}

// GetTreeBuilderByName instantiates an engine from the default
// registry.
func GetTreeBuilderByName(name string, logger *slog.Logger) (TreeBuilder, error) {
	return defaultRegistry.GetTreeBuilderByName(name, logger)
}

// Names lists the default registry's algorithms.
func Names(withDescriptions bool) []string {
	return defaultRegistry.Names(withDescriptions)
}
