package starttree

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Options configures the one-call construction surface.
//
// Fields:
//   - Precision   — fractional digits for Newick branch lengths; must
//     be at least 1.
//   - Verbosity   — 0 silent, 1 milestones, >1 also echoes the inputs.
//   - ThreadCount — workers for the engines' data-parallel inner
//     loops; values < 1 mean one worker per available CPU.
//   - IsRooted    — request rooted output from engines that support it.
//   - Logger      — destination for milestone output; nil means a
//     plain-text logger on stderr when Verbosity > 0.
type Options struct {
	Precision   int
	Verbosity   int
	ThreadCount int
	IsRooted    bool
	Logger      *slog.Logger
}

// DefaultOptions returns the options used when none are supplied:
// precision 6, silent, one worker per CPU.
func DefaultOptions() Options {
	return Options{
		Precision: 6,
		Verbosity: 0,
	}
}

// ConstructTreeString validates (names, distances) up front, runs the
// named algorithm from the default registry, and returns the Newick
// text. Precondition failures surface as ErrInvalidInput before any
// engine work happens; an unregistered name is ErrUnknownAlgorithm.
func ConstructTreeString(algorithm string, names []string, distances []float64,
	opts Options) (string, error) {
	if err := ValidateInput(names, distances, opts.Precision); err != nil {
		return "", err
	}
	logger := opts.Logger
	if logger == nil && opts.Verbosity > 0 {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	builder, err := GetTreeBuilderByName(algorithm, logger)
	if err != nil {
		return "", err
	}
	if opts.Verbosity > 1 && logger != nil {
		logger.Info("inputs", "algorithm", builder.AlgorithmName(),
			"names", names, "distances", distances)
	}
	if opts.Verbosity == 0 {
		builder.BeSilent()
	}
	builder.SetPrecision(opts.Precision)
	if opts.IsRooted {
		builder.SetIsRooted(true)
	}
	if setter, ok := builder.(ThreadCountSetter); ok {
		setter.SetThreadCount(opts.ThreadCount)
	}
	if err = builder.LoadMatrix(names, distances); err != nil {
		return "", err
	}
	if err = builder.ConstructTree(); err != nil {
		return "", err
	}
	var tree strings.Builder
	if err = builder.WriteTreeTo(&tree); err != nil {
		return "", err
	}

	return tree.String(), nil
}

// ValidateInput applies the up-front precondition checks shared by
// every engine invocation: at least three taxa, no empty or duplicate
// names, a distance buffer of exactly N·N doubles, precision ≥ 1.
func ValidateInput(names []string, distances []float64, precision int) error {
	n := len(names)
	if n < 3 {
		return fmt.Errorf("only %d taxa; need at least 3: %w", n, ErrInvalidInput)
	}
	seen := make(map[string]struct{}, n)
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("taxon %d has an empty name: %w", i, ErrInvalidInput)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate taxon name %q: %w", name, ErrInvalidInput)
		}
		seen[name] = struct{}{}
	}
	if len(distances) != n*n {
		return fmt.Errorf("%d distances for %d taxa (want %d): %w",
			len(distances), n, n*n, ErrInvalidInput)
	}
	if precision < 1 {
		return fmt.Errorf("precision %d below 1: %w", precision, ErrInvalidInput)
	}

	return nil
}
