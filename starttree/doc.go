// Package starttree is the algorithm-selection surface: a string-keyed
// registry mapping algorithm names ("NJ", "UPGMA", "STITCH", "NTCJ")
// to tree-builder factories, plus a one-call convenience that
// validates its inputs, runs an engine, and returns the Newick text.
//
// Input validation happens synchronously, before any work begins:
// fewer than three taxa, empty or duplicated names, a distance buffer
// that is not N·N doubles, or a precision below 1 are all rejected
// with ErrInvalidInput. An unregistered algorithm name is
// ErrUnknownAlgorithm.
//
// Verbosity levels: 0 is silent, 1 logs milestones, above 1 also
// echoes the inputs. Logging goes through log/slog.
package starttree
