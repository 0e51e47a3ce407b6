// Command decenttree reads a PHYLIP-style distance matrix and writes
// the tree constructed by the chosen algorithm in Newick notation.
//
// Usage:
//
//	decenttree --in dist.phy -t NJ --out tree.nwk
//	decenttree algorithms
//
// Defaults may be supplied in a YAML config file (--config); flags
// given on the command line win over the file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "decenttree",
	Short:         "Build phylogenetic trees from distance matrices",
	Long:          "decenttree builds unrooted phylogenetic trees, in Newick notation,\nfrom precomputed pairwise distance matrices.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConstruct,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagInput, "in", "i", "", "input distance matrix file (PHYLIP square/upper/lower, .gz ok)")
	flags.StringVarP(&flagOutput, "out", "o", "", "output Newick file (default: stdout)")
	flags.StringVarP(&flagAlgorithm, "algorithm", "t", "", "tree construction algorithm (see 'decenttree algorithms')")
	flags.IntVarP(&flagPrecision, "precision", "p", 0, "branch length precision")
	flags.IntVar(&flagThreads, "threads", 0, "worker threads for parallel inner loops (0 = all CPUs)")
	flags.BoolVar(&flagGzip, "gzip", false, "gzip-compress the output tree file")
	flags.BoolVar(&flagRooted, "rooted", false, "emit a rooted tree (engines that support it)")
	flags.BoolVar(&flagAppend, "append", false, "append to the output file instead of truncating")
	flags.CountVarP(&flagVerbosity, "verbose", "v", "verbosity (-v milestones, -vv echo inputs)")
	flags.StringVarP(&flagConfig, "config", "c", "", "YAML file with default settings")

	rootCmd.AddCommand(algorithmsCmd)
}
