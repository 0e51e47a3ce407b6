package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/caseysm/decenttree/matrix"
	"github.com/caseysm/decenttree/starttree"
)

var (
	flagInput     string
	flagOutput    string
	flagAlgorithm string
	flagPrecision int
	flagThreads   int
	flagGzip      bool
	flagRooted    bool
	flagAppend    bool
	flagVerbosity int
	flagConfig    string
)

// Config holds the YAML defaults file. Every field is optional; flags
// given on the command line win.
type Config struct {
	Algorithm string `yaml:"algorithm"`
	Precision int    `yaml:"precision"`
	Threads   int    `yaml:"threads"`
	Gzip      bool   `yaml:"gzip"`
}

// loadConfig reads the defaults file, when one was named, and fills in
// any flag the user left unset.
func loadConfig() error {
	if flagConfig == "" {
		return nil
	}
	raw, err := os.ReadFile(flagConfig)
	if err != nil {
		return fmt.Errorf("reading config %q: %w", flagConfig, err)
	}
	var cfg Config
	if err = yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("parsing config %q: %w", flagConfig, err)
	}
	if flagAlgorithm == "" {
		flagAlgorithm = cfg.Algorithm
	}
	if flagPrecision == 0 {
		flagPrecision = cfg.Precision
	}
	if flagThreads == 0 {
		flagThreads = cfg.Threads
	}
	flagGzip = flagGzip || cfg.Gzip

	return nil
}

// runConstruct is the root command: read the matrix, run the engine,
// write the tree.
func runConstruct(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if flagInput == "" {
		return fmt.Errorf("no input file; use -i <matrix file>")
	}
	if flagAlgorithm == "" {
		flagAlgorithm = "NJ"
	}
	if flagPrecision == 0 {
		flagPrecision = 6
	}

	m, err := matrix.ReadDistanceFile(flagInput)
	if err != nil {
		return err
	}
	names := m.SequenceNames()
	if err = starttree.ValidateInput(names, m.Distances(), flagPrecision); err != nil {
		return err
	}

	var logger *slog.Logger
	if flagVerbosity > 0 {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	builder, err := starttree.GetTreeBuilderByName(flagAlgorithm, logger)
	if err != nil {
		return err
	}
	if flagVerbosity == 0 {
		builder.BeSilent()
	}
	if flagVerbosity > 1 && logger != nil {
		logger.Info("inputs", "algorithm", builder.AlgorithmName(),
			"taxa", len(names), "matrix", flagInput)
	}
	builder.SetPrecision(flagPrecision)
	builder.SetZippedOutput(flagGzip)
	builder.SetAppendFile(flagAppend)
	if flagRooted {
		builder.SetIsRooted(true)
	}
	if setter, ok := builder.(starttree.ThreadCountSetter); ok {
		setter.SetThreadCount(flagThreads)
	}
	if err = builder.LoadMatrix(names, m.Distances()); err != nil {
		return err
	}
	if err = builder.ConstructTree(); err != nil {
		return err
	}
	if flagOutput == "" {
		return builder.WriteTreeTo(cmd.OutOrStdout())
	}

	return builder.WriteTreeFile(flagOutput)
}

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the available tree construction algorithms",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range starttree.Names(true) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
