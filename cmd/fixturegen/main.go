package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// options carries flag values shared by every subcommand
type options struct {
	verbose     bool
	profile     string
	profileFile string
	outDir      string
	format      string
	idStyle     string
	seed        int64
	jitter      int
	ledger      bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &options{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "fixturegen",
		Short: "Generate volunteer and shift CSV fixtures for the scheduler",
		Long: `fixturegen writes deterministic volunteer rosters and shift schedules.

Without a subcommand it generates every built-in profile:
  feasible    65 Delegates (10h) + 56 Adults (12h) against 150 two-hour shifts
  impossible  10 Delegates (5h)  + 10 Adults (6h)  against the same shifts

Identical inputs always produce byte-identical files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if opts.verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVarP(&opts.profile, "profile", "p", "all", "Built-in profile: feasible, impossible or all")
	pf.StringVarP(&opts.profileFile, "profile-file", "f", "", "YAML profile file (overrides --profile)")
	pf.StringVar(&opts.idStyle, "id-style", cfg.IDStyle, "Identifier style: sequential or uuid")
	pf.Int64Var(&opts.seed, "seed", 0, "Seed for requirement jitter (recorded in logs and ledger)")
	pf.IntVar(&opts.jitter, "jitter", 0, "Maximum extra headcount added per required group (0 disables)")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write volunteer and shift CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
	for _, c := range []*cobra.Command{rootCmd, generateCmd} {
		c.Flags().StringVarP(&opts.outDir, "out", "o", cfg.OutputDir, "Output directory")
		c.Flags().StringVar(&opts.format, "format", cfg.Format, "CSV format: legacy or api")
		c.Flags().BoolVar(&opts.ledger, "ledger", false, "Record written files in the generation ledger database")
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print roster capacity against schedule demand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(reportCmd)
	return rootCmd
}

func main() {
	config.LoadDotEnv()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
