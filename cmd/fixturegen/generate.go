package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/database"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/feasibility"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/fixtures"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolveProfiles returns the profiles selected by the flags, with jitter applied
func resolveProfiles(cmd *cobra.Command, opts *options) ([]fixtures.Profile, error) {
	var profiles []fixtures.Profile
	switch {
	case opts.profileFile != "":
		p, err := fixtures.LoadProfile(opts.profileFile)
		if err != nil {
			return nil, err
		}
		profiles = []fixtures.Profile{p}
	case opts.profile == "" || opts.profile == "all":
		profiles = fixtures.Presets()
	default:
		p, err := fixtures.LookupProfile(opts.profile)
		if err != nil {
			return nil, err
		}
		profiles = []fixtures.Profile{p}
	}

	if opts.jitter > 0 || cmd.Flags().Changed("seed") {
		for i := range profiles {
			profiles[i].Shifts.Jitter = &fixtures.Jitter{Seed: opts.seed, MaxExtra: opts.jitter}
		}
	}
	return profiles, nil
}

func runGenerate(cmd *cobra.Command, opts *options) error {
	format, err := fixtures.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	style, err := fixtures.ParseIDStyle(opts.idStyle)
	if err != nil {
		return err
	}
	profiles, err := resolveProfiles(cmd, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	gen := fixtures.NewGenerator(opts.logger, style)
	out := cmd.OutOrStdout()
	var runs []database.GenerationRun

	for _, p := range profiles {
		fx, err := gen.Build(p)
		if err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}

		results, err := fx.WriteTo(opts.outDir, format, opts.logger)
		if err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
		fmt.Fprintf(out, "Generated %d volunteers.\n", len(fx.Volunteers))
		fmt.Fprintf(out, "Generated %d shifts.\n", len(fx.Shifts))

		report := feasibility.NewAnalyzer(fx.Volunteers, fx.Shifts).Analyze()
		opts.logger.Info("Feasibility",
			zap.String("profile", p.Name),
			zap.Bool("feasible", report.Feasible),
			zap.Float64("capacity_hours", report.TotalCapacity),
			zap.Float64("demand_hours", report.TotalDemand))

		var seed *int64
		if p.Shifts.Jitter != nil {
			s := p.Shifts.Jitter.Seed
			seed = &s
		}
		for _, res := range results {
			runs = append(runs, database.GenerationRun{
				Profile: p.Name,
				Kind:    res.Kind,
				Format:  string(format),
				Path:    res.Path,
				Rows:    res.Rows,
				SHA256:  res.SHA256,
				Seed:    seed,
				Source:  "cli",
			})
		}
	}

	if opts.ledger {
		db, err := database.Open(opts.cfg.DatabaseURL, opts.cfg.DataPath)
		if err != nil {
			return err
		}
		if err := database.RecordRuns(db, runs); err != nil {
			return fmt.Errorf("record generation runs: %w", err)
		}
		opts.logger.Debug("Recorded generation runs", zap.Int("count", len(runs)))
	}
	return nil
}
