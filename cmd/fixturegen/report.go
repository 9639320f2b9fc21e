package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/feasibility"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/fixtures"
	"github.com/spf13/cobra"
)

func runReport(cmd *cobra.Command, opts *options) error {
	style, err := fixtures.ParseIDStyle(opts.idStyle)
	if err != nil {
		return err
	}
	profiles, err := resolveProfiles(cmd, opts)
	if err != nil {
		return err
	}

	gen := fixtures.NewGenerator(opts.logger, style)
	out := cmd.OutOrStdout()
	for i, p := range profiles {
		fx, err := gen.Build(p)
		if err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
		report := feasibility.NewAnalyzer(fx.Volunteers, fx.Shifts).Analyze()

		if i > 0 {
			fmt.Fprintln(out)
		}
		verdict := "feasible"
		if !report.Feasible {
			verdict = "infeasible"
		}
		fmt.Fprintf(out, "Profile %s: %s\n", p.Name, verdict)

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "GROUP\tVOLUNTEERS\tCAPACITY\tDEMAND\tSLACK\tPEAK")
		for _, g := range report.Groups {
			fmt.Fprintf(tw, "%s\t%d\t%gh\t%gh\t%gh\t%d\n",
				g.Group, g.Headcount, g.CapacityHours, g.DemandHours, g.SlackHours, g.PeakDemand)
		}
		fmt.Fprintf(tw, "TOTAL\t%d\t%gh\t%gh\t%gh\t\n",
			len(fx.Volunteers), report.TotalCapacity, report.TotalDemand, report.TotalCapacity-report.TotalDemand)
		if err := tw.Flush(); err != nil {
			return err
		}
		for _, c := range report.Conflicts {
			fmt.Fprintf(out, "  %s: %s\n", c.Group, strings.Join(c.Reasons, "; "))
		}
	}
	return nil
}
