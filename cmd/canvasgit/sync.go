package main

import (
	"fmt"
	"time"

	"github.com/canvasgit/canvasgit/internal/sync"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the course directory with Canvas",
	Long: `Runs one full bidirectional sync session: scans the working tree,
fetches the remote course files, diffs both against the last synced state and
executes the resulting plan. Conflicting paths are reported and skipped unless
a conflict policy is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		c, err := openCourse()
		if err != nil {
			return err
		}
		defer c.client.Close()

		policyFlag, _ := cmd.Flags().GetString("policy")
		policy, err := c.resolvePolicy(policyFlag)
		if err != nil {
			return err
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		workers, _ := cmd.Flags().GetInt("workers")

		engine, store, err := c.newEngine(policy, workers)
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := engine.Run(cmd.Context(), sync.RunOpts{DryRun: dryRun})
		if err != nil {
			return err
		}

		renderReport(cmd, report)
		if report.HasFailures() {
			return fmt.Errorf("%d operation(s) failed", len(report.Failed))
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().SortFlags = false
	syncCmd.Flags().StringP("policy", "p", "", "conflict policy: manual, prefer-local, prefer-remote")
	syncCmd.Flags().BoolP("dry-run", "n", false, "plan only, execute nothing")
	syncCmd.Flags().Int("workers", 4, "concurrent transfer workers")
}

func renderReport(cmd *cobra.Command, report *sync.Report) {
	if report.DryRun {
		renderPlan(cmd, report)
		return
	}

	for _, r := range report.Succeeded {
		cmd.Printf("%s %-14s %s\n", green("✓"), r.Op, r.Path)
	}
	for _, r := range report.Failed {
		cmd.Printf("%s %-14s %s: %v\n", red("✗"), r.Op, r.Path, r.Err)
	}
	renderConflicts(cmd, report)

	switch {
	case report.Plan.IsEmpty() && !report.HasConflicts():
		cmd.Println(green("Already up to date."))
	default:
		cmd.Printf("%d synced, %d failed, %d conflicted, %d unchanged (%s)\n",
			len(report.Succeeded), len(report.Failed), len(report.Conflicts),
			report.Unchanged, report.Duration.Round(time.Millisecond))
	}
}

func renderPlan(cmd *cobra.Command, report *sync.Report) {
	plan := report.Plan
	if plan.IsEmpty() && !report.HasConflicts() {
		cmd.Println(green("Nothing to do."))
		return
	}

	for _, op := range plan.Ordered() {
		size := ""
		switch {
		case op.Type == sync.OpUpload && op.Local != nil:
			size = humanize.Bytes(uint64(op.Local.Size))
		case op.Type == sync.OpDownload && op.Remote != nil:
			size = humanize.Bytes(uint64(op.Remote.Size))
		}
		cmd.Printf("%s %-14s %s %s\n", cyan("→"), op.Type, op.Path, size)
	}
	renderConflicts(cmd, report)
	cmd.Printf("%d operation(s) planned, %d unchanged\n", plan.Len(), report.Unchanged)
}

func renderConflicts(cmd *cobra.Command, report *sync.Report) {
	for _, c := range report.Conflicts {
		cmd.Printf("%s %-14s %s (local %.8s / remote %.8s)\n",
			yellow("!"), "conflict", c.Path, c.LocalHash, c.RemoteHash)
	}
	if report.HasConflicts() {
		cmd.Println(yellow("Conflicts are skipped; re-run with --policy prefer-local or prefer-remote, or reconcile by hand."))
	}
}
