package main

import (
	"github.com/canvasgit/canvasgit/internal/staging"
	"github.com/canvasgit/canvasgit/internal/sync"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending changes, conflicts and staged files",
	Long: `Computes the sync plan without executing anything: what would be
uploaded, downloaded or deleted, which paths conflict, and what is staged for
submission.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		c, err := openCourse()
		if err != nil {
			return err
		}
		defer c.client.Close()

		policy, err := c.resolvePolicy("")
		if err != nil {
			return err
		}

		engine, store, err := c.newEngine(policy, 0)
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := engine.Run(cmd.Context(), sync.RunOpts{DryRun: true})
		if err != nil {
			return err
		}

		cmd.Printf("Course %s (%d)\n", cyan(c.cfg.CourseName), c.cfg.CourseID)
		renderPlan(cmd, report)

		set, err := staging.NewArea(c.ws).Load()
		if err != nil {
			return err
		}
		if len(set.Files) > 0 {
			cmd.Printf("\nStaged for %s:\n", cyan(set.AssignmentName))
			for _, f := range set.Files {
				cmd.Printf("  %s %s\n", green("+"), f)
			}
		}
		return nil
	},
}
