package main

import (
	"github.com/canvasgit/canvasgit/internal/staging"
	"github.com/spf13/cobra"
)

var stageCmd = &cobra.Command{
	Use:   "stage <file>",
	Short: "Stage a file for assignment submission",
	Long: `Adds a file to the staging area. The file must live inside a tracked
assignment directory; all staged files must belong to the same assignment.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		c, err := openCourse()
		if err != nil {
			return err
		}
		defer c.client.Close()

		rel, err := c.ws.RelPath(args[0])
		if err != nil {
			return err
		}

		tracked, err := c.ws.LoadTracked()
		if err != nil {
			return err
		}

		set, err := staging.NewArea(c.ws).Stage(rel, tracked)
		if err != nil {
			return err
		}

		cmd.Printf("Staged %s for %s (%d file(s) staged)\n", green(rel), cyan(set.AssignmentName), len(set.Files))
		return nil
	},
}

var unstageCmd = &cobra.Command{
	Use:   "unstage <file>",
	Short: "Remove a file from the staging area",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		c, err := openCourse()
		if err != nil {
			return err
		}
		defer c.client.Close()

		rel, err := c.ws.RelPath(args[0])
		if err != nil {
			return err
		}

		set, err := staging.NewArea(c.ws).Unstage(rel)
		if err != nil {
			return err
		}

		cmd.Printf("Unstaged %s (%d file(s) remain staged)\n", yellow(rel), len(set.Files))
		return nil
	},
}
