package main

import (
	"fmt"
	"os"

	"github.com/canvasgit/canvasgit/internal/staging"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit staged files to their assignment",
	Long: `Uploads every staged file into the assignment's submission area,
creates an online_upload submission from them, and clears the staging area.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		c, err := openCourse()
		if err != nil {
			return err
		}
		defer c.client.Close()

		area := staging.NewArea(c.ws)
		set, err := area.Load()
		if err != nil {
			return err
		}
		if len(set.Files) == 0 {
			return fmt.Errorf("nothing staged; stage files before submitting")
		}

		cmd.Printf("Submitting %d file(s) to %s\n", len(set.Files), cyan(set.AssignmentName))

		fileIDs := make([]int64, 0, len(set.Files))
		for _, rel := range set.Files {
			abs := c.ws.AbsPath(rel)
			info, err := os.Stat(abs)
			if err != nil {
				return fmt.Errorf("stat staged file %s: %w", rel, err)
			}

			file, err := c.client.UploadSubmissionFile(cmd.Context(), c.cfg.CourseID, set.AssignmentID, abs, info.Size())
			if err != nil {
				return fmt.Errorf("upload %s: %w", rel, err)
			}
			cmd.Printf("%s uploaded %s\n", green("✓"), rel)
			fileIDs = append(fileIDs, file.ID)
		}

		submission, err := c.client.SubmitAssignment(cmd.Context(), c.cfg.CourseID, set.AssignmentID, fileIDs)
		if err != nil {
			return fmt.Errorf("submit assignment: %w", err)
		}

		if err := area.Clear(); err != nil {
			return fmt.Errorf("clear staging area: %w", err)
		}

		cmd.Printf("%s Submission created (attempt %d)\n", green("✓"), submission.Attempt)
		return nil
	},
}
