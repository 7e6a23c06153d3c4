package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/canvasgit/canvasgit/internal/canvas"
	"github.com/canvasgit/canvasgit/internal/config"
	"github.com/canvasgit/canvasgit/internal/sync"
	"github.com/canvasgit/canvasgit/internal/workspace"
	"github.com/spf13/cobra"
)

const assignmentsDir = "assignments"

var initCmd = &cobra.Command{
	Use:   "init <course-id>",
	Short: "Initialize a local workspace for a Canvas course",
	Long: `Creates a course directory with a .canvas control dir, fetches the
course's assignment list to track assignment folders, and runs a first sync to
pull the remote file tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		courseID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || courseID <= 0 {
			return fmt.Errorf("invalid course id %q", args[0])
		}

		baseURL, _ := cmd.Flags().GetString("server")
		dir, _ := cmd.Flags().GetString("dir")
		noPull, _ := cmd.Flags().GetBool("no-pull")

		token, err := config.Token()
		if err != nil {
			return err
		}
		client := canvas.New(baseURL, token)
		defer client.Close()

		remoteCourse, err := client.GetCourse(cmd.Context(), courseID)
		if err != nil {
			return fmt.Errorf("fetch course %d: %w", courseID, err)
		}

		if dir == "" {
			dir = sanitizeDirName(remoteCourse.Name)
		}
		ws, err := workspace.New(dir)
		if err != nil {
			return err
		}
		if err := ws.Setup(); err != nil {
			return err
		}

		cfg := &config.Config{
			CourseID:   remoteCourse.ID,
			CourseName: remoteCourse.Name,
			BaseURL:    baseURL,
		}
		if err := cfg.Save(ws.ConfigPath); err != nil {
			return fmt.Errorf("write course config: %w", err)
		}

		if err := trackAssignments(cmd, client, ws, courseID); err != nil {
			return err
		}

		cmd.Printf("Initialized course %s in %s\n", cyan(remoteCourse.Name), ws.Root)

		if noPull {
			return nil
		}

		// First sync: the base is empty and the working tree holds nothing but
		// control files, so every remote file comes down as a download.
		c := &course{ws: ws, cfg: cfg, client: client}
		engine, store, err := c.newEngine(sync.PolicyManual, 0)
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := engine.Run(cmd.Context(), sync.RunOpts{})
		if err != nil {
			return err
		}
		renderReport(cmd, report)
		return nil
	},
}

func init() {
	initCmd.Flags().SortFlags = false
	initCmd.Flags().StringP("server", "s", "", "Canvas instance URL, e.g. https://canvas.example.edu")
	initCmd.Flags().StringP("dir", "d", "", "target directory (defaults to the course name)")
	initCmd.Flags().Bool("no-pull", false, "skip the initial pull")
	_ = initCmd.MarkFlagRequired("server")
}

// trackAssignments creates one directory per assignment under assignments/
// and records the mapping so staging can resolve files to assignments.
func trackAssignments(cmd *cobra.Command, client *canvas.Client, ws *workspace.Workspace, courseID int64) error {
	assignments, err := client.ListAssignments(cmd.Context(), courseID)
	if err != nil {
		return fmt.Errorf("list assignments: %w", err)
	}

	tracked := workspace.TrackedDirs{}
	for _, a := range assignments {
		rel := filepath.ToSlash(filepath.Join(assignmentsDir, sanitizeDirName(a.Name)))
		if err := ws.EnsureDir(rel); err != nil {
			return fmt.Errorf("create assignment dir %s: %w", rel, err)
		}
		tracked[rel] = workspace.TrackedDir{
			Kind: workspace.TrackedAssignment,
			ID:   a.ID,
			Name: a.Name,
		}
	}

	if err := ws.SaveTracked(tracked); err != nil {
		return err
	}
	cmd.Printf("Tracking %d assignment(s)\n", len(tracked))
	return nil
}

var unsafeDirChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeDirName(name string) string {
	name = strings.TrimSpace(name)
	name = unsafeDirChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "course"
	}
	return name
}
