package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/canvasgit/canvasgit/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupArea(t *testing.T) (*Area, workspace.TrackedDirs) {
	t.Helper()

	ws, err := workspace.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, ws.Setup())

	tracked := workspace.TrackedDirs{
		"assignments/hw1": {Kind: workspace.TrackedAssignment, ID: 11, Name: "Homework 1"},
		"assignments/hw2": {Kind: workspace.TrackedAssignment, ID: 22, Name: "Homework 2"},
		"files":           {Kind: workspace.TrackedFolder, ID: 7, Name: "course files"},
	}
	require.NoError(t, ws.SaveTracked(tracked))

	for _, rel := range []string{
		"assignments/hw1/main.pdf",
		"assignments/hw1/appendix.pdf",
		"assignments/hw2/report.pdf",
		"files/syllabus.pdf",
	} {
		abs := ws.AbsPath(rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(rel), 0o644))
	}

	return NewArea(ws), tracked
}

func TestStage_AddsFileToAssignment(t *testing.T) {
	area, tracked := setupArea(t)

	set, err := area.Stage("assignments/hw1/main.pdf", tracked)
	require.NoError(t, err)

	assert.Equal(t, int64(11), set.AssignmentID)
	assert.Equal(t, "Homework 1", set.AssignmentName)
	assert.Equal(t, []string{"assignments/hw1/main.pdf"}, set.Files)

	// The set is persisted; a fresh load sees it.
	loaded, err := area.Load()
	require.NoError(t, err)
	assert.Equal(t, set, loaded)
}

func TestStage_KeepsFilesSorted(t *testing.T) {
	area, tracked := setupArea(t)

	_, err := area.Stage("assignments/hw1/main.pdf", tracked)
	require.NoError(t, err)
	set, err := area.Stage("assignments/hw1/appendix.pdf", tracked)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"assignments/hw1/appendix.pdf",
		"assignments/hw1/main.pdf",
	}, set.Files)
}

func TestStage_RejectsNonAssignmentPaths(t *testing.T) {
	area, tracked := setupArea(t)

	_, err := area.Stage("files/syllabus.pdf", tracked)
	assert.ErrorIs(t, err, ErrNotAssignment)
}

func TestStage_RejectsMixedAssignments(t *testing.T) {
	area, tracked := setupArea(t)

	_, err := area.Stage("assignments/hw1/main.pdf", tracked)
	require.NoError(t, err)

	_, err = area.Stage("assignments/hw2/report.pdf", tracked)
	assert.ErrorIs(t, err, ErrMixedAssignments)
}

func TestStage_RejectsDuplicates(t *testing.T) {
	area, tracked := setupArea(t)

	_, err := area.Stage("assignments/hw1/main.pdf", tracked)
	require.NoError(t, err)

	_, err = area.Stage("assignments/hw1/main.pdf", tracked)
	assert.ErrorIs(t, err, ErrAlreadyStaged)
}

func TestStage_RejectsMissingFile(t *testing.T) {
	area, tracked := setupArea(t)

	_, err := area.Stage("assignments/hw1/ghost.pdf", tracked)
	assert.Error(t, err)
}

func TestUnstage(t *testing.T) {
	area, tracked := setupArea(t)

	_, err := area.Stage("assignments/hw1/main.pdf", tracked)
	require.NoError(t, err)
	_, err = area.Stage("assignments/hw1/appendix.pdf", tracked)
	require.NoError(t, err)

	set, err := area.Unstage("assignments/hw1/appendix.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"assignments/hw1/main.pdf"}, set.Files)

	// Removing the last file resets the whole set, freeing the assignment.
	set, err = area.Unstage("assignments/hw1/main.pdf")
	require.NoError(t, err)
	assert.Empty(t, set.Files)
	assert.Zero(t, set.AssignmentID)

	_, err = area.Unstage("assignments/hw1/main.pdf")
	assert.ErrorIs(t, err, ErrNotStaged)
}

func TestClear(t *testing.T) {
	area, tracked := setupArea(t)

	_, err := area.Stage("assignments/hw1/main.pdf", tracked)
	require.NoError(t, err)
	require.NoError(t, area.Clear())

	set, err := area.Load()
	require.NoError(t, err)
	assert.Empty(t, set.Files)
	assert.Zero(t, set.AssignmentID)
}

func TestLoad_MissingFileIsEmptySet(t *testing.T) {
	area, _ := setupArea(t)

	set, err := area.Load()
	require.NoError(t, err)
	assert.Empty(t, set.Files)
}
