package staging

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/canvasgit/canvasgit/internal/utils"
	"github.com/canvasgit/canvasgit/internal/workspace"
)

var (
	// ErrNotAssignment is returned when the staged file is not inside an
	// assignment directory, making the target assignment ambiguous.
	ErrNotAssignment = errors.New("file is not inside an assignment directory")

	// ErrMixedAssignments is returned when staging would span two assignments.
	ErrMixedAssignments = errors.New("cannot stage files for multiple assignments at once")

	// ErrAlreadyStaged is returned when the file is already in the staged set.
	ErrAlreadyStaged = errors.New("file is already staged")

	// ErrNotStaged is returned when unstaging a file that is not staged.
	ErrNotStaged = errors.New("file is not staged")
)

// StagedSet is the submission staging area persisted at .canvas/staged.json.
// All staged files belong to a single assignment.
type StagedSet struct {
	AssignmentID   int64    `json:"assignment_id"`
	AssignmentDir  string   `json:"assignment_dir"`
	AssignmentName string   `json:"assignment_name"`
	Files          []string `json:"files"`
}

// Area manages the staged set for one workspace.
type Area struct {
	ws *workspace.Workspace
}

func NewArea(ws *workspace.Workspace) *Area {
	return &Area{ws: ws}
}

// Load reads the staged set; a missing file is an empty set.
func (a *Area) Load() (*StagedSet, error) {
	data, err := os.ReadFile(a.ws.StagedPath)
	if errors.Is(err, os.ErrNotExist) {
		return &StagedSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read staged set: %w", err)
	}

	var set StagedSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse staged set: %w", err)
	}
	return &set, nil
}

func (a *Area) Save(set *StagedSet) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(a.ws.StagedPath, data, 0o644)
}

// Stage adds a workspace-relative file to the staged set. The file must lie
// inside a tracked assignment directory, and all staged files must belong to
// the same assignment.
func (a *Area) Stage(rel string, tracked workspace.TrackedDirs) (*StagedSet, error) {
	if !utils.FileExists(a.ws.AbsPath(rel)) {
		return nil, fmt.Errorf("%s does not exist", rel)
	}

	dir, td, ok := tracked.FirstTrackedParent(rel)
	if !ok || td.Kind != workspace.TrackedAssignment {
		return nil, ErrNotAssignment
	}

	set, err := a.Load()
	if err != nil {
		return nil, err
	}

	if slices.Contains(set.Files, rel) {
		return nil, ErrAlreadyStaged
	}
	if len(set.Files) > 0 && set.AssignmentID != td.ID {
		return nil, ErrMixedAssignments
	}

	set.AssignmentID = td.ID
	set.AssignmentDir = dir
	set.AssignmentName = td.Name
	set.Files = append(set.Files, rel)
	slices.Sort(set.Files)

	if err := a.Save(set); err != nil {
		return nil, err
	}
	return set, nil
}

// Unstage removes a file from the staged set.
func (a *Area) Unstage(rel string) (*StagedSet, error) {
	set, err := a.Load()
	if err != nil {
		return nil, err
	}

	idx := slices.Index(set.Files, rel)
	if idx < 0 {
		return nil, ErrNotStaged
	}
	set.Files = slices.Delete(set.Files, idx, idx+1)
	if len(set.Files) == 0 {
		set = &StagedSet{}
	}

	if err := a.Save(set); err != nil {
		return nil, err
	}
	return set, nil
}

// Clear empties the staging area after a successful submission.
func (a *Area) Clear() error {
	return a.Save(&StagedSet{})
}
