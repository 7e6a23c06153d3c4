package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/canvasgit/canvasgit/internal/utils"
)

// TrackedKind classifies what a tracked directory maps to on the remote side.
type TrackedKind string

const (
	TrackedFolder     TrackedKind = "folder"
	TrackedAssignment TrackedKind = "assignment"
)

// TrackedDir binds a working-tree directory to its remote entity.
type TrackedDir struct {
	Kind TrackedKind `json:"kind"`
	ID   int64       `json:"id"`
	Name string      `json:"name"`
}

// TrackedDirs maps slash-separated relative directory paths to remote
// entities. Written by `init`, consulted by staging and submit.
type TrackedDirs map[string]TrackedDir

// LoadTracked reads .canvas/tracked.json. A missing file is an empty map.
func (w *Workspace) LoadTracked() (TrackedDirs, error) {
	data, err := os.ReadFile(w.TrackPath)
	if errors.Is(err, os.ErrNotExist) {
		return TrackedDirs{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tracked dirs: %w", err)
	}

	var tracked TrackedDirs
	if err := json.Unmarshal(data, &tracked); err != nil {
		return nil, fmt.Errorf("parse tracked dirs: %w", err)
	}
	return tracked, nil
}

// SaveTracked writes .canvas/tracked.json.
func (w *Workspace) SaveTracked(tracked TrackedDirs) error {
	data, err := json.MarshalIndent(tracked, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(w.TrackPath, data, 0o644)
}

// FirstTrackedParent walks up from rel and returns the closest tracked
// ancestor directory.
func (t TrackedDirs) FirstTrackedParent(rel string) (string, TrackedDir, bool) {
	dir := path.Dir(rel)
	for dir != "." && dir != "/" {
		if td, ok := t[dir]; ok {
			return dir, td, true
		}
		dir = path.Dir(dir)
	}
	td, ok := t["."]
	return ".", td, ok
}
