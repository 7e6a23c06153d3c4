package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/canvasgit/canvasgit/internal/utils"
	"github.com/gofrs/flock"
)

const (
	// ControlDir is the hidden directory marking a course root.
	ControlDir = ".canvas"

	configFile = "config.json"
	storeFile  = "sync.db"
	stagedFile = "staged.json"
	trackFile  = "tracked.json"
	lockFile   = "canvasgit.lock"
)

var (
	// ErrNotCourse is returned when no .canvas directory is found walking up
	// from the starting directory.
	ErrNotCourse = errors.New("not inside a canvas course (no .canvas directory found)")

	// ErrLocked is returned when another process holds the course lock.
	ErrLocked = errors.New("course workspace locked by another process")
)

// Workspace is one local course directory. The .canvas control dir holds the
// config, snapshot store, staging area and session lock.
type Workspace struct {
	Root       string
	ControlDir string
	ConfigPath string
	StorePath  string
	StagedPath string
	TrackPath  string

	flock *flock.Flock
}

// New creates a workspace rooted at rootDir. The directory need not exist yet.
func New(rootDir string) (*Workspace, error) {
	root, err := utils.ResolvePath(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root %s: %w", rootDir, err)
	}

	controlDir := filepath.Join(root, ControlDir)
	return &Workspace{
		Root:       root,
		ControlDir: controlDir,
		ConfigPath: filepath.Join(controlDir, configFile),
		StorePath:  filepath.Join(controlDir, storeFile),
		StagedPath: filepath.Join(controlDir, stagedFile),
		TrackPath:  filepath.Join(controlDir, trackFile),
		flock:      flock.New(filepath.Join(controlDir, lockFile)),
	}, nil
}

// Find locates the course root by walking up from startDir until a .canvas
// directory is found.
func Find(startDir string) (*Workspace, error) {
	dir, err := utils.ResolvePath(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if utils.DirExists(filepath.Join(dir, ControlDir)) {
			return New(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNotCourse
		}
		dir = parent
	}
}

// Setup creates the root and control directories.
func (w *Workspace) Setup() error {
	if err := utils.EnsureDir(w.Root); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	if err := utils.EnsureDir(w.ControlDir); err != nil {
		return fmt.Errorf("create control dir: %w", err)
	}
	return nil
}

// Lock takes the per-course file lock so two sync sessions never commit
// divergent base snapshots. Fails fast with ErrLocked.
func (w *Workspace) Lock() error {
	if err := utils.EnsureDir(w.ControlDir); err != nil {
		return fmt.Errorf("create control dir: %w", err)
	}

	locked, err := w.flock.TryLock()
	if err != nil {
		return fmt.Errorf("lock workspace: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	return nil
}

func (w *Workspace) Unlock() error {
	return w.flock.Unlock()
}

// AbsPath resolves a snapshot-relative path inside the working tree.
func (w *Workspace) AbsPath(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// RelPath converts an absolute path into a snapshot key, or returns an error
// if the path lies outside the workspace.
func (w *Workspace) RelPath(abs string) (string, error) {
	resolved, err := utils.ResolvePath(abs)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(w.Root, resolved)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return "", fmt.Errorf("path %s is outside the course workspace", abs)
	}
	return utils.NormPath(rel), nil
}

// EnsureDir creates a directory inside the working tree.
func (w *Workspace) EnsureDir(rel string) error {
	return utils.EnsureDir(w.AbsPath(rel))
}

// WriteFile writes a synced file into the working tree atomically.
func (w *Workspace) WriteFile(rel string, data []byte) error {
	return utils.WriteFileAtomic(w.AbsPath(rel), data, 0o644)
}

// DeleteFile removes a file from the working tree. Missing files are not an
// error; the desired state is already reached.
func (w *Workspace) DeleteFile(rel string) error {
	err := os.Remove(w.AbsPath(rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
