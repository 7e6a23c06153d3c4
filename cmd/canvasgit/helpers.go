package main

import (
	"fmt"
	"os"

	"github.com/canvasgit/canvasgit/internal/canvas"
	"github.com/canvasgit/canvasgit/internal/config"
	"github.com/canvasgit/canvasgit/internal/sync"
	"github.com/canvasgit/canvasgit/internal/workspace"
)

// course bundles everything a command needs to talk to one course.
type course struct {
	ws     *workspace.Workspace
	cfg    *config.Config
	client *canvas.Client
}

// openCourse locates the course workspace from the current directory and
// wires up the API client.
func openCourse() (*course, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	ws, err := workspace.Find(cwd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(ws.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load course config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	token, err := config.Token()
	if err != nil {
		return nil, err
	}

	return &course{
		ws:     ws,
		cfg:    cfg,
		client: canvas.New(cfg.BaseURL, token),
	}, nil
}

// newEngine builds a sync engine for the course with the given policy.
func (c *course) newEngine(policy sync.Policy, workers int) (*sync.Engine, *sync.SnapshotStore, error) {
	store := sync.NewSnapshotStore(c.ws.StorePath, fmt.Sprintf("%d", c.cfg.CourseID))
	if err := store.Open(); err != nil {
		return nil, nil, err
	}

	ignore := sync.NewIgnoreList(c.ws.Root)
	ignore.Load()

	scanner, err := sync.NewScanner(c.ws.Root, ignore)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	engine, err := sync.NewEngine(sync.EngineConfig{
		CourseID:  fmt.Sprintf("%d", c.cfg.CourseID),
		Store:     store,
		Scanner:   scanner,
		Transport: canvas.NewSyncAdapter(c.client, c.cfg.CourseID),
		FS:        c.ws,
		Locker:    c.ws,
		Policy:    policy,
		Workers:   workers,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	return engine, store, nil
}

// resolvePolicy picks the policy from the flag, falling back to the config.
func (c *course) resolvePolicy(flagValue string) (sync.Policy, error) {
	if flagValue != "" {
		return sync.ParsePolicy(flagValue)
	}
	return sync.ParsePolicy(c.cfg.Policy)
}
