package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/canvasgit/canvasgit/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Locker serializes sync sessions against the same course. Lock must fail
// fast when another session holds the lock rather than block.
type Locker interface {
	Lock() error
	Unlock() error
}

// EngineConfig wires the engine's collaborators. All fields except Policy,
// Retry and Workers are required.
type EngineConfig struct {
	CourseID  string
	Store     *SnapshotStore
	Scanner   *Scanner
	Transport Transport
	FS        LocalFS
	Locker    Locker
	Policy    Policy
	Retry     RetryPolicy
	Workers   int
}

// RunOpts controls a single session.
type RunOpts struct {
	// DryRun computes the plan and conflicts but executes nothing and
	// commits nothing.
	DryRun bool
}

// Engine runs one sync session to completion: load base, scan local, fetch
// remote, diff, resolve, plan, execute, commit. All state is scoped to the
// session; the engine itself only holds wiring.
type Engine struct {
	courseID  string
	store     *SnapshotStore
	scanner   *Scanner
	transport Transport
	fs        LocalFS
	locker    Locker
	policy    Policy
	retry     RetryPolicy
	workers   int
	muSync    sync.Mutex
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Store == nil || cfg.Scanner == nil || cfg.Transport == nil || cfg.FS == nil {
		return nil, errors.New("engine: missing collaborator")
	}
	policy := cfg.Policy
	if policy == "" {
		policy = PolicyManual
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Engine{
		courseID:  cfg.CourseID,
		store:     cfg.Store,
		scanner:   cfg.Scanner,
		transport: cfg.Transport,
		fs:        cfg.FS,
		locker:    cfg.Locker,
		policy:    policy,
		retry:     retry,
		workers:   workers,
	}, nil
}

// opResult pairs an executed operation with its outcome. Entry is the new
// base entry for successful uploads/downloads, nil for deletions.
type opResult struct {
	op    *Operation
	entry *PathEntry
	err   error
}

// Run executes one full sync session.
func (e *Engine) Run(ctx context.Context, opts RunOpts) (*Report, error) {
	if !e.muSync.TryLock() {
		return nil, ErrSessionLocked
	}
	defer e.muSync.Unlock()

	if e.locker != nil {
		if err := e.locker.Lock(); err != nil {
			return nil, err
		}
		defer e.locker.Unlock()
	}

	report := &Report{
		SessionID: uuid.NewString(),
		CourseID:  e.courseID,
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
	}
	defer func() {
		report.Duration = time.Since(report.StartedAt)
	}()

	base, err := e.loadBase()
	if err != nil {
		return nil, err
	}

	local, err := e.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan local tree: %w", err)
	}

	remote, err := e.transport.FetchRemoteSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch remote snapshot: %w", err)
	}
	ResolveRemoteHashes(base, remote)

	res, err := Resolve(Diff(base, local), Diff(base, remote), e.policy)
	if err != nil {
		return nil, err
	}

	plan := BuildPlan(res.Ops)
	report.Plan = plan
	report.Conflicts = res.Conflicts
	report.Unchanged = len(res.Unchanged)

	slog.Debug("session planned",
		"session", report.SessionID,
		"course", e.courseID,
		"uploads", len(plan.Uploads),
		"downloads", len(plan.Downloads),
		"localDeletes", len(plan.LocalDeletes),
		"remoteDeletes", len(plan.RemoteDeletes),
		"conflicts", len(res.Conflicts),
		"unchanged", len(res.Unchanged),
	)

	if opts.DryRun {
		return report, nil
	}

	results := e.executePlan(ctx, plan)
	for _, r := range results {
		if r.err != nil {
			report.Failed = append(report.Failed, PathResult{Path: r.op.Path, Op: r.op.Type, Err: r.err})
		} else {
			report.Succeeded = append(report.Succeeded, PathResult{Path: r.op.Path, Op: r.op.Type})
		}
	}

	// Cancellation must leave base unchanged: partial success is not
	// committed, a retry recomputes the same diff.
	if err := ctx.Err(); err != nil {
		slog.Warn("session cancelled, base left unchanged", "session", report.SessionID)
		return report, err
	}

	newBase := nextBase(base, res, results)
	if err := e.store.CommitBase(newBase); err != nil {
		return report, fmt.Errorf("commit base snapshot: %w", err)
	}
	report.Committed = true

	slog.Info("session complete",
		"session", report.SessionID,
		"course", e.courseID,
		"succeeded", len(report.Succeeded),
		"failed", len(report.Failed),
		"conflicts", len(report.Conflicts),
		"took", report.Duration,
	)
	return report, nil
}

// loadBase loads the base snapshot, recovering from a corrupted store by
// treating it as empty (full re-sync) after surfacing a warning.
func (e *Engine) loadBase() (*Snapshot, error) {
	base, err := e.store.Base()
	if err == nil {
		return base, nil
	}
	if errors.Is(err, ErrStoreCorrupted) {
		slog.Warn("snapshot store corrupted, falling back to full re-sync", "course", e.courseID, "error", err)
		return NewSnapshot(), nil
	}
	return nil, err
}

// executePlan runs the plan phase by phase: deletions first, then uploads,
// then downloads. Within a phase, independent paths run concurrently on a
// bounded worker pool. A failed operation never aborts the plan; its error
// lands in the results.
func (e *Engine) executePlan(ctx context.Context, plan *Plan) []opResult {
	var (
		mu      sync.Mutex
		results []opResult
	)

	runPhase := func(ops []*Operation) {
		if len(ops) == 0 || ctx.Err() != nil {
			return
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for _, op := range ops {
			op := op
			g.Go(func() error {
				var entry *PathEntry
				err := e.retry.Do(gctx, func() error {
					var opErr error
					entry, opErr = e.executeOp(gctx, op)
					return opErr
				})
				if err != nil {
					slog.Error("sync", "op", op.Type, "path", op.Path, "error", err)
				} else {
					slog.Info("sync", "op", op.Type, "path", op.Path)
				}
				mu.Lock()
				results = append(results, opResult{op: op, entry: entry, err: err})
				mu.Unlock()
				return nil // errors are per-path, never abort the phase
			})
		}
		g.Wait()
	}

	runPhase(plan.LocalDeletes)
	runPhase(plan.RemoteDeletes)
	runPhase(plan.Uploads)
	runPhase(plan.Downloads)

	return results
}

func (e *Engine) executeOp(ctx context.Context, op *Operation) (*PathEntry, error) {
	switch op.Type {
	case OpUpload:
		return e.transport.Upload(ctx, op.Path, e.fs.AbsPath(op.Path))

	case OpDownload:
		data, err := e.transport.Download(ctx, op.Remote)
		if err != nil {
			return nil, err
		}
		if err := e.fs.WriteFile(op.Path, data); err != nil {
			return nil, fmt.Errorf("write local file: %w", err)
		}
		return &PathEntry{
			Path:       op.Path,
			Hash:       utils.BytesHash(data),
			Version:    op.Remote.Version,
			RemoteID:   op.Remote.RemoteID,
			Size:       int64(len(data)),
			ModifiedAt: time.Now(),
			Origin:     OriginSynced,
		}, nil

	case OpDeleteLocal:
		return nil, e.fs.DeleteFile(op.Path)

	case OpDeleteRemote:
		return nil, e.transport.DeleteRemote(ctx, op.Remote)

	default:
		return nil, fmt.Errorf("unknown operation type %q", op.Type)
	}
}

// nextBase derives the new base snapshot from the old one plus the session's
// results. Base only advances to cover paths that fully succeeded; failed and
// conflicted paths keep their old entry so the next run retries them.
func nextBase(base *Snapshot, res *Resolution, results []opResult) *Snapshot {
	next := base.Clone()
	next.TakenAt = time.Now()

	for _, path := range res.Cleanups {
		delete(next.Entries, path)
	}
	for _, entry := range res.Adopted {
		copied := *entry
		next.Entries[copied.Path] = &copied
	}

	for _, r := range results {
		if r.err != nil {
			continue
		}
		switch r.op.Type {
		case OpDeleteLocal, OpDeleteRemote:
			delete(next.Entries, r.op.Path)
		case OpUpload, OpDownload:
			if r.entry != nil {
				copied := *r.entry
				copied.Origin = OriginSynced
				next.Entries[copied.Path] = &copied
			}
		}
	}

	return next
}
