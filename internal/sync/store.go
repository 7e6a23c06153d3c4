package sync

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/canvasgit/canvasgit/internal/db"
	"github.com/jmoiron/sqlx"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS base_snapshot (
    course_id TEXT NOT NULL,
    path TEXT NOT NULL,
    hash TEXT NOT NULL,
    version TEXT NOT NULL,
    remote_id INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL,
    modified_at TEXT NOT NULL, -- RFC3339 string
    PRIMARY KEY (course_id, path)
);

CREATE TABLE IF NOT EXISTS sync_meta (
    course_id TEXT PRIMARY KEY,
    serial INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_base_course ON base_snapshot(course_id);
`

// dbPathEntry is used for scanning from the database where time is stored as TEXT.
type dbPathEntry struct {
	CourseID   string `db:"course_id"`
	Path       string `db:"path"`
	Hash       string `db:"hash"`
	Version    string `db:"version"`
	RemoteID   int64  `db:"remote_id"`
	Size       int64  `db:"size"`
	ModifiedAt string `db:"modified_at"`
}

// SnapshotStore persists the base snapshot (the last fully synced state) per
// course in SQLite. Commit is transactional: the new base fully replaces the
// old one or not at all, so an interrupted run recomputes the same diff.
type SnapshotStore struct {
	db       *sqlx.DB
	dbPath   string
	courseID string
}

func NewSnapshotStore(dbPath, courseID string) *SnapshotStore {
	return &SnapshotStore{
		dbPath:   dbPath,
		courseID: courseID,
	}
}

// Open the store and the underlying database.
func (s *SnapshotStore) Open() error {
	if s.db != nil {
		return fmt.Errorf("snapshot store already open")
	}

	database, err := db.NewSqliteDB(db.WithPath(s.dbPath), db.WithMaxOpenConns(1))
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	if _, err := database.Exec(storeSchema); err != nil {
		database.Close()
		return fmt.Errorf("initialize store schema: %w", err)
	}

	s.db = database
	return nil
}

func (s *SnapshotStore) Close() error {
	if s.db == nil {
		return fmt.Errorf("snapshot store not open")
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	return nil
}

// Base loads the last committed base snapshot. Unparseable rows surface
// ErrStoreCorrupted so the caller can fall back to a full re-sync.
func (s *SnapshotStore) Base() (*Snapshot, error) {
	var rows []dbPathEntry
	err := s.db.Select(&rows, "SELECT course_id, path, hash, version, remote_id, size, modified_at FROM base_snapshot WHERE course_id = ?", s.courseID)
	if err != nil {
		return nil, fmt.Errorf("query base snapshot: %w", err)
	}

	snap := NewSnapshot()
	for _, row := range rows {
		modTime, err := time.Parse(time.RFC3339, row.ModifiedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp for %s: %v", ErrStoreCorrupted, row.Path, err)
		}
		if row.Path == "" || row.Hash == "" {
			return nil, fmt.Errorf("%w: empty path or hash", ErrStoreCorrupted)
		}
		snap.Entries[row.Path] = &PathEntry{
			Path:       row.Path,
			Hash:       row.Hash,
			Version:    row.Version,
			RemoteID:   row.RemoteID,
			Size:       row.Size,
			ModifiedAt: modTime,
			Origin:     OriginSynced,
		}
	}

	return snap, nil
}

// CommitBase atomically replaces the base snapshot and bumps the monotonic
// sync serial.
func (s *SnapshotStore) CommitBase(snap *Snapshot) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM base_snapshot WHERE course_id = ?", s.courseID); err != nil {
		return fmt.Errorf("clear base snapshot: %w", err)
	}

	insert := `INSERT INTO base_snapshot (course_id, path, hash, version, remote_id, size, modified_at)
	           VALUES (:course_id, :path, :hash, :version, :remote_id, :size, :modified_at)`
	for _, path := range snap.Paths() {
		entry := snap.Entries[path]
		row := dbPathEntry{
			CourseID:   s.courseID,
			Path:       entry.Path,
			Hash:       entry.Hash,
			Version:    entry.Version,
			RemoteID:   entry.RemoteID,
			Size:       entry.Size,
			ModifiedAt: entry.ModifiedAt.Format(time.RFC3339),
		}
		if _, err := tx.NamedExec(insert, row); err != nil {
			return fmt.Errorf("insert base entry %s: %w", entry.Path, err)
		}
	}

	bump := `INSERT INTO sync_meta (course_id, serial, updated_at) VALUES (?, 1, ?)
	         ON CONFLICT(course_id) DO UPDATE SET serial = serial + 1, updated_at = excluded.updated_at`
	if _, err := tx.Exec(bump, s.courseID, time.Now().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("bump sync serial: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit base snapshot: %w", err)
	}

	slog.Debug("base snapshot committed", "course", s.courseID, "paths", snap.Len())
	return nil
}

// Serial returns the monotonic sync counter, 0 before the first commit.
func (s *SnapshotStore) Serial() (int64, error) {
	var serial int64
	err := s.db.Get(&serial, "SELECT serial FROM sync_meta WHERE course_id = ?", s.courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query sync serial: %w", err)
	}
	return serial, nil
}

// Count returns the number of base entries for the course.
func (s *SnapshotStore) Count() (int, error) {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM base_snapshot WHERE course_id = ?", s.courseID); err != nil {
		return 0, fmt.Errorf("count base entries: %w", err)
	}
	return count, nil
}

// Destroy closes the store and moves the database aside so the next run
// starts from an empty base.
func (s *SnapshotStore) Destroy() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("destroy snapshot store: %w", err)
	}

	timestamp := time.Now().Format("20060102150405")
	if err := os.Rename(s.dbPath, fmt.Sprintf("%s.%s.bak", s.dbPath, timestamp)); err != nil {
		return fmt.Errorf("move snapshot store aside: %w", err)
	}
	return nil
}
