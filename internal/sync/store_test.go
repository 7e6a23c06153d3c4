package sync

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store := NewSnapshotStore(filepath.Join(t.TempDir(), "sync.db"), "course-1")
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		if store.db != nil {
			store.Close()
		}
	})
	return store
}

func baseWith(entries map[string]string) *Snapshot {
	snap := NewSnapshot()
	for path, hash := range entries {
		snap.Entries[path] = &PathEntry{
			Path:       path,
			Hash:       hash,
			Version:    "v-" + hash,
			RemoteID:   42,
			Size:       int64(len(hash)),
			ModifiedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return snap
}

func TestStore_CommitAndLoadRoundtrip(t *testing.T) {
	store := newTestStore(t)

	in := baseWith(map[string]string{"a.txt": "h1", "dir/b.txt": "h2"})
	require.NoError(t, store.CommitBase(in))

	out, err := store.Base()
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	entry := out.Entries["dir/b.txt"]
	require.NotNil(t, entry)
	assert.Equal(t, "h2", entry.Hash)
	assert.Equal(t, "v-h2", entry.Version)
	assert.Equal(t, int64(42), entry.RemoteID)
	assert.Equal(t, OriginSynced, entry.Origin)
	assert.True(t, entry.ModifiedAt.Equal(in.Entries["dir/b.txt"].ModifiedAt))
}

func TestStore_CommitReplacesWhole(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CommitBase(baseWith(map[string]string{"old.txt": "h1", "keep.txt": "h2"})))
	require.NoError(t, store.CommitBase(baseWith(map[string]string{"keep.txt": "h2x"})))

	out, err := store.Base()
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, "h2x", out.Entries["keep.txt"].Hash)
}

func TestStore_SerialIsMonotonic(t *testing.T) {
	store := newTestStore(t)

	serial, err := store.Serial()
	require.NoError(t, err)
	assert.Zero(t, serial)

	require.NoError(t, store.CommitBase(baseWith(map[string]string{"a": "h1"})))
	require.NoError(t, store.CommitBase(NewSnapshot()))

	serial, err = store.Serial()
	require.NoError(t, err)
	assert.Equal(t, int64(2), serial)
}

func TestStore_EmptyBaseBeforeFirstCommit(t *testing.T) {
	store := newTestStore(t)

	out, err := store.Base()
	require.NoError(t, err)
	assert.Zero(t, out.Len())
}

func TestStore_CorruptedRowSurfacesError(t *testing.T) {
	store := newTestStore(t)

	_, err := store.db.Exec(
		"INSERT INTO base_snapshot (course_id, path, hash, version, remote_id, size, modified_at) VALUES (?, ?, ?, ?, 0, 0, ?)",
		"course-1", "a.txt", "h1", "v1", "garbage",
	)
	require.NoError(t, err)

	_, err = store.Base()
	assert.ErrorIs(t, err, ErrStoreCorrupted)
}

func TestStore_CoursesAreIsolated(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sync.db")

	s1 := NewSnapshotStore(dbPath, "course-1")
	require.NoError(t, s1.Open())
	require.NoError(t, s1.CommitBase(baseWith(map[string]string{"a": "h1"})))
	require.NoError(t, s1.Close())

	s2 := NewSnapshotStore(dbPath, "course-2")
	require.NoError(t, s2.Open())
	defer s2.Close()

	out, err := s2.Base()
	require.NoError(t, err)
	assert.Zero(t, out.Len())
}

func TestStore_DestroyMovesDatabaseAside(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(filepath.Join(dir, "sync.db"), "course-1")
	require.NoError(t, store.Open())
	require.NoError(t, store.CommitBase(baseWith(map[string]string{"a": "h1"})))

	require.NoError(t, store.Destroy())
	assert.NoFileExists(t, filepath.Join(dir, "sync.db"))

	backups, err := filepath.Glob(filepath.Join(dir, "sync.db.*.bak"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}
