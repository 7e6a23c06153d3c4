package sync

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(entries map[string]string) *Snapshot {
	s := NewSnapshot()
	for path, hash := range entries {
		s.Entries[path] = &PathEntry{
			Path: path,
			Hash: hash,
			Size: int64(len(hash)),
		}
	}
	return s
}

func kinds(changes []Change) map[string]ChangeKind {
	m := make(map[string]ChangeKind, len(changes))
	for _, c := range changes {
		m[c.Path] = c.Kind
	}
	return m
}

func TestDiff_IdenticalSnapshots_AllUnchanged(t *testing.T) {
	s := snap(map[string]string{"a.txt": "h1", "dir/b.txt": "h2", "c.txt": "h3"})

	changes := Diff(s, s)

	require.Len(t, changes, 3)
	for _, c := range changes {
		assert.Equal(t, ChangeUnchanged, c.Kind, c.Path)
	}
}

func TestDiff_Classification(t *testing.T) {
	base := snap(map[string]string{"keep.txt": "h1", "mod.txt": "h2", "gone.txt": "h3"})
	other := snap(map[string]string{"keep.txt": "h1", "mod.txt": "h2x", "new.txt": "h4"})

	changes := Diff(base, other)

	assert.Equal(t, map[string]ChangeKind{
		"keep.txt": ChangeUnchanged,
		"mod.txt":  ChangeModified,
		"gone.txt": ChangeDeleted,
		"new.txt":  ChangeAdded,
	}, kinds(changes))
}

func TestDiff_LexicographicOrder(t *testing.T) {
	base := snap(map[string]string{"z.txt": "h1", "a.txt": "h2"})
	other := snap(map[string]string{"m.txt": "h3", "b/c.txt": "h4"})

	changes := Diff(base, other)

	paths := make([]string, len(changes))
	for i, c := range changes {
		paths[i] = c.Path
	}
	assert.True(t, sort.StringsAreSorted(paths), "changes must be path-sorted: %v", paths)
}

func TestDiff_HashOnly_IgnoresTimestamps(t *testing.T) {
	base := snap(map[string]string{"a.txt": "h1"})
	other := snap(map[string]string{"a.txt": "h1"})
	// Same content, different mtime - must not count as modified.
	other.Entries["a.txt"].ModifiedAt = base.Entries["a.txt"].ModifiedAt.AddDate(0, 0, 1)

	changes := Diff(base, other)

	require.Len(t, changes, 1)
	assert.Equal(t, ChangeUnchanged, changes[0].Kind)
}

func TestDiff_EmptySnapshots(t *testing.T) {
	assert.Empty(t, Diff(NewSnapshot(), NewSnapshot()))
}
