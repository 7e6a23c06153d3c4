package sync

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// ChangeKind classifies a path relative to the base snapshot.
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeDeleted   ChangeKind = "deleted"
	ChangeModified  ChangeKind = "modified"
	ChangeUnchanged ChangeKind = "unchanged"
)

// Change is a derived record tagging one path against base. Entry is the
// entry from the compared snapshot (nil for deletions), Base the entry from
// the base snapshot (nil for additions).
type Change struct {
	Path  string
	Kind  ChangeKind
	Entry *PathEntry
	Base  *PathEntry
}

// Diff computes a change record for every path present in either snapshot.
// Comparison is by content hash only - never by modification time - so
// re-saves with identical content or clock skew never show up as changes.
// Records come back in lexicographic path order for reproducible output.
func Diff(base, other *Snapshot) []Change {
	paths := mapset.NewThreadUnsafeSet[string]()
	for p := range base.Entries {
		paths.Add(p)
	}
	for p := range other.Entries {
		paths.Add(p)
	}

	sorted := paths.ToSlice()
	sort.Strings(sorted)

	changes := make([]Change, 0, len(sorted))
	for _, path := range sorted {
		baseEntry, inBase := base.Get(path)
		otherEntry, inOther := other.Get(path)

		var kind ChangeKind
		switch {
		case !inBase && inOther:
			kind = ChangeAdded
		case inBase && !inOther:
			kind = ChangeDeleted
		case baseEntry.Hash != otherEntry.Hash:
			kind = ChangeModified
		default:
			kind = ChangeUnchanged
		}

		changes = append(changes, Change{
			Path:  path,
			Kind:  kind,
			Entry: otherEntry,
			Base:  baseEntry,
		})
	}

	return changes
}
