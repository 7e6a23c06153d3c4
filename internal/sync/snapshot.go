package sync

import (
	"sort"
	"strings"
	"time"
)

// Origin tags which side of the sync a path entry was observed on.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
	OriginSynced Origin = "synced"
)

// fingerprintPrefix namespaces remote fingerprints so they can never collide
// with an MD5 content hash. A remote entry whose content hash is unknown
// carries its fingerprint in the Hash field under this prefix and therefore
// always compares as modified against a real hash.
const fingerprintPrefix = "fp:"

// PathEntry is one file in a snapshot: a relative slash-separated path, its
// content hash and the remote version fingerprint (when known).
type PathEntry struct {
	Path       string
	Hash       string
	Version    string
	Size       int64
	ModifiedAt time.Time
	Origin     Origin

	// RemoteID is the Canvas file id, 0 when the file has no remote identity yet.
	RemoteID int64
}

// HashKnown reports whether Hash is a real content hash rather than a
// namespaced fingerprint.
func (e *PathEntry) HashKnown() bool {
	return e.Hash != "" && !strings.HasPrefix(e.Hash, fingerprintPrefix)
}

// FingerprintHash wraps a remote version fingerprint into the hash namespace.
func FingerprintHash(version string) string {
	return fingerprintPrefix + version
}

// Snapshot is a point-in-time mapping of paths to entries. Paths are unique
// by construction of the map. Snapshots are treated as immutable once built;
// Clone before mutating.
type Snapshot struct {
	TakenAt time.Time
	Entries map[string]*PathEntry
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		TakenAt: time.Now(),
		Entries: make(map[string]*PathEntry),
	}
}

func (s *Snapshot) Get(path string) (*PathEntry, bool) {
	e, ok := s.Entries[path]
	return e, ok
}

func (s *Snapshot) Len() int {
	return len(s.Entries)
}

// Paths returns all paths in lexicographic order.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.Entries))
	for p := range s.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clone returns a deep copy safe for mutation.
func (s *Snapshot) Clone() *Snapshot {
	clone := &Snapshot{
		TakenAt: s.TakenAt,
		Entries: make(map[string]*PathEntry, len(s.Entries)),
	}
	for p, e := range s.Entries {
		copied := *e
		clone.Entries[p] = &copied
	}
	return clone
}

// ResolveRemoteHashes substitutes known content hashes into a remote snapshot.
// Canvas does not expose content checksums, so remote entries arrive with a
// version fingerprint only. When the fingerprint matches what base recorded
// at the last sync, the content is unchanged and base's hash carries over.
// Otherwise the entry keeps its namespaced fingerprint hash and compares as
// modified.
func ResolveRemoteHashes(base, remote *Snapshot) {
	for path, entry := range remote.Entries {
		if entry.HashKnown() {
			continue
		}
		baseEntry, ok := base.Get(path)
		if ok && baseEntry.Version != "" && baseEntry.Version == entry.Version {
			entry.Hash = baseEntry.Hash
		} else if entry.Hash == "" {
			entry.Hash = FingerprintHash(entry.Version)
		}
	}
}
