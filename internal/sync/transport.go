package sync

import "context"

// Transport performs remote operations against the course. The engine never
// touches the network directly and never sees raw API responses; adapters
// validate and convert into PathEntry values at this boundary.
type Transport interface {
	// FetchRemoteSnapshot returns the current remote file tree. Entries may
	// carry a version fingerprint instead of a content hash; the engine maps
	// fingerprints through the base snapshot (see ResolveRemoteHashes).
	FetchRemoteSnapshot(ctx context.Context) (*Snapshot, error)

	// Upload pushes the local file at absPath to relPath and returns the
	// resulting remote entry (content hash plus fresh fingerprint).
	Upload(ctx context.Context, relPath string, absPath string) (*PathEntry, error)

	// Download fetches the remote file's bytes.
	Download(ctx context.Context, entry *PathEntry) ([]byte, error)

	// DeleteRemote removes the remote file.
	DeleteRemote(ctx context.Context, entry *PathEntry) error
}

// LocalFS is the engine's view of the working tree for writes. Scanning is
// handled separately by the Scanner.
type LocalFS interface {
	AbsPath(rel string) string
	WriteFile(rel string, data []byte) error
	DeleteFile(rel string) error
}
