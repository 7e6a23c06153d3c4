package sync

// OpType identifies a single planned sync action.
type OpType string

const (
	OpUpload       OpType = "upload"
	OpDownload     OpType = "download"
	OpDeleteLocal  OpType = "delete-local"
	OpDeleteRemote OpType = "delete-remote"
)

// Operation is one planned unit of synchronization work. It is owned by the
// planner until handed to the transport and is immutable once created.
type Operation struct {
	Type OpType
	Path string

	// TargetHash is the content hash the path should have once the
	// operation succeeds. Empty for deletions.
	TargetHash string

	Local  *PathEntry
	Remote *PathEntry
	Base   *PathEntry
}

// Conflict is a path where both sides diverged from base with different
// resulting content. Carries both candidate hashes for reporting.
type Conflict struct {
	Path       string
	LocalHash  string
	RemoteHash string
	Local      *PathEntry
	Remote     *PathEntry
	Base       *PathEntry
}
