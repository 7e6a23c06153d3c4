package canvas

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/canvasgit/canvasgit/internal/sync"
	"github.com/canvasgit/canvasgit/internal/utils"
)

// SyncAdapter implements sync.Transport against a Canvas course. Raw API
// responses are validated and converted into typed snapshot entries here;
// the engine never sees them.
type SyncAdapter struct {
	client   *Client
	courseID int64
}

var _ sync.Transport = (*SyncAdapter)(nil)

func NewSyncAdapter(client *Client, courseID int64) *SyncAdapter {
	return &SyncAdapter{
		client:   client,
		courseID: courseID,
	}
}

// FetchRemoteSnapshot lists the course's folders and files and builds the
// remote snapshot. Entries carry a version fingerprint; content hashes are
// resolved by the engine against the base snapshot.
func (a *SyncAdapter) FetchRemoteSnapshot(ctx context.Context) (*sync.Snapshot, error) {
	folders, err := a.client.ListCourseFolders(ctx, a.courseID)
	if err != nil {
		return nil, wrapTransport("fetch", "", err)
	}
	files, err := a.client.ListCourseFiles(ctx, a.courseID)
	if err != nil {
		return nil, wrapTransport("fetch", "", err)
	}

	folderPaths := FolderPathIndex(folders)

	snap := sync.NewSnapshot()
	for _, f := range files {
		if f.ID == 0 || f.Filename == "" {
			return nil, wrapTransport("fetch", f.Filename, fmt.Errorf("malformed file object id=%d", f.ID))
		}
		dir, ok := folderPaths[f.FolderID]
		if !ok {
			// File in a folder the listing didn't cover; treat as root.
			dir = "."
		}
		relPath := f.DisplayName
		if dir != "." {
			relPath = path.Join(dir, f.DisplayName)
		}
		snap.Entries[relPath] = &sync.PathEntry{
			Path:       relPath,
			Version:    f.Fingerprint(),
			Size:       f.Size,
			ModifiedAt: f.UpdatedAt,
			Origin:     sync.OriginRemote,
			RemoteID:   f.ID,
		}
	}
	return snap, nil
}

// Upload pushes a local file to its course path and returns the new entry.
// The content hash is computed from the local bytes, so the base snapshot
// records a real hash even though Canvas reports none.
func (a *SyncAdapter) Upload(ctx context.Context, relPath string, absPath string) (*sync.PathEntry, error) {
	hash, err := utils.FileHash(absPath)
	if err != nil {
		return nil, fmt.Errorf("hash local file %s: %w", relPath, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat local file %s: %w", relPath, err)
	}

	dir := path.Dir(relPath)
	if dir == "." {
		dir = ""
	}

	file, err := a.client.UploadCourseFile(ctx, a.courseID, dir, path.Base(relPath), absPath, info.Size())
	if err != nil {
		return nil, wrapTransport("upload", relPath, err)
	}

	return &sync.PathEntry{
		Path:       relPath,
		Hash:       hash,
		Version:    file.Fingerprint(),
		Size:       file.Size,
		ModifiedAt: file.UpdatedAt,
		Origin:     sync.OriginRemote,
		RemoteID:   file.ID,
	}, nil
}

// Download fetches the remote file's bytes, re-resolving the download URL by
// file id since listing URLs expire.
func (a *SyncAdapter) Download(ctx context.Context, entry *sync.PathEntry) ([]byte, error) {
	if entry.RemoteID == 0 {
		return nil, wrapTransport("download", entry.Path, errors.New("entry has no remote id"))
	}
	file, err := a.client.GetFile(ctx, entry.RemoteID)
	if err != nil {
		return nil, wrapTransport("download", entry.Path, err)
	}
	if file.URL == "" {
		return nil, wrapTransport("download", entry.Path, errors.New("file has no download url"))
	}
	data, err := a.client.DownloadFile(ctx, file.URL)
	if err != nil {
		return nil, wrapTransport("download", entry.Path, err)
	}
	return data, nil
}

// DeleteRemote removes the remote file.
func (a *SyncAdapter) DeleteRemote(ctx context.Context, entry *sync.PathEntry) error {
	if entry.RemoteID == 0 {
		return wrapTransport("delete", entry.Path, errors.New("entry has no remote id"))
	}
	if err := a.client.DeleteFile(ctx, entry.RemoteID); err != nil {
		return wrapTransport("delete", entry.Path, err)
	}
	return nil
}

// wrapTransport converts client errors into the engine's transport error,
// carrying the retryable flag derived from the API status.
func wrapTransport(op, relPath string, err error) error {
	te := &sync.TransportError{
		Op:   op,
		Path: relPath,
		Err:  err,
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		te.Status = apiErr.Status
		te.Retryable = apiErr.Retryable()
	} else {
		// No HTTP response at all: connection-level failure, retryable.
		te.Retryable = true
	}
	return te
}
