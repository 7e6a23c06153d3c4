package sync

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/canvasgit/canvasgit/internal/utils"
	lru "github.com/hashicorp/golang-lru/v2"
)

const scanCacheSize = 8192

// cachedHash remembers the hash computed for a (size, mtime) pair so
// unchanged files are not re-hashed on every run.
type cachedHash struct {
	Size    int64
	ModTime time.Time
	Hash    string
}

// Scanner builds the local snapshot by walking the working tree and hashing
// file contents.
type Scanner struct {
	root   string
	ignore *IgnoreList
	cache  *lru.Cache[string, cachedHash]
}

func NewScanner(root string, ignore *IgnoreList) (*Scanner, error) {
	cache, err := lru.New[string, cachedHash](scanCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create scan cache: %w", err)
	}
	return &Scanner{
		root:   root,
		ignore: ignore,
		cache:  cache,
	}, nil
}

// Scan walks the tree under root and returns the current local snapshot.
func (s *Scanner) Scan() (*Snapshot, error) {
	snap := NewSnapshot()

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walk error: %w", walkErr)
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("walk rel path: %w", err)
		}
		relPath = utils.NormPath(relPath)

		if d.IsDir() {
			if s.ignore != nil && relPath != "." && s.ignore.ShouldIgnore(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if s.ignore != nil && s.ignore.ShouldIgnore(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			slog.Warn("failed to stat file", "path", path, "error", err)
			return nil // skip this file
		}

		hash, err := s.hashFile(path, relPath, info.Size(), info.ModTime())
		if err != nil {
			slog.Warn("failed to hash file", "path", path, "error", err)
			return nil // skip this file
		}

		snap.Entries[relPath] = &PathEntry{
			Path:       relPath,
			Hash:       hash,
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
			Origin:     OriginLocal,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local scan failed: %w", err)
	}

	return snap, nil
}

func (s *Scanner) hashFile(absPath, relPath string, size int64, modTime time.Time) (string, error) {
	if prev, ok := s.cache.Get(relPath); ok && prev.Size == size && prev.ModTime.Equal(modTime) {
		return prev.Hash, nil
	}

	hash, err := utils.FileHash(absPath)
	if err != nil {
		return "", err
	}

	s.cache.Add(relPath, cachedHash{Size: size, ModTime: modTime, Hash: hash})
	return hash, nil
}
