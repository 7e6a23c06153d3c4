package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/canvasgit/canvasgit/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, utils.EnsureParent(abs))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
}

func TestScanner_HashesAllFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"readme.md":         "hello",
		"week1/notes.txt":   "notes",
		"week1/hw/main.pdf": "pdf",
		"week2/slides.pptx": "slides",
	})

	scanner, err := NewScanner(root, nil)
	require.NoError(t, err)

	snap, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"readme.md",
		"week1/hw/main.pdf",
		"week1/notes.txt",
		"week2/slides.pptx",
	}, snap.Paths())

	entry := snap.Entries["readme.md"]
	assert.Equal(t, utils.BytesHash([]byte("hello")), entry.Hash)
	assert.Equal(t, int64(5), entry.Size)
	assert.Equal(t, OriginLocal, entry.Origin)
}

func TestScanner_SkipsIgnoredPaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.txt":            "k",
		"scratch.tmp":         "t",
		".canvas/config.json": "{}",
		".canvasignore":       "drafts/\n",
		"drafts/wip.txt":      "w",
	})

	scanner, err := NewScanner(root, NewIgnoreList(root))
	require.NoError(t, err)

	snap, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.txt"}, snap.Paths())
}

func TestScanner_CacheSurvivesUnchangedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "same"})

	scanner, err := NewScanner(root, nil)
	require.NoError(t, err)

	first, err := scanner.Scan()
	require.NoError(t, err)
	second, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, first.Entries["a.txt"].Hash, second.Entries["a.txt"].Hash)
}

func TestScanner_EmptyTree(t *testing.T) {
	scanner, err := NewScanner(t.TempDir(), nil)
	require.NoError(t, err)

	snap, err := scanner.Scan()
	require.NoError(t, err)
	assert.Zero(t, snap.Len())
}

func TestIgnoreList_Defaults(t *testing.T) {
	list := NewIgnoreList(t.TempDir())

	assert.True(t, list.ShouldIgnore(".canvas/sync.db"))
	assert.True(t, list.ShouldIgnore(".canvasignore"))
	assert.True(t, list.ShouldIgnore("notes.tmp"))
	assert.True(t, list.ShouldIgnore(".DS_Store"))
	assert.False(t, list.ShouldIgnore("week1/notes.txt"))
}
