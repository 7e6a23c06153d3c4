package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_PathsSorted(t *testing.T) {
	s := snap(map[string]string{"z": "1", "a": "2", "m": "3"})
	assert.Equal(t, []string{"a", "m", "z"}, s.Paths())
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	s := snap(map[string]string{"a": "h1"})
	clone := s.Clone()

	clone.Entries["a"].Hash = "changed"
	clone.Entries["b"] = &PathEntry{Path: "b", Hash: "h2"}

	assert.Equal(t, "h1", s.Entries["a"].Hash)
	assert.Equal(t, 1, s.Len())
}

func TestResolveRemoteHashes_FingerprintMapping(t *testing.T) {
	base := NewSnapshot()
	base.Entries["same.txt"] = &PathEntry{Path: "same.txt", Hash: "md5-1", Version: "uuid1@t1@10"}
	base.Entries["changed.txt"] = &PathEntry{Path: "changed.txt", Hash: "md5-2", Version: "uuid2@t1@20"}

	remote := NewSnapshot()
	remote.Entries["same.txt"] = &PathEntry{Path: "same.txt", Version: "uuid1@t1@10"}
	remote.Entries["changed.txt"] = &PathEntry{Path: "changed.txt", Version: "uuid2@t2@22"}
	remote.Entries["new.txt"] = &PathEntry{Path: "new.txt", Version: "uuid3@t1@5"}

	ResolveRemoteHashes(base, remote)

	// Matching fingerprint inherits the known content hash.
	assert.Equal(t, "md5-1", remote.Entries["same.txt"].Hash)
	assert.True(t, remote.Entries["same.txt"].HashKnown())

	// Rolled fingerprint compares as modified.
	require.False(t, remote.Entries["changed.txt"].HashKnown())
	assert.NotEqual(t, "md5-2", remote.Entries["changed.txt"].Hash)

	// Unknown path gets a namespaced fingerprint hash.
	assert.Equal(t, FingerprintHash("uuid3@t1@5"), remote.Entries["new.txt"].Hash)
}

func TestPathEntry_HashKnown(t *testing.T) {
	assert.True(t, (&PathEntry{Hash: "0cc175b9c0f1b6a831c399e269772661"}).HashKnown())
	assert.False(t, (&PathEntry{Hash: FingerprintHash("u@t@1")}).HashKnown())
	assert.False(t, (&PathEntry{}).HashKnown())
}
