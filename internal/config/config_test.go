package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	in := &Config{
		CourseID:   4242,
		CourseName: "Distributed Systems",
		BaseURL:    "https://canvas.example.edu",
		Policy:     "prefer-local",
	}
	require.NoError(t, in.Save(path))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in.CourseID, out.CourseID)
	assert.Equal(t, in.CourseName, out.CourseName)
	assert.Equal(t, in.BaseURL, out.BaseURL)
	assert.Equal(t, in.Policy, out.Policy)
	assert.Equal(t, path, out.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{CourseID: 1, BaseURL: "https://canvas.example.edu"}
	assert.NoError(t, valid.Validate())

	noCourse := Config{BaseURL: "https://canvas.example.edu"}
	assert.ErrorIs(t, noCourse.Validate(), ErrNoCourseID)

	noURL := Config{CourseID: 1}
	assert.ErrorIs(t, noURL.Validate(), ErrNoBaseURL)

	badURL := Config{CourseID: 1, BaseURL: "not a url"}
	assert.Error(t, badURL.Validate())
}

func TestToken(t *testing.T) {
	t.Setenv(TokenEnv, "secret-token")
	token, err := Token()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	t.Setenv(TokenEnv, "")
	_, err = Token()
	assert.ErrorIs(t, err, ErrNoToken)
}
