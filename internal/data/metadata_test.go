package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		raw  string
		want Repository
		ok   bool
	}{
		{"https://github.com/acme/demo.git", Repository{"github.com", "acme", "demo", "https://github.com/acme/demo"}, true},
		{"git@github.com:acme/demo.git", Repository{"github.com", "acme", "demo", "https://github.com/acme/demo"}, true},
		{"ssh://git@gitlab.example.com:2222/group/sub/demo", Repository{"gitlab.example.com", "group/sub", "demo", "https://gitlab.example.com/group/sub/demo"}, true},
		{"demo", Repository{}, false},
		{"https://github.com/", Repository{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseRemoteURL(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestLoadRepository(t *testing.T) {
	dir := t.TempDir()

	repo, err := LoadRepository(dir)
	require.NoError(t, err)
	assert.Nil(t, repo)

	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	repo, err = LoadRepository(dir)
	require.NoError(t, err)
	assert.Nil(t, repo, "no origin remote")

	_, err = r.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:acme/demo.git"}})
	require.NoError(t, err)

	repo, err = LoadRepository(dir)
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Equal(t, "acme", repo.Owner)
	assert.Equal(t, "demo", repo.Name)
	assert.Equal(t, "https://github.com/acme/demo", repo.Map()["url"])
}

func TestLoadPackage(t *testing.T) {
	dir := t.TempDir()

	pkg, err := LoadPackage(dir)
	require.NoError(t, err)
	assert.Nil(t, pkg)

	manifest := `{
  "name": "demo",
  "description": "A demo package",
  "version": "1.2.3",
  "license": "MIT",
  "author": "Jane Doe <jane@example.com> (https://example.com)",
  "repository": "acme/demo",
  "scripts": {"test": "mocha"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, PackageFile), []byte(manifest), 0o600))

	pkg, err = LoadPackage(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", pkg["name"])
	assert.Equal(t, "MIT", pkg["license"])
	assert.Equal(t, map[string]any{"name": "Jane Doe", "email": "jane@example.com", "url": "https://example.com"}, pkg["author"])
	assert.Equal(t, "acme", pkg["repository"].(map[string]any)["owner"])
	assert.NotContains(t, pkg, "scripts")
}

func TestLoadPackage_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PackageFile), []byte("{"), 0o600))

	_, err := LoadPackage(dir)
	require.Error(t, err)
}
