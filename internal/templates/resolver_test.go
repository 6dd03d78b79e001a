package templates

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

func testBuiltins() fstest.MapFS {
	return fstest.MapFS{
		"docs/usage.md":            {Data: []byte("builtin usage doc")},
		"layouts/default.md":       {Data: []byte("builtin layout {{ body }}")},
		"includes/footer.md":       {Data: []byte("builtin footer")},
		"includes/install-npm.md":  {Data: []byte("builtin install")},
		"includes/nested/extra.md": {Data: []byte("nested include")},
	}
}

func writeProjectDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(docs, name), []byte(content), 0o600))
}

func content(t *testing.T, reg *Registry, c Category, key string) string {
	t.Helper()
	b, ok := reg.Content(c, key)
	require.True(t, ok, "missing %s/%s", c, key)
	return string(b)
}

func TestResolver_LoadDefaultsWithoutProjectDocs(t *testing.T) {
	reg := NewRegistry()
	r := NewResolver(reg, t.TempDir(), testBuiltins(), nil)

	require.NoError(t, r.LoadDefaults())

	assert.Equal(t, "builtin usage doc", content(t, reg, CategoryDocs, "usage"))
	assert.Equal(t, "builtin layout {{ body }}", content(t, reg, CategoryLayout, "default"))
	assert.Equal(t, "nested include", content(t, reg, CategoryInclude, "nested/extra"))
	// StaticIncludes load after the built-in include directory.
	assert.Equal(t, StaticIncludes["install-npm"], content(t, reg, CategoryInclude, "install-npm"))
	assert.Equal(t, StaticIncludes["footer"], content(t, reg, CategoryInclude, "footer"))
	assert.Equal(t, len(StaticBadges), reg.Len(CategoryBadge))
}

func TestResolver_ProjectDocsOverrideDocsAndIncludes(t *testing.T) {
	dir := t.TempDir()
	writeProjectDoc(t, dir, "usage.md", "project usage")
	writeProjectDoc(t, dir, "install-npm.md", "project install")

	reg := NewRegistry()
	r := NewResolver(reg, dir, testBuiltins(), nil)
	require.NoError(t, r.LoadDefaults())

	assert.Equal(t, "project usage", content(t, reg, CategoryDocs, "usage"))
	assert.Equal(t, "project usage", content(t, reg, CategoryInclude, "usage"))
	assert.Equal(t, "project install", content(t, reg, CategoryInclude, "install-npm"))
	// Layouts never come from the project directory.
	_, ok := reg.Get(CategoryLayout, "usage")
	assert.False(t, ok)
}

func TestResolver_ViewsOverrideBuiltins(t *testing.T) {
	dir := t.TempDir()
	writeProjectDoc(t, dir, "install-npm.md", "project install")

	reg := NewRegistry()
	r := NewResolver(reg, dir, testBuiltins(), nil)
	require.NoError(t, r.LoadDefaults())

	require.NoError(t, r.ApplyViews(Views{
		CategoryLayout:  {"default": "views layout {{ body }}"},
		CategoryInclude: {"install-npm.md": "views install"},
		CategoryBadge:   {"npm": "views badge"},
	}))

	assert.Equal(t, "views layout {{ body }}", content(t, reg, CategoryLayout, "default"))
	assert.Equal(t, "views install", content(t, reg, CategoryInclude, "install-npm"))
	assert.Equal(t, "views badge", content(t, reg, CategoryBadge, "npm"))
}

func TestResolver_ViewsRequireDefaultsFirst(t *testing.T) {
	r := NewResolver(NewRegistry(), t.TempDir(), testBuiltins(), nil)

	err := r.ApplyViews(Views{CategoryLayout: {"default": "x"}})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
}

func TestBuiltinFS_ShipsDefaults(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, NewResolver(reg, t.TempDir(), nil, nil).LoadDefaults())

	_, ok := reg.Get(CategoryLayout, "default")
	assert.True(t, ok)
	_, ok = reg.Get(CategoryInclude, "running-tests")
	assert.True(t, ok)

	basic, err := BasicVerbTemplate()
	require.NoError(t, err)
	assert.Contains(t, string(basic), "layout: default")
}
