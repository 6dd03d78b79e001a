package templates

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobSource_RecursivePattern(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md":         {Data: []byte("a")},
		"nested/b.md":  {Data: []byte("b")},
		"nested/c.txt": {Data: []byte("c")},
		"deep/er/d.md": {Data: []byte("d")},
	}

	frags, err := GlobSource{FS: fsys, Pattern: "**/*.md"}.Fragments()
	require.NoError(t, err)

	keys := make([]string, 0, len(frags))
	for _, f := range frags {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"a.md", "deep/er/d.md", "nested/b.md"}, keys)

	flat, err := GlobSource{FS: fsys, Pattern: "*.md"}.Fragments()
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, "a.md", flat[0].Key)
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Load(CategoryInclude, MapSource{"install.md": "first", "other": "x"})
	require.NoError(t, err)
	_, err = reg.Load(CategoryInclude, MapSource{"install": "second"})
	require.NoError(t, err)

	got, ok := reg.Content(CategoryInclude, "install")
	require.True(t, ok)
	assert.Equal(t, "second", string(got))
	assert.Equal(t, []string{"install", "other"}, reg.Keys(CategoryInclude))

	// Categories are independent namespaces.
	_, ok = reg.Get(CategoryLayout, "install")
	assert.False(t, ok)
}
