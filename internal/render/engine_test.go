package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/readmegen/internal/data"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

func testRegistry(t *testing.T) *templates.Registry {
	t.Helper()
	reg := templates.NewRegistry()
	_, err := reg.Load(templates.CategoryInclude, templates.MapSource{
		"install": "npm install {{ name }}",
		"loop-a":  `{{ include "loop-b" }}`,
		"loop-b":  `{{ include "loop-a" }}`,
	})
	require.NoError(t, err)
	_, err = reg.Load(templates.CategoryBadge, templates.MapSource{"npm": "[npm:{{ name }}]"})
	require.NoError(t, err)
	_, err = reg.Load(templates.CategoryDocs, templates.MapSource{"license": "{{ prefix }} {{ year }}"})
	require.NoError(t, err)
	return reg
}

func renderString(t *testing.T, e *TextEngine, src string, d data.Context) (string, error) {
	t.Helper()
	out, err := e.Render(RenderContext{
		Name:     "test",
		Data:     d,
		Partials: testRegistry(t),
		Alias:    data.NewReadmeAlias("verb"),
		Now:      time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	}, []byte(src))
	return string(out), err
}

func TestTextEngine_BareIdentifiers(t *testing.T) {
	e := NewTextEngine(EngineOptions{})
	d := data.Context{
		"name":   "demo",
		"author": map[string]any{"name": "Jane"},
		"empty":  nil,
	}

	out, err := renderString(t, e, "# {{ name }}\nby {{ author.name }}{{ with author }} ({{ .name }}){{ end }}[{{ empty }}]", d)
	require.NoError(t, err)
	assert.Equal(t, "# demo\nby Jane (Jane)[]", out)
}

func TestTextEngine_MissingData(t *testing.T) {
	out, err := renderString(t, NewTextEngine(EngineOptions{}), "[{{ nothing }}]{{ if version }}v{{ end }}", data.Context{})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	_, err = renderString(t, NewTextEngine(EngineOptions{MissingData: MissingError}), "{{ nothing }}", data.Context{})
	require.ErrorIs(t, err, ErrMissingData)
}

func TestTextEngine_MissingFields(t *testing.T) {
	e := NewTextEngine(EngineOptions{})
	d := data.Context{
		"author": map[string]any{"name": "Jane"},
		"tags":   []any{"a", "b"},
	}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"nested missing", "by {{ author.name }} <{{ author.email }}>", "by Jane <>"},
		{"dot missing", "v{{ .version }}", "v"},
		{"dot nested missing", "[{{ .repository.owner }}]", "[]"},
		{"variable field", "{{ $a := author }}{{ $a.name }}/{{ $a.url }}", "Jane/"},
		{"with scope", "{{ with author }}{{ .name }}:{{ .url }}{{ end }}", "Jane:"},
		{"if on missing", "{{ if author.url }}yes{{ else }}no{{ end }}", "no"},
		{"range missing", "[{{ range .keywords }}{{ . }}{{ end }}]", "[]"},
		{"range present", "{{ range .tags }}{{ . }}{{ end }}", "ab"},
		{"field of scalar", "[{{ author.name.first }}]", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := renderString(t, e, tt.src, d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestTextEngine_MissingFieldsCanFail(t *testing.T) {
	e := NewTextEngine(EngineOptions{MissingData: MissingError})
	d := data.Context{"author": map[string]any{"name": "Jane"}}

	out, err := renderString(t, e, "{{ author.name }}", d)
	require.NoError(t, err)
	assert.Equal(t, "Jane", out)

	_, err = renderString(t, e, "{{ author.email }}", d)
	require.ErrorIs(t, err, ErrMissingData)
	assert.Contains(t, err.Error(), `"email"`)

	_, err = renderString(t, e, "{{ .version }}", d)
	require.ErrorIs(t, err, ErrMissingData)
}

func TestTextEngine_BuiltinsAreNotShadowed(t *testing.T) {
	out, err := renderString(t, NewTextEngine(EngineOptions{}), `{{ len "abc" }}-{{ index items 1 }}`, data.Context{
		"len":   "shadow",
		"items": []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "3-b", out)
}

func TestTextEngine_Helpers(t *testing.T) {
	d := data.Context{"name": "verb-readme-generator", "prefix": "Copyright"}
	out, err := renderString(t, NewTextEngine(EngineOptions{}),
		`{{ include "install" }}|{{ badge "npm" }}|{{ doc "license" }}|{{ alias name }}|{{ date }}|[{{ body }}]`, d)
	require.NoError(t, err)
	assert.Equal(t, "npm install verb-readme-generator|[npm:verb-readme-generator]|Copyright 2026|readme|March 4, 2026|[]", out)
}

func TestTextEngine_MissingIncludePassesThrough(t *testing.T) {
	out, err := renderString(t, NewTextEngine(EngineOptions{}), `a {{ include "nope" }} b`, data.Context{})
	require.NoError(t, err)
	assert.Equal(t, `a {{ include "nope" }} b`, out)

	primary := NewTextEngine(EngineOptions{Delims: [2]string{"{%", "%}"}})
	out, err = renderString(t, primary, `{% badge "nope" %}`, data.Context{})
	require.NoError(t, err)
	assert.Equal(t, `{% badge "nope" %}`, out)
}

func TestTextEngine_MissingIncludeError(t *testing.T) {
	_, err := renderString(t, NewTextEngine(EngineOptions{MissingInclude: MissingError}), `{{ include "nope" }}`, data.Context{})
	require.ErrorIs(t, err, ErrMissingInclude)
}

func TestTextEngine_IncludeCycle(t *testing.T) {
	_, err := renderString(t, NewTextEngine(EngineOptions{}), `{{ include "loop-a" }}`, data.Context{})
	require.ErrorIs(t, err, ErrIncludeDepth)
}

func TestTextEngine_CustomDelimsLeaveOtherActions(t *testing.T) {
	primary := NewTextEngine(EngineOptions{Delims: [2]string{"{%", "%}"}})
	out, err := renderString(t, primary, `{% include "install" %} and {{ name }}`, data.Context{"name": "demo"})
	require.NoError(t, err)
	// The include body is inserted verbatim; its {{ }} actions belong to the second pass.
	assert.Equal(t, "npm install {{ name }} and {{ name }}", out)
}

func TestTextEngine_ParseError(t *testing.T) {
	_, err := renderString(t, NewTextEngine(EngineOptions{}), "{{ if }}", data.Context{})
	require.Error(t, err)
}

func TestEngines_For(t *testing.T) {
	md := NewTextEngine(EngineOptions{Name: "md"})
	fallback := NewTextEngine(EngineOptions{Name: "fallback"})
	engines := NewEngines(fallback).Register(md, ".md", "markdown")

	e, ok := engines.For("/p/.verb.md")
	require.True(t, ok)
	assert.Equal(t, "md", e.Name())

	e, ok = engines.For("/p/README.MARKDOWN")
	require.True(t, ok)
	assert.Equal(t, "md", e.Name())

	e, ok = engines.For("/p/.verb")
	require.True(t, ok)
	assert.Equal(t, "fallback", e.Name())

	_, ok = NewEngines(nil).For("x.txt")
	assert.False(t, ok)
}
