package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/readmegen/internal/data"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/lint"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

type fixture struct {
	dir      string
	registry *templates.Registry
	files    *FileSet
	source   string
}

func newFixture(t *testing.T, source string) *fixture {
	t.Helper()
	dir := t.TempDir()
	reg := templates.NewRegistry()
	_, err := reg.Load(templates.CategoryLayout, templates.MapSource{
		"default": "<top>\n{{ body }}\n<bottom>",
		"inner":   "---\nlayout: default\n---\n[{{ body }}]",
		"loop-a":  "---\nlayout: loop-b\n---\n{{ body }}",
		"loop-b":  "---\nlayout: loop-a\n---\n{{ body }}",
	})
	require.NoError(t, err)
	_, err = reg.Load(templates.CategoryInclude, templates.MapSource{"install": "npm i {{ name }}"})
	require.NoError(t, err)

	path := filepath.Join(dir, ".verb.md")
	f, err := NewFile(KeyReadme, path, []byte(source))
	require.NoError(t, err)
	files := NewFileSet()
	files.Add(f)
	return &fixture{dir: dir, registry: reg, files: files, source: path}
}

func (fx *fixture) pipeline(opts ...Option) *Pipeline {
	md := NewTextEngine(EngineOptions{Name: "md"})
	primary := NewTextEngine(EngineOptions{Name: "primary", Delims: [2]string{"{%", "%}"}})
	base := []Option{
		WithPartials(fx.registry),
		WithAlias(data.NewReadmeAlias("verb")),
		WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
	}
	return NewPipeline(primary, NewEngines(md).Register(md, ".md"), append(base, opts...)...)
}

func (fx *fixture) run(t *testing.T, p *Pipeline, d data.Context) (*Output, error) {
	t.Helper()
	return p.Run(context.Background(), Request{Files: fx.files, Source: fx.source, Data: d, Dest: fx.dir})
}

func readOutput(t *testing.T, dir string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, OutputName))
	require.NoError(t, err)
	return string(b)
}

func TestPipeline_RendersNameIntoReadme(t *testing.T) {
	fx := newFixture(t, "# {{ name }}\n")

	out, err := fx.run(t, fx.pipeline(), data.Context{"name": "demo"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fx.dir, "README.md"), out.Path)
	assert.Contains(t, readOutput(t, fx.dir), "# demo")
	assert.Equal(t, Fingerprint([]byte("# demo\n")), out.Fingerprint)
}

func TestPipeline_TwoPassesAndLayouts(t *testing.T) {
	fx := newFixture(t, "---\nlayout: inner\ntitle: local\n---\n{% include \"install\" %} ({{ title }})")

	_, err := fx.run(t, fx.pipeline(), data.Context{"name": "demo", "title": "global"})
	require.NoError(t, err)
	assert.Equal(t, "<top>\n[npm i demo (local)]\n<bottom>", readOutput(t, fx.dir))
}

func TestPipeline_UnknownLayoutRendersBody(t *testing.T) {
	fx := newFixture(t, "---\nlayout: missing\n---\nbody")
	_, err := fx.run(t, fx.pipeline(), nil)
	require.NoError(t, err)
	assert.Equal(t, "body", readOutput(t, fx.dir))
}

func TestPipeline_LayoutCycle(t *testing.T) {
	fx := newFixture(t, "---\nlayout: loop-a\n---\nbody")
	_, err := fx.run(t, fx.pipeline(), nil)
	require.ErrorIs(t, err, ErrLayoutCycle)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRender))
	assert.NoFileExists(t, filepath.Join(fx.dir, OutputName))
}

func TestPipeline_NoSourceWritesNothing(t *testing.T) {
	dir := t.TempDir()
	p := NewPipeline(NewTextEngine(EngineOptions{}), NewEngines(NewTextEngine(EngineOptions{})))

	_, err := p.Run(context.Background(), Request{Files: NewFileSet(), Source: filepath.Join(dir, ".verb.md"), Dest: dir})
	require.ErrorIs(t, err, ErrNoSource)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPipeline))

	_, err = p.Run(context.Background(), Request{Source: filepath.Join(dir, ".verb.md"), Dest: dir})
	require.ErrorIs(t, err, ErrNoSource)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPipeline_SourceNotRegistered(t *testing.T) {
	dir := t.TempDir()
	files := NewFileSet()
	f, err := NewFile("other", filepath.Join(dir, "other.md"), []byte("x"))
	require.NoError(t, err)
	files.Add(f)

	p := NewPipeline(NewTextEngine(EngineOptions{}), NewEngines(NewTextEngine(EngineOptions{})))
	_, err = p.Run(context.Background(), Request{Files: files, Source: filepath.Join(dir, ".verb.md"), Dest: dir})
	require.ErrorIs(t, err, ErrSourceNotRegistered)
}

func TestPipeline_RenderErrorAbortsBeforeWrite(t *testing.T) {
	fx := newFixture(t, "{{ if }}")
	var postRan bool
	hooks := &Hooks{}
	hooks.PostRender(Hook{Name: "mark", Fn: func(context.Context, *File) error { postRan = true; return nil }})

	_, err := fx.run(t, fx.pipeline(WithHooks(hooks)), nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRender))
	assert.False(t, postRan)
	assert.NoFileExists(t, filepath.Join(fx.dir, OutputName))
}

func TestPipeline_StageOrder(t *testing.T) {
	fx := newFixture(t, "{{ name }}")
	var order []string
	hooks := &Hooks{}
	hooks.PreRender(Hook{Name: "pre", Pattern: regexp.MustCompile(`(?i)(verb|readme)\.md$`), Fn: func(_ context.Context, f *File) error {
		order = append(order, "pre:"+string(f.Contents))
		return nil
	}})
	hooks.PreRender(Hook{Name: "skipped", Pattern: regexp.MustCompile(`\.txt$`), Fn: func(context.Context, *File) error {
		order = append(order, "never")
		return nil
	}})
	hooks.PostRender(Hook{Name: "post", Fn: func(_ context.Context, f *File) error {
		order = append(order, "post:"+string(f.Contents))
		return nil
	}})
	stage := PostStage{Name: "upper", Fn: func(_ context.Context, f *File) error {
		order = append(order, "stage:"+string(f.Contents))
		f.Contents = append(f.Contents, '!')
		return nil
	}}

	_, err := fx.run(t, fx.pipeline(WithHooks(hooks), WithPostStages(stage)), data.Context{"name": "demo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pre:{{ name }}", "post:demo", "stage:demo"}, order)
	assert.Equal(t, "demo!", readOutput(t, fx.dir))
}

func TestPipeline_PostStageErrorIsPipelineError(t *testing.T) {
	fx := newFixture(t, "x")
	boom := errors.New("boom")
	_, err := fx.run(t, fx.pipeline(WithPostStages(PostStage{Name: "fail", Fn: func(context.Context, *File) error { return boom }})), nil)
	require.ErrorIs(t, err, boom)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPipeline))
	assert.NoFileExists(t, filepath.Join(fx.dir, OutputName))
}

func TestPipeline_RerunIsIdentical(t *testing.T) {
	fx := newFixture(t, "# {{ name }}\n\n<!-- toc -->\n\n## Install\n")
	stages, err := BuildPostStages([]string{"toc", "whitespace"}, StageOptions{TOCFooter: DefaultTOCFooter})
	require.NoError(t, err)
	p := fx.pipeline(WithPostStages(stages...))

	_, err = fx.run(t, p, data.Context{"name": "demo"})
	require.NoError(t, err)
	first := readOutput(t, fx.dir)

	_, err = fx.run(t, p, data.Context{"name": "demo"})
	require.NoError(t, err)
	assert.Equal(t, first, readOutput(t, fx.dir))
	assert.Equal(t, "{{ name }}", firstLineOfSource(t, fx))
}

func firstLineOfSource(t *testing.T, fx *fixture) string {
	t.Helper()
	f, ok := fx.files.Get(KeyReadme)
	require.True(t, ok)
	return string(f.Contents[2:12])
}

func TestPipeline_Canceled(t *testing.T) {
	fx := newFixture(t, "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fx.pipeline().Run(ctx, Request{Files: fx.files, Source: fx.source, Dest: fx.dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRemoveCanonical(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("old"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".verb.md"), []byte("keep"), 0o600))

	removed, err := RemoveCanonical(dir)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, Fingerprint([]byte("old")), removed[0].Fingerprint)
	assert.NoFileExists(t, filepath.Join(dir, "readme.md"))
	assert.FileExists(t, filepath.Join(dir, ".verb.md"))

	removed, err = RemoveCanonical(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestPostStages(t *testing.T) {
	var warnings lint.Collector
	stages, err := BuildPostStages([]string{"toc", "whitespace", "reflinks"}, StageOptions{TOCFooter: "\n\n_footer_", Warnings: &warnings})
	require.NoError(t, err)

	f := &File{Path: "/p/README.md", Contents: []byte("# demo\n\n<!-- toc -->\n\n\n\n## Install\n\n### From source\n\nSee [docs][].\n\n## Usage\n\n\n")}
	for _, s := range stages {
		require.NoError(t, s.Fn(context.Background(), f))
	}

	want := "# demo\n\n<!-- toc -->\n\n- [Install](#install)\n  - [From source](#from-source)\n- [Usage](#usage)\n\n_footer_\n\n<!-- tocstop -->\n\n## Install\n\n### From source\n\nSee [docs][].\n\n## Usage\n"
	assert.Equal(t, want, string(f.Contents))
	require.Equal(t, 1, warnings.Len())
	assert.Equal(t, "README.md", warnings.Warnings()[0].Filename)

	_, err = BuildPostStages([]string{"toc", "shout"}, StageOptions{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestTOC_ReplacesPreviousBlock(t *testing.T) {
	stages, err := BuildPostStages([]string{"toc"}, StageOptions{TOCFooter: "\n\n_footer_"})
	require.NoError(t, err)

	f := &File{Contents: []byte("# demo\n\n<!-- toc -->\n\n- [Old](#old)\n\n<!-- tocstop -->\n\n## New\n")}
	require.NoError(t, stages[0].Fn(context.Background(), f))
	want := "# demo\n\n<!-- toc -->\n\n- [New](#new)\n\n_footer_\n\n<!-- tocstop -->\n\n## New\n"
	assert.Equal(t, want, string(f.Contents))

	require.NoError(t, stages[0].Fn(context.Background(), f))
	assert.Equal(t, want, string(f.Contents), "a second pass is stable")
}

func TestTOC_NoHeadingsLeavesEmptyBlock(t *testing.T) {
	stages, err := BuildPostStages([]string{"toc"}, StageOptions{TOCFooter: DefaultTOCFooter})
	require.NoError(t, err)
	f := &File{Contents: []byte("# demo\n\n<!-- toc -->\n")}
	require.NoError(t, stages[0].Fn(context.Background(), f))
	assert.Equal(t, "# demo\n\n<!-- toc -->\n\n<!-- tocstop -->\n", string(f.Contents))
}

func TestTOC_NoMarkerIsNoop(t *testing.T) {
	stages, err := BuildPostStages([]string{"toc"}, StageOptions{TOCFooter: DefaultTOCFooter})
	require.NoError(t, err)
	f := &File{Contents: []byte("## A\n")}
	require.NoError(t, stages[0].Fn(context.Background(), f))
	assert.Equal(t, "## A\n", string(f.Contents))
}
