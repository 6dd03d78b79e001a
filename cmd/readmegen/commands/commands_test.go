package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/readmegen/internal/config"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/readme"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
}

// run parses args into a fresh CLI and executes the selected command.
func run(t *testing.T, prompter readme.Prompter, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := &CLI{Stdout: &out, Prompter: prompter}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = kctx.Run(&Global{Context: context.Background()}, cli)
	return out.String(), err
}

func TestReadmeIsDefaultCommand(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		".verb.md":     "# {{ name }}\n\n[missing][ref]\n",
		"package.json": `{"name": "demo", "verb": {"lint": {"reflinks": true}}}`,
	})

	out, err := run(t, readme.Answer(false), "--dir", dir)
	require.NoError(t, err)

	readmeOut, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# demo\n\n[missing][ref]\n", string(readmeOut))
	assert.Equal(t, ".verb.md | reference link [ref] has no definition\n", out)
}

func TestReadme_JSONWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{".verb.md": "---\nlayout: missing\n---\nbody\n"})

	out, err := run(t, readme.Answer(false), "--dir", dir, "--warnings-format", "json", "readme")
	require.NoError(t, err)

	var doc struct {
		Count    int `json:"count"`
		Warnings []struct {
			Filename string `json:"filename"`
			Rule     string `json:"rule"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Count)
	assert.Equal(t, ".verb.md", doc.Warnings[0].Filename)
	assert.Equal(t, "layout", doc.Warnings[0].Rule)
}

func TestReadme_VerbmdFalseWritesNothing(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, readme.Answer(true), "--dir", dir, "--verbmd=false")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "README.md"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, ".verb.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadme_DestAndInputFlags(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"template.md": "custom {{ prefix }}\n"})

	_, err := run(t, nil, "--dir", dir, "--readme", "template.md", "--dest", "out")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "out", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "custom Copyright\n", string(b))
}

func TestNewCommand(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, readme.Answer(false), "--dir", dir, "--layout", "empty", "new")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, ".verb.md"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "layout: empty")
}

func TestAskCommand(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, readme.Answer(true), "--dir", dir, "ask")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".verb.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.True(t, os.IsNotExist(err), "ask only scaffolds")
}

func TestConfigErrorIsClassified(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{".verb.md": "x\n"})

	_, err := run(t, nil, "--dir", dir, "--config", "absent.yaml")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestTasksCommand(t *testing.T) {
	out, err := run(t, nil, "--dir", t.TempDir(), "tasks")
	require.NoError(t, err)

	assert.Contains(t, out, "TASK")
	assert.Regexp(t, `(?m)^readme\s+setup, templates, verbmd\s+Generate README\.md`, out)
	assert.Regexp(t, `(?m)^ask\s+prompt-verbmd\s+`, out)
	assert.Regexp(t, `(?m)^new\s+-\s+`, out)
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{".verb.md": "x\n"})
	metricsPath := filepath.Join(dir, "metrics.prom")

	_, err := run(t, nil, "--dir", dir, "--metrics-file", metricsPath)
	require.NoError(t, err)

	b, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), `readmegen_task_results_total{result="success",task="readme"} 1`)
	assert.Contains(t, string(b), "readmegen_render_stage_duration_seconds")
}

func TestOverrides(t *testing.T) {
	cli := &CLI{Dest: "out", VerbmdFlag: "false", Generator: true}
	o := cli.overrides()
	require.NotNil(t, o.Dest)
	assert.Equal(t, "out", *o.Dest)
	require.NotNil(t, o.Verbmd)
	assert.False(t, *o.Verbmd)
	require.NotNil(t, o.Generator)
	assert.Nil(t, o.Readme)
	assert.Nil(t, o.Layout)

	assert.Equal(t, config.Overrides{}, (&CLI{}).overrides())
}

func TestWatchOptions(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(config.LoadOptions{Dir: dir})
	require.NoError(t, err)

	opts := watchOptions(cfg, time.Second)
	assert.Contains(t, opts.Files, filepath.Join(cfg.ProjectDir, ".verb.md"))
	assert.Contains(t, opts.Files, filepath.Join(cfg.ProjectDir, "package.json"))
	assert.Equal(t, []string{filepath.Join(cfg.ProjectDir, "docs")}, opts.Dirs)
	assert.Equal(t, []string{filepath.Join(cfg.ProjectDir, "README.md")}, opts.Ignore)
	assert.Equal(t, time.Second, opts.Debounce)
}
