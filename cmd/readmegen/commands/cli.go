// Package commands defines the readmegen command tree.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/readme"
)

// Global is passed to every command's Run.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
}

func (g *Global) context() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

// CLI definition & global flags.
type CLI struct {
	Dir       string           `short:"C" help:"Project directory" default:"."`
	Config    string           `short:"c" help:"Configuration file path, relative to the project directory (default .readmegen.yaml)"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `help:"Log output format" default:"text" enum:"text,json"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Dest       string `help:"Directory README.md is written to (default: project directory)"`
	Input      string `name:"readme" help:"Input template path (default .verb.md)"`
	VerbmdFlag string `name:"verbmd" help:"Set to false to skip loading or creating the input template" enum:",true,false" default:""`
	Generator  bool   `help:"Treat the project as a generator when deriving aliases"`
	Layout     string `help:"Layout used when the input template names none"`

	WarningsFormat string `help:"Lint warning output format" default:"text" enum:"text,json"`
	MetricsFile    string `help:"Write task metrics in Prometheus text format to this file"`

	Readme       ReadmeCmd       `cmd:"" default:"1" help:"Generate README.md from the input template"`
	New          NewCmd          `cmd:"" help:"Add a .verb.md template to the destination directory"`
	Verbmd       VerbmdCmd       `cmd:"" help:"Load the input template, offering to create one when missing"`
	Ask          AskCmd          `cmd:"" help:"Ask whether to add a new input template"`
	PromptVerbmd PromptVerbmdCmd `cmd:"" name:"prompt-verbmd" help:"Ask whether to add a new input template (alias: ask)"`
	Tasks        TasksCmd        `cmd:"" help:"List the generator's tasks"`
	Watch        WatchCmd        `cmd:"" help:"Regenerate README.md whenever the input template, docs or configuration change"`

	// Stdout receives warnings and listings; nil means os.Stdout.
	Stdout io.Writer `kong:"-"`
	// Prompter answers interactive questions; nil means the terminal.
	Prompter readme.Prompter `kong:"-"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if config.NormalizeLogFormat(c.LogFormat) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func (c *CLI) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *CLI) overrides() config.Overrides {
	var o config.Overrides
	if c.Dest != "" {
		o.Dest = &c.Dest
	}
	if c.Input != "" {
		o.Readme = &c.Input
	}
	if c.Layout != "" {
		o.Layout = &c.Layout
	}
	if c.VerbmdFlag != "" {
		enabled := c.VerbmdFlag == "true"
		o.Verbmd = &enabled
	}
	if c.Generator {
		o.Generator = &c.Generator
	}
	return o
}

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{
		Dir:        c.Dir,
		ConfigFile: c.Config,
		Overrides:  c.overrides(),
	})
}
