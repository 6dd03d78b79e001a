package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/lint"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
	"git.home.luguber.info/inful/readmegen/internal/readme"
	"git.home.luguber.info/inful/readmegen/internal/taskgraph"
)

// ReadmeCmd implements the default 'readme' command.
type ReadmeCmd struct{}

// Run executes the readme command.
func (r *ReadmeCmd) Run(g *Global, root *CLI) error {
	return root.runTask(g.context(), readme.TaskDefault)
}

// NewCmd implements the 'new' command.
type NewCmd struct{}

// Run executes the new command.
func (n *NewCmd) Run(g *Global, root *CLI) error {
	return root.runTask(g.context(), readme.TaskNew)
}

// VerbmdCmd implements the 'verbmd' command.
type VerbmdCmd struct{}

// Run executes the verbmd command.
func (v *VerbmdCmd) Run(g *Global, root *CLI) error {
	return root.runTask(g.context(), readme.TaskVerbmd)
}

// AskCmd implements the 'ask' command.
type AskCmd struct{}

// Run executes the ask command.
func (a *AskCmd) Run(g *Global, root *CLI) error {
	return root.runTask(g.context(), readme.TaskAsk)
}

// PromptVerbmdCmd implements the 'prompt-verbmd' command.
type PromptVerbmdCmd struct{}

// Run executes the prompt-verbmd command.
func (p *PromptVerbmdCmd) Run(g *Global, root *CLI) error {
	return root.runTask(g.context(), readme.TaskPromptVerbmd)
}

func (c *CLI) runTask(ctx context.Context, task string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	gen, rec := c.newGenerator(cfg)

	res, err := gen.Generate(ctx, task)
	if werr := c.writeMetrics(rec); werr != nil {
		slog.Warn("Failed to write metrics", logfields.Error(werr))
	}
	if err != nil {
		return err
	}
	return c.report(res)
}

// newGenerator builds a generator for cfg. The returned recorder is nil
// unless --metrics-file is set.
func (c *CLI) newGenerator(cfg *config.Config) (*readme.Generator, *metrics.PrometheusRecorder) {
	prompter := c.Prompter
	if prompter == nil {
		prompter = readme.NewTerminalPrompter()
	}
	opts := []readme.Option{
		readme.WithLogger(slog.Default()),
		readme.WithObserver(taskgraph.LogObserver{Logger: slog.Default()}),
		readme.WithPrompter(prompter),
	}

	var rec *metrics.PrometheusRecorder
	if c.MetricsFile != "" {
		rec = metrics.NewPrometheusRecorder(nil)
		opts = append(opts, readme.WithRecorder(rec))
	}
	return readme.New(cfg, opts...), rec
}

func (c *CLI) writeMetrics(rec *metrics.PrometheusRecorder) error {
	if rec == nil {
		return nil
	}
	return rec.WriteTextfile(c.MetricsFile)
}

// report prints the warnings collected during the run. Warnings never fail
// the command.
func (c *CLI) report(res *readme.Result) error {
	if len(res.Warnings) == 0 && c.WarningsFormat != "json" {
		return nil
	}
	return lint.NewFormatter(c.WarningsFormat).Format(c.stdout(), res.Warnings)
}
