package readme

import (
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/data"
	"git.home.luguber.info/inful/readmegen/internal/lint"
	"git.home.luguber.info/inful/readmegen/internal/render"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

// Outcome is the result of source acquisition.
type Outcome string

const (
	// OutcomeNotNeeded means a source was already registered under a reserved key.
	OutcomeNotNeeded Outcome = "not-needed"
	// OutcomeDisabled means acquisition was turned off with verbmd=false.
	OutcomeDisabled Outcome = "disabled"
	// OutcomeLoaded means the configured input file was read from disk.
	OutcomeLoaded Outcome = "loaded"
	// OutcomeCreated means a new input template was scaffolded.
	OutcomeCreated Outcome = "created"
	// OutcomeDeclined means the user declined to scaffold one.
	OutcomeDeclined Outcome = "declined"
)

// Run is the state of one generation. Task bodies receive it instead of
// sharing package-level state.
type Run struct {
	ID     string
	Config *config.Config
	Logger *slog.Logger

	Data     *data.Accumulator
	Registry *templates.Registry
	Files    *render.FileSet
	Hooks    *render.Hooks
	// Alias is fixed when the run is created, from Config.Generator.
	Alias    data.AliasStrategy
	Warnings *lint.Collector

	Prompter  Prompter
	Conflicts ConflictResolver

	// Set by the options task.
	primary render.Engine
	engines *render.Engines
	stages  []render.PostStage

	outcome Outcome
	created string
	removed []render.Removed
	output  *render.Output
}

// Outcome returns how the source template was acquired, or "" when the
// verbmd task did not run.
func (r *Run) Outcome() Outcome { return r.outcome }

// register adds f to the file set, applying the configured default layout
// when the front matter names none.
func (r *Run) register(f *render.File) {
	if f.Layout == "" {
		f.Layout = r.Config.Layout
	}
	r.Files.Add(f)
}

// scaffoldPath is where the new task writes the input template.
func (r *Run) scaffoldPath() string {
	return filepath.Join(r.Config.DestDir(), ".verb.md")
}

// Result is what a Generate call reports once every task has finished.
type Result struct {
	RunID   string
	Task    string
	Outcome Outcome
	// Output is the path of the written README, empty when nothing was rendered.
	Output      string
	Fingerprint string
	// Changed is false when the new README has the same fingerprint as the
	// one it replaced.
	Changed bool
	// Created is the path of a scaffolded input template, if any.
	Created  string
	Warnings []lint.Warning
}

func (r *Run) result(task string) *Result {
	res := &Result{
		RunID:    r.ID,
		Task:     task,
		Outcome:  r.outcome,
		Created:  r.created,
		Warnings: r.Warnings.Warnings(),
	}
	if r.output == nil {
		return res
	}
	res.Output = r.output.Path
	res.Fingerprint = r.output.Fingerprint
	res.Changed = true
	for _, rm := range r.removed {
		if rm.Fingerprint == r.output.Fingerprint {
			res.Changed = false
		}
	}
	return res
}
