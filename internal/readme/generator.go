package readme

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/data"
	"git.home.luguber.info/inful/readmegen/internal/lint"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
	"git.home.luguber.info/inful/readmegen/internal/render"
	"git.home.luguber.info/inful/readmegen/internal/taskgraph"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

// Task names.
const (
	TaskOptions      = "options"
	TaskPlugins      = "plugins"
	TaskMiddleware   = "middleware"
	TaskData         = "data"
	TaskSetup        = "setup"
	TaskTemplates    = "templates"
	TaskNew          = "new"
	TaskVerbmd       = "verbmd"
	TaskPromptVerbmd = "prompt-verbmd"
	TaskAsk          = "ask"
	TaskReadme       = "readme"
	TaskDefault      = "default"
)

// Plugin customizes a run before any template is loaded. Plugins run in the
// plugins task, in registration order.
type Plugin func(r *Run) error

// Option configures a Generator.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	observer  taskgraph.Observer
	recorder  metrics.Recorder
	prompter  Prompter
	conflicts ConflictResolver
	plugins   []Plugin
	sources   []*render.File
	clock     func() time.Time
	newID     func() string
}

// WithLogger sets the base logger; each run adds its run id.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver receives progress of the non-silent tasks.
func WithObserver(obs taskgraph.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithRecorder records task and render stage metrics.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithPrompter answers the scaffold and overwrite questions.
func WithPrompter(p Prompter) Option {
	return func(o *options) {
		if p != nil {
			o.prompter = p
		}
	}
}

// WithConflictResolver replaces the default PromptConflicts resolver.
func WithConflictResolver(c ConflictResolver) Option {
	return func(o *options) { o.conflicts = c }
}

// WithPlugins appends plugins.
func WithPlugins(p ...Plugin) Option {
	return func(o *options) { o.plugins = append(o.plugins, p...) }
}

// WithSource registers f in every run before any task executes. Register it
// under render.KeyReadme or render.KeyVerb to skip acquisition.
func WithSource(f *render.File) Option {
	return func(o *options) { o.sources = append(o.sources, f) }
}

// WithClock overrides the time source of the date helpers.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// Generator owns the task graph of the README generator.
type Generator struct {
	cfg   *config.Config
	opts  options
	graph *taskgraph.Graph[*Run]
}

// New creates a generator for cfg and registers its tasks.
func New(cfg *config.Config, opts ...Option) *Generator {
	o := options{
		logger:   slog.Default(),
		observer: taskgraph.NoopObserver{},
		recorder: metrics.NoopRecorder{},
		prompter: Answer(false),
		clock:    time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.conflicts == nil {
		o.conflicts = PromptConflicts{Prompter: o.prompter}
	}

	g := &Generator{
		cfg:  cfg,
		opts: o,
		graph: taskgraph.New[*Run](
			taskgraph.WithObserver(o.observer),
			taskgraph.WithRecorder(o.recorder),
			taskgraph.WithLogger(o.logger),
		),
	}
	g.registerTasks()
	return g
}

func (g *Generator) registerTasks() {
	for _, t := range []taskgraph.Task[*Run]{
		{Name: TaskOptions, Silent: true, Description: "Build the template engines and pipeline stages", Run: g.options},
		{Name: TaskPlugins, Silent: true, Description: "Apply registered plugins", Run: g.plugins},
		{Name: TaskMiddleware, Silent: true, Description: "Register render hooks", Run: g.middleware},
		{Name: TaskData, Silent: true, Description: "Load data used for rendering templates", Run: g.data},
		{Name: TaskSetup, Silent: true, Deps: []string{TaskOptions, TaskPlugins, TaskMiddleware, TaskData}, Description: "Load options, plugins, middleware and data"},
		{Name: TaskTemplates, Silent: true, Description: "Load layouts, includes, docs and badges", Run: g.templates},
		{Name: TaskNew, Description: "Add a .verb.md template to the destination directory", Run: g.scaffold},
		{Name: TaskVerbmd, Silent: true, Description: "Load the input template, offering to create one when missing", Run: g.verbmd},
		{Name: TaskPromptVerbmd, Description: "Ask whether to add a new input template", Run: g.promptVerbmd},
		{Name: TaskAsk, Deps: []string{TaskPromptVerbmd}, Description: "Alias for prompt-verbmd"},
		{Name: TaskReadme, Silent: true, Deps: []string{TaskSetup, TaskTemplates, TaskVerbmd}, Description: "Generate README.md from the input template", Run: g.readme},
		{Name: TaskDefault, Deps: []string{TaskReadme}, Description: "Alias for readme"},
	} {
		g.graph.Register(t)
	}
}

// Tasks returns the registered tasks sorted by name.
func (g *Generator) Tasks() []taskgraph.Task[*Run] {
	return g.graph.Tasks()
}

// Generate runs task, or TaskDefault when task is empty, against a fresh Run
// and reports the outcome. Warnings are collected for the whole run and only
// returned, never printed.
func (g *Generator) Generate(ctx context.Context, task string) (*Result, error) {
	if task == "" {
		task = TaskDefault
	}
	r := g.newRun()
	r.Logger.Debug("Starting generation", logfields.Task(task), logfields.Path(g.cfg.ProjectDir))

	if err := g.graph.Run(ctx, task, r); err != nil {
		return nil, err
	}

	res := r.result(task)
	r.Logger.Debug("Generation finished",
		logfields.Task(task),
		logfields.Outcome(string(res.Outcome)),
		logfields.Count(len(res.Warnings)))
	return res, nil
}

func (g *Generator) newRun() *Run {
	id := g.opts.newID()
	r := &Run{
		ID:        id,
		Config:    g.cfg,
		Logger:    g.opts.logger.With(logfields.RunID(id)),
		Data:      data.NewAccumulator(),
		Registry:  templates.NewRegistry(),
		Files:     render.NewFileSet(),
		Hooks:     &render.Hooks{},
		Alias:     data.SelectAlias(g.cfg.Generator, g.cfg.Tool),
		Warnings:  &lint.Collector{},
		Prompter:  g.opts.prompter,
		Conflicts: g.opts.conflicts,
	}
	for _, f := range g.opts.sources {
		r.register(f.Clone())
	}
	return r
}
