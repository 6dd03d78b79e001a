package taskgraph

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
)

// Body is the side-effecting part of a task. It completes when it returns.
type Body[S any] func(ctx context.Context, state S) error

// Task is a named unit of work with declared dependencies.
type Task[S any] struct {
	Name        string
	Deps        []string
	Description string
	// Silent suppresses observer notifications; scheduling is unaffected.
	Silent bool
	// Run may be nil for tasks that only aggregate their dependencies.
	Run Body[S]
}

// Option configures a Graph.
type Option func(*config)

type config struct {
	observer Observer
	recorder metrics.Recorder
	logger   *slog.Logger
}

// WithObserver sets the progress observer for non-silent tasks.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithRecorder sets the metrics recorder; every task is recorded, silent or not.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *config) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Graph is a registry of task definitions.
//
// A Graph is not safe for concurrent mutation; register all tasks before running.
type Graph[S any] struct {
	tasks map[string]Task[S]
	cfg   config
}

// New creates an empty Graph.
func New[S any](opts ...Option) *Graph[S] {
	cfg := config{
		observer: NoopObserver{},
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Graph[S]{tasks: make(map[string]Task[S]), cfg: cfg}
}

// Register adds a task definition, replacing any previous task with the same name.
func (g *Graph[S]) Register(t Task[S]) {
	if _, exists := g.tasks[t.Name]; exists {
		g.cfg.logger.Debug("Task redefined", logfields.Task(t.Name))
	}
	deps := make([]string, len(t.Deps))
	copy(deps, t.Deps)
	t.Deps = deps
	g.tasks[t.Name] = t
}

// Has reports whether a task is registered under name.
func (g *Graph[S]) Has(name string) bool {
	_, ok := g.tasks[name]
	return ok
}

// Tasks returns all registered tasks sorted by name.
func (g *Graph[S]) Tasks() []Task[S] {
	out := make([]Task[S], 0, len(g.tasks))
	for _, t := range g.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve returns the execution order for name: its transitive dependencies in
// declaration order, each exactly once, followed by name itself.
func (g *Graph[S]) Resolve(name string) ([]string, error) {
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	var stack []string
	var order []string

	var visit func(name, requiredBy string) error
	visit = func(name, requiredBy string) error {
		if visiting[name] {
			return cycleError(cyclePath(stack, name))
		}
		if visited[name] {
			return nil
		}

		task, exists := g.tasks[name]
		if !exists {
			return unknownTaskError(name, requiredBy)
		}

		visiting[name] = true
		stack = append(stack, name)

		for _, dep := range task.Deps {
			if err := visit(dep, name); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		visiting[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	if err := visit(name, ""); err != nil {
		return nil, err
	}
	return order, nil
}

// Run executes name and its dependency closure against state.
//
// Nothing runs if resolution fails. The first body error stops the run and is
// returned wrapped with the failing task's name. Cancellation is honored
// between tasks, never in the middle of one.
func (g *Graph[S]) Run(ctx context.Context, name string, state S) error {
	order, err := g.Resolve(name)
	if err != nil {
		return err
	}

	g.cfg.logger.Debug("Resolved task order", logfields.Task(name), slog.Any("order", order))

	start := time.Now()
	for _, taskName := range order {
		if ctxErr := ctx.Err(); ctxErr != nil {
			g.finishRun(start, metrics.RunFailed)
			return fmt.Errorf("task %q: %w", taskName, ctxErr)
		}
		if err := g.runTask(ctx, g.tasks[taskName], state); err != nil {
			g.finishRun(start, metrics.RunFailed)
			return err
		}
	}

	g.finishRun(start, metrics.RunSuccess)
	return nil
}

func (g *Graph[S]) finishRun(start time.Time, outcome metrics.RunOutcomeLabel) {
	g.cfg.recorder.ObserveRunDuration(time.Since(start))
	g.cfg.recorder.IncRunOutcome(outcome)
}

// RunFunc is the callback form of Run: cb receives nil or the first error.
func (g *Graph[S]) RunFunc(ctx context.Context, name string, state S, cb func(error)) {
	err := g.Run(ctx, name, state)
	if cb != nil {
		cb(err)
	}
}

func (g *Graph[S]) runTask(ctx context.Context, task Task[S], state S) error {
	if !task.Silent {
		g.cfg.observer.OnTaskStart(task.Name)
	}
	g.cfg.logger.Debug("Starting task", logfields.Task(task.Name))

	t0 := time.Now()
	var err error
	if task.Run != nil {
		err = task.Run(ctx, state)
	}
	dur := time.Since(t0)

	g.cfg.recorder.ObserveTaskDuration(task.Name, dur)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailed
		err = fmt.Errorf("task %q: %w", task.Name, err)
	}
	g.cfg.recorder.IncTaskResult(task.Name, result)

	if !task.Silent {
		g.cfg.observer.OnTaskDone(task.Name, dur, err)
	}
	g.cfg.logger.Debug("Finished task", logfields.Task(task.Name), logfields.DurationMS(float64(dur.Microseconds())/1000), logfields.Error(err))
	return err
}

func cyclePath(stack []string, repeated string) []string {
	for i, name := range stack {
		if name == repeated {
			path := make([]string, 0, len(stack)-i+1)
			path = append(path, stack[i:]...)
			return append(path, repeated)
		}
	}
	return []string{repeated, repeated}
}
