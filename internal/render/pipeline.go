package render

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/data"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
)

// Pipeline renders the source template of a run and writes README.md.
type Pipeline struct {
	primary  Engine
	engines  *Engines
	partials Partials
	alias    data.AliasStrategy
	hooks    *Hooks
	stages   []PostStage
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPartials sets the fragment lookup used by include, badge, doc and layouts.
func WithPartials(p Partials) Option { return func(pl *Pipeline) { pl.partials = p } }

// WithAlias sets the strategy behind the alias helper.
func WithAlias(a data.AliasStrategy) Option { return func(pl *Pipeline) { pl.alias = a } }

// WithHooks sets the pre- and post-render hooks.
func WithHooks(h *Hooks) Option {
	return func(pl *Pipeline) {
		if h != nil {
			pl.hooks = h
		}
	}
}

// WithPostStages sets the configured post-processing stages, run in order.
func WithPostStages(stages ...PostStage) Option {
	return func(pl *Pipeline) { pl.stages = append(pl.stages, stages...) }
}

// WithRecorder records stage durations and results.
func WithRecorder(r metrics.Recorder) Option {
	return func(pl *Pipeline) {
		if r != nil {
			pl.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(pl *Pipeline) {
		if l != nil {
			pl.logger = l
		}
	}
}

// WithClock overrides the time source of the year and date helpers.
func WithClock(now func() time.Time) Option { return func(pl *Pipeline) { pl.now = now } }

// NewPipeline creates a pipeline whose first pass uses primary and whose
// second pass picks an engine per file from engines.
func NewPipeline(primary Engine, engines *Engines, opts ...Option) *Pipeline {
	p := &Pipeline{
		primary:  primary,
		engines:  engines,
		hooks:    &Hooks{},
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request is the input of one pipeline run.
type Request struct {
	Files *FileSet
	// Source is the path of the configured input template.
	Source string
	Data   data.Context
	// Dest is the directory README.md is written to.
	Dest string
}

type runState struct {
	req    Request
	files  []*File
	now    time.Time
	output *Output
}

// Stages returns the fixed stage sequence.
func (p *Pipeline) Stages() []StageDef {
	return []StageDef{
		{StageSelect, p.selectSource},
		{StagePreRender, func(ctx context.Context, rs *runState) error { return runHooks(ctx, p.hooks.pre, rs.files) }},
		{StagePrimaryRender, p.renderPrimary},
		{StageEngineRender, p.renderPerFile},
		{StagePostRender, func(ctx context.Context, rs *runState) error { return runHooks(ctx, p.hooks.post, rs.files) }},
		{StagePostProcess, p.postProcess},
		{StageWrite, p.write},
	}
}

// Run executes every stage in order and returns what was written.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Output, error) {
	if req.Data == nil {
		req.Data = data.Context{}
	}
	rs := &runState{req: req, now: p.now()}
	if err := runStages(ctx, rs, p.Stages(), p.recorder, p.logger); err != nil {
		return nil, err
	}
	return rs.output, nil
}

func (p *Pipeline) selectSource(_ context.Context, rs *runState) error {
	f, err := rs.req.Files.Select(rs.req.Source)
	if err != nil {
		return err
	}
	p.logger.Debug("Selected source template", logfields.Key(f.Key), logfields.Path(f.Path))
	rs.files = []*File{f.Clone()}
	return nil
}

func (p *Pipeline) renderContext(rs *runState, f *File) RenderContext {
	d := rs.req.Data.Clone()
	maps.Copy(d, f.Data)
	return RenderContext{
		Name:     f.Key,
		Data:     d,
		Partials: p.partials,
		Alias:    p.alias,
		Now:      rs.now,
	}
}

func (p *Pipeline) renderPrimary(_ context.Context, rs *runState) error {
	for _, f := range rs.files {
		out, err := p.primary.Render(p.renderContext(rs, f), f.Contents)
		if err != nil {
			return fmt.Errorf("%s engine: %s: %w", p.primary.Name(), f.Basename(), err)
		}
		f.Contents = out
	}
	return nil
}

func (p *Pipeline) renderPerFile(_ context.Context, rs *runState) error {
	for _, f := range rs.files {
		engine, ok := p.engines.For(f.Path)
		if !ok {
			return fmt.Errorf("no engine registered for %s", f.Basename())
		}
		rc := p.renderContext(rs, f)
		out, err := engine.Render(rc, f.Contents)
		if err != nil {
			return fmt.Errorf("%s engine: %s: %w", engine.Name(), f.Basename(), err)
		}
		out, err = applyLayouts(engine, rc, f.Layout, out)
		if err != nil {
			return fmt.Errorf("%s engine: %s: %w", engine.Name(), f.Basename(), err)
		}
		f.Contents = out
	}
	return nil
}

func (p *Pipeline) postProcess(ctx context.Context, rs *runState) error {
	for _, stage := range p.stages {
		for _, f := range rs.files {
			if err := stage.Fn(ctx, f); err != nil {
				return fmt.Errorf("pipeline stage %s: %w", stage.Name, err)
			}
		}
		p.logger.Debug("Applied pipeline stage", logfields.Stage(stage.Name))
	}
	return nil
}

func (p *Pipeline) write(_ context.Context, rs *runState) error {
	for _, f := range rs.files {
		out, err := Write(rs.req.Dest, f)
		if err != nil {
			return err
		}
		p.logger.Debug("Wrote output", logfields.Dest(out.Path), logfields.Count(out.Bytes))
		rs.output = out
	}
	return nil
}
