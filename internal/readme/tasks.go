package readme

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/data"
	"git.home.luguber.info/inful/readmegen/internal/lint"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/render"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

// GettingStartedURL is exposed to templates as links.generate.getting_started.
const GettingStartedURL = "https://github.com/generate/getting-started-guide"

var (
	sourcePattern   = regexp.MustCompile(`(?i)(verb|readme)\.md$`)
	layoutPattern   = regexp.MustCompile(`(verb|readme)\.md$`)
	markdownPattern = regexp.MustCompile(`\.md$`)
)

func (g *Generator) options(_ context.Context, r *Run) error {
	cfg := r.Config
	include := render.MissingPolicy(cfg.Engine.MissingInclude)
	missing := render.MissingPolicy(cfg.Engine.MissingData)

	r.primary = render.NewTextEngine(render.EngineOptions{
		Name:           "primary",
		Delims:         cfg.PrimaryDelims(),
		MissingInclude: include,
		MissingData:    missing,
	})
	md := render.NewTextEngine(render.EngineOptions{
		Name:           "markdown",
		Delims:         render.DefaultDelims,
		MissingInclude: include,
		MissingData:    missing,
	})
	r.engines = render.NewEngines(md).Register(md, ".md", ".markdown")

	stages, err := render.BuildPostStages(cfg.PipelineStages(), render.StageOptions{
		TOCFooter: cfg.TOC.Footer,
		Warnings:  r.Warnings,
	})
	if err != nil {
		return err
	}
	r.stages = stages

	r.Logger.Debug("Configured render pipeline",
		slog.Any("stages", cfg.PipelineStages()),
		slog.String("alias", r.Alias.Name()))
	return nil
}

func (g *Generator) plugins(_ context.Context, r *Run) error {
	for _, p := range g.opts.plugins {
		if err := p(r); err != nil {
			return err
		}
	}
	r.Logger.Debug("Applied plugins", logfields.Count(len(g.opts.plugins)))
	return nil
}

func (g *Generator) middleware(_ context.Context, r *Run) error {
	if r.Config.Lint.Reflinks {
		r.Hooks.PostRender(render.Hook{
			Name:    "lint-reflinks",
			Pattern: markdownPattern,
			Fn: func(_ context.Context, f *render.File) error {
				r.Warnings.Run(lint.RefLinksRule{}, lint.Subject{Filename: f.Basename(), Content: f.Contents})
				return nil
			},
		})
	}

	r.Hooks.PreRender(render.Hook{
		Name:    "remove-readme",
		Pattern: sourcePattern,
		Fn: func(_ context.Context, _ *render.File) error {
			removed, err := render.RemoveCanonical(r.Config.DestDir())
			r.removed = append(r.removed, removed...)
			for _, rm := range removed {
				r.Logger.Debug("Removed previous README", logfields.Path(rm.Path))
			}
			return err
		},
	})

	layouts := lint.LayoutRule{Exists: func(key string) bool {
		_, ok := r.Registry.Get(templates.CategoryLayout, key)
		return ok
	}}
	r.Hooks.PreRender(render.Hook{
		Name:    "lint-layout",
		Pattern: layoutPattern,
		Fn: func(_ context.Context, f *render.File) error {
			r.Warnings.Run(layouts, lint.Subject{Filename: f.Basename(), Content: f.Contents, Layout: f.Layout})
			return nil
		},
	})
	return nil
}

func (g *Generator) data(_ context.Context, r *Run) error {
	dir := r.Config.ProjectDir
	d := r.Data

	d.Merge(map[string]any{"verb": map[string]any{}})
	d.Merge(map[string]any{
		"links": map[string]any{
			"generate": map[string]any{"getting_started": GettingStartedURL},
		},
	})
	d.MergeIf(data.FileExists(filepath.Join(dir, "bower.json")), map[string]any{"bower": true})
	d.Merge(map[string]any{"prefix": "Copyright"})

	repo, err := data.LoadRepository(dir)
	switch {
	case err != nil:
		r.Logger.Warn("Skipping repository metadata", logfields.Error(err))
	case repo != nil:
		d.Merge(map[string]any{"repository": repo.Map()})
	}

	pkg, err := data.LoadPackage(dir)
	if err != nil {
		r.Logger.Warn("Skipping package metadata", logfields.Error(err))
	}
	d.Merge(pkg)

	if len(r.Config.Verb) > 0 {
		d.Merge(map[string]any{"verb": r.Config.Verb})
	}
	d.Merge(r.Config.Data)

	r.Logger.Debug("Loaded data", slog.Any("keys", d.Keys()))
	return nil
}

func (g *Generator) templates(_ context.Context, r *Run) error {
	resolver := templates.NewResolver(r.Registry, r.Config.ProjectDir, nil, r.Logger)
	if err := resolver.LoadDefaults(); err != nil {
		return err
	}
	if r.Config.Views == nil {
		return nil
	}
	views, err := config.ProcessViews(r.Config.Views)
	if err != nil {
		return err
	}
	return resolver.ApplyViews(views)
}

func (g *Generator) readme(ctx context.Context, r *Run) error {
	if r.Files.Len() == 0 && (r.outcome == OutcomeDisabled || r.outcome == OutcomeDeclined) {
		r.Logger.Info("No input template, README not generated", logfields.Outcome(string(r.outcome)))
		return nil
	}

	p := render.NewPipeline(r.primary, r.engines,
		render.WithPartials(r.Registry),
		render.WithAlias(r.Alias),
		render.WithHooks(r.Hooks),
		render.WithPostStages(r.stages...),
		render.WithRecorder(g.opts.recorder),
		render.WithLogger(r.Logger),
		render.WithClock(g.opts.clock),
	)
	out, err := p.Run(ctx, render.Request{
		Files:  r.Files,
		Source: r.Config.ReadmePath(),
		Data:   r.Data.Snapshot(),
		Dest:   r.Config.DestDir(),
	})
	if err != nil {
		return err
	}
	r.output = out
	r.Logger.Info("Generated README", logfields.Dest(out.Path), logfields.Count(out.Bytes))
	return nil
}
