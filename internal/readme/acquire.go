package readme

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/readmegen/internal/data"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/frontmatter"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/render"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

func (g *Generator) verbmd(ctx context.Context, r *Run) error {
	outcome, err := g.acquire(ctx, r)
	if err != nil {
		return err
	}
	r.outcome = outcome
	r.Logger.Debug("Acquired input template", logfields.Outcome(string(outcome)))
	return nil
}

// acquire evaluates the acquisition states in priority order; the first that
// applies wins.
func (g *Generator) acquire(ctx context.Context, r *Run) (Outcome, error) {
	if r.Files.HasReserved() {
		return OutcomeNotNeeded, nil
	}
	if !r.Config.Verbmd {
		return OutcomeDisabled, nil
	}

	path := r.Config.ReadmePath()
	if data.FileExists(path) {
		f, err := render.ReadFile(render.KeyReadme, path)
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "load input template").
				Fatal().
				WithContext(logfields.KeyPath, path).
				Build()
		}
		r.register(f)
		return OutcomeLoaded, nil
	}

	r.outcome = ""
	if err := g.graph.Run(ctx, TaskAsk, r); err != nil {
		return "", err
	}
	if r.outcome == "" {
		return OutcomeDeclined, nil
	}
	return r.outcome, nil
}

func (g *Generator) promptVerbmd(ctx context.Context, r *Run) error {
	question := fmt.Sprintf("Can't find a %s, want to add one?", filepath.Base(r.Config.Readme))
	ok, err := r.Prompter.Confirm(question)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryPrompt, "confirm new input template").Build()
	}
	if !ok {
		r.outcome = OutcomeDeclined
		r.Logger.Info("Input template not added")
		return nil
	}
	return g.graph.Run(ctx, TaskNew, r)
}

// scaffold writes the built-in basic template to <dest>/.verb.md through the
// conflict resolver and registers it as the source.
func (g *Generator) scaffold(_ context.Context, r *Run) error {
	content, err := templates.BasicVerbTemplate()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "read basic template").Fatal().Build()
	}
	if r.Config.Layout != "" {
		content, err = frontmatter.WithField(content, "layout", r.Config.Layout)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "set layout of basic template").Fatal().Build()
		}
	}

	dest := r.scaffoldPath()
	write, err := r.Conflicts.Resolve(dest, content)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve conflict").
			Fatal().
			WithContext(logfields.KeyPath, dest).
			Build()
	}

	if !write {
		if !data.FileExists(dest) {
			r.outcome = OutcomeDeclined
			return nil
		}
		r.Logger.Info("Kept existing input template", logfields.Path(dest))
		f, err := render.ReadFile(render.KeyVerb, dest)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "load input template").
				Fatal().
				WithContext(logfields.KeyPath, dest).
				Build()
		}
		r.register(f)
		r.outcome = OutcomeLoaded
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create destination").Fatal().Build()
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil { // #nosec G306 -- project file, world-readable like the README
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write input template").
			Fatal().
			WithContext(logfields.KeyPath, dest).
			Build()
	}
	f, err := render.NewFile(render.KeyVerb, dest, content)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "parse basic template").Fatal().Build()
	}
	r.register(f)
	r.created = dest
	r.outcome = OutcomeCreated
	r.Logger.Info("Added input template", logfields.Path(dest))
	return nil
}
