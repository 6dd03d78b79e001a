package templates

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
)

// Views holds override fragments per category, usually from the views
// section of the project configuration.
type Views map[Category]map[string]string

// Resolver loads the four categories into a Registry in override order.
type Resolver struct {
	registry   *Registry
	projectDir string
	builtin    fs.FS
	logger     *slog.Logger
	loaded     bool
}

// NewResolver creates a resolver for the project rooted at projectDir.
// A nil builtin uses the embedded defaults.
func NewResolver(registry *Registry, projectDir string, builtin fs.FS, logger *slog.Logger) *Resolver {
	if builtin == nil {
		builtin = BuiltinFS()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{registry: registry, projectDir: projectDir, builtin: builtin, logger: logger}
}

// Registry returns the registry the resolver loads into.
func (r *Resolver) Registry() *Registry { return r.registry }

// LoadDefaults registers, in order:
//   - docs: built-in docs, then the project docs directory
//   - layout: built-in layouts
//   - include: built-in include directory, StaticIncludes, then the project docs directory
//   - badge: StaticBadges
func (r *Resolver) LoadDefaults() error {
	projectDocs, hasProjectDocs := r.projectDocs()

	steps := []struct {
		category Category
		source   Source
		when     bool
	}{
		{CategoryDocs, r.builtinGlob("docs", "*.md"), true},
		{CategoryDocs, projectDocs, hasProjectDocs},
		{CategoryLayout, r.builtinGlob("layouts", "*.md"), true},
		{CategoryInclude, r.builtinGlob("includes", "**/*.md"), true},
		{CategoryInclude, StaticIncludes, true},
		{CategoryInclude, projectDocs, hasProjectDocs},
		{CategoryBadge, StaticBadges, true},
	}

	for _, step := range steps {
		if !step.when {
			continue
		}
		n, err := r.registry.Load(step.category, step.source)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "load templates").
				Fatal().
				WithContext(logfields.KeyCategory, string(step.category)).
				Build()
		}
		r.logger.Debug("Loaded templates", logfields.Category(string(step.category)), logfields.Count(n))
	}

	r.loaded = true
	return nil
}

// ApplyViews registers override fragments on top of the defaults. It must run
// after LoadDefaults so that views win over every built-in with the same key.
func (r *Resolver) ApplyViews(views Views) error {
	if !r.loaded {
		return ferrors.InternalError("views override applied before default templates were loaded").Build()
	}
	for _, category := range Categories {
		entries, ok := views[category]
		if !ok {
			continue
		}
		n, err := r.registry.Load(category, MapSource(entries))
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "apply views").Fatal().Build()
		}
		r.logger.Debug("Applied view overrides", logfields.Category(string(category)), logfields.Count(n))
	}
	return nil
}

func (r *Resolver) builtinGlob(dir, pattern string) Source {
	sub, err := fs.Sub(r.builtin, dir)
	if err != nil {
		return MapSource{}
	}
	return GlobSource{FS: sub, Pattern: pattern, Label: "builtin/" + dir}
}

func (r *Resolver) projectDocs() (Source, bool) {
	dir := filepath.Join(r.projectDir, "docs")
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false
	}
	return GlobSource{FS: os.DirFS(dir), Pattern: "*.md", Label: dir}, true
}
