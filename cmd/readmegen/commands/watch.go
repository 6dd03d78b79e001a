package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/data"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/readme"
	"git.home.luguber.info/inful/readmegen/internal/render"
	"git.home.luguber.info/inful/readmegen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before regenerating" default:"300ms"`
}

// Run generates once, then again after every relevant change until interrupted.
func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx := g.context()
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	if err := root.runTask(ctx, readme.TaskDefault); err != nil {
		slog.Error("Initial generation failed", logfields.Error(err))
	}

	watcher, err := watch.New(watchOptions(cfg, w.Debounce), func(ctx context.Context) error {
		return root.runTask(ctx, readme.TaskDefault)
	})
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	slog.Info("Watching for changes", logfields.Path(cfg.ProjectDir))
	return watcher.Run(ctx)
}

func watchOptions(cfg *config.Config, debounce time.Duration) watch.Options {
	files := []string{
		cfg.ReadmePath(),
		filepath.Join(cfg.ProjectDir, data.PackageFile),
		filepath.Join(cfg.ProjectDir, config.DefaultConfigFile),
	}
	if cfg.Source != "" {
		files = append(files, cfg.Source)
	}
	return watch.Options{
		Files:    files,
		Dirs:     []string{filepath.Join(cfg.ProjectDir, "docs")},
		Ignore:   []string{filepath.Join(cfg.DestDir(), render.OutputName)},
		Debounce: debounce,
		Logger:   slog.Default(),
	}
}
