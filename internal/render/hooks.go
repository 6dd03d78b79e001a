package render

import (
	"context"
	"regexp"
)

// Hook runs against every file whose path matches Pattern.
type Hook struct {
	Name    string
	Pattern *regexp.Regexp
	Fn      func(ctx context.Context, f *File) error
}

// Matches reports whether the hook applies to f. A nil pattern matches every file.
func (h Hook) Matches(f *File) bool {
	return h.Pattern == nil || h.Pattern.MatchString(f.Path)
}

// Hooks holds the pre- and post-render middleware of a run.
type Hooks struct {
	pre  []Hook
	post []Hook
}

// PreRender registers a hook that runs before the primary engine.
func (h *Hooks) PreRender(hook Hook) { h.pre = append(h.pre, hook) }

// PostRender registers a hook that runs after the per-file engine pass.
func (h *Hooks) PostRender(hook Hook) { h.post = append(h.post, hook) }

// Len returns the number of registered pre- and post-render hooks.
func (h *Hooks) Len() (pre, post int) { return len(h.pre), len(h.post) }

func runHooks(ctx context.Context, hooks []Hook, files []*File) error {
	for _, f := range files {
		for _, hook := range hooks {
			if !hook.Matches(f) {
				continue
			}
			if err := hook.Fn(ctx, f); err != nil {
				return err
			}
		}
	}
	return nil
}
