package render

import (
	"strings"

	"git.home.luguber.info/inful/readmegen/internal/templates"
)

// FallbackExt is the registry key of the engine used for unregistered extensions.
const FallbackExt = "*"

// Engines maps file extensions to engines.
type Engines struct {
	byExt map[string]Engine
}

// NewEngines returns a registry with fallback used for unregistered extensions.
func NewEngines(fallback Engine) *Engines {
	e := &Engines{byExt: map[string]Engine{}}
	if fallback != nil {
		e.byExt[FallbackExt] = fallback
	}
	return e
}

// Register associates engine with each extension (".md" or "md").
func (e *Engines) Register(engine Engine, exts ...string) *Engines {
	for _, ext := range exts {
		e.byExt[normalizeExt(ext)] = engine
	}
	return e
}

// For returns the engine for path's extension, or the fallback.
func (e *Engines) For(path string) (Engine, bool) {
	if eng, ok := e.byExt[normalizeExt(templates.Ext(path))]; ok {
		return eng, true
	}
	eng, ok := e.byExt[FallbackExt]
	return eng, ok
}

func normalizeExt(ext string) string {
	if ext == FallbackExt {
		return ext
	}
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
