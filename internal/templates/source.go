package templates

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Fragment is one reusable piece of markup.
type Fragment struct {
	Category Category
	Key      string
	// Path is informational: where the fragment was read from.
	Path    string
	Content []byte
}

// Source yields raw fragments; the registry assigns category and key.
type Source interface {
	Fragments() ([]Fragment, error)
}

// GlobSource matches files in FS. A pattern starting with "**/" matches the
// remainder against the base name of every file at any depth; other patterns
// use fs.Glob semantics.
type GlobSource struct {
	FS      fs.FS
	Pattern string
	// Label prefixes Fragment.Path for diagnostics, e.g. the directory FS was rooted at.
	Label string
}

// Fragments implements Source. Matches are returned in lexical path order.
func (g GlobSource) Fragments() ([]Fragment, error) {
	matches, err := g.match()
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	out := make([]Fragment, 0, len(matches))
	for _, rel := range matches {
		content, err := fs.ReadFile(g.FS, rel)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", rel, err)
		}
		out = append(out, Fragment{
			Key:     rel,
			Path:    path.Join(g.Label, rel),
			Content: content,
		})
	}
	return out, nil
}

func (g GlobSource) match() ([]string, error) {
	if rest, ok := strings.CutPrefix(g.Pattern, "**/"); ok {
		var matches []string
		err := fs.WalkDir(g.FS, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ok, matchErr := path.Match(rest, d.Name())
			if matchErr != nil {
				return matchErr
			}
			if ok {
				matches = append(matches, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk templates for %q: %w", g.Pattern, err)
		}
		return matches, nil
	}

	matches, err := fs.Glob(g.FS, g.Pattern)
	if err != nil {
		return nil, fmt.Errorf("glob templates for %q: %w", g.Pattern, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if info, statErr := fs.Stat(g.FS, m); statErr == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	return files, nil
}

// MapSource is an in-memory fragment collection keyed by name.
type MapSource map[string]string

// Fragments implements Source. Entries are returned in key order.
func (m MapSource) Fragments() ([]Fragment, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Fragment, 0, len(m))
	for _, k := range keys {
		out = append(out, Fragment{Key: k, Content: []byte(m[k])})
	}
	return out, nil
}
