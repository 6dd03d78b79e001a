package render

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/readmegen/internal/frontmatter"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

// Reserved source keys. A file registered under either of these is the
// source template regardless of the configured input path.
const (
	KeyReadme = "README"
	KeyVerb   = ".verb"
)

// File is a template travelling through the pipeline.
type File struct {
	Key  string
	Path string
	// Contents is the body without front matter.
	Contents []byte
	// Layout names the layout to wrap the rendered body in, if any.
	Layout string
	// Data holds the front matter fields; they override the run data while rendering this file.
	Data map[string]any
}

// NewFile builds a file from raw template bytes, splitting off front matter.
// key is derived from name when empty.
func NewFile(key, path string, raw []byte) (*File, error) {
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if key == "" {
		key = templates.NormalizeKey(filepath.Base(path))
	}
	return &File{
		Key:      key,
		Path:     path,
		Contents: doc.Body,
		Layout:   doc.Layout(),
		Data:     doc.Fields,
	}, nil
}

// ReadFile loads path from disk under key.
func ReadFile(key, path string) (*File, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path is the configured template
	if err != nil {
		return nil, err
	}
	return NewFile(key, path, raw)
}

// Basename returns the last element of Path.
func (f *File) Basename() string { return filepath.Base(f.Path) }

// Clone returns a copy whose contents and data can be modified independently.
func (f *File) Clone() *File {
	c := *f
	c.Contents = append([]byte(nil), f.Contents...)
	c.Data = maps.Clone(f.Data)
	return &c
}

// FileSet is the run's collection of source files keyed by normalized key.
type FileSet struct {
	files map[string]*File
}

// NewFileSet returns an empty set.
func NewFileSet() *FileSet {
	return &FileSet{files: make(map[string]*File)}
}

// Add registers f, replacing a file with the same key.
func (s *FileSet) Add(f *File) {
	s.files[f.Key] = f
}

// Get returns the file registered under key.
func (s *FileSet) Get(key string) (*File, bool) {
	f, ok := s.files[key]
	return f, ok
}

// Has reports whether key is registered.
func (s *FileSet) Has(key string) bool {
	_, ok := s.files[key]
	return ok
}

// HasReserved reports whether a file is registered under a reserved source key.
func (s *FileSet) HasReserved() bool {
	return s.Has(KeyReadme) || s.Has(KeyVerb)
}

// Keys returns the registered keys in sorted order.
func (s *FileSet) Keys() []string {
	keys := make([]string, 0, len(s.files))
	for k := range s.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered files.
func (s *FileSet) Len() int { return len(s.files) }

// Select returns the source file: the one loaded from path, else the one
// under a reserved key.
func (s *FileSet) Select(path string) (*File, error) {
	if s == nil || len(s.files) == 0 {
		return nil, ErrNoSource
	}
	for _, key := range s.Keys() {
		if f := s.files[key]; path != "" && f.Path == path {
			return f, nil
		}
	}
	for _, key := range []string{KeyReadme, KeyVerb} {
		if f, ok := s.files[key]; ok {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSourceNotRegistered, path)
}
