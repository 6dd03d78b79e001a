package templates

import (
	"fmt"
	"sort"
)

// Registry stores fragments by category and normalized key. Later
// registrations replace earlier ones with the same key.
type Registry struct {
	fragments map[Category]map[string]Fragment
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fragments: make(map[Category]map[string]Fragment, len(Categories))}
}

// Load registers every fragment of src under category and returns how many were registered.
func (r *Registry) Load(category Category, src Source) (int, error) {
	frags, err := src.Fragments()
	if err != nil {
		return 0, fmt.Errorf("load %s templates: %w", category, err)
	}
	for _, f := range frags {
		r.Set(category, f.Key, f.Path, f.Content)
	}
	return len(frags), nil
}

// Set registers a single fragment; key is normalized.
func (r *Registry) Set(category Category, key, path string, content []byte) {
	bucket, ok := r.fragments[category]
	if !ok {
		bucket = make(map[string]Fragment)
		r.fragments[category] = bucket
	}
	normalized := NormalizeKey(key)
	bucket[normalized] = Fragment{
		Category: category,
		Key:      normalized,
		Path:     path,
		Content:  content,
	}
}

// Get returns the fragment registered under key (normalized before lookup).
func (r *Registry) Get(category Category, key string) (Fragment, bool) {
	f, ok := r.fragments[category][NormalizeKey(key)]
	return f, ok
}

// Content returns the fragment body, satisfying the render package's partial lookup.
func (r *Registry) Content(category Category, key string) ([]byte, bool) {
	f, ok := r.Get(category, key)
	if !ok {
		return nil, false
	}
	return f.Content, true
}

// Keys returns the sorted keys registered for category.
func (r *Registry) Keys(category Category) []string {
	keys := make([]string, 0, len(r.fragments[category]))
	for k := range r.fragments[category] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of fragments registered for category.
func (r *Registry) Len(category Category) int {
	return len(r.fragments[category])
}
