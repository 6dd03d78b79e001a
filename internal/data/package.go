package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// PackageFile is the manifest read from the project root.
const PackageFile = "package.json"

// manifestKeys are the package.json fields copied into the data context.
var manifestKeys = []string{"name", "description", "version", "license", "homepage", "keywords"}

// LoadPackage reads package.json from dir and returns the fields templates
// use. author is normalized to a map with name, email and url. A missing
// manifest yields (nil, nil).
func LoadPackage(dir string) (map[string]any, error) {
	raw, err := os.ReadFile(filepath.Join(dir, PackageFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", PackageFile, err)
	}

	var manifest map[string]any
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", PackageFile, err)
	}

	out := make(map[string]any, len(manifestKeys)+1)
	for _, k := range manifestKeys {
		if v, ok := manifest[k]; ok {
			out[k] = v
		}
	}
	if author := normalizeAuthor(manifest["author"]); author != nil {
		out["author"] = author
	}
	if repo, ok := repositoryFromManifest(manifest["repository"]); ok {
		out["repository"] = repo.Map()
	}
	return out, nil
}

var authorPattern = regexp.MustCompile(`^([^<(]*?)\s*(?:<([^>]*)>)?\s*(?:\(([^)]*)\))?$`)

func normalizeAuthor(v any) map[string]any {
	switch a := v.(type) {
	case string:
		m := authorPattern.FindStringSubmatch(strings.TrimSpace(a))
		if m == nil {
			return map[string]any{"name": a}
		}
		out := map[string]any{"name": m[1]}
		if m[2] != "" {
			out["email"] = m[2]
		}
		if m[3] != "" {
			out["url"] = m[3]
		}
		return out
	case map[string]any:
		return a
	default:
		return nil
	}
}

// repositoryFromManifest accepts the "owner/name" shorthand, a URL, or the
// {type, url} object form.
func repositoryFromManifest(v any) (Repository, bool) {
	var raw string
	switch r := v.(type) {
	case string:
		raw = r
	case map[string]any:
		raw, _ = r["url"].(string)
	}
	if raw == "" {
		return Repository{}, false
	}
	raw = strings.TrimPrefix(raw, "git+")
	if !strings.Contains(raw, ":") && strings.Count(raw, "/") == 1 {
		raw = "https://github.com/" + raw
	}
	return ParseRemoteURL(raw)
}
