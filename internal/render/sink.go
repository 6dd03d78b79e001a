package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"
)

// OutputName is the fixed basename of the rendered file.
const OutputName = "README.md"

// Output describes what the sink wrote.
type Output struct {
	Path        string
	Fingerprint string
	Bytes       int
}

// Fingerprint returns the content fingerprint of rendered bytes.
func Fingerprint(content []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(content))
}

// Write stores f under dest with the basename forced to README.md.
func Write(dest string, f *File) (*Output, error) {
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return nil, fmt.Errorf("create destination %s: %w", dest, err)
	}
	path := filepath.Join(dest, OutputName)
	if err := os.WriteFile(path, f.Contents, 0o644); err != nil { // #nosec G306 -- README is meant to be world-readable
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	f.Path = path
	return &Output{Path: path, Fingerprint: Fingerprint(f.Contents), Bytes: len(f.Contents)}, nil
}

// Removed records a file deleted by RemoveCanonical.
type Removed struct {
	Path        string
	Fingerprint string
}

// RemoveCanonical deletes every file in dir whose name is readme.md in any
// letter case, so stale output never survives into a new run.
func RemoveCanonical(dir string) ([]Removed, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var removed []Removed
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(e.Name(), OutputName) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		rm := Removed{Path: p}
		if content, err := os.ReadFile(p); err == nil { // #nosec G304 -- p is inside the destination directory
			rm.Fingerprint = Fingerprint(content)
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", p, err)
		}
		removed = append(removed, rm)
	}
	return removed, nil
}
