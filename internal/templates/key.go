package templates

import (
	"path"
	"regexp"
	"strings"
)

var keyPrefix = regexp.MustCompile(`^(templates|docs)/?(layouts|includes)/?`)

// NormalizeKey derives a fragment key from a relative path: separators become
// forward slashes, a leading "templates/layouts/", "templates/includes/",
// "docs/layouts/" or "docs/includes/" prefix is removed, and so is the extension.
func NormalizeKey(rel string) string {
	name := strings.ReplaceAll(rel, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = keyPrefix.ReplaceAllString(name, "")
	return strings.TrimSuffix(name, Ext(name))
}

// Ext returns the extension of the last path element. Unlike path.Ext a
// leading dot does not start an extension, so ".verb" has none and ".verb.md"
// has ".md".
func Ext(name string) string {
	base := path.Base(name)
	i := strings.LastIndex(base, ".")
	if i <= 0 {
		return ""
	}
	return base[i:]
}
