package data

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Repository identifies the project's hosted repository.
type Repository struct {
	Host  string
	Owner string
	Name  string
	URL   string
}

// Map returns the template-facing form: owner, name, host, url.
func (r Repository) Map() map[string]any {
	return map[string]any{
		"host":  r.Host,
		"owner": r.Owner,
		"name":  r.Name,
		"url":   r.URL,
	}
}

// LoadRepository reads the origin remote of the git repository containing
// dir. A directory outside git or without an origin yields (nil, nil).
func LoadRepository(dir string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if errors.Is(err, git.ErrRemoteNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, nil
	}
	parsed, ok := ParseRemoteURL(urls[0])
	if !ok {
		return nil, nil
	}
	return &parsed, nil
}

// ParseRemoteURL understands https, ssh:// and scp-like (git@host:owner/name)
// remotes. URL is always returned in https form without the .git suffix.
func ParseRemoteURL(raw string) (Repository, bool) {
	raw = strings.TrimSpace(raw)
	var host, path string

	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return Repository{}, false
		}
		host, path = u.Hostname(), u.Path
	case strings.Contains(raw, ":"):
		at := strings.LastIndex(raw, "@")
		host, path, _ = strings.Cut(raw[at+1:], ":")
	default:
		return Repository{}, false
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	idx := strings.LastIndex(path, "/")
	if host == "" || idx <= 0 || idx == len(path)-1 {
		return Repository{}, false
	}

	return Repository{
		Host:  host,
		Owner: path[:idx],
		Name:  path[idx+1:],
		URL:   "https://" + host + "/" + path,
	}, true
}
