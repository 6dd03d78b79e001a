package config

import (
	"fmt"
	"sort"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

// ProcessViews converts the raw views section into template overrides.
// Each category maps keys to either a string or an object with a string
// "content" field. Any other shape is a configuration error.
func ProcessViews(raw map[string]any) (templates.Views, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	views := templates.Views{}
	for _, name := range names {
		category, err := templates.ParseCategory(name)
		if err != nil {
			return nil, viewsError(err, name, "")
		}
		body, ok := raw[name].(map[string]any)
		if !ok {
			return nil, viewsError(fmt.Errorf("expected a map of templates, got %T", raw[name]), name, "")
		}
		if views[category] == nil {
			views[category] = map[string]string{}
		}
		for key, value := range body {
			content, err := viewContent(value)
			if err != nil {
				return nil, viewsError(err, name, key)
			}
			views[category][key] = content
		}
	}
	return views, nil
}

func viewContent(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case map[string]any:
		if content, ok := val["content"].(string); ok {
			return content, nil
		}
		return "", fmt.Errorf("template object needs a string content field")
	default:
		return "", fmt.Errorf("template must be a string, got %T", v)
	}
}

func viewsError(err error, category, key string) error {
	b := ferrors.WrapError(err, ferrors.CategoryConfig, "invalid views configuration").
		Fatal().
		WithContext("views", category)
	if key != "" {
		b = b.WithContext("key", key)
	}
	return b.Build()
}
