package templates

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one of the four fragment kinds.
type Category string

const (
	CategoryDocs    Category = "docs"
	CategoryLayout  Category = "layout"
	CategoryInclude Category = "include"
	CategoryBadge   Category = "badge"
)

// Categories lists the categories in load order.
var Categories = []Category{CategoryDocs, CategoryLayout, CategoryInclude, CategoryBadge}

// ErrUnknownCategory is returned by ParseCategory for unrecognized names.
var ErrUnknownCategory = errors.New("unknown template category")

// ParseCategory accepts singular or plural category names ("layouts", "include").
// "partials" is an alias of the include category.
func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "docs", "doc":
		return CategoryDocs, nil
	case "layout", "layouts":
		return CategoryLayout, nil
	case "include", "includes", "partial", "partials":
		return CategoryInclude, nil
	case "badge", "badges":
		return CategoryBadge, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
}
