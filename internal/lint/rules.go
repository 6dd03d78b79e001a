package lint

import (
	"fmt"

	"git.home.luguber.info/inful/readmegen/internal/markdown"
)

// LayoutRule warns when the source names a layout that is not registered.
type LayoutRule struct {
	// Exists reports whether a layout key is registered.
	Exists func(key string) bool
}

// Name returns the rule identifier.
func (r LayoutRule) Name() string { return "layout" }

// Check implements Rule.
func (r LayoutRule) Check(s Subject) []Warning {
	if s.Layout == "" || r.Exists == nil || r.Exists(s.Layout) {
		return nil
	}
	return []Warning{{
		Filename: s.Filename,
		Rule:     r.Name(),
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("layout %q is not registered; the template renders without a layout", s.Layout),
	}}
}

// RefLinksRule warns about reference links without a matching definition.
type RefLinksRule struct{}

// Name returns the rule identifier.
func (RefLinksRule) Name() string { return "reflinks" }

// Check implements Rule.
func (r RefLinksRule) Check(s Subject) []Warning {
	var out []Warning
	for _, u := range markdown.Undefined(s.Content) {
		out = append(out, Warning{
			Filename: s.Filename,
			Rule:     r.Name(),
			Severity: SeverityWarning,
			Line:     u.Line,
			Message:  fmt.Sprintf("reference link [%s] has no definition", u.Label),
		})
	}
	return out
}
