package render

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/readmegen/internal/frontmatter"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

// applyLayouts wraps body in the named layout, following any layout the
// layout itself names. An unregistered layout ends the chain; the layout
// lint has already reported it.
func applyLayouts(engine Engine, rc RenderContext, layout string, body []byte) ([]byte, error) {
	seen := map[string]bool{}
	chain := []string{}
	for layout != "" {
		key := templates.NormalizeKey(layout)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrLayoutCycle, strings.Join(append(chain, key), " -> "))
		}
		seen[key] = true
		chain = append(chain, key)

		raw, ok := lookupPartial(rc.Partials, templates.CategoryLayout, key)
		if !ok {
			return body, nil
		}
		doc, err := frontmatter.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", key, err)
		}

		lrc := rc
		lrc.Name = "layout/" + key
		lrc.Body = string(body)
		out, err := engine.Render(lrc, doc.Body)
		if err != nil {
			return nil, err
		}
		body = out
		layout = doc.Layout()
	}
	return body, nil
}
