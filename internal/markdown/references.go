package markdown

import (
	"regexp"
	"sort"
	"strings"
)

// ReferenceUsage is a full or collapsed reference link, `[text][label]` or `[label][]`.
type ReferenceUsage struct {
	Text  string
	Label string
	Line  int
}

// References lists the reference definitions of body (normalized labels,
// sorted) and every reference usage outside code.
func References(body []byte) (defined []string, used []ReferenceUsage) {
	_, ctx := parse(body)
	for _, ref := range ctx.References() {
		defined = append(defined, NormalizeLabel(string(ref.Label())))
	}
	sort.Strings(defined)
	return defined, scanUsages(string(body))
}

// Undefined returns the usages whose label has no definition in body.
func Undefined(body []byte) []ReferenceUsage {
	defined, used := References(body)
	known := make(map[string]bool, len(defined))
	for _, d := range defined {
		known[d] = true
	}
	var out []ReferenceUsage
	for _, u := range used {
		if !known[NormalizeLabel(u.Label)] {
			out = append(out, u)
		}
	}
	return out
}

// NormalizeLabel applies CommonMark label matching: case-folded, inner
// whitespace collapsed.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

var usagePattern = regexp.MustCompile(`!?\[([^\]\[]+)\]\[([^\]\[]*)\]`)

func scanUsages(body string) []ReferenceUsage {
	var out []ReferenceUsage
	fence := ""
	for i, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if marker := fenceMarker(trimmed); marker != "" {
			switch fence {
			case "":
				fence = marker
			case marker:
				fence = ""
			}
			continue
		}
		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}
		for _, m := range usagePattern.FindAllStringSubmatch(stripCodeSpans(line), -1) {
			label := m[2]
			if label == "" {
				label = m[1]
			}
			out = append(out, ReferenceUsage{Text: m[1], Label: label, Line: i + 1})
		}
	}
	return out
}

func fenceMarker(trimmed string) string {
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, f) {
			return f
		}
	}
	return ""
}

func stripCodeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}
	var out strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '`' {
			out.WriteByte(s[i])
			i++
			continue
		}
		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}
		marker := s[i : i+run]
		closing := strings.Index(s[i+run:], marker)
		if closing < 0 {
			out.WriteString(marker)
			i += run
			continue
		}
		i += 2*run + closing
	}
	return out.String()
}
