// Package markdown extracts the structure the post-processing stages and
// lint checks need from rendered Markdown: headings and reference links.
package markdown

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is an ATX or setext heading outside code blocks.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

func parse(body []byte) (gmast.Node, parser.Context) {
	ctx := parser.NewContext()
	root := goldmark.New().Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	return root, ctx
}

// Headings returns the headings of body in document order. Anchors follow the
// GitHub convention; repeated anchors get a -1, -2, ... suffix.
func Headings(body []byte) []Heading {
	root, _ := parse(body)

	seen := map[string]int{}
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		h, ok := n.(*gmast.Heading)
		if !entering || !ok {
			return gmast.WalkContinue, nil
		}
		title := strings.TrimSpace(string(nodeText(h, body)))
		anchor := Slug(title)
		if count, dup := seen[anchor]; dup {
			seen[anchor] = count + 1
			anchor += "-" + strconv.Itoa(count+1)
		} else {
			seen[anchor] = 0
		}
		out = append(out, Heading{Level: h.Level, Text: title, Anchor: anchor})
		return gmast.WalkSkipChildren, nil
	})
	return out
}

func nodeText(n gmast.Node, src []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *gmast.Text:
			buf.Write(v.Segment.Value(src))
			if v.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(v.Value)
		case *gmast.CodeSpan:
			buf.Write(nodeText(v, src))
		default:
			buf.Write(nodeText(c, src))
		}
	}
	return buf.Bytes()
}

var slugStrip = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)

// Slug converts heading text into an anchor: lower case, punctuation removed,
// spaces replaced by hyphens.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "-")
}
