package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/lint"
	"git.home.luguber.info/inful/readmegen/internal/markdown"
)

// TOCMarker is replaced by the table of contents. The generated block ends
// with TOCStopMarker so a later run replaces it in place.
const (
	TOCMarker     = "<!-- toc -->"
	TOCStopMarker = "<!-- tocstop -->"
)

// DefaultTOCFooter is appended below the generated table of contents.
const DefaultTOCFooter = "\n\n_(TOC generated by [verb](https://github.com/verbose/verb) using [markdown-toc](https://github.com/jonschlinkert/markdown-toc))_"

// PostStage is a named transform of a rendered file.
type PostStage struct {
	Name string
	Fn   func(ctx context.Context, f *File) error
}

// StageOptions carries the settings post-processing stages read.
type StageOptions struct {
	TOCFooter string
	Warnings  *lint.Collector
}

type stageFactory func(StageOptions) PostStage

var postStages = map[string]stageFactory{
	"toc":        tocStage,
	"whitespace": func(StageOptions) PostStage { return PostStage{Name: "whitespace", Fn: whitespaceStage} },
	"reflinks":   reflinksStage,
}

// PostStageNames lists the registered stage names.
func PostStageNames() []string {
	return []string{"reflinks", "toc", "whitespace"}
}

// BuildPostStages resolves the configured stage names, in order. An unknown
// name is a configuration error.
func BuildPostStages(names []string, opts StageOptions) ([]PostStage, error) {
	out := make([]PostStage, 0, len(names))
	for _, name := range names {
		factory, ok := postStages[strings.TrimSpace(name)]
		if !ok {
			return nil, ferrors.ConfigError(fmt.Sprintf("unknown pipeline stage %q", name)).
				WithContext("valid", strings.Join(PostStageNames(), ",")).
				Build()
		}
		out = append(out, factory(opts))
	}
	return out, nil
}

func tocStage(opts StageOptions) PostStage {
	return PostStage{Name: "toc", Fn: func(_ context.Context, f *File) error {
		if !bytes.Contains(f.Contents, []byte(TOCMarker)) {
			return nil
		}
		toc := TableOfContents(markdown.Headings(f.Contents))
		block := TOCMarker + "\n\n" + TOCStopMarker
		if toc != "" {
			block = TOCMarker + "\n\n" + toc + opts.TOCFooter + "\n\n" + TOCStopMarker
		}
		out, err := markdown.ApplyEdits(f.Contents, markdown.MarkerEdits(f.Contents, TOCMarker, TOCStopMarker, []byte(block)))
		if err != nil {
			return err
		}
		f.Contents = out
		return nil
	}}
}

// TableOfContents renders a nested bullet list of the headings below the
// document title (level 2 and deeper).
func TableOfContents(headings []markdown.Heading) string {
	minLevel := 0
	for _, h := range headings {
		if h.Level > 1 && (minLevel == 0 || h.Level < minLevel) {
			minLevel = h.Level
		}
	}
	var b strings.Builder
	for _, h := range headings {
		if h.Level == 1 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s- [%s](#%s)", strings.Repeat("  ", h.Level-minLevel), h.Text, h.Anchor)
	}
	return b.String()
}

var blankRun = regexp.MustCompile(`\n{3,}`)

func whitespaceStage(_ context.Context, f *File) error {
	s := strings.ReplaceAll(string(f.Contents), "\r\n", "\n")
	s = blankRun.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	if s != "" {
		s += "\n"
	}
	f.Contents = []byte(s)
	return nil
}

func reflinksStage(opts StageOptions) PostStage {
	return PostStage{Name: "reflinks", Fn: func(_ context.Context, f *File) error {
		if opts.Warnings != nil {
			opts.Warnings.Run(lint.RefLinksRule{}, lint.Subject{Filename: f.Basename(), Content: f.Contents})
		}
		return nil
	}}
}
