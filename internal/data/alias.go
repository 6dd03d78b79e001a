package data

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AliasStrategy derives a short variable-style name from a package name.
type AliasStrategy interface {
	Alias(name string) string
	Name() string
}

// ReadmeAlias is the default strategy. For "<tool>-<middle>-<rest>" names it
// keeps the middle segment; otherwise it keeps the text after the last hyphen.
type ReadmeAlias struct {
	tool    string
	match   *regexp.Regexp
	extract *regexp.Regexp
}

// NewReadmeAlias compiles the patterns for tool; an empty tool means "verb".
func NewReadmeAlias(tool string) *ReadmeAlias {
	if tool == "" {
		tool = "verb"
	}
	quoted := regexp.QuoteMeta(tool)
	return &ReadmeAlias{
		tool:    tool,
		match:   regexp.MustCompile(`^` + quoted + `-.*?-\w`),
		extract: regexp.MustCompile(`^` + quoted + `-(.*?)-(?:\w+)`),
	}
}

// Name implements AliasStrategy.
func (*ReadmeAlias) Name() string { return "readme" }

// Tool is the prefix stripped from package names.
func (r *ReadmeAlias) Tool() string { return r.tool }

// Alias implements AliasStrategy.
func (r *ReadmeAlias) Alias(name string) string {
	if r.match.MatchString(name) {
		return r.extract.ReplaceAllString(name, "$1")
	}
	return name[strings.LastIndex(name, "-")+1:]
}

// GeneratorAlias is used for generator projects: "generate-" is dropped and
// the remainder camel-cased.
type GeneratorAlias struct{}

// Name implements AliasStrategy.
func (GeneratorAlias) Name() string { return "generator" }

// Alias implements AliasStrategy.
func (GeneratorAlias) Alias(name string) string {
	return CamelCase(strings.TrimPrefix(name, "generate-"))
}

// SelectAlias picks the strategy for the project kind.
func SelectAlias(generator bool, tool string) AliasStrategy {
	if generator {
		return GeneratorAlias{}
	}
	return NewReadmeAlias(tool)
}

var titleCaser = cases.Title(language.Und)

// CamelCase joins the alphanumeric words of s, lower-casing the first and
// title-casing the rest: "foo-bar_baz" becomes "fooBarBaz".
func CamelCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(titleCaser.String(w))
	}
	return b.String()
}
