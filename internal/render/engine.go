package render

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"
	"text/template/parse"
	"time"

	"git.home.luguber.info/inful/readmegen/internal/data"
	"git.home.luguber.info/inful/readmegen/internal/templates"
)

// Partials resolves fragments by category and key. *templates.Registry
// implements it.
type Partials interface {
	Content(category templates.Category, key string) ([]byte, bool)
}

// RenderContext is everything one render call can see.
type RenderContext struct {
	Name     string
	Data     data.Context
	Partials Partials
	Alias    data.AliasStrategy
	// Body is what the body helper returns; set while rendering a layout.
	Body string
	Now  time.Time
}

// Engine renders template source against a context.
type Engine interface {
	Name() string
	Render(rc RenderContext, src []byte) ([]byte, error)
}

// MissingPolicy selects how unresolved references are handled.
type MissingPolicy string

const (
	// MissingIgnore leaves an unknown include reference in the output as written.
	MissingIgnore MissingPolicy = "ignore"
	// MissingZero renders unknown identifiers as the empty string.
	MissingZero MissingPolicy = "zero"
	// MissingError fails the render.
	MissingError MissingPolicy = "error"
)

// EngineOptions configures a TextEngine.
type EngineOptions struct {
	Name           string
	Delims         [2]string
	MissingInclude MissingPolicy
	MissingData    MissingPolicy
}

// DefaultDelims are the delimiters of the per-file pass.
var DefaultDelims = [2]string{"{{", "}}"}

const maxIncludeDepth = 16

// TextEngine is a text/template engine in which bare identifiers such as
// {{ name }} resolve to top-level data keys, alongside the helpers include,
// badge, doc, alias, year, date and body.
type TextEngine struct {
	name           string
	left, right    string
	missingInclude MissingPolicy
	missingData    MissingPolicy
}

// NewTextEngine creates an engine; zero options select {{ }} delimiters,
// ignored missing includes and zero-valued missing data.
func NewTextEngine(opts EngineOptions) *TextEngine {
	e := &TextEngine{
		name:           opts.Name,
		left:           opts.Delims[0],
		right:          opts.Delims[1],
		missingInclude: opts.MissingInclude,
		missingData:    opts.MissingData,
	}
	if e.name == "" {
		e.name = "text"
	}
	if e.left == "" || e.right == "" {
		e.left, e.right = DefaultDelims[0], DefaultDelims[1]
	}
	if e.missingInclude == "" {
		e.missingInclude = MissingIgnore
	}
	if e.missingData == "" {
		e.missingData = MissingZero
	}
	return e
}

// Name implements Engine.
func (e *TextEngine) Name() string { return e.name }

// Delims returns the left and right action delimiters.
func (e *TextEngine) Delims() (string, string) { return e.left, e.right }

// Render implements Engine.
func (e *TextEngine) Render(rc RenderContext, src []byte) ([]byte, error) {
	if rc.Now.IsZero() {
		rc.Now = time.Now()
	}
	return e.render(rc, rc.Name, string(src), 0)
}

func (e *TextEngine) render(rc RenderContext, name, src string, depth int) ([]byte, error) {
	if depth > maxIncludeDepth {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepth, name)
	}

	idents, err := e.identifiers(name, src)
	if err != nil {
		return nil, err
	}

	funcs := e.helpers(rc, depth)
	for _, id := range idents {
		if _, ok := builtinFuncs[id]; ok {
			continue
		}
		if _, ok := funcs[id]; ok {
			continue
		}
		funcs[id] = e.lookup(rc.Data, id)
	}

	missingKey := "missingkey=default"
	if e.missingData == MissingError {
		missingKey = "missingkey=error"
	}
	funcs[fieldFunc] = e.field(false)
	funcs[rangeFieldFunc] = e.field(true)
	tmpl, err := template.New(name).Delims(e.left, e.right).Option(missingKey).Funcs(funcs).Parse(src)
	if err != nil {
		return nil, err
	}
	for _, t := range tmpl.Templates() {
		if t.Tree != nil {
			rewriteFields(t.Tree.Root)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(rc.Data)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// identifiers lists the function-position names used by src so each can be
// bound to a data lookup before the real parse.
func (e *TextEngine) identifiers(name, src string) ([]string, error) {
	tree := parse.New(name)
	tree.Mode = parse.SkipFuncCheck
	treeSet := map[string]*parse.Tree{}
	if _, err := tree.Parse(src, e.left, e.right, treeSet); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []string
	for _, t := range treeSet {
		if t.Root == nil {
			continue
		}
		walkIdentifiers(t.Root, func(id string) {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		})
	}
	return out, nil
}

func walkIdentifiers(n parse.Node, visit func(string)) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			walkIdentifiers(c, visit)
		}
	case *parse.ActionNode:
		walkIdentifiers(n.Pipe, visit)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, c := range n.Cmds {
			walkIdentifiers(c, visit)
		}
	case *parse.CommandNode:
		for _, c := range n.Args {
			walkIdentifiers(c, visit)
		}
	case *parse.ChainNode:
		walkIdentifiers(n.Node, visit)
	case *parse.IdentifierNode:
		visit(n.Ident)
	case *parse.IfNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.TemplateNode:
		walkIdentifiers(n.Pipe, visit)
	}
}

func walkBranch(b *parse.BranchNode, visit func(string)) {
	walkIdentifiers(b.Pipe, visit)
	walkIdentifiers(b.List, visit)
	if b.ElseList != nil {
		walkIdentifiers(b.ElseList, visit)
	}
}

func (e *TextEngine) lookup(d data.Context, key string) func(...any) (any, error) {
	return func(...any) (any, error) {
		v, ok := d[key]
		if !ok && e.missingData == MissingError {
			return nil, fmt.Errorf("%w: %q", ErrMissingData, key)
		}
		if v == nil {
			return "", nil
		}
		return v, nil
	}
}

func (e *TextEngine) helpers(rc RenderContext, depth int) template.FuncMap {
	fragment := func(category templates.Category, helper string) func(string) (string, error) {
		return func(key string) (string, error) {
			content, ok := lookupPartial(rc.Partials, category, key)
			if !ok {
				if e.missingInclude == MissingError {
					return "", fmt.Errorf("%w: %s %q", ErrMissingInclude, category, key)
				}
				return e.left + " " + helper + " " + strconv.Quote(key) + " " + e.right, nil
			}
			nested := rc
			nested.Body = ""
			out, err := e.render(nested, string(category)+"/"+key, string(content), depth+1)
			if err != nil {
				return "", err
			}
			return string(out), nil
		}
	}

	return template.FuncMap{
		"include": fragment(templates.CategoryInclude, "include"),
		"badge":   fragment(templates.CategoryBadge, "badge"),
		"doc":     fragment(templates.CategoryDocs, "doc"),
		"alias": func(name any) string {
			s := fmt.Sprint(name)
			if rc.Alias == nil {
				return s
			}
			return rc.Alias.Alias(s)
		},
		"year": func() string { return strconv.Itoa(rc.Now.Year()) },
		"date": func() string { return rc.Now.Format("January 2, 2006") },
		"body": func() string { return rc.Body },
	}
}

func lookupPartial(p Partials, category templates.Category, key string) ([]byte, bool) {
	if p == nil {
		return nil, false
	}
	return p.Content(category, key)
}

// builtinFuncs are the text/template predeclared functions; data keys never
// shadow them.
var builtinFuncs = map[string]struct{}{
	"and": {}, "or": {}, "not": {}, "len": {}, "index": {}, "slice": {},
	"print": {}, "printf": {}, "println": {}, "html": {}, "js": {}, "urlquery": {},
	"call": {}, "eq": {}, "ne": {}, "lt": {}, "le": {}, "gt": {}, "ge": {},
}
