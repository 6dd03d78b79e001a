package render

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template/parse"
)

// Field accesses such as {{ .version }} or {{ author.email }} are rewritten
// into calls of these helpers so a missing map key follows the missing-data
// policy instead of printing "<no value>".
const (
	fieldFunc      = "_field"
	rangeFieldFunc = "_rangeField"
)

// field walks keys from base. A missing key yields "" (nil for range
// pipelines, which then iterate zero times) or ErrMissingData.
func (e *TextEngine) field(orNil bool) func(any, ...string) (any, error) {
	return func(base any, keys ...string) (any, error) {
		cur := base
		for i, key := range keys {
			v, ok := fieldOf(cur, key)
			if !ok {
				if e.missingData == MissingError {
					return nil, fmt.Errorf("%w: %q", ErrMissingData, strings.Join(keys[:i+1], "."))
				}
				cur = nil
				break
			}
			cur = v
		}
		if cur == nil && !orNil {
			return "", nil
		}
		return cur, nil
	}
}

// fieldOf returns v[key] for string-keyed maps and the exported field key of
// structs. Anything else has no fields.
func fieldOf(v any, key string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		if kt.Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(kt))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		f := rv.FieldByName(key)
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	default:
		return nil, false
	}
}

func rewriteFields(n parse.Node) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			rewriteFields(c)
		}
	case *parse.ActionNode:
		rewritePipe(n.Pipe, fieldFunc)
	case *parse.IfNode:
		rewriteBranch(&n.BranchNode, fieldFunc)
	case *parse.WithNode:
		rewriteBranch(&n.BranchNode, fieldFunc)
	case *parse.RangeNode:
		rewriteBranch(&n.BranchNode, rangeFieldFunc)
	case *parse.TemplateNode:
		rewritePipe(n.Pipe, fieldFunc)
	}
}

func rewriteBranch(b *parse.BranchNode, helper string) {
	rewritePipe(b.Pipe, helper)
	rewriteFields(b.List)
	if b.ElseList != nil {
		rewriteFields(b.ElseList)
	}
}

func rewritePipe(p *parse.PipeNode, helper string) {
	if p == nil {
		return
	}
	for _, cmd := range p.Cmds {
		for i, arg := range cmd.Args {
			// A leading field followed by arguments is a method call.
			if i == 0 && len(cmd.Args) > 1 {
				if _, ok := arg.(*parse.IdentifierNode); !ok {
					continue
				}
			}
			cmd.Args[i] = fieldAccess(arg, helper)
		}
	}
}

// fieldAccess replaces a field node with a parenthesized helper call and
// returns any other node unchanged.
func fieldAccess(n parse.Node, helper string) parse.Node {
	switch n := n.(type) {
	case *parse.FieldNode:
		return helperCall(n.Pos, helper, &parse.DotNode{NodeType: parse.NodeDot, Pos: n.Pos}, n.Ident)
	case *parse.ChainNode:
		base := n.Node
		if pipe, ok := base.(*parse.PipeNode); ok {
			rewritePipe(pipe, fieldFunc)
		}
		return helperCall(n.Pos, helper, base, n.Field)
	case *parse.VariableNode:
		if len(n.Ident) < 2 {
			return n
		}
		root := &parse.VariableNode{NodeType: parse.NodeVariable, Pos: n.Pos, Ident: n.Ident[:1]}
		return helperCall(n.Pos, helper, root, n.Ident[1:])
	case *parse.PipeNode:
		rewritePipe(n, fieldFunc)
	}
	return n
}

func helperCall(pos parse.Pos, helper string, base parse.Node, keys []string) *parse.PipeNode {
	args := []parse.Node{parse.NewIdentifier(helper).SetPos(pos), base}
	for _, k := range keys {
		args = append(args, &parse.StringNode{NodeType: parse.NodeString, Pos: pos, Quoted: strconv.Quote(k), Text: k})
	}
	return &parse.PipeNode{
		NodeType: parse.NodePipe,
		Pos:      pos,
		Cmds:     []*parse.CommandNode{{NodeType: parse.NodeCommand, Pos: pos, Args: args}},
	}
}
