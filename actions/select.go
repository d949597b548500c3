package actions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// SelectAction implements the terminal-family Select contract (§4.D):
// prints a message and an options list, then reads one choice by index
// through a liner terminal (§4.D Prompt's same line-editing library); a
// `multi-select` result specifier accepts a comma list of indices and
// returns a set-valued list.
type SelectAction struct{}

func (a *SelectAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *SelectAction) Verbs() []string      { return []string{"select"} }
func (a *SelectAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.With}
}

func (a *SelectAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "select", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	src, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}
	options, ok := src.AsList()
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("list", src.Kind().String(), object.Base)
	}

	message := "select"
	if w, ok := clauseWith(ctx); ok {
		if s, ok := w.AsString(); ok {
			message = s
		}
	}

	multi := false
	for _, s := range result.Specifiers {
		if s == "multi-select" {
			multi = true
		}
	}

	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)

	prompt := message + "\n"
	for i, opt := range options {
		prompt += fmt.Sprintf("%d) %s\n", i, opt.String())
	}
	prompt += "select> "

	line, err := term.Prompt(prompt)
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "select")
	}
	line = strings.TrimSpace(line)

	if multi {
		var chosen []value.Value
		for _, tok := range strings.Split(line, ",") {
			idx, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil || idx < 0 || idx >= len(options) {
				continue
			}
			chosen = append(chosen, options[idx])
		}
		return value.List(chosen), registry.Fresh, nil
	}

	idx, err := strconv.Atoi(line)
	if err != nil || idx < 0 || idx >= len(options) {
		return value.Value{}, registry.Fresh, runtimectx.InvalidInput("select: invalid choice")
	}
	return options[idx], registry.Fresh, nil
}
