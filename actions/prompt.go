package actions

import (
	"github.com/peterh/liner"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// PromptAction implements the terminal-family Prompt contract (§4.D):
// writes the `_with_` message and reads a single line through a liner
// terminal, the same line-editing library the REPL-style tooling this
// core descends from uses for interactive input. A `hidden` result
// specifier switches to liner's PasswordPrompt so the typed characters
// never echo.
type PromptAction struct{}

func (a *PromptAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *PromptAction) Verbs() []string      { return []string{"prompt"} }
func (a *PromptAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With}
}

func (a *PromptAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "prompt", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	w, ok := clauseWith(ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingRequiredField("with")
	}
	message, _ := w.AsString()

	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)

	hidden := false
	for _, s := range result.Specifiers {
		if s == "hidden" {
			hidden = true
		}
	}

	var line string
	var err error
	if hidden {
		line, err = term.PasswordPrompt(message + " ")
	} else {
		line, err = term.Prompt(message + " ")
	}
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "prompt")
	}
	return value.String(line), registry.Fresh, nil
}
