package actions

import (
	"fmt"
	"os"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ClearAction implements the terminal-family Clear contract (§4.D):
// `result.base` names what to clear, `screen` (ANSI clear + home
// cursor) or `line` (carriage return + line erase).
type ClearAction struct{}

func (a *ClearAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *ClearAction) Verbs() []string      { return []string{"clear"} }
func (a *ClearAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.On, ast.From}
}

func (a *ClearAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "clear", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	switch result.Base {
	case "screen":
		fmt.Fprint(os.Stdout, "\x1b[2J\x1b[H")
	case "line":
		fmt.Fprint(os.Stdout, "\r\x1b[2K")
	default:
		return value.Value{}, registry.Fresh, runtimectx.InvalidInput(`clear requires result.base "screen" or "line"`)
	}
	return value.String(result.Base), registry.Fresh, nil
}
