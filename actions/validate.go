package actions

import (
	"net/mail"
	"strconv"
	"strings"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

var validateRules = map[string]bool{
	"required": true, "exists": true, "nonempty": true, "email": true, "numeric": true,
}

// ValidateAction implements the own-family Validate contract (§4.D):
// dispatches on a built-in rule and returns {isValid, rule}.
type ValidateAction struct{}

func (a *ValidateAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *ValidateAction) Verbs() []string      { return []string{"validate"} }
func (a *ValidateAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.Against}
}

func (a *ValidateAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "validate", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	rule, _ := resolveOperationName(result, validateRules)
	if rule == "" {
		rule = "exists"
	}

	v, has := ctx.Resolve(object.Base)
	isValid := false
	switch rule {
	case "required", "exists":
		isValid = has && !v.IsNull()
	case "nonempty":
		isValid = has && v.Len() != 0
	case "email":
		if has {
			s, _ := v.AsString()
			_, err := mail.ParseAddress(s)
			isValid = err == nil
		}
	case "numeric":
		if has {
			s, _ := v.AsString()
			_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			isValid = err == nil
		}
	}

	return value.Map(map[string]value.Value{
		"isValid": value.Bool(isValid),
		"rule":    value.String(rule),
	}), registry.Fresh, nil
}
