package actions

import (
	"encoding/json"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

var transformTargets = map[string]bool{
	"string": true, "int": true, "double": true, "bool": true, "json": true, "identity": true,
}

// TransformAction implements the own-family Transform contract (§4.D):
// coerces a value to the target type specifier, raising TypeMismatch on
// a failed numeric coercion.
type TransformAction struct{}

func (a *TransformAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *TransformAction) Verbs() []string      { return []string{"transform"} }
func (a *TransformAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.To, ast.From}
}

func (a *TransformAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "transform", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	target, _ := resolveOperationName(result, transformTargets)
	if target == "" {
		target = "identity"
	}

	src, ok := ctx.Resolve(object.Base)
	if !ok {
		if l, ok2 := clauseLiteral(ctx); ok2 {
			src = l
		} else {
			return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
		}
	}

	switch target {
	case "string":
		s, _ := src.AsString()
		return value.String(s), registry.Fresh, nil
	case "int":
		i, ok := src.AsInt()
		if !ok {
			return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("int", src.Kind().String(), object.Base)
		}
		return value.Int(i), registry.Fresh, nil
	case "double":
		f, ok := src.AsDouble()
		if !ok {
			return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("double", src.Kind().String(), object.Base)
		}
		return value.Float(f), registry.Fresh, nil
	case "bool":
		b, ok := src.AsBool()
		if !ok {
			return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("bool", src.Kind().String(), object.Base)
		}
		return value.Bool(b), registry.Fresh, nil
	case "json":
		bs, err := json.Marshal(src)
		if err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "transform: json encode")
		}
		return value.String(string(bs)), registry.Fresh, nil
	default: // identity
		return src, registry.Fresh, nil
	}
}
