package exec

import (
	"strconv"
	"strings"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// bindClauses implements §4.E step 2: from statement.ValueSource and
// statement.QueryModifiers, populate the auxiliary `_..._` bindings the
// action bodies read back (actions.clause*). Clause bindings are always
// rebindable (runtimectx.isClauseName's generic rule), so every Bind
// call here passes allowRebind=true.
func bindClauses(stmt ast.AROStatement, ctx *runtimectx.ExecutionContext) error {
	if stmt.ValueSource != nil {
		if err := bindValueSource(*stmt.ValueSource, stmt.Object.Preposition, ctx, stmt.Span); err != nil {
			return err
		}
	}
	if stmt.QueryModifiers.WhereClause != nil {
		if err := bindWhereClause(stmt.QueryModifiers.WhereClause, ctx); err != nil {
			return err
		}
	}
	return nil
}

func bindValueSource(expr ast.Expression, prep ast.Preposition, ctx *runtimectx.ExecutionContext, span ast.Span) error {
	switch expr.Kind {
	case ast.ExprRegex:
		return bindAll(ctx, span,
			kv{"_by_pattern_", value.String(expr.Pattern)},
			kv{"_by_flags_", value.String(expr.Flags)},
		)

	case ast.ExprAggregate:
		return bindAll(ctx, span,
			kv{"_aggregation_type_", value.String(expr.Aggregation.Type)},
			kv{"_aggregation_field_", value.String(expr.Aggregation.Field)},
		)

	case ast.ExprRaw:
		return bindAll(ctx, span, kv{"_with_", value.String(expr.Raw)})

	case ast.ExprLiteral:
		v := literalValue(expr.Literal)
		return bindByPreposition(ctx, span, prep, v, "")

	case ast.ExprVariableRef:
		v, err := evalExpression(expr, ctx)
		if err != nil {
			return err
		}
		return bindByPreposition(ctx, span, prep, v, expr.VariableRef)

	case ast.ExprBinary, ast.ExprList, ast.ExprMap:
		// Composite expressions are always computational payloads (an
		// arithmetic pair, a literal list/map) regardless of the
		// connecting preposition's wording: `from <a+b>` must still reach
		// Compute through _expression_, not _from_, so only a bare
		// variable reference or literal honors the to/from shortcut.
		v, err := evalExpression(expr, ctx)
		if err != nil {
			return err
		}
		if err := ctx.Bind("_expression_", v, true, span); err != nil {
			return err
		}
		return ctx.Bind("_expression_name_", value.String(""), true, span)

	default:
		return nil
	}
}

// bindByPreposition routes a resolved literal or bare variable-reference
// value to `_to_`/`_from_` when the connecting preposition is literally
// "to"/"from", else to `_literal_`/`_expression_`, writing
// `_expression_name_` alongside a variable reference (§4.E step 2).
// Composite expressions (binary, list, map) bypass this and always bind
// to `_expression_`; see bindValueSource.
func bindByPreposition(ctx *runtimectx.ExecutionContext, span ast.Span, prep ast.Preposition, v value.Value, varName string) error {
	switch prep {
	case ast.To:
		return ctx.Bind("_to_", v, true, span)
	case ast.From:
		return ctx.Bind("_from_", v, true, span)
	}
	if varName == "" {
		return ctx.Bind("_literal_", v, true, span)
	}
	if err := ctx.Bind("_expression_", v, true, span); err != nil {
		return err
	}
	return ctx.Bind("_expression_name_", value.String(varName), true, span)
}

func bindWhereClause(wc *ast.WhereClause, ctx *runtimectx.ExecutionContext) error {
	v, err := evalExpression(wc.Value, ctx)
	if err != nil {
		return err
	}
	return bindAll(ctx, wc.Span,
		kv{"_where_field_", value.String(wc.Field)},
		kv{"_where_op_", value.String(wc.Op)},
		kv{"_where_value_", v},
	)
}

type kv struct {
	name string
	val  value.Value
}

func bindAll(ctx *runtimectx.ExecutionContext, span ast.Span, entries ...kv) error {
	for _, e := range entries {
		if err := ctx.Bind(e.name, e.val, true, span); err != nil {
			return err
		}
	}
	return nil
}

func literalValue(l *ast.Literal) value.Value {
	if l == nil {
		return value.Null()
	}
	switch {
	case l.String != nil:
		return value.String(*l.String)
	case l.Integer != nil:
		return value.Int(*l.Integer)
	case l.Float != nil:
		return value.Float(*l.Float)
	case l.Boolean != nil:
		return value.Bool(*l.Boolean)
	default:
		return value.Null()
	}
}

// evalExpression resolves an Expression to a concrete value.Value: a
// dotted variable path, a binary arithmetic pair encoded as the
// [left, right, op] 3-element list actions.Compute expects, or a
// recursively-evaluated list/map composite.
func evalExpression(expr ast.Expression, ctx *runtimectx.ExecutionContext) (value.Value, error) {
	switch expr.Kind {
	case ast.ExprLiteral:
		return literalValue(expr.Literal), nil

	case ast.ExprVariableRef:
		return resolvePath(expr.VariableRef, ctx)

	case ast.ExprBinary:
		left, err := resolvePath(expr.Binary.Left, ctx)
		if err != nil {
			return value.Value{}, err
		}
		right, err := resolvePath(expr.Binary.Right, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return value.List([]value.Value{left, right, value.String(expr.Binary.Op)}), nil

	case ast.ExprList:
		out := make([]value.Value, len(expr.List))
		for i, item := range expr.List {
			v, err := evalExpression(item, ctx)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = v
		}
		return value.List(out), nil

	case ast.ExprMap:
		out := make(map[string]value.Value, len(expr.Map))
		for k, item := range expr.Map {
			v, err := evalExpression(item, ctx)
			if err != nil {
				return value.Value{}, err
			}
			out[k] = v
		}
		return value.Map(out), nil

	case ast.ExprRaw:
		return value.String(expr.Raw), nil

	default:
		return value.Null(), nil
	}
}

// resolvePath resolves a bare name or dotted path ("order.status")
// against the current bindings, walking dict keys and reverse list
// indices the same way actions.Extract does (§4.B: "composes with their
// own path walk").
func resolvePath(path string, ctx *runtimectx.ExecutionContext) (value.Value, error) {
	parts := strings.Split(path, ".")
	v, ok := ctx.Resolve(parts[0])
	if !ok {
		return value.Value{}, runtimectx.UndefinedVariable(parts[0])
	}
	for _, p := range parts[1:] {
		next, err := stepPath(v, p, path)
		if err != nil {
			return value.Value{}, err
		}
		v = next
	}
	return v, nil
}

func stepPath(node value.Value, spec, on string) (value.Value, error) {
	switch node.Kind() {
	case value.KindMap:
		m, _ := node.AsDict()
		v, ok := m[spec]
		if !ok {
			return value.Value{}, runtimectx.PropertyNotFound(spec, on)
		}
		return v, nil
	case value.KindList:
		xs, _ := node.AsList()
		if i, err := strconv.Atoi(spec); err == nil {
			idx := len(xs) - 1 - i
			if idx >= 0 && idx < len(xs) {
				return xs[idx], nil
			}
		}
		return value.Value{}, runtimectx.PropertyNotFound(spec, on)
	default:
		return value.Value{}, runtimectx.PropertyNotFound(spec, on)
	}
}
