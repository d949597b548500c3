package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/codec"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ReadAction implements the file-family Read contract (§4.D): reads
// file bytes via the file-system service and deserializes per the path
// extension, unless a "string"/"as string" result specifier asks for
// the raw content.
type ReadAction struct{}

func (a *ReadAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *ReadAction) Verbs() []string      { return []string{"read"} }
func (a *ReadAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From}
}

func (a *ReadAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "read", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	path, err := resolveFilePath(object, ctx)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}

	fs, ok := runtimectx.Service[fsx.FileSystem](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("fsx.FileSystem")
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "read: "+path)
	}

	for _, spec := range result.Specifiers {
		if spec == "string" || spec == "as string" {
			return value.String(string(data)), registry.Fresh, nil
		}
	}

	opts := readCodecOptions(ctx)
	v, err := codec.Decode(codec.DetectFormat(path), data, opts)
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "read: decode "+path)
	}
	return v, registry.Fresh, nil
}

// readCodecOptions extracts the {delimiter, header, quote, encoding}
// option map carried on _literal_ (§4.D file family).
func readCodecOptions(ctx *runtimectx.ExecutionContext) codec.Options {
	var opts codec.Options
	lit, ok := clauseLiteral(ctx)
	if !ok {
		return opts
	}
	m, ok := lit.AsDict()
	if !ok {
		return opts
	}
	if d, ok := m["delimiter"]; ok {
		opts.Delimiter, _ = d.AsString()
	}
	if h, ok := m["header"]; ok {
		opts.Header, _ = h.AsBool()
	}
	if q, ok := m["quote"]; ok {
		opts.Quote, _ = q.AsString()
	}
	if e, ok := m["encoding"]; ok {
		opts.Encoding, _ = e.AsString()
	}
	return opts
}

// resolveFilePath resolves a path in the priority order the file family
// shares (§4.D file family): specifier-as-variable, specifier-literal,
// base-as-variable, base-literal.
func resolveFilePath(object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (string, error) {
	if spec := object.Specifier(0); spec != "" {
		if v, ok := ctx.Resolve(spec); ok {
			if s, ok := v.AsString(); ok && s != "" {
				return s, nil
			}
		}
		return spec, nil
	}
	if v, ok := ctx.Resolve(object.Base); ok {
		if s, ok := v.AsString(); ok && s != "" {
			return s, nil
		}
	}
	if object.Base != "" {
		return object.Base, nil
	}
	return "", runtimectx.RuntimeError("read requires a path")
}
