package actions

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ParseHtmlAction implements the own-family ParseHtml contract (§4.D):
// tokenizes HTML via golang.org/x/net/html and extracts links, text
// content, or full text, optionally scoped to a tag named by the
// `_expression_` clause.
type ParseHtmlAction struct{}

func (a *ParseHtmlAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *ParseHtmlAction) Verbs() []string      { return []string{"parsehtml", "parse-html"} }
func (a *ParseHtmlAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From}
}

func (a *ParseHtmlAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "parsehtml", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	src, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}
	raw, ok := src.AsString()
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("string", src.Kind().String(), object.Base)
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "parsehtml: parse failed")
	}

	var tagFilter string
	if e, ok := clauseExpression(ctx); ok {
		tagFilter, _ = e.AsString()
		tagFilter = strings.TrimPrefix(tagFilter, ".")
	}

	mode := result.Specifier(0)
	switch mode {
	case "links":
		return value.List(collectLinks(doc)), registry.Fresh, nil
	case "content":
		return value.String(strings.Join(collectText(doc, tagFilter, true), "\n")), registry.Fresh, nil
	default: // "text" or unspecified
		return value.String(strings.Join(collectText(doc, tagFilter, false), " ")), registry.Fresh, nil
	}
}

func collectLinks(n *html.Node) []value.Value {
	var out []value.Value
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					out = append(out, value.String(attr.Val))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func collectText(n *html.Node, tagFilter string, multiline bool) []string {
	var out []string
	inScope := tagFilter == ""
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, scoped bool) {
		nowScoped := scoped
		if n.Type == html.ElementNode && tagFilter != "" && n.Data == tagFilter {
			nowScoped = true
		}
		if n.Type == html.TextNode && nowScoped {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				out = append(out, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, nowScoped)
		}
	}
	walk(n, inScope)
	return out
}
