package actions

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-viper/mapstructure/v2"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// RequestConfig is the typed shape a `with {...}` config map decodes
// into for Request, via mapstructure's generic map-to-struct decoding.
type RequestConfig struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
	Timeout int // milliseconds
}

// RequestAction implements the source-read Request contract (§4.D):
// outbound HTTP calls, method selected by preposition or by an explicit
// `method` key in the config map.
type RequestAction struct{}

func (a *RequestAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *RequestAction) Verbs() []string      { return []string{"request"} }
func (a *RequestAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.To, ast.Via}
}

func (a *RequestAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "request", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	client, ok := runtimectx.Service[HTTPClient](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("HTTPClient")
	}

	cfg := decodeRequestConfig(ctx)
	if cfg.URL == "" {
		cfg.URL = object.Base
	}

	method := cfg.Method
	if method == "" {
		switch object.Preposition {
		case ast.From:
			method = "GET"
		case ast.To:
			method = "POST"
		case ast.Via:
			method = strings.ToUpper(object.Specifier(0))
		}
	}
	if method == "" {
		method = "GET"
	}

	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter, hasLimiter := runtimectx.Service[RateLimiter](ctx)

	var status int
	var headers map[string]string
	var body []byte
	op := func() error {
		if hasLimiter {
			if err := limiter.Wait(context.Background()); err != nil {
				return err
			}
		}
		var err error
		status, headers, body, err = client.Do(method, cfg.URL, cfg.Headers, []byte(cfg.Body), timeout)
		return err
	}
	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
	if err := backoff.Retry(op, bo); err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "request: "+method+" "+cfg.URL)
	}

	headerVals := make(map[string]value.Value, len(headers))
	for k, v := range headers {
		headerVals[k] = value.String(v)
	}
	return value.Map(map[string]value.Value{
		"status":  value.Int(int64(status)),
		"headers": value.Map(headerVals),
		"body":    value.String(string(body)),
	}), registry.Fresh, nil
}

// decodeRequestConfig reads the generic `with {...}` clause (_with_), or
// falls back to _expression_ for a bare url/string value.
func decodeRequestConfig(ctx *runtimectx.ExecutionContext) RequestConfig {
	var cfg RequestConfig
	if w, ok := clauseWith(ctx); ok {
		if m, ok := w.AsDict(); ok {
			raw := make(map[string]any, len(m))
			for k, v := range m {
				raw[k] = v.Raw()
			}
			_ = mapstructure.Decode(raw, &cfg)
		} else if s, ok := w.AsString(); ok {
			cfg.URL = s
		}
	}
	if cfg.URL == "" {
		if e, ok := clauseExpression(ctx); ok {
			if s, ok := e.AsString(); ok {
				cfg.URL = s
			}
		}
	}
	return cfg
}
