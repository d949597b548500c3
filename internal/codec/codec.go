// Package codec implements the file-format encode/decode family backing
// Read/Write (§4.D file family) and the string-parsing priority order
// Extract applies to string nodes (§4.D source-read family: "JSON
// (leading `{`/`[`), form-urlencoded (`=` and no `:`), key-value (`k: v`
// …), single-token command value"), dispatched by file extension.
package codec

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arolang/aro-sub008/value"
)

// Options carries the delimiter/header/quote/encoding knobs Read/Write
// accept via the `_literal_` clause (§4.D file family).
type Options struct {
	Delimiter string
	Header    bool
	Quote     string
	Encoding  string
}

// Format enumerates the file formats Read/Write detect from a path
// extension.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatRaw  Format = "raw"
)

// DetectFormat maps a file extension to a Format, defaulting to raw text
// for anything it doesn't recognize (§4.D: "Raw strings bypass
// serialization for unknown formats").
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	default:
		return FormatRaw
	}
}

// Decode parses raw bytes in the given format into a value.Value.
func Decode(format Format, data []byte, opts Options) (value.Value, error) {
	switch format {
	case FormatJSON:
		var x any
		if err := json.Unmarshal(data, &x); err != nil {
			return value.Value{}, fmt.Errorf("codec: json decode: %w", err)
		}
		return value.FromAny(x), nil
	case FormatYAML:
		var x any
		if err := yaml.Unmarshal(data, &x); err != nil {
			return value.Value{}, fmt.Errorf("codec: yaml decode: %w", err)
		}
		return value.FromAny(normalizeYAML(x)), nil
	case FormatTOML:
		var x map[string]any
		if err := toml.Unmarshal(data, &x); err != nil {
			return value.Value{}, fmt.Errorf("codec: toml decode: %w", err)
		}
		return value.FromAny(x), nil
	case FormatCSV, FormatTSV:
		return decodeDelimited(format, data, opts)
	default:
		return value.String(string(data)), nil
	}
}

// normalizeYAML recursively converts map[string]any keys that yaml.v3
// decodes (it already yields string keys for v3, unlike v2's
// map[interface{}]interface{}) — kept as a hook in case nested
// documents surface non-string keys from anchors/merges.
func normalizeYAML(x any) any {
	switch t := x.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = normalizeYAML(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = normalizeYAML(v)
		}
		return out
	default:
		return t
	}
}

func decodeDelimited(format Format, data []byte, opts Options) (value.Value, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiterRune(format, opts)
	if opts.Quote != "" {
		r.LazyQuotes = true
	}
	records, err := r.ReadAll()
	if err != nil {
		return value.Value{}, fmt.Errorf("codec: delimited decode: %w", err)
	}
	if len(records) == 0 {
		return value.List(nil), nil
	}

	header := opts.Header
	var cols []string
	start := 0
	if header {
		cols = records[0]
		start = 1
	}

	rows := make([]value.Value, 0, len(records)-start)
	for _, rec := range records[start:] {
		if header {
			m := make(map[string]value.Value, len(cols))
			for i, c := range cols {
				if i < len(rec) {
					m[c] = inferScalar(rec[i])
				}
			}
			rows = append(rows, value.Map(m))
		} else {
			items := make([]value.Value, len(rec))
			for i, c := range rec {
				items[i] = inferScalar(c)
			}
			rows = append(rows, value.List(items))
		}
	}
	return value.List(rows), nil
}

func inferScalar(s string) value.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Float(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return value.Bool(b)
	}
	return value.String(s)
}

func delimiterRune(format Format, opts Options) rune {
	if opts.Delimiter != "" {
		return rune(opts.Delimiter[0])
	}
	if format == FormatTSV {
		return '\t'
	}
	return ','
}

// Encode serializes v back to bytes in the given format, the Write
// action's half of the round-trip property §8 pins.
func Encode(format Format, v value.Value, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		return yaml.Marshal(v.Raw())
	case FormatTOML:
		m, ok := v.AsDict()
		if !ok {
			return nil, fmt.Errorf("codec: toml encode requires a map value")
		}
		return toml.Marshal(m)
	case FormatCSV, FormatTSV:
		return encodeDelimited(format, v, opts)
	default:
		s, _ := v.AsString()
		return []byte(s), nil
	}
}

func encodeDelimited(format Format, v value.Value, opts Options) ([]byte, error) {
	rows, ok := v.AsList()
	if !ok {
		return nil, fmt.Errorf("codec: delimited encode requires a list value")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimiterRune(format, opts)

	var cols []string
	if opts.Header && len(rows) > 0 {
		if m, ok := rows[0].AsDict(); ok {
			for k := range m {
				cols = append(cols, k)
			}
			sortStrings(cols)
			_ = w.Write(cols)
		}
	}
	for _, row := range rows {
		if m, ok := row.AsDict(); ok && len(cols) > 0 {
			rec := make([]string, len(cols))
			for i, c := range cols {
				s, _ := m[c].AsString()
				rec[i] = s
			}
			_ = w.Write(rec)
			continue
		}
		if items, ok := row.AsList(); ok {
			rec := make([]string, len(items))
			for i, item := range items {
				s, _ := item.AsString()
				rec[i] = s
			}
			_ = w.Write(rec)
			continue
		}
		s, _ := row.AsString()
		_ = w.Write([]string{s})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// ParseStringBody applies Extract's string-parsing priority order: JSON
// when the trimmed text leads with `{`/`[`, form-urlencoded when it
// contains `=` and no `:`, key-value (`k: v`, multi-line, case
// insensitive key match) otherwise, and a bare "command value" token as
// the last resort (§4.D Extract).
func ParseStringBody(s string) value.Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return value.String(s)
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var x any
		if err := json.Unmarshal([]byte(trimmed), &x); err == nil {
			return value.FromAny(x)
		}
	}
	if strings.Contains(trimmed, "=") && !strings.Contains(trimmed, ":") {
		if vals, err := url.ParseQuery(trimmed); err == nil && len(vals) > 0 {
			m := make(map[string]value.Value, len(vals))
			for k, v := range vals {
				if len(v) == 1 {
					m[k] = value.String(v[0])
				} else {
					items := make([]value.Value, len(v))
					for i, e := range v {
						items[i] = value.String(e)
					}
					m[k] = value.List(items)
				}
			}
			return value.Map(m)
		}
	}
	if kv, ok := parseKeyValue(trimmed); ok {
		return value.Map(kv)
	}
	fields := strings.Fields(trimmed)
	if len(fields) >= 2 {
		return value.Map(map[string]value.Value{
			"command": value.String(fields[0]),
			"value":   value.String(strings.Join(fields[1:], " ")),
		})
	}
	return value.String(s)
}

// parseKeyValue recognizes multi-line "Key: value" bodies, matching keys
// case-insensitively the way HTTP-header-shaped text is conventionally
// read.
func parseKeyValue(s string) (map[string]value.Value, bool) {
	lines := strings.Split(s, "\n")
	out := make(map[string]value.Value)
	found := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			return nil, false
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		val := strings.TrimSpace(line[idx+1:])
		out[key] = inferScalar(val)
		found = true
	}
	return out, found
}
