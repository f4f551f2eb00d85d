// Package source reads untyped input values from JSON or YAML.
//
// JSON numbers are kept as json.Number, so the decoded tree holds their exact
// text. Number decoders convert them to float64, which rounds integers beyond
// 2^53. YAML mappings are normalized to map[string]any.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is an input encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// DetectFormat picks the format from the file extension, falling back to the
// first non-space byte of data: '{', '[' or '"' mean JSON.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '{', '[', '"':
			return FormatJSON
		}
	}
	return FormatYAML
}

// Documents decodes every document in data. JSON input holds exactly one
// document; YAML input may hold several separated by "---".
func Documents(data []byte, f Format) ([]any, error) {
	if f == FormatJSON {
		v, err := decodeJSON(data)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
	return decodeYAML(data)
}

// ReadFile reads path ("-" for stdin) and decodes its documents.
func ReadFile(path string) ([]any, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return Documents(b, DetectFormat(path, b))
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: json: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("source: json: unexpected data after top-level value")
	}
	return v, nil
}

func decodeYAML(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []any
	for {
		var v any
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("source: yaml: %w", err)
		}
		out = append(out, normalize(v))
	}
	if len(out) == 0 {
		return nil, errors.New("source: yaml: no documents")
	}
	return out, nil
}

// normalize turns YAML mappings into JSON-like map[string]any recursively.
// Non-string keys are formatted with %v.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	default:
		return v
	}
}
