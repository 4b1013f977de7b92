package checklist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the newest template file format this build writes.
// Files with the same major version are accepted.
const FormatVersion = "v1.0.0"

var (
	ErrInvalidFormat     = errors.New("invalid template format version")
	ErrUnsupportedFormat = errors.New("unsupported template format version")
	ErrSchema            = errors.New("template does not match schema")
)

// FileKind selects the serialisation used for template files.
type FileKind int

const (
	KindJSON FileKind = iota
	KindYAML
)

// DetectKind picks the file kind from the path extension.
func DetectKind(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return KindYAML
	default:
		return KindJSON
	}
}

//go:embed template.schema.json
var schemaJSON []byte

const schemaURL = "schema://preflight/template.json"

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile: %w", schemaErr)
		}
	})
	return schemaCompiled, schemaErr
}

// Decode parses a template file. YAML input is converted to JSON first so
// both kinds go through the same schema and format checks.
func Decode(data []byte, kind FileKind) (*Template, error) {
	if kind == KindYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		data = converted
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	if obj, ok := parsed.(map[string]any); ok {
		f, _ := obj["format"].(string)
		if err := CheckFormat(f); err != nil {
			return nil, err
		}
	}

	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return &t, nil
}

// CheckFormat accepts an empty version or any semver with the same major
// version as FormatVersion. A missing "v" prefix is tolerated.
func CheckFormat(format string) error {
	if format == "" {
		return nil
	}
	v := format
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	if semver.Compare(semver.Major(v), semver.Major(FormatVersion)) > 0 {
		return fmt.Errorf("%w: %s (newest supported is %s)", ErrUnsupportedFormat, format, semver.Major(FormatVersion))
	}
	return nil
}

// Encode serialises a template. The current FormatVersion is stamped on the
// output when the template carries none.
func Encode(t *Template, kind FileKind) ([]byte, error) {
	doc := toDoc(t)
	if doc.Format == "" {
		doc.Format = FormatVersion
	}
	switch kind {
	case KindYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(v))
}

// normalizeYAML turns any map[any]any produced by the YAML decoder into
// map[string]any so the value can be encoded as JSON.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}
