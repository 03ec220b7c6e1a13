package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/packship/internal/domain"
)

// Supported manifest formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats lists the supported formats.
var Formats = []string{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat normalizes a format name. An empty name selects JSON.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", &domain.InvalidConfigError{Field: "format", Reason: fmt.Sprintf("unsupported manifest format %q", s)}
}

// encode serializes v in the given format, ending with a newline.
func encode(format string, v interface{}) ([]byte, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "    ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(v)
	}
	return nil, fmt.Errorf("unsupported manifest format %q", format)
}

// decode parses data in the given format into v.
func decode(format string, data []byte, v interface{}) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	}
	return fmt.Errorf("unsupported manifest format %q", format)
}

// Load reads a manifest file, choosing the format from its extension.
func Load(path string) (Document, error) {
	var doc Document
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return doc, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := decode(format, b, &doc); err != nil {
		return doc, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return doc, nil
}
