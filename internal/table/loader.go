package table

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/isseis/go-passgen/internal/safefileio"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization of a table file.
type Format int

const (
	// FormatYAML is the native table format (*.yml, *.yaml).
	FormatYAML Format = iota
	// FormatTOML is accepted for consistency with the configuration file.
	FormatTOML
)

// FormatForPath infers the table format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and parses a table file. The file is opened without following
// symlinks and must be a regular file.
func Load(path string) (*Table, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	content, err := safefileio.SafeReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}

	t, err := Parse(filepath.Base(path), content, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes table content in the given format.
func Parse(name string, content []byte, format Format) (*Table, error) {
	switch format {
	case FormatYAML:
		return parseYAML(name, content)
	case FormatTOML:
		return parseTOML(name, content)
	default:
		return nil, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}
}

func parseTOML(name string, content []byte) (*Table, error) {
	var raw map[string]any
	if err := toml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	return FromRaw(name, raw)
}

// parseYAML walks the node tree instead of decoding into map[string]any so
// that unquoted scalars such as 4 or 1 keep their source text.
func parseYAML(name string, content []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("%w: document is empty", ErrMalformedTable)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrMalformedTable)
	}

	entries := make(map[string][]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: key must be a scalar", ErrMalformedTable, keyNode.Line)
		}
		key := keyNode.Value
		if _, dup := entries[key]; dup {
			return nil, &MalformedEntryError{Key: key, Reason: "duplicate key"}
		}

		set, err := yamlSymbolSet(key, valueNode)
		if err != nil {
			return nil, err
		}
		entries[key] = set
	}

	return NewNamed(name, entries)
}

func yamlSymbolSet(key string, node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &MalformedEntryError{Key: key, Reason: fmt.Sprintf("line %d: value must be a sequence of strings", node.Line)}
	}

	set := make([]string, 0, len(node.Content))
	for i, item := range node.Content {
		if item.Kind != yaml.ScalarNode || item.ShortTag() == "!!null" {
			return nil, &MalformedEntryError{Key: key, Reason: fmt.Sprintf("line %d: symbol %d must be a string", item.Line, i)}
		}
		set = append(set, item.Value)
	}
	return set, nil
}
