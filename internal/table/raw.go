package table

import "fmt"

// FromRaw builds a Table from a loosely typed decoded document, such as the
// result of unmarshaling TOML into map[string]any. Every value must be a
// non-empty sequence whose elements are all strings.
func FromRaw(name string, raw map[string]any) (*Table, error) {
	entries := make(map[string][]string, len(raw))
	for key, value := range raw {
		set, err := toSymbolSet(key, value)
		if err != nil {
			return nil, err
		}
		entries[key] = set
	}
	return NewNamed(name, entries)
}

func toSymbolSet(key string, value any) ([]string, error) {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []string:
		return v, nil
	default:
		return nil, &MalformedEntryError{Key: key, Reason: fmt.Sprintf("value must be a sequence of strings, got %T", value)}
	}

	set := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &MalformedEntryError{Key: key, Reason: fmt.Sprintf("symbol %d must be a string, got %T", i, item)}
		}
		set = append(set, s)
	}
	return set, nil
}
