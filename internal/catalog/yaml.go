package catalog

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a YAML sequence of target/weight mappings.
func ParseYAML(data []byte) ([]Entry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decode YAML: %w", err)}
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	seq := root.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, &ParseError{Line: seq.Line, Err: errors.New("expected a YAML sequence of entries")}
	}

	entries := make([]Entry, 0, len(seq.Content))
	for _, node := range seq.Content {
		var e Entry
		if err := node.Decode(&e); err != nil {
			return nil, &ParseError{Line: node.Line, Err: err}
		}
		if e.Target == "" {
			return nil, &ParseError{Line: node.Line, Err: errors.New("target is required")}
		}
		if e.Weight <= 0 {
			return nil, &ParseError{Line: node.Line, Err: fmt.Errorf("weight must be >= 1, got %d", e.Weight)}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
