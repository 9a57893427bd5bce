package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a catalog from path. The format follows the file extension:
// .json and .yaml/.yml are structured, everything else is CSV.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entries, err = ParseJSON(data)
	case ".yaml", ".yml":
		entries, err = ParseYAML(data)
	default:
		entries, err = ParseCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return New(entries)
}
