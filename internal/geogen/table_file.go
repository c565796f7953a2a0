package geogen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Sh00ty/leader-geo/internal/geo"
	"github.com/Sh00ty/leader-geo/internal/models"
)

// ReadTable loads a previously generated table. A missing file is an empty table.
func ReadTable(path string) (map[string]models.GeoEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	table, err := geo.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("existing table %s is invalid: %w", path, err)
	}
	return table.Entries(), nil
}

// WriteTable validates entries the same way the embedded table is validated
// and writes them in the embedded format. Nothing is written on error.
func WriteTable(path string, entries map[string]models.GeoEntry) error {
	_, err := geo.NewTable(entries)
	if err != nil {
		return fmt.Errorf("generated table is invalid: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal table: %w", err)
	}
	err = os.WriteFile(path, append(data, '\n'), 0o644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
