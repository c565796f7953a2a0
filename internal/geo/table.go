package geo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Sh00ty/leader-geo/internal/models"
)

// The checked-in table is a placeholder, regenerate it against a live cluster
// before shipping. GEOLITE2_CITY_DB points at a GeoLite2-City database.
//go:generate go run ../../cmd/tools/geogen --output data/ip_geo.json --keep-existing=false

//go:embed data/ip_geo.json
var embeddedTable []byte

// Table is an immutable ip -> geo mapping. Safe for concurrent use.
type Table struct {
	entries map[string]models.GeoEntry
}

// Embedded returns the table compiled into the binary. It is parsed on first
// call only; broken embedded data is a build defect and panics.
var Embedded = sync.OnceValue(func() *Table {
	t, err := Parse(embeddedTable)
	if err != nil {
		panic(fmt.Sprintf("embedded geo table is invalid: %v", err))
	}
	return t
})

func Parse(data []byte) (*Table, error) {
	entries := make(map[string]models.GeoEntry)
	err := json.Unmarshal(data, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to decode geo table: %w", err)
	}
	return NewTable(entries)
}

func NewTable(entries map[string]models.GeoEntry) (*Table, error) {
	table := make(map[string]models.GeoEntry, len(entries))
	for ip, entry := range entries {
		if ip == "" {
			return nil, fmt.Errorf("geo table has empty ip key")
		}
		if entry.Geo == "" {
			return nil, fmt.Errorf("geo table entry %s has empty geo label", ip)
		}
		if !entry.ClosestRegion.IsValid() {
			return nil, fmt.Errorf("geo table entry %s has invalid region %q", ip, entry.ClosestRegion)
		}
		table[ip] = entry
	}
	return &Table{entries: table}, nil
}

func (t *Table) Lookup(ip string) (models.GeoEntry, bool) {
	entry, ok := t.entries[ip]
	return entry, ok
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table contents.
func (t *Table) Entries() map[string]models.GeoEntry {
	result := make(map[string]models.GeoEntry, len(t.entries))
	for ip, entry := range t.entries {
		result[ip] = entry
	}
	return result
}
