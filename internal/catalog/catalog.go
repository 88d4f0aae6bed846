package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/strandworks/strand-core/internal/pattern"
)

//go:embed patterns.yaml
var embedded []byte

// Entry is a single catalog definition: a human-readable name bound to
// the protocol parameters that produce the effect.
type Entry struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Colors string `yaml:"colors"`

	Direction string `yaml:"direction"`
	Speed     int    `yaml:"speed"`
	Gap       int    `yaml:"gap"`
	Other     int    `yaml:"other"`
	Pause     int    `yaml:"pause"`
}

// Params converts the entry into reissuable command parameters.
func (e Entry) Params() pattern.Params {
	return pattern.Params{
		Type:      e.Type,
		Colors:    e.Colors,
		Direction: e.Direction,
		Speed:     e.Speed,
		Gap:       e.Gap,
		Other:     e.Other,
		Pause:     e.Pause,
	}
}

// Catalog is an immutable collection of built-in pattern definitions.
// It is loaded once at startup and never modified, so lookups need no
// locking.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

type catalogFile struct {
	Patterns []Entry `yaml:"patterns"`
}

// Load reads the catalog from the given YAML file, or from the embedded
// built-in data when path is empty.
//
// Returns:
//   - The loaded catalog
//   - An error if the file cannot be read, parsed, or contains
//     duplicate or unnamed entries
func Load(path string) (*Catalog, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
		}
		data = b
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: parsing yaml: %w", err)
	}
	if len(file.Patterns) == 0 {
		return nil, fmt.Errorf("catalog: no patterns defined")
	}

	c := &Catalog{
		entries: file.Patterns,
		byName:  make(map[string]int, len(file.Patterns)),
	}
	for i, e := range c.entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog: entry %d has no name", i)
		}
		if e.Type == "" {
			return nil, fmt.Errorf("catalog: entry %q has no pattern type", e.Name)
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate entry %q", e.Name)
		}
		c.byName[e.Name] = i
	}
	return c, nil
}

// Resolve looks up an entry by name and returns its command parameters.
func (c *Catalog) Resolve(name string) (pattern.Params, bool) {
	i, ok := c.byName[name]
	if !ok {
		return pattern.Params{}, false
	}
	return c.entries[i].Params(), true
}

// NameForType returns the name of the first entry using the given
// pattern type, in catalog order. Used as a best-effort reverse lookup
// when labelling observed controller state.
func (c *Catalog) NameForType(patternType string) (string, bool) {
	for _, e := range c.entries {
		if e.Type == patternType {
			return e.Name, true
		}
	}
	return "", false
}

// Names returns all entry names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
