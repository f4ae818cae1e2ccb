// Package presets loads the brand preset table offered by the form.
package presets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ai_creative_builder/generator"
)

//go:embed presets.yaml
var defaultYAML []byte

// Table is an ordered, read-only name -> preset mapping.
type Table struct {
	order  []string
	byName map[string]generator.BrandPreset
}

// Default returns the built-in table.
func Default() (*Table, error) {
	return Parse(defaultYAML)
}

// Load reads a YAML preset list from path. An empty path gives the built-in table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of presets. Names must be unique and non-empty.
func Parse(data []byte) (*Table, error) {
	var list []generator.BrandPreset
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if len(list) == 0 {
		return nil, errors.New("preset table is empty")
	}
	t := &Table{byName: make(map[string]generator.BrandPreset, len(list))}
	for i, p := range list {
		p.Name = strings.TrimSpace(p.Name)
		p.ToneOverride = strings.TrimSpace(p.ToneOverride)
		p.VoiceInstructions = strings.TrimSpace(p.VoiceInstructions)
		if p.Name == "" {
			return nil, fmt.Errorf("preset #%d has no name", i+1)
		}
		if _, dup := t.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		t.order = append(t.order, p.Name)
		t.byName[p.Name] = p
	}
	return t, nil
}

// Names lists preset names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// All lists presets in table order.
func (t *Table) All() []generator.BrandPreset {
	out := make([]generator.BrandPreset, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}

// Get looks a preset up by exact name.
func (t *Table) Get(name string) (generator.BrandPreset, bool) {
	p, ok := t.byName[name]
	return p, ok
}

// First is the preset selected when the user picks nothing.
func (t *Table) First() generator.BrandPreset {
	return t.byName[t.order[0]]
}

// Resolve returns First for an empty name and an error for an unknown one.
func (t *Table) Resolve(name string) (generator.BrandPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return t.First(), nil
	}
	p, ok := t.Get(name)
	if !ok {
		return generator.BrandPreset{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}
