// Package scenario loads named lens setups that can be applied to the lab in
// one step.
package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/lenslab/pkg/optics"
)

//go:embed presets.yaml
var presetsYAML []byte

var (
	// ErrNotFound is returned for an unknown scenario id.
	ErrNotFound = errors.New("scenario: not found")

	// ErrInvalid is returned when a scenario fails validation.
	ErrInvalid = errors.New("scenario: invalid")
)

// Scenario is one preset. Name and Description are keyed by language tag.
type Scenario struct {
	ID          string            `yaml:"id" json:"id"`
	Name        map[string]string `yaml:"name" json:"name"`
	Description map[string]string `yaml:"description" json:"description"`
	Lens        optics.Lens       `yaml:"lens" json:"lens"`
	Object      optics.Object     `yaml:"object" json:"object"`
}

// Title returns the name in lang, falling back to any available name and
// finally the id.
func (s Scenario) Title(lang string) string {
	if n, ok := s.Name[lang]; ok && n != "" {
		return n
	}
	keys := make([]string, 0, len(s.Name))
	for k := range s.Name {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s.Name[k] != "" {
			return s.Name[k]
		}
	}
	return s.ID
}

// Validate checks that the setup fits the lab's control ranges.
func (s Scenario) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	if _, err := optics.ParseLensType(string(s.Lens.Type)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, s.ID, err)
	}
	if err := inRange("focal_length", s.Lens.FocalLength, optics.MinFocalLength, optics.MaxFocalLength); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, s.ID, err)
	}
	if err := inRange("distance", s.Object.Distance, optics.MinObjectDistance, optics.MaxObjectDistance); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, s.ID, err)
	}
	if err := inRange("height", s.Object.Height, optics.MinObjectHeight, optics.MaxObjectHeight); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, s.ID, err)
	}
	return nil
}

func inRange(field string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s %v outside [%v, %v]", field, v, lo, hi)
	}
	return nil
}

// Catalog is an ordered set of scenarios.
type Catalog struct {
	Scenarios []Scenario `yaml:"scenarios"`
	byID      map[string]int
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in presets.
func Default() *Catalog {
	c, err := Parse(presetsYAML)
	if err != nil {
		panic(fmt.Sprintf("scenario: built-in presets: %v", err))
	}
	return c
}

// LoadOrDefault loads path, or the built-in presets when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Catalog) index() error {
	c.byID = make(map[string]int, len(c.Scenarios))
	for i, s := range c.Scenarios {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := c.byID[s.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalid, s.ID)
		}
		// Validate accepted it, so only the spelling can differ.
		c.Scenarios[i].Lens.Type, _ = optics.ParseLensType(string(s.Lens.Type))
		c.byID[s.ID] = i
	}
	return nil
}

// List returns the scenarios in file order.
func (c *Catalog) List() []Scenario {
	out := make([]Scenario, len(c.Scenarios))
	copy(out, c.Scenarios)
	return out
}

// Get looks a scenario up by id.
func (c *Catalog) Get(id string) (Scenario, error) {
	i, ok := c.byID[id]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.Scenarios[i], nil
}
