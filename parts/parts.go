// Package parts resolves named serial EEPROM parts to device geometries.
//
// A small table of common 24Cxx parts is built in. Additional parts, or
// corrections to the built-in ones, can be loaded from a YAML file:
//
//	parts:
//	  - name: M24M01
//	    size_kb: 64
//	    page_size: 128
//	  - name: AT24C32
//	    size_kb: 4
//	    page_size: 32
package parts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-i2ceeprom/protocol"
)

// Part is a named device geometry.
type Part struct {
	Name     string `yaml:"name"`
	SizeKB   int    `yaml:"size_kb"`
	PageSize int    `yaml:"page_size"`
}

// Geometry returns the validated geometry of the part.
func (p Part) Geometry() (protocol.Geometry, error) {
	g, err := protocol.GeometryFromKB(p.SizeKB, p.PageSize)
	if err != nil {
		return protocol.Geometry{}, fmt.Errorf("part %s: %w", p.Name, err)
	}
	return g, nil
}

// RawPartsFile is the YAML layout of a parts file.
type RawPartsFile struct {
	Parts []Part `yaml:"parts"`
}

// Catalog is a set of parts keyed by case-insensitive name.
type Catalog struct {
	parts map[string]Part
}

var builtin = []Part{
	{Name: "24C32", SizeKB: 4, PageSize: 32},
	{Name: "24C64", SizeKB: 8, PageSize: 32},
	{Name: "24C128", SizeKB: 16, PageSize: 64},
	{Name: "24C256", SizeKB: 32, PageSize: 64},
	{Name: "24C512", SizeKB: 64, PageSize: 128},
}

// Builtin returns a catalog holding only the built-in parts.
func Builtin() *Catalog {
	c := &Catalog{parts: make(map[string]Part, len(builtin))}
	for _, p := range builtin {
		c.parts[key(p.Name)] = p
	}
	return c
}

func key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Add validates p and adds it, replacing any part with the same name.
func (c *Catalog) Add(p Part) error {
	if key(p.Name) == "" {
		return fmt.Errorf("part without a name (size_kb=%d, page_size=%d)", p.SizeKB, p.PageSize)
	}
	if _, err := p.Geometry(); err != nil {
		return err
	}
	c.parts[key(p.Name)] = p
	return nil
}

// Lookup returns the part called name.
func (c *Catalog) Lookup(name string) (Part, error) {
	p, ok := c.parts[key(name)]
	if !ok {
		return Part{}, fmt.Errorf("unknown part %q (known: %s)", name, strings.Join(c.Names(), ", "))
	}
	return p, nil
}

// Names returns the part names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.parts))
	for _, p := range c.parts {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Merge adds every part of a parts file to the catalog.
func (c *Catalog) Merge(data []byte) error {
	var raw RawPartsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing parts file: %w", err)
	}
	for i, p := range raw.Parts {
		if err := c.Add(p); err != nil {
			return fmt.Errorf("parts[%d]: %w", i, err)
		}
	}
	return nil
}

// Load returns the built-in catalog extended with the parts file at path.
func Load(fs afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	c := Builtin()
	if err := c.Merge(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
