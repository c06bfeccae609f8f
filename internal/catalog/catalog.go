// Package catalog holds the fixed vocabulary of names a skill may take.
//
// A Catalog is immutable once built. Membership checks and substring search are
// case-insensitive (Unicode case folding); results keep catalog order.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/skillboard/internal/cachemanager"
	"github.com/zjrosen/skillboard/internal/log"
)

//go:embed languages.yaml
var defaultLanguages []byte

// file is the on-disk catalog shape.
type file struct {
	Languages []string `yaml:"languages"`
}

type searchInput struct {
	folded string
	limit  int
}

// Catalog is an ordered, read-only list of canonical names.
type Catalog struct {
	names  []string
	folded []string
	index  map[string]int
	search *cachemanager.ReadThroughCache[string, []string, searchInput]
}

// Fold returns the case-insensitive comparison key for s.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// New builds a catalog from names. Blank names and names that collide after
// case folding are rejected.
func New(names []string) (*Catalog, error) {
	c := &Catalog{
		names:  make([]string, 0, len(names)),
		folded: make([]string, 0, len(names)),
		index:  make(map[string]int, len(names)),
	}
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("entry %d: name is blank", i)
		}
		key := Fold(name)
		if prev, dup := c.index[key]; dup {
			return nil, fmt.Errorf("entry %d: %q duplicates entry %d (%q)", i, name, prev, c.names[prev])
		}
		c.index[key] = len(c.names)
		c.names = append(c.names, name)
		c.folded = append(c.folded, key)
	}

	memo := cachemanager.NewInMemoryCacheManager[string, []string](
		"catalog-search", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)
	c.search = cachemanager.NewReadThroughCache[string, []string, searchInput](memo, cachemanager.NoExpiration, c.scan)
	return c, nil
}

// Parse reads a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Languages) == 0 {
		return nil, fmt.Errorf("parsing catalog: no languages listed")
	}
	return New(f.Languages)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info(log.CatCatalog, "Loaded catalog file", "path", path, "entries", c.Len())
	return c, nil
}

// Default returns the built-in language catalog.
func Default() *Catalog {
	c, err := Parse(defaultLanguages)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns a copy of the entries in catalog order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Contains reports whether name case-insensitively equals an entry.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[Fold(name)]
	return ok
}

// Canonical returns the catalog spelling of name.
func (c *Catalog) Canonical(name string) (string, bool) {
	i, ok := c.index[Fold(name)]
	if !ok {
		return "", false
	}
	return c.names[i], true
}

// Search returns up to limit entries containing query as a case-insensitive
// substring, in catalog order. Surrounding whitespace in query is ignored.
func (c *Catalog) Search(query string, limit int) []string {
	folded := Fold(strings.TrimSpace(query))
	if folded == "" || limit <= 0 {
		return nil
	}
	key := strconv.Itoa(limit) + ":" + folded
	return slices.Clone(c.search.Get(context.Background(), key, searchInput{folded: folded, limit: limit}))
}

func (c *Catalog) scan(in searchInput) []string {
	var out []string
	for i, key := range c.folded {
		if strings.Contains(key, in.folded) {
			out = append(out, c.names[i])
			if len(out) == in.limit {
				break
			}
		}
	}
	return out
}
