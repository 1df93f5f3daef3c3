// Package catalog holds the static price list and its display groupings.
// Loaded once at startup and shared read-only; nothing here mutates after
// Load returns.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Catalog struct {
	items map[string]Item
	order []string
	pages []Page

	ItemsDigest string
	PagesDigest string
}

type Item struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Page is an ordered display group of item names. The engine only exposes
// it; rendering belongs to the caller.
type Page struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

func Load(configDir string) (*Catalog, error) {
	c := &Catalog{items: map[string]Item{}}

	if err := c.loadItems(filepath.Join(configDir, "items.json")); err != nil {
		return nil, err
	}
	if err := c.loadPages(filepath.Join(configDir, "pages.json")); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadItems(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.ItemsDigest = sha256Hex(raw)

	var defs []Item
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("items.json: empty item name")
		}
		if d.Price < 0 {
			return fmt.Errorf("items.json: %s: negative price", d.Name)
		}
		if _, dup := c.items[d.Name]; dup {
			return fmt.Errorf("items.json: duplicate item %q", d.Name)
		}
		c.items[d.Name] = d
		c.order = append(c.order, d.Name)
	}
	if len(c.items) == 0 {
		return fmt.Errorf("items.json: no items")
	}
	return nil
}

func (c *Catalog) loadPages(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		// Pages are presentation only; a catalog without them is valid.
		if os.IsNotExist(err) {
			c.PagesDigest = sha256Hex(nil)
			return nil
		}
		return err
	}
	c.PagesDigest = sha256Hex(raw)

	var pages []Page
	if err := json.Unmarshal(raw, &pages); err != nil {
		return fmt.Errorf("pages.json: %w", err)
	}
	for _, p := range pages {
		for _, name := range p.Items {
			if _, ok := c.items[name]; !ok {
				return fmt.Errorf("pages.json: page %q references unknown item %q", p.Title, name)
			}
		}
	}
	c.pages = pages
	return nil
}

// Price reports the unit price for an item and whether it exists.
func (c *Catalog) Price(name string) (int64, bool) {
	it, ok := c.items[name]
	return it.Price, ok
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.items[name]
	return ok
}

// Items returns the catalog entries in file order.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}

func (c *Catalog) Pages() []Page {
	out := make([]Page, len(c.pages))
	copy(out, c.pages)
	return out
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
