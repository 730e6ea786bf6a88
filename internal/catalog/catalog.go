package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// Category is a menu section as printed on the storefront.
type Category string

const (
	CategorySalads     Category = "Ensaladas"
	CategoryCombos     Category = "Combos"
	CategorySandwiches Category = "Emparedados"
	CategoryOmelettes  Category = "Omelettes"
	CategoryJuices     Category = "Jugoterapia"
	CategorySmoothies  Category = "Smoothies"
	CategoryDesserts   Category = "Frutas & Postres"
)

// Macros is the macronutrient breakdown of one serving, in grams.
type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// MenuItem is a single dish on the Kiwi menu. Items are loaded once and never
// mutated; the planner references them by ID only.
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int      `json:"price"`
	Category    Category `json:"category"`
	IsPopular   bool     `json:"is_popular,omitempty"`
	Calories    int      `json:"calories,omitempty"`
	Macros      *Macros  `json:"macros,omitempty"`
}

// HasMacros reports whether the item carries nutrition data. Items without it
// are invisible to the substitute matcher.
func (m MenuItem) HasMacros() bool {
	return m.Macros != nil
}

//go:embed menu.json
var embeddedMenu []byte

// Catalog is an immutable, read-only view over the menu. It is injected into
// every component that needs menu data so concurrent planning sessions can
// share one instance safely.
type Catalog struct {
	items []MenuItem
	byID  map[string]int
}

// New builds a Catalog from a slice of items. IDs must be unique and the
// catalog must not be empty.
func New(items []MenuItem) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one item")
	}

	byID := make(map[string]int, len(items))
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("item %q has no id", item.Name)
		}
		if _, dup := byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q", item.ID)
		}
		byID[item.ID] = i
	}

	copied := make([]MenuItem, len(items))
	copy(copied, items)

	return &Catalog{items: copied, byID: byID}, nil
}

// Default returns the catalog built from the embedded menu table.
func Default() (*Catalog, error) {
	var items []MenuItem
	if err := json.Unmarshal(embeddedMenu, &items); err != nil {
		return nil, fmt.Errorf("failed to parse embedded menu: %w", err)
	}
	return New(items)
}

// LoadFile builds a catalog from a JSON file with the same shape as menu.json.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}

	var items []MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse menu file %s: %w", path, err)
	}
	return New(items)
}

// Len returns the number of items on the menu.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of every menu item, in menu order.
func (c *Catalog) Items() []MenuItem {
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// ByID looks up an item by its catalog id.
func (c *Catalog) ByID(id string) (MenuItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return MenuItem{}, false
	}
	return c.items[i], true
}

// ByCategory returns every item in the given menu section, in menu order.
func (c *Catalog) ByCategory(cat Category) []MenuItem {
	var out []MenuItem
	for _, item := range c.items {
		if item.Category == cat {
			out = append(out, item)
		}
	}
	return out
}

// First returns the first item on the menu. The matcher uses it as the
// last-resort fallback when no candidate survives filtering.
func (c *Catalog) First() MenuItem {
	return c.items[0]
}
