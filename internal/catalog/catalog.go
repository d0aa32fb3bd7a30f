// Package catalog holds the per-session reference data fetched from the
// backend's day-data endpoint: the sellable ingredients and the seasonal
// preset combinations. Read-only at runtime.
package catalog

import "github.com/shopspring/decimal"

// Ingredient is one sellable ingredient of the build-your-own dish.
type Ingredient struct {
	ID          string          `json:"id"`
	Name        string          `json:"nombre"`
	Category    string          `json:"tipo"`
	Unit        string          `json:"unidad"`
	UnitPrice   decimal.Decimal `json:"precio_porcion"`
	PortionSize float64         `json:"medida_porcion"`
	IconURL     string          `json:"link_icon,omitempty"`
}

// SeasonalPreset is a named pre-defined ingredient combination. The
// ingredient list carries repetition: an id appearing twice means quantity 2.
type SeasonalPreset struct {
	ID          string   `json:"id"`
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion"`
	Ingredients []string `json:"ingredientes_json"`
}

// Catalog indexes ingredients and presets for lookup.
type Catalog struct {
	ingredients []Ingredient
	presets     []SeasonalPreset
	byID        map[string]Ingredient
	presetByID  map[string]SeasonalPreset
}

// New builds a Catalog from day-data payloads.
func New(ingredients []Ingredient, presets []SeasonalPreset) *Catalog {
	c := &Catalog{
		ingredients: ingredients,
		presets:     presets,
		byID:        make(map[string]Ingredient, len(ingredients)),
		presetByID:  make(map[string]SeasonalPreset, len(presets)),
	}
	for _, ing := range ingredients {
		c.byID[ing.ID] = ing
	}
	for _, p := range presets {
		c.presetByID[p.ID] = p
	}
	return c
}

// Empty returns a catalog with no entries, used before day-data arrives.
func Empty() *Catalog {
	return New(nil, nil)
}

// Ingredient looks up an ingredient by id.
func (c *Catalog) Ingredient(id string) (Ingredient, bool) {
	ing, ok := c.byID[id]
	return ing, ok
}

// UnitPrice returns the unit price for an ingredient id. Unknown ids price
// at zero: a stale catalog must never fail a price computation.
func (c *Catalog) UnitPrice(id string) (decimal.Decimal, bool) {
	ing, ok := c.byID[id]
	if !ok {
		return decimal.Zero, false
	}
	return ing.UnitPrice, true
}

// IngredientName returns the display name for an ingredient id.
func (c *Catalog) IngredientName(id string) (string, bool) {
	ing, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return ing.Name, true
}

// Preset looks up a seasonal preset by id.
func (c *Catalog) Preset(id string) (SeasonalPreset, bool) {
	p, ok := c.presetByID[id]
	return p, ok
}

// Ingredients returns all ingredients, optionally filtered by category.
// Pass "" for no filter.
func (c *Catalog) Ingredients(category string) []Ingredient {
	if category == "" {
		out := make([]Ingredient, len(c.ingredients))
		copy(out, c.ingredients)
		return out
	}
	var out []Ingredient
	for _, ing := range c.ingredients {
		if ing.Category == category {
			out = append(out, ing)
		}
	}
	return out
}

// Presets returns all seasonal presets.
func (c *Catalog) Presets() []SeasonalPreset {
	out := make([]SeasonalPreset, len(c.presets))
	copy(out, c.presets)
	return out
}
