package order

import (
	"fmt"
	"sort"
	"strings"
)

// NameLookup resolves an ingredient id to its display name. Satisfied by
// *catalog.Catalog.
type NameLookup interface {
	IngredientName(id string) (string, bool)
}

// ItemSummary renders a line item's ingredients for receipts and the UI,
// e.g. "Pollo (x2), BBQ". Ingredients sort by display name; quantities of
// one are left implicit. Unknown ids fall back to the raw id.
func ItemSummary(item LineItem, names NameLookup) string {
	type part struct {
		name string
		qty  int
	}
	parts := make([]part, 0, len(item.Ingredients))
	for id, qty := range item.Ingredients {
		name, ok := names.IngredientName(id)
		if !ok {
			name = id
		}
		parts = append(parts, part{name: name, qty: qty})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].name < parts[j].name })

	out := make([]string, len(parts))
	for i, p := range parts {
		if p.qty > 1 {
			out[i] = fmt.Sprintf("%s (x%d)", p.name, p.qty)
		} else {
			out[i] = p.name
		}
	}
	return strings.Join(out, ", ")
}

// OrderSummary renders every line item, one per line.
func OrderSummary(o Order, names NameLookup) string {
	lines := make([]string, len(o.Items))
	for i, item := range o.Items {
		lines[i] = ItemSummary(item, names)
	}
	return strings.Join(lines, "\n")
}
