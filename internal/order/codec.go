package order

import (
	"strings"

	"github.com/platanadas/pos-client/internal/pricing"
	"github.com/shopspring/decimal"
)

// The backend stores each line item as one comma-joined string of
// ingredient ids, repeated per quantity: {p_pollo: 2, s_bbq: 1} becomes
// "p_pollo,p_pollo,s_bbq". The backend treats the tokens as an unordered
// multiset, so iteration order does not matter; same-ingredient tokens are
// emitted adjacently.

// EncodeItems flattens line items into their wire strings. An item with an
// empty mapping encodes as the empty string.
func EncodeItems(items []LineItem) []string {
	out := make([]string, len(items))
	for i, li := range items {
		var tokens []string
		for id, qty := range li.Ingredients {
			for n := 0; n < qty; n++ {
				tokens = append(tokens, id)
			}
		}
		out[i] = strings.Join(tokens, ",")
	}
	return out
}

// DecodeItems rebuilds line items from their wire strings, counting token
// repetitions into the quantity mapping and pricing each item against the
// given catalog. Ids missing from the catalog still count in the mapping
// but contribute zero to the price. Each decoded item gets a fresh local id.
func DecodeItems(encoded []string, prices pricing.PriceLookup) []LineItem {
	out := make([]LineItem, len(encoded))
	for i, s := range encoded {
		ings := map[string]int{}
		if s != "" {
			for _, id := range strings.Split(s, ",") {
				ings[id]++
			}
		}
		out[i] = LineItem{
			LocalID:     NewLocalID(),
			Ingredients: ings,
			Price:       pricing.LinePrice(ings, prices),
		}
	}
	return out
}

// SumItems returns the sum of the items' cached prices. The order total is
// always derived this way, never kept as an independent counter.
func SumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Price)
	}
	return total
}
