// Package pricing computes line-item prices from ingredient quantities and
// the day's price list. Pure functions; callers re-invoke after every
// quantity mutation so cached prices are never stale.
package pricing

import "github.com/shopspring/decimal"

// PriceLookup resolves an ingredient id to its unit price. The boolean is
// false for ids missing from the catalog. Satisfied by *catalog.Catalog.
type PriceLookup interface {
	UnitPrice(id string) (decimal.Decimal, bool)
}

// LinePrice returns the price of one line item: the sum over the
// ingredient-quantity mapping of quantity times unit price. Ingredients
// missing from the catalog contribute zero: a stale catalog degrades
// totals, it never errors.
func LinePrice(ingredients map[string]int, prices PriceLookup) decimal.Decimal {
	total := decimal.Zero
	for id, qty := range ingredients {
		unit, ok := prices.UnitPrice(id)
		if !ok {
			continue
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}
