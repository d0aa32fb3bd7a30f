package order

import "testing"

type nameMap map[string]string

func (m nameMap) IngredientName(id string) (string, bool) {
	name, ok := m[id]
	return name, ok
}

func TestItemSummary(t *testing.T) {
	names := nameMap{"p_pollo": "Pollo", "s_bbq": "BBQ"}
	item := NewLineItem()
	item.Ingredients["p_pollo"] = 2
	item.Ingredients["s_bbq"] = 1

	if got := ItemSummary(item, names); got != "BBQ, Pollo (x2)" {
		t.Fatalf("summary = %q", got)
	}
}

func TestItemSummaryUnknownIDFallsBack(t *testing.T) {
	item := NewLineItem()
	item.Ingredients["x_misterio"] = 3

	if got := ItemSummary(item, nameMap{}); got != "x_misterio (x3)" {
		t.Fatalf("summary = %q", got)
	}
}

func TestItemSummaryEmpty(t *testing.T) {
	if got := ItemSummary(NewLineItem(), nameMap{}); got != "" {
		t.Fatalf("summary = %q, want empty", got)
	}
}
