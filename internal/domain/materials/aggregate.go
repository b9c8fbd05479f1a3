package materials

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Aggregate flattens the lists, groups items by trimmed name and sums
// their quantities. The result is sorted by name; empty input gives an
// empty, non-nil slice.
func Aggregate(lists ...[]Item) []Item {
	sums := make(map[string]decimal.Decimal)
	for _, list := range lists {
		for _, it := range list {
			name := strings.TrimSpace(it.Name)
			if name == "" || !finite(it.Quantity) {
				continue
			}
			sums[name] = sums[name].Add(decimal.NewFromFloat(it.Quantity))
		}
	}

	out := make([]Item, 0, len(sums))
	for name, q := range sums {
		if q.IsZero() {
			continue
		}
		f, _ := q.Float64()
		out = append(out, Item{Name: name, Quantity: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Total sums the quantities of items.
func Total(items []Item) float64 {
	sum := decimal.Zero
	for _, it := range items {
		if finite(it.Quantity) {
			sum = sum.Add(decimal.NewFromFloat(it.Quantity))
		}
	}
	f, _ := sum.Float64()
	return f
}

// Round3 rounds q to three decimals, the precision used when quantities
// are shown to operators.
func Round3(q float64) float64 {
	if !finite(q) {
		return 0
	}
	f, _ := decimal.NewFromFloat(q).Round(3).Float64()
	return f
}
