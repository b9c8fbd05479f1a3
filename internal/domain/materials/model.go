package materials

import (
	"math"
	"strings"
)

// Item is one raw material with its required quantity in kg.
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"qty"`
}

// Valid reports whether the item can be kept in a material list:
// a non-empty trimmed name and a finite, non-zero quantity.
func (i Item) Valid() bool {
	if strings.TrimSpace(i.Name) == "" {
		return false
	}
	return finite(i.Quantity) && i.Quantity != 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
