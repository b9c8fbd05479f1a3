package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
)

// Layout is the fixed cell map of the raw material template.
type Layout struct {
	RefCode      string
	Counterparty string
	SourceRef    string
	Date         string

	HeadingRow int
	// name column first, then the three value columns
	Columns  [4]string
	FirstRow int
	Capacity int
}

var DefaultLayout = Layout{
	RefCode:      "B2",
	Counterparty: "E3",
	SourceRef:    "H3",
	Date:         "J3",
	HeadingRow:   5,
	Columns:      [4]string{"C", "E", "G", "I"},
	FirstRow:     6,
	Capacity:     12,
}

func (l Layout) cell(col string, row int) string {
	c, _ := excelize.JoinCellName(col, row)
	return c
}

// HeaderCells lists the header coordinates in write order.
func (l Layout) HeaderCells() []string {
	return []string{l.RefCode, l.Counterparty, l.SourceRef, l.Date}
}

// DataCells lists every cell of the data region.
func (l Layout) DataCells() []string {
	out := make([]string, 0, l.Capacity*len(l.Columns))
	for r := l.FirstRow; r < l.FirstRow+l.Capacity; r++ {
		for _, col := range l.Columns {
			out = append(out, l.cell(col, r))
		}
	}
	return out
}

// Variant holds what differs between RMC, RMF and RMR: the column
// headings (empty keeps the template text) and which value column gets
// the quantity.
type Variant struct {
	Type      versioning.DocType
	Headings  [4]string
	QtyColumn int
}

var variants = map[versioning.DocType]Variant{
	versioning.DocRMC: {Type: versioning.DocRMC, QtyColumn: 1},
	versioning.DocRMF: {
		Type:      versioning.DocRMF,
		Headings:  [4]string{"", "مقدار مورد نیاز", "مقدار دریافت شده", "مقدار باقیمانده"},
		QtyColumn: 1,
	},
	versioning.DocRMR: {
		Type:      versioning.DocRMR,
		Headings:  [4]string{"", "ورودی", "مصرفی", "باقیمانده"},
		QtyColumn: 1,
	},
}

// VariantFor returns the variant of an output document type.
func VariantFor(t versioning.DocType) (Variant, error) {
	v, ok := variants[t]
	if !ok {
		return Variant{}, fmt.Errorf("rendering: %s is not a raw material document", t)
	}
	return v, nil
}
