package formulation

import "github.com/mahdibujari75/Sampling-App/internal/domain/materials"

// Date carries both forms of the sheet reference date.
type Date struct {
	Short string
	Full  string
}

// LayerResult is the mass split of one film layer.
type LayerResult struct {
	Layer     Layer
	Thickness float64
	Mass      float64
	Items     []materials.Item
}

// Document is one extracted source spreadsheet. It is built fresh on
// every read and never persisted.
type Document struct {
	Kind          Kind
	SchemaVersion int
	SourceFile    string
	VersionTag    string
	Date          Date
	Items         []materials.Item

	// film only
	TotalMass      float64
	ThicknessTotal float64
	Layers         []LayerResult
	Customer       string
	ProjectCode    string
	OrderNo        string
}

// LayerMassTotal sums the layer masses of a film document.
func (d *Document) LayerMassTotal() float64 {
	var sum float64
	for _, l := range d.Layers {
		sum += l.Mass
	}
	return sum
}
