package formulation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mahdibujari75/Sampling-App/internal/domain/jalali"
	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
)

var errNoSheet = errors.New("workbook has no worksheet")

// Extract reads a formulation workbook of the given kind. name is the
// source file name; it feeds the version tag and error reports.
func Extract(kind Kind, name string, r io.Reader) (*Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &SourceReadError{File: name, Err: err}
	}
	defer func() { _ = f.Close() }()
	return ExtractWorkbook(kind, name, f)
}

// ExtractBytes is Extract over an in-memory file.
func ExtractBytes(kind Kind, name string, data []byte) (*Document, error) {
	return Extract(kind, name, bytes.NewReader(data))
}

// ExtractWorkbook reads an already opened workbook.
func ExtractWorkbook(kind Kind, name string, f *excelize.File) (*Document, error) {
	schema, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	sh, ok := pickSheet(f, schema.Sheet)
	if !ok {
		return nil, &SourceReadError{File: name, Err: errNoSheet}
	}
	s := sheet{f: f, name: sh}

	doc := &Document{
		Kind:          kind,
		SchemaVersion: schema.Version,
		SourceFile:    name,
		VersionTag:    versionTag(name),
	}

	dates := make([]string, 0, len(schema.Meta.Dates))
	for _, c := range schema.Meta.Dates {
		dates = append(dates, s.text(c))
	}
	raw := FirstText(dates...)
	doc.Date = Date{Short: jalali.Short(raw), Full: jalali.Full(raw)}

	switch {
	case schema.Compound != nil:
		doc.Items = extractCompound(s, schema.Compound)
	case schema.Film != nil:
		extractFilm(s, schema.Film, doc)
		if schema.Meta.Customer != "" {
			doc.Customer = s.text(schema.Meta.Customer)
		}
		if schema.Meta.ProjectCode != "" {
			doc.ProjectCode = s.text(schema.Meta.ProjectCode)
		}
		if schema.Meta.OrderNo != "" {
			doc.OrderNo = s.text(schema.Meta.OrderNo)
		}
	}
	if doc.Items == nil {
		doc.Items = []materials.Item{}
	}
	return doc, nil
}

func extractCompound(s sheet, l *CompoundLayout) []materials.Item {
	out := make([]materials.Item, 0, len(l.Columns))
	for i := range l.Columns {
		nameCell, qtyCell := l.Pair.Cells(l.Columns, i)
		it := materials.Item{
			Name:     s.text(nameCell),
			Quantity: NumberOrZero(s.number(qtyCell)),
		}
		if it.Valid() {
			out = append(out, it)
		}
	}
	return out
}

func extractFilm(s sheet, l *FilmLayout, doc *Document) {
	doc.TotalMass = NumberOrZero(s.number(l.TotalMass))

	var th [3]float64
	for i, layer := range l.Layers {
		th[i] = Thickness(s.number(layer.Thickness))
	}
	declared := NumberOrZero(s.number(l.TotalThickness))
	doc.ThicknessTotal = ThicknessTotal(th[0], th[1], th[2], declared)

	for i, layer := range l.Layers {
		mass := LayerMass(doc.TotalMass, th[i], doc.ThicknessTotal)
		items := layerPass(s, l.Columns, layer.Pairs, mass)
		doc.Layers = append(doc.Layers, LayerResult{
			Layer:     layer.Layer,
			Thickness: th[i],
			Mass:      mass,
			Items:     items,
		})
		doc.Items = append(doc.Items, items...)
	}
}

// layerPass sums the slots of one layer by trimmed name, keeping the
// order in which names first appear.
func layerPass(s sheet, cols []string, pairs []RowPair, mass float64) []materials.Item {
	var out []materials.Item
	index := map[string]int{}
	for _, p := range pairs {
		for i := range cols {
			nameCell, pctCell := p.Cells(cols, i)
			name := s.text(nameCell)
			pct := NumberOrZero(s.number(pctCell))
			if name == "" || pct == 0 {
				continue
			}
			q := mass * pct
			if j, ok := index[name]; ok {
				out[j].Quantity += q
				continue
			}
			index[name] = len(out)
			out = append(out, materials.Item{Name: name, Quantity: q})
		}
	}
	kept := out[:0]
	for _, it := range out {
		if it.Valid() {
			kept = append(kept, it)
		}
	}
	return kept
}

func versionTag(name string) string {
	src, ok := versioning.ParseSource(name)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s%s", versioning.DocSF, versioning.Pad(src.Sequence))
}

// Describe renders a short human summary of the extracted items.
func (d *Document) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", d.Kind, d.SourceFile)
	if d.Date.Full != "" {
		fmt.Fprintf(&b, " (%s)", d.Date.Full)
	}
	b.WriteString("\n")
	for _, it := range materials.Aggregate(d.Items) {
		fmt.Fprintf(&b, "- %s: %v\n", it.Name, materials.Round3(it.Quantity))
	}
	return b.String()
}
