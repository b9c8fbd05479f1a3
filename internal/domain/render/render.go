package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
)

// Header is written identically on every page.
type Header struct {
	RefCode      string
	Counterparty string
	SourceRef    string
	Date         string
}

// Request describes one document to render.
type Request struct {
	Type     versioning.DocType
	Prefix   string
	Sequence string
	Header   Header
	Items    []materials.Item
}

type Page struct {
	Name  string
	Items []materials.Item
}

// Result is a rendered workbook. Data is the xlsx file content.
type Result struct {
	FileName string
	Pages    []Page
	Data     []byte
}

type Renderer struct {
	tmpl *Template
}

func NewRenderer(tmpl *Template) *Renderer {
	return &Renderer{tmpl: tmpl}
}

func (r *Renderer) Template() *Template { return r.tmpl }

// Render splits the items into pages of the layout capacity and fills a
// copy of the template. At least one page is always produced.
func (r *Renderer) Render(req Request) (*Result, error) {
	variant, err := VariantFor(req.Type)
	if err != nil {
		return nil, err
	}
	l := r.tmpl.Layout
	if l.Capacity <= 0 {
		return nil, &MalformedTemplateError{Template: r.tmpl.Name, Reason: "layout has no data rows"}
	}

	f, base, err := r.tmpl.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	chunks := Chunk(req.Items, l.Capacity)
	pf, err := NewPageFactory(f, base)
	if err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}
	names, err := pf.Grow(len(chunks))
	if err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}

	res := &Result{FileName: versioning.FileName(req.Prefix, req.Type, req.Sequence, req.Header.Date)}
	for i, name := range names {
		if err := fill(f, name, l, variant, req.Header, chunks[i]); err != nil {
			return nil, fmt.Errorf("rendering: page %d: %w", i+1, err)
		}
		res.Pages = append(res.Pages, Page{Name: name, Items: chunks[i]})
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("rendering: write: %w", err)
	}
	res.Data = buf.Bytes()
	return res, nil
}

// Chunk splits items into consecutive groups of at most size entries.
// It returns one empty group for an empty list.
func Chunk(items []materials.Item, size int) [][]materials.Item {
	if len(items) == 0 {
		return [][]materials.Item{{}}
	}
	out := make([][]materials.Item, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}

func fill(f *excelize.File, sheet string, l Layout, v Variant, h Header, items []materials.Item) error {
	for i, text := range v.Headings {
		if text == "" {
			continue
		}
		if err := f.SetCellStr(sheet, l.cell(l.Columns[i], l.HeadingRow), text); err != nil {
			return err
		}
	}

	header := map[string]string{
		l.RefCode:      h.RefCode,
		l.Counterparty: h.Counterparty,
		l.SourceRef:    h.SourceRef,
		l.Date:         h.Date,
	}
	for cell, val := range header {
		if err := f.SetCellStr(sheet, cell, val); err != nil {
			return err
		}
	}

	for _, cell := range l.DataCells() {
		if err := f.SetCellValue(sheet, cell, nil); err != nil {
			return err
		}
	}

	qtyCol := l.Columns[v.QtyColumn]
	for i, it := range items {
		if i >= l.Capacity {
			break
		}
		row := l.FirstRow + i
		if err := f.SetCellStr(sheet, l.cell(l.Columns[0], row), it.Name); err != nil {
			return err
		}
		if !it.Valid() {
			continue
		}
		if err := f.SetCellFloat(sheet, l.cell(qtyCol, row), it.Quantity, -1, 64); err != nil {
			return err
		}
	}
	return nil
}
