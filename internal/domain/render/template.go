package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Template is a validated workbook kept as bytes, so every render gets a
// fresh copy.
type Template struct {
	Name   string
	Layout Layout
	data   []byte
}

// LoadTemplate validates data against DefaultLayout.
func LoadTemplate(name string, data []byte) (*Template, error) {
	t := &Template{Name: name, Layout: DefaultLayout, data: data}
	f, base, err := t.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if err := validate(f, base, t.Layout); err != nil {
		return nil, &MalformedTemplateError{Template: name, Reason: err.Error()}
	}
	return t, nil
}

// LoadTemplateFile reads and validates a template from disk.
func LoadTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rendering: read template: %w", err)
	}
	return LoadTemplate(filepath.Base(path), data)
}

func (t *Template) open() (*excelize.File, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(t.data))
	if err != nil {
		return nil, "", &MalformedTemplateError{Template: t.Name, Reason: "unreadable workbook: " + err.Error()}
	}
	list := f.GetSheetList()
	if len(list) == 0 {
		_ = f.Close()
		return nil, "", &MalformedTemplateError{Template: t.Name, Reason: "no worksheet"}
	}
	return f, list[0], nil
}

// validate checks that the name heading is present and that no header or
// data cell is hidden inside a merge it does not anchor.
func validate(f *excelize.File, sheet string, l Layout) error {
	heading := l.cell(l.Columns[0], l.HeadingRow)
	v, err := f.GetCellValue(sheet, heading)
	if err != nil {
		return err
	}
	if v == "" {
		return fmt.Errorf("heading cell %s is empty", heading)
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}
	cells := append(l.HeaderCells(), l.DataCells()...)
	for _, c := range cells {
		col, row, err := excelize.CellNameToCoordinates(c)
		if err != nil {
			return fmt.Errorf("bad layout cell %s", c)
		}
		for _, m := range merges {
			c1, r1, _ := excelize.CellNameToCoordinates(m.GetStartAxis())
			c2, r2, _ := excelize.CellNameToCoordinates(m.GetEndAxis())
			inside := col >= c1 && col <= c2 && row >= r1 && row <= r2
			if inside && (col != c1 || row != r1) {
				return fmt.Errorf("cell %s is covered by merge %s:%s", c, m.GetStartAxis(), m.GetEndAxis())
			}
		}
	}
	return nil
}

// DefaultTemplate builds the raw material sheet in code: header labels,
// column headings, a bordered 12 row grid and an A4 print setup.
func DefaultTemplate() (*Template, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	const sh = "Sheet1"
	l := DefaultLayout

	st := newStyles(f)
	label, err := st.label()
	if err != nil {
		return nil, err
	}
	grid, err := st.grid()
	if err != nil {
		return nil, err
	}
	head, err := st.heading()
	if err != nil {
		return nil, err
	}

	set := func(cell string, v any) {
		if err == nil {
			err = f.SetCellValue(sh, cell, v)
		}
	}
	merge := func(a, b string) {
		if err == nil {
			err = f.MergeCell(sh, a, b)
		}
	}
	style := func(a, b string, id int) {
		if err == nil {
			err = f.SetCellStyle(sh, a, b, id)
		}
	}

	set("A1", "Raw Material Check")
	merge("A1", "J1")
	style("A1", "J1", head)
	set("A2", "کد سند")
	merge("B2", "D2")
	set("D3", "مشتری")
	merge("E3", "F3")
	set("G3", "مرجع")
	set("I3", "تاریخ")
	style("A2", "J3", label)

	set("B5", "ردیف")
	set("C5", "نام ماده")
	set("E5", "مقدار (کیلوگرم)")
	set("G5", "تحویل شده")
	set("I5", "توضیحات")
	for _, col := range l.Columns {
		next, _ := excelize.ColumnNameToNumber(col)
		nextName, _ := excelize.ColumnNumberToName(next + 1)
		for r := l.HeadingRow; r < l.FirstRow+l.Capacity; r++ {
			merge(l.cell(col, r), l.cell(nextName, r))
		}
	}
	style(l.cell("B", l.HeadingRow), l.cell("J", l.HeadingRow), head)
	last := l.FirstRow + l.Capacity - 1
	for r := l.FirstRow; r <= last; r++ {
		set(l.cell("B", r), r-l.FirstRow+1)
	}
	style(l.cell("B", l.FirstRow), l.cell("J", last), grid)
	if err != nil {
		return nil, fmt.Errorf("rendering: build template: %w", err)
	}

	if err := f.SetColWidth(sh, "A", "A", 4); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sh, "B", "J", 11); err != nil {
		return nil, err
	}
	size, orient, fit := 9, "portrait", 1
	if err := f.SetPageLayout(sh, &excelize.PageLayoutOptions{Size: &size, Orientation: &orient, FitToWidth: &fit}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return LoadTemplate("builtin", buf.Bytes())
}
