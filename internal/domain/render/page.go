package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// PageName is the sheet name of page n (1-based).
func PageName(n int) string { return fmt.Sprintf("Page %d", n) }

// PageFactory hands out pages of one workbook. Page 1 is the template
// sheet itself; later pages are copies of it taken before anything is
// written, so they carry its styles, merges and print setup.
type PageFactory struct {
	f     *excelize.File
	base  int
	pages []string
}

// NewPageFactory renames the template sheet to "Page 1" and drops any
// other sheet the template carried.
func NewPageFactory(f *excelize.File, base string) (*PageFactory, error) {
	for _, name := range f.GetSheetList() {
		if name != base {
			if err := f.DeleteSheet(name); err != nil {
				return nil, err
			}
		}
	}
	first := PageName(1)
	if base != first {
		if err := f.SetSheetName(base, first); err != nil {
			return nil, err
		}
	}
	idx, err := f.GetSheetIndex(first)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("page factory: sheet %q not found", first)
	}
	return &PageFactory{f: f, base: idx, pages: []string{first}}, nil
}

// Grow makes sure the workbook has n pages and returns their names in
// order.
func (pf *PageFactory) Grow(n int) ([]string, error) {
	for len(pf.pages) < n {
		name := PageName(len(pf.pages) + 1)
		idx, err := pf.f.NewSheet(name)
		if err != nil {
			return nil, err
		}
		if err := pf.f.CopySheet(pf.base, idx); err != nil {
			return nil, fmt.Errorf("clone page %d: %w", len(pf.pages)+1, err)
		}
		pf.pages = append(pf.pages, name)
	}
	return pf.pages[:n], nil
}

func (pf *PageFactory) Pages() []string { return pf.pages }
