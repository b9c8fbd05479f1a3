package formulation

import (
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type sheet struct {
	f    *excelize.File
	name string
}

// text returns the trimmed cell value. Formula cells yield their cached
// result and rich text is flattened by excelize.
func (s sheet) text(cell string) string {
	v, err := s.f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

func (s sheet) number(cell string) (float64, bool) {
	return parseNumber(s.text(cell))
}

// parseNumber accepts plain numbers and numeric-looking strings with
// thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// pickSheet prefers the schema's sheet name and falls back to the first
// worksheet.
func pickSheet(f *excelize.File, preferred string) (string, bool) {
	if preferred != "" {
		if idx, err := f.GetSheetIndex(preferred); err == nil && idx >= 0 {
			return preferred, true
		}
	}
	list := f.GetSheetList()
	if len(list) == 0 {
		return "", false
	}
	return list[0], true
}
