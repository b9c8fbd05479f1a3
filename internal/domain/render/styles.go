package render

import "github.com/xuri/excelize/v2"

type styles struct {
	f     *excelize.File
	cache map[string]int
}

func newStyles(f *excelize.File) *styles {
	return &styles{f: f, cache: map[string]int{}}
}

func (s *styles) label() (int, error) {
	return s.get("label", &excelize.Style{
		Font:      &excelize.Font{Family: "Tahoma", Size: 10, Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	})
}

func (s *styles) heading() (int, error) {
	return s.get("heading", &excelize.Style{
		Font:      &excelize.Font{Family: "Tahoma", Size: 11, Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
		Border:    border(),
	})
}

func (s *styles) grid() (int, error) {
	return s.get("grid", &excelize.Style{
		Font:      &excelize.Font{Family: "Tahoma", Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
}

func (s *styles) get(key string, st *excelize.Style) (int, error) {
	if id, ok := s.cache[key]; ok {
		return id, nil
	}
	id, err := s.f.NewStyle(st)
	if err != nil {
		return 0, err
	}
	s.cache[key] = id
	return id, nil
}

func border() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
