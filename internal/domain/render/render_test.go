package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
)

func items(n int) []materials.Item {
	out := make([]materials.Item, n)
	for i := range out {
		out[i] = materials.Item{Name: fmt.Sprintf("M%02d", i+1), Quantity: float64(i + 1)}
	}
	return out
}

func defaultRenderer(t *testing.T) *Renderer {
	t.Helper()
	tmpl, err := DefaultTemplate()
	if err != nil {
		t.Fatalf("DefaultTemplate: %v", err)
	}
	return NewRenderer(tmpl)
}

func request(n int) Request {
	return Request{
		Type:     versioning.DocRMC,
		Prefix:   "302F",
		Sequence: "03",
		Header: Header{
			RefCode:      "302F- RMC03",
			Counterparty: "Acme",
			SourceRef:    "302F- SF02",
			Date:         "1404/09/03",
		},
		Items: items(n),
	}
}

func open(t *testing.T, res *Result) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func value(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("get %s!%s: %v", sheet, cell, err)
	}
	return v
}

func filledRows(t *testing.T, f *excelize.File, sheet string) int {
	t.Helper()
	n := 0
	for r := 6; r <= 17; r++ {
		if value(t, f, sheet, fmt.Sprintf("C%d", r)) != "" {
			n++
		}
	}
	return n
}

func TestRenderPagination(t *testing.T) {
	r := defaultRenderer(t)
	cases := []struct {
		items int
		pages []int
	}{
		{0, []int{0}},
		{1, []int{1}},
		{12, []int{12}},
		{24, []int{12, 12}},
		{25, []int{12, 12, 1}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%d items", c.items), func(t *testing.T) {
			res, err := r.Render(request(c.items))
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if len(res.Pages) != len(c.pages) {
				t.Fatalf("pages = %d, want %d", len(res.Pages), len(c.pages))
			}
			f := open(t, res)
			sheets := f.GetSheetList()
			if len(sheets) != len(c.pages) {
				t.Fatalf("sheets = %v", sheets)
			}
			for i, want := range c.pages {
				name := PageName(i + 1)
				if sheets[i] != name || res.Pages[i].Name != name {
					t.Fatalf("page %d named %q/%q", i+1, sheets[i], res.Pages[i].Name)
				}
				if got := filledRows(t, f, name); got != want {
					t.Errorf("%s: %d rows filled, want %d", name, got, want)
				}
			}
		})
	}
}

func TestRenderOrderAndHeader(t *testing.T) {
	res, err := defaultRenderer(t).Render(request(25))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	f := open(t, res)
	for i, sheet := range f.GetSheetList() {
		if got := value(t, f, sheet, "B2"); got != "302F- RMC03" {
			t.Errorf("%s B2 = %q", sheet, got)
		}
		if got := value(t, f, sheet, "E3"); got != "Acme" {
			t.Errorf("%s E3 = %q", sheet, got)
		}
		if got := value(t, f, sheet, "H3"); got != "302F- SF02" {
			t.Errorf("%s H3 = %q", sheet, got)
		}
		if got := value(t, f, sheet, "J3"); got != "1404/09/03" {
			t.Errorf("%s J3 = %q", sheet, got)
		}
		first := fmt.Sprintf("M%02d", i*12+1)
		if got := value(t, f, sheet, "C6"); got != first {
			t.Errorf("%s C6 = %q, want %q", sheet, got, first)
		}
	}
	if got := value(t, f, "Page 3", "E6"); got != "25" {
		t.Errorf("last quantity = %q", got)
	}
	if res.FileName != "302F- RMC03 04.09.03.xlsx" {
		t.Errorf("FileName = %q", res.FileName)
	}
}

func TestRenderClonesLayout(t *testing.T) {
	res, err := defaultRenderer(t).Render(request(13))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	f := open(t, res)
	m1, _ := f.GetMergeCells("Page 1")
	m2, _ := f.GetMergeCells("Page 2")
	if len(m1) == 0 || len(m1) != len(m2) {
		t.Fatalf("merges page1=%d page2=%d", len(m1), len(m2))
	}
	if value(t, f, "Page 2", "C5") != value(t, f, "Page 1", "C5") {
		t.Fatal("heading not cloned")
	}
	s1, _ := f.GetCellStyle("Page 1", "C7")
	s2, _ := f.GetCellStyle("Page 2", "C7")
	if s1 == 0 || s1 != s2 {
		t.Fatalf("styles page1=%d page2=%d", s1, s2)
	}
}

func TestRenderClearsStaleTemplateRows(t *testing.T) {
	base, err := DefaultTemplate()
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(base.data))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []string{"C6", "E6", "G9", "I17"} {
		if err := f.SetCellValue("Sheet1", c, "stale"); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := LoadTemplate("stale", buf.Bytes())
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}

	req := request(0)
	req.Type = versioning.DocRMF
	res, err := NewRenderer(tmpl).Render(req)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := open(t, res)
	for _, c := range []string{"C6", "E6", "G9", "I17"} {
		if got := value(t, out, "Page 1", c); got != "" {
			t.Errorf("%s = %q, want blank", c, got)
		}
	}
	if got := value(t, out, "Page 1", "G5"); got != "مقدار دریافت شده" {
		t.Errorf("RMF heading G5 = %q", got)
	}
}

func TestRenderUnknownType(t *testing.T) {
	req := request(1)
	req.Type = versioning.DocSF
	if _, err := defaultRenderer(t).Render(req); err == nil {
		t.Fatal("expected error for SF")
	}
}

func TestLoadTemplateMalformed(t *testing.T) {
	build := func(fn func(f *excelize.File)) []byte {
		f := excelize.NewFile()
		fn(f)
		buf, err := f.WriteToBuffer()
		if err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	cases := []struct {
		name string
		data []byte
	}{
		{"not a workbook", []byte("plain text")},
		{"missing heading", build(func(f *excelize.File) {})},
		{"data cell under merge", build(func(f *excelize.File) {
			_ = f.SetCellValue("Sheet1", "C5", "Name")
			_ = f.MergeCell("Sheet1", "B6", "C6")
		})},
		{"header cell under merge", build(func(f *excelize.File) {
			_ = f.SetCellValue("Sheet1", "C5", "Name")
			_ = f.MergeCell("Sheet1", "G3", "H3")
		})},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadTemplate(c.name, c.data)
			var mte *MalformedTemplateError
			if !errors.As(err, &mte) {
				t.Fatalf("err = %v, want MalformedTemplateError", err)
			}
			if !strings.HasPrefix(err.Error(), "rendering:") {
				t.Fatalf("error does not name the step: %v", err)
			}
		})
	}
}

func TestChunk(t *testing.T) {
	if got := Chunk(nil, 12); len(got) != 1 || len(got[0]) != 0 {
		t.Fatalf("Chunk(nil) = %v", got)
	}
	got := Chunk(items(25), 12)
	if len(got) != 3 || len(got[2]) != 1 || got[2][0].Name != "M25" {
		t.Fatalf("Chunk(25) = %v", got)
	}
}
