package formulation

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
)

func workbook(t *testing.T, sheet string, cells map[string]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestExtractFilmExample(t *testing.T) {
	data := workbook(t, "Sheet1", map[string]any{
		"F4":  10,
		"D8":  2,
		"G8":  1,
		"J8":  1,
		"D16": "A",
		"E16": "B",
		"D17": 0.5,
		"E17": 0.5,
		"D40": "A",
		"D41": 1,
		"D4":  "1404/9/3",
		"D3":  "Acme",
		"I3":  "302",
	})
	doc, err := ExtractBytes(KindFilm, "302F- SF02 04.09.03.xlsx", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []materials.Item{{Name: "A", Quantity: 2.5}, {Name: "B", Quantity: 2.5}, {Name: "A", Quantity: 2.5}}
	if !reflect.DeepEqual(doc.Items, want) {
		t.Fatalf("items = %+v, want %+v", doc.Items, want)
	}
	if len(doc.Layers) != 3 || doc.Layers[0].Mass != 5 || doc.Layers[1].Mass != 2.5 || doc.Layers[2].Mass != 2.5 {
		t.Fatalf("layers = %+v", doc.Layers)
	}
	if !approx(doc.LayerMassTotal(), 10) {
		t.Fatalf("layer mass total = %v", doc.LayerMassTotal())
	}

	agg := materials.Aggregate(doc.Items)
	wantAgg := []materials.Item{{Name: "A", Quantity: 5}, {Name: "B", Quantity: 2.5}}
	if !reflect.DeepEqual(agg, wantAgg) {
		t.Fatalf("aggregate = %+v, want %+v", agg, wantAgg)
	}

	if doc.VersionTag != "SF02" {
		t.Errorf("VersionTag = %q", doc.VersionTag)
	}
	if doc.Date.Full != "1404/09/03" || doc.Date.Short != "04.09.03" {
		t.Errorf("Date = %+v", doc.Date)
	}
	if doc.Customer != "Acme" || doc.ProjectCode != "302" {
		t.Errorf("meta = %q %q", doc.Customer, doc.ProjectCode)
	}
}

func TestExtractFilmSumsWithinLayer(t *testing.T) {
	data := workbook(t, "Sheet1", map[string]any{
		"F4":  100,
		"D8":  1,
		"D16": "LLDPE",
		"D17": 0.25,
		"D20": " LLDPE ",
		"D21": 0.5,
		"E20": "Slip",
		"E21": "0.1",
		"F20": "Zero",
		"F21": 0,
	})
	doc, err := ExtractBytes(KindFilm, "film.xlsx", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(doc.Items) != 2 {
		t.Fatalf("items = %+v", doc.Items)
	}
	if doc.Items[0].Name != "LLDPE" || !approx(doc.Items[0].Quantity, 75) {
		t.Errorf("first item = %+v", doc.Items[0])
	}
	if doc.Items[1].Name != "Slip" || !approx(doc.Items[1].Quantity, 10) {
		t.Errorf("second item = %+v", doc.Items[1])
	}
}

func TestExtractFilmDeclaredThickness(t *testing.T) {
	data := workbook(t, "Sheet1", map[string]any{
		"F4":  8,
		"G7":  "4",
		"D8":  "n/a",
		"D16": "A",
		"D17": 1,
	})
	doc, err := ExtractBytes(KindFilm, "film.xlsx", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.ThicknessTotal != 4 {
		t.Fatalf("ThicknessTotal = %v", doc.ThicknessTotal)
	}
	// the inner thickness is unreadable, so the layer carries no mass
	if len(doc.Items) != 0 {
		t.Fatalf("items = %+v", doc.Items)
	}
}

func TestExtractCompound(t *testing.T) {
	data := workbook(t, "Sheet1", map[string]any{
		"D13": "PVC",
		"E13": "DOP",
		"F13": "",
		"G13": "CaCO3",
		"H13": "Stabilizer",
		"I13": "PVC",
		"D15": 100,
		"E15": "1,250.5",
		"F15": 3,
		"G15": 0,
		"H15": "abc",
		"I15": 2,
		"D3":  "1404/1/9",
	})
	doc, err := ExtractBytes(KindCompound, "302C- SF05 04.01.09.xlsx", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []materials.Item{
		{Name: "PVC", Quantity: 100},
		{Name: "DOP", Quantity: 1250.5},
		{Name: "PVC", Quantity: 2},
	}
	if !reflect.DeepEqual(doc.Items, want) {
		t.Fatalf("items = %+v, want %+v", doc.Items, want)
	}
	if doc.Date.Full != "1404/01/09" {
		t.Errorf("date fell back wrongly: %+v", doc.Date)
	}
	if doc.VersionTag != "SF05" {
		t.Errorf("VersionTag = %q", doc.VersionTag)
	}
}

func TestExtractFirstSheetFallback(t *testing.T) {
	data := workbook(t, "Data", map[string]any{"D13": "A", "D15": 1.5})
	doc, err := ExtractBytes(KindCompound, "c.xlsx", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(doc.Items) != 1 || doc.Items[0].Quantity != 1.5 {
		t.Fatalf("items = %+v", doc.Items)
	}
}

func TestExtractEmptyTemplate(t *testing.T) {
	for _, kind := range []Kind{KindCompound, KindFilm} {
		doc, err := ExtractBytes(kind, "blank.xlsx", workbook(t, "Sheet1", nil))
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if doc.Items == nil || len(doc.Items) != 0 {
			t.Fatalf("%s: items = %#v", kind, doc.Items)
		}
	}
}

func TestExtractUnreadable(t *testing.T) {
	_, err := ExtractBytes(KindFilm, "broken.xlsx", []byte("not a zip"))
	var sre *SourceReadError
	if !errors.As(err, &sre) {
		t.Fatalf("err = %v, want SourceReadError", err)
	}
	if sre.File != "broken.xlsx" || !strings.Contains(err.Error(), "extraction") {
		t.Fatalf("error does not name step and file: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	doc := &Document{Kind: KindCompound, SourceFile: "a.xlsx", Items: []materials.Item{{Name: "X", Quantity: 1.23456}}}
	if got := doc.Describe(); !strings.Contains(got, "X: 1.235") {
		t.Fatalf("Describe = %q", got)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"c": KindCompound, "SFF": KindFilm, " film ": KindFilm} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("O"); err == nil {
		t.Error("expected error for other kind")
	}
}
