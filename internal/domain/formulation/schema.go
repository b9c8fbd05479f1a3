package formulation

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Kind is the formulation document layout.
type Kind string

const (
	KindCompound Kind = "C"
	KindFilm     Kind = "F"
)

// ParseKind accepts the subproject type letter or the source folder name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "SCF", "COMPOUND":
		return KindCompound, nil
	case "F", "SFF", "FILM":
		return KindFilm, nil
	}
	return "", fmt.Errorf("formulation: unknown kind %q", s)
}

func (k Kind) String() string {
	switch k {
	case KindCompound:
		return "compound"
	case KindFilm:
		return "film"
	}
	return string(k)
}

// Folder is the source folder of the kind inside a subproject.
func (k Kind) Folder() string {
	if k == KindFilm {
		return "SFF"
	}
	return "SCF"
}

// Layer of a film structure.
type Layer int

const (
	LayerInner Layer = iota
	LayerMiddle
	LayerOuter
)

func (l Layer) String() string {
	switch l {
	case LayerInner:
		return "inner"
	case LayerMiddle:
		return "middle"
	case LayerOuter:
		return "outer"
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// RowPair is a name row and the row holding the matching values.
type RowPair struct {
	NameRow  int
	ValueRow int
}

// Cells returns the coordinates of slot i across cols.
func (p RowPair) Cells(cols []string, i int) (name, value string) {
	name, _ = excelize.JoinCellName(cols[i], p.NameRow)
	value, _ = excelize.JoinCellName(cols[i], p.ValueRow)
	return name, value
}

type CompoundLayout struct {
	Columns []string
	Pair    RowPair
}

type LayerLayout struct {
	Layer     Layer
	Thickness string
	Pairs     []RowPair
}

type FilmLayout struct {
	TotalMass      string
	TotalThickness string
	Columns        []string
	Layers         [3]LayerLayout
}

// MetaCells locate header values. Dates are tried in order.
type MetaCells struct {
	Dates       []string
	Customer    string
	ProjectCode string
	OrderNo     string
}

// Schema maps the semantic fields of one document kind to cells.
type Schema struct {
	Kind     Kind
	Version  int
	Sheet    string
	Compound *CompoundLayout
	Film     *FilmLayout
	Meta     MetaCells
}

var slotColumns = []string{"D", "E", "F", "G", "H", "I"}

var CompoundV1 = Schema{
	Kind:    KindCompound,
	Version: 1,
	Sheet:   "Sheet1",
	Compound: &CompoundLayout{
		Columns: slotColumns,
		Pair:    RowPair{NameRow: 13, ValueRow: 15},
	},
	Meta: MetaCells{Dates: []string{"D4", "D3"}},
}

var FilmV1 = Schema{
	Kind:    KindFilm,
	Version: 1,
	Sheet:   "Sheet1",
	Film: &FilmLayout{
		TotalMass:      "F4",
		TotalThickness: "G7",
		Columns:        slotColumns,
		Layers: [3]LayerLayout{
			{Layer: LayerInner, Thickness: "D8", Pairs: []RowPair{{16, 17}, {20, 21}}},
			{Layer: LayerMiddle, Thickness: "G8", Pairs: []RowPair{{28, 29}, {32, 33}}},
			{Layer: LayerOuter, Thickness: "J8", Pairs: []RowPair{{40, 41}, {44, 45}}},
		},
	},
	Meta: MetaCells{
		Dates:       []string{"D4"},
		Customer:    "D3",
		ProjectCode: "I3",
		OrderNo:     "I4",
	},
}

// SchemaFor returns the current schema of kind.
func SchemaFor(kind Kind) (Schema, error) {
	switch kind {
	case KindCompound:
		return CompoundV1, nil
	case KindFilm:
		return FilmV1, nil
	}
	return Schema{}, fmt.Errorf("formulation: no schema for kind %q", kind)
}
