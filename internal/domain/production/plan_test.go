package production

import (
	"errors"
	"testing"

	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
)

func TestPlanMutations(t *testing.T) {
	p := NewDayPlan("1404/9/1")
	if p.Date != "1404/09/01" || p.Status != StatusOpen {
		t.Fatalf("NewDayPlan = %+v", p)
	}
	c, err := p.AddCard(Card{Items: []materials.Item{{Name: "A", Quantity: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	if c.ID == "" {
		t.Fatal("card got no id")
	}
	if _, err := p.AddCard(c); err == nil {
		t.Fatal("duplicate card id accepted")
	}
	if len(p.Materials) != 1 {
		t.Fatalf("materials = %+v", p.Materials)
	}

	p.Close()
	var ipe *ImmutablePlanError
	if _, err := p.AddCard(Card{}); !errors.As(err, &ipe) {
		t.Fatalf("AddCard err = %v", err)
	}
	if err := p.RemoveCard(c.ID); !errors.As(err, &ipe) {
		t.Fatalf("RemoveCard err = %v", err)
	}
	if ipe.Date != "1404/09/01" {
		t.Fatalf("error date = %q", ipe.Date)
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"open":        StatusOpen,
		"in_progress": StatusInProgress,
		"In progress": StatusInProgress,
		"WAITING":     StatusWaiting,
		"closed":      StatusClosed,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("expected error")
	}
}

func TestFindCardByPrefix(t *testing.T) {
	p := NewDayPlan("1404/01/01")
	p.Cards = []Card{{ID: "abc-1"}, {ID: "abd-2"}}
	if c, ok := p.FindCard("abc"); !ok || c.ID != "abc-1" {
		t.Fatalf("FindCard(abc) = %+v, %v", c, ok)
	}
	if _, ok := p.FindCard("ab"); ok {
		t.Fatal("ambiguous prefix matched")
	}
}
