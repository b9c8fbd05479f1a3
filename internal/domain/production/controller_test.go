package production

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mahdibujari75/Sampling-App/internal/domain/formulation"
	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
	"github.com/mahdibujari75/Sampling-App/internal/infra/lock"
)

type memStore struct {
	mu    sync.Mutex
	plans map[string]DayPlan
}

func newMemStore() *memStore { return &memStore{plans: map[string]DayPlan{}} }

func clonePlan(p DayPlan) *DayPlan {
	p.Cards = append([]Card{}, p.Cards...)
	p.Materials = append([]materials.Item{}, p.Materials...)
	return &p
}

func (m *memStore) GetByDate(_ context.Context, date string) (*DayPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[date]
	if !ok {
		return nil, nil
	}
	return clonePlan(p), nil
}

func (m *memStore) MaxDayNumber(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	max := 0
	for _, p := range m.plans {
		if p.DayNumber > max {
			max = p.DayNumber
		}
	}
	return max, nil
}

func (m *memStore) Insert(_ context.Context, p *DayPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[p.Date]; ok {
		return &DateConflictError{Date: p.Date}
	}
	m.plans[p.Date] = *clonePlan(*p)
	return nil
}

func (m *memStore) Update(_ context.Context, originalDate string, p *DayPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[originalDate]; !ok {
		return ErrPlanNotFound
	}
	if originalDate != p.Date {
		if _, ok := m.plans[p.Date]; ok {
			return &DateConflictError{Date: p.Date}
		}
		delete(m.plans, originalDate)
	}
	m.plans[p.Date] = *clonePlan(*p)
	return nil
}

func (m *memStore) List(context.Context) ([]Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Summary
	for _, p := range m.plans {
		out = append(out, Summary{Date: p.Date, DayNumber: p.DayNumber, Status: p.Status, Cards: len(p.Cards)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func newController() (*Controller, *memStore) {
	st := newMemStore()
	c := NewController(st, lock.NewLocal(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.now = func() time.Time { return time.Date(2025, 11, 24, 9, 0, 0, 0, time.UTC) }
	return c, st
}

func card(code string, items ...materials.Item) Card {
	return Card{SubprojectCode: code, Kind: formulation.KindCompound, FormulationFile: code + ".xlsx", Items: items}
}

func TestDayNumberAssignedAndStable(t *testing.T) {
	ctx := context.Background()
	c, st := newController()

	first, err := c.Save(ctx, NewDayPlan("1404/09/01"), "", "ali")
	if err != nil {
		t.Fatal(err)
	}
	if first.DayNumber != 1 {
		t.Fatalf("first day number = %d", first.DayNumber)
	}

	p := NewDayPlan("1404/09/02")
	p.DayNumber = 99
	second, err := c.Save(ctx, p, "", "ali")
	if err != nil {
		t.Fatal(err)
	}
	if second.DayNumber != 2 {
		t.Fatalf("new plan took client day number: %d", second.DayNumber)
	}

	again, _ := c.Get(ctx, "1404/09/02")
	again.DayNumber = 7
	saved, err := c.Save(ctx, again, "1404/09/02", "sara")
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := st.GetByDate(ctx, "1404/09/02")
	if saved.DayNumber != 2 || stored.DayNumber != 2 {
		t.Fatalf("day number changed: saved=%d stored=%d", saved.DayNumber, stored.DayNumber)
	}
	if stored.CreatedBy != "ali" || stored.UpdatedBy != "sara" {
		t.Fatalf("audit fields = %q/%q", stored.CreatedBy, stored.UpdatedBy)
	}
}

func TestSaveRejectsDuplicateDate(t *testing.T) {
	ctx := context.Background()
	c, _ := newController()
	if _, err := c.Save(ctx, NewDayPlan("1404/09/01"), "", "a"); err != nil {
		t.Fatal(err)
	}
	_, err := c.Save(ctx, NewDayPlan("1404/9/1"), "", "b")
	var dce *DateConflictError
	if !errors.As(err, &dce) {
		t.Fatalf("err = %v, want DateConflictError", err)
	}

	if _, err := c.Save(ctx, NewDayPlan("1404/09/05"), "", "a"); err != nil {
		t.Fatal(err)
	}
	moved, _ := c.Get(ctx, "1404/09/05")
	moved.Date = "1404/09/01"
	if _, err := c.Save(ctx, moved, "1404/09/05", "a"); !errors.As(err, &dce) {
		t.Fatalf("moving onto a taken date: err = %v", err)
	}
}

func TestSaveMovesDate(t *testing.T) {
	ctx := context.Background()
	c, st := newController()
	if _, err := c.Save(ctx, NewDayPlan("1404/09/01"), "", "a"); err != nil {
		t.Fatal(err)
	}
	p, _ := c.Get(ctx, "1404/09/01")
	p.Date = "1404/09/03"
	if _, err := c.Save(ctx, p, "1404/09/01", "a"); err != nil {
		t.Fatal(err)
	}
	if old, _ := st.GetByDate(ctx, "1404/09/01"); old != nil {
		t.Fatal("old date still stored")
	}
	moved, _ := st.GetByDate(ctx, "1404/09/03")
	if moved == nil || moved.DayNumber != 1 {
		t.Fatalf("moved plan = %+v", moved)
	}
}

func TestClosedPlanImmutable(t *testing.T) {
	ctx := context.Background()
	c, _ := newController()
	p, added, err := c.AddCard(ctx, "1404/09/01", card("302C", materials.Item{Name: "PVC", Quantity: 10}), "a")
	if err != nil {
		t.Fatal(err)
	}
	dayNo := p.DayNumber

	if _, err := c.Close(ctx, "1404/09/01", "a"); err != nil {
		t.Fatal(err)
	}

	var ipe *ImmutablePlanError
	if _, _, err := c.AddCard(ctx, "1404/09/01", card("303C"), "a"); !errors.As(err, &ipe) {
		t.Fatalf("AddCard on closed: err = %v", err)
	}
	if _, err := c.RemoveCard(ctx, "1404/09/01", added.ID, "a"); !errors.As(err, &ipe) {
		t.Fatalf("RemoveCard on closed: err = %v", err)
	}
	if _, err := c.SetStatus(ctx, "1404/09/01", StatusOpen, "a"); !errors.As(err, &ipe) {
		t.Fatalf("SetStatus on closed: err = %v", err)
	}
	if _, err := c.Close(ctx, "1404/09/01", "a"); !errors.As(err, &ipe) {
		t.Fatalf("Close on closed: err = %v", err)
	}

	stored, _ := c.Get(ctx, "1404/09/01")
	stored.Status = StatusOpen
	stored.DayNumber = 42
	if _, err := c.Save(ctx, stored, "1404/09/01", "a"); !errors.As(err, &ipe) {
		t.Fatalf("Save over closed: err = %v", err)
	}
	after, _ := c.Get(ctx, "1404/09/01")
	if after.DayNumber != dayNo || !after.Closed() || len(after.Cards) != 1 {
		t.Fatalf("closed plan changed: %+v", after)
	}
}

func TestCardsDriveAggregate(t *testing.T) {
	ctx := context.Background()
	c, _ := newController()
	_, a, err := c.AddCard(ctx, "1404/09/01", card("302C",
		materials.Item{Name: "PVC", Quantity: 10},
		materials.Item{Name: "DOP", Quantity: 2}), "a")
	if err != nil {
		t.Fatal(err)
	}
	p, _, err := c.AddCard(ctx, "1404/09/01", card("305C", materials.Item{Name: "PVC", Quantity: 5}), "a")
	if err != nil {
		t.Fatal(err)
	}
	want := []materials.Item{{Name: "DOP", Quantity: 2}, {Name: "PVC", Quantity: 15}}
	if len(p.Materials) != 2 || p.Materials[0] != want[0] || p.Materials[1] != want[1] {
		t.Fatalf("materials = %+v", p.Materials)
	}

	p, err = c.RemoveCard(ctx, "1404/09/01", a.ID[:8], "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Cards) != 1 || len(p.Materials) != 1 || p.Materials[0].Quantity != 5 {
		t.Fatalf("after remove: %+v", p)
	}

	if _, err := c.RemoveCard(ctx, "1404/09/01", "missing", "a"); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestStatusesInterchangeable(t *testing.T) {
	ctx := context.Background()
	c, _ := newController()
	if _, err := c.Save(ctx, NewDayPlan("1404/09/01"), "", "a"); err != nil {
		t.Fatal(err)
	}
	for _, s := range []Status{StatusWaiting, StatusOpen, StatusInProgress, StatusWaiting} {
		p, err := c.SetStatus(ctx, "1404/09/01", s, "a")
		if err != nil {
			t.Fatalf("SetStatus(%s): %v", s, err)
		}
		if p.Status != s {
			t.Fatalf("status = %s", p.Status)
		}
	}
	if _, err := c.SetStatus(ctx, "1404/09/01", "Shipped", "a"); err == nil {
		t.Fatal("expected unknown status error")
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	c, _ := newController()
	for _, d := range []string{"1404/08/30", "1404/09/02", "1404/09/01"} {
		if _, err := c.Save(ctx, NewDayPlan(d), "", "a"); err != nil {
			t.Fatal(err)
		}
	}
	list, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Date != "1404/09/02" || list[2].Date != "1404/08/30" {
		t.Fatalf("List = %+v", list)
	}
	next, _ := c.SuggestDayNumber(ctx)
	if next != 4 {
		t.Fatalf("SuggestDayNumber = %d", next)
	}
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	c, _ := newController()
	if _, err := c.Save(ctx, NewDayPlan("someday"), "", "a"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v", err)
	}
	if _, err := c.Save(ctx, NewDayPlan("1404/01/01"), "1404/01/02", "a"); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := c.Close(ctx, "1404/01/09", "a"); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("close missing: err = %v", err)
	}
}

func TestConcurrentNewPlansGetDistinctNumbers(t *testing.T) {
	ctx := context.Background()
	c, st := newController()
	var wg sync.WaitGroup
	for _, d := range []string{"1404/01/01", "1404/01/02", "1404/01/03", "1404/01/04", "1404/01/05"} {
		wg.Add(1)
		go func(d string) {
			defer wg.Done()
			if _, err := c.Save(ctx, NewDayPlan(d), "", "a"); err != nil {
				t.Error(err)
			}
		}(d)
	}
	wg.Wait()
	seen := map[int]bool{}
	for _, p := range st.plans {
		if seen[p.DayNumber] {
			t.Fatalf("day number %d assigned twice", p.DayNumber)
		}
		seen[p.DayNumber] = true
	}
}
