package production

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mahdibujari75/Sampling-App/internal/domain/jalali"
	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
)

func NewDayPlan(date string) *DayPlan {
	return &DayPlan{
		Date:      jalali.Full(date),
		Status:    StatusOpen,
		Cards:     []Card{},
		Materials: []materials.Item{},
	}
}

func (p *DayPlan) Closed() bool { return p.Status == StatusClosed }

func (p *DayPlan) guard(op string) error {
	if p.Closed() {
		return &ImmutablePlanError{Date: p.Date, Op: op}
	}
	return nil
}

// AddCard appends c, giving it an ID when it has none.
func (p *DayPlan) AddCard(c Card) (Card, error) {
	if err := p.guard("add card"); err != nil {
		return Card{}, err
	}
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	for _, existing := range p.Cards {
		if existing.ID == c.ID {
			return Card{}, fmt.Errorf("production: card %s already on %s", c.ID, p.Date)
		}
	}
	p.Cards = append(p.Cards, c)
	p.RecomputeAggregate()
	return c, nil
}

func (p *DayPlan) RemoveCard(id string) error {
	if err := p.guard("remove card"); err != nil {
		return err
	}
	for i, c := range p.Cards {
		if c.ID == id {
			p.Cards = append(p.Cards[:i], p.Cards[i+1:]...)
			p.RecomputeAggregate()
			return nil
		}
	}
	return ErrCardNotFound
}

// FindCard accepts a full ID or a unique prefix of one.
func (p *DayPlan) FindCard(id string) (Card, bool) {
	var found []Card
	for _, c := range p.Cards {
		if c.ID == id {
			return c, true
		}
		if id != "" && strings.HasPrefix(c.ID, id) {
			found = append(found, c)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return Card{}, false
}

// RecomputeAggregate re-derives Materials from the card items.
func (p *DayPlan) RecomputeAggregate() {
	lists := make([][]materials.Item, 0, len(p.Cards))
	for _, c := range p.Cards {
		lists = append(lists, c.Items)
	}
	p.Materials = materials.Aggregate(lists...)
}

// SetStatus changes the label. Any open label may follow any other;
// only Closed ends editing.
func (p *DayPlan) SetStatus(s Status) error {
	if _, err := ParseStatus(string(s)); err != nil {
		return err
	}
	if err := p.guard("change status"); err != nil {
		return err
	}
	p.Status = s
	return nil
}

// Close is idempotent.
func (p *DayPlan) Close() {
	p.Status = StatusClosed
}
