package production

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mahdibujari75/Sampling-App/internal/domain/jalali"
	"github.com/mahdibujari75/Sampling-App/internal/infra/lock"
	"github.com/mahdibujari75/Sampling-App/internal/infra/metrics"
)

// Store persists day plans. Implementations return (nil, nil) from
// GetByDate when no plan exists and *DateConflictError when a date is
// already taken.
type Store interface {
	GetByDate(ctx context.Context, date string) (*DayPlan, error)
	MaxDayNumber(ctx context.Context) (int, error)
	Insert(ctx context.Context, p *DayPlan) error
	Update(ctx context.Context, originalDate string, p *DayPlan) error
	List(ctx context.Context) ([]Summary, error)
}

// every save takes this key, day numbers are max+1 over all plans
const saveLockKey = "production:days"

type Controller struct {
	store  Store
	locker lock.Locker
	log    *slog.Logger
	now    func() time.Time
}

func NewController(store Store, locker lock.Locker, log *slog.Logger) *Controller {
	return &Controller{store: store, locker: locker, log: log, now: time.Now}
}

// Save persists p. originalDate is the date the plan was loaded under,
// empty for a new plan. The first save assigns the next day number;
// later saves keep the stored one whatever p carries.
func (c *Controller) Save(ctx context.Context, p *DayPlan, originalDate, by string) (*DayPlan, error) {
	var out *DayPlan
	err := lock.With(ctx, c.locker, saveLockKey, func() error {
		var err error
		out, err = c.save(ctx, p, originalDate, by)
		return err
	})
	return out, err
}

func (c *Controller) save(ctx context.Context, p *DayPlan, originalDate, by string) (*DayPlan, error) {
	p.Date = jalali.Full(p.Date)
	if !jalali.Valid(p.Date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, p.Date)
	}
	if p.Status == "" {
		p.Status = StatusOpen
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return nil, err
	}
	if p.Cards == nil {
		p.Cards = []Card{}
	}
	p.RecomputeAggregate()

	now := c.now()
	p.UpdatedAt, p.UpdatedBy = now, by

	if originalDate == "" {
		if err := c.insert(ctx, p, now, by); err != nil {
			return nil, err
		}
		return p, nil
	}

	originalDate = jalali.Full(originalDate)
	existing, err := c.store.GetByDate(ctx, originalDate)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, originalDate)
	}
	if existing.Closed() {
		metrics.PlanSaves.WithLabelValues("immutable").Inc()
		return nil, &ImmutablePlanError{Date: existing.Date, Op: "save"}
	}
	if p.Date != originalDate {
		other, err := c.store.GetByDate(ctx, p.Date)
		if err != nil {
			return nil, err
		}
		if other != nil {
			metrics.PlanSaves.WithLabelValues("conflict").Inc()
			return nil, &DateConflictError{Date: p.Date}
		}
	}

	p.DayNumber = existing.DayNumber
	p.CreatedAt, p.CreatedBy = existing.CreatedAt, existing.CreatedBy
	if err := c.store.Update(ctx, originalDate, p); err != nil {
		c.countErr(err)
		return nil, err
	}
	metrics.PlanSaves.WithLabelValues("updated").Inc()
	c.log.Info("day plan saved", "date", p.Date, "day_no", p.DayNumber, "status", p.Status, "by", by)
	return p, nil
}

func (c *Controller) insert(ctx context.Context, p *DayPlan, now time.Time, by string) error {
	existing, err := c.store.GetByDate(ctx, p.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		metrics.PlanSaves.WithLabelValues("conflict").Inc()
		return &DateConflictError{Date: p.Date}
	}
	max, err := c.store.MaxDayNumber(ctx)
	if err != nil {
		return err
	}
	p.DayNumber = max + 1
	p.CreatedAt, p.CreatedBy = now, by
	if err := c.store.Insert(ctx, p); err != nil {
		c.countErr(err)
		return err
	}
	metrics.PlanSaves.WithLabelValues("created").Inc()
	c.log.Info("day plan created", "date", p.Date, "day_no", p.DayNumber, "by", by)
	return nil
}

func (c *Controller) countErr(err error) {
	var dce *DateConflictError
	var dnc *DayNumberConflictError
	var ipe *ImmutablePlanError
	switch {
	case errors.As(err, &dce), errors.As(err, &dnc):
		metrics.PlanSaves.WithLabelValues("conflict").Inc()
	case errors.As(err, &ipe):
		metrics.PlanSaves.WithLabelValues("immutable").Inc()
	default:
		metrics.PlanSaves.WithLabelValues("error").Inc()
	}
}

// Get returns the stored plan of date or ErrPlanNotFound.
func (c *Controller) Get(ctx context.Context, date string) (*DayPlan, error) {
	p, err := c.store.GetByDate(ctx, jalali.Full(date))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, jalali.Full(date))
	}
	return p, nil
}

// List returns every plan, newest date first.
func (c *Controller) List(ctx context.Context) ([]Summary, error) {
	out, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// SuggestDayNumber is the number the next new plan will get.
func (c *Controller) SuggestDayNumber(ctx context.Context) (int, error) {
	max, err := c.store.MaxDayNumber(ctx)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Update loads the plan of date (or starts a new one), applies fn and
// saves the result, all under the save lock.
func (c *Controller) Update(ctx context.Context, date, by string, fn func(p *DayPlan) error) (*DayPlan, error) {
	var out *DayPlan
	err := lock.With(ctx, c.locker, saveLockKey, func() error {
		date := jalali.Full(date)
		p, err := c.store.GetByDate(ctx, date)
		if err != nil {
			return err
		}
		original := date
		if p == nil {
			p, original = NewDayPlan(date), ""
		}
		if err := fn(p); err != nil {
			return err
		}
		out, err = c.save(ctx, p, original, by)
		return err
	})
	return out, err
}

func (c *Controller) AddCard(ctx context.Context, date string, card Card, by string) (*DayPlan, Card, error) {
	var added Card
	p, err := c.Update(ctx, date, by, func(p *DayPlan) error {
		var err error
		added, err = p.AddCard(card)
		return err
	})
	return p, added, err
}

func (c *Controller) RemoveCard(ctx context.Context, date, cardID, by string) (*DayPlan, error) {
	return c.Update(ctx, date, by, func(p *DayPlan) error {
		if card, ok := p.FindCard(cardID); ok {
			cardID = card.ID
		}
		return p.RemoveCard(cardID)
	})
}

func (c *Controller) SetStatus(ctx context.Context, date string, s Status, by string) (*DayPlan, error) {
	return c.Update(ctx, date, by, func(p *DayPlan) error { return p.SetStatus(s) })
}

// Close ends planning for date. Closing a closed day is rejected like any
// other change.
func (c *Controller) Close(ctx context.Context, date, by string) (*DayPlan, error) {
	var out *DayPlan
	err := lock.With(ctx, c.locker, saveLockKey, func() error {
		p, err := c.Get(ctx, date)
		if err != nil {
			return err
		}
		if p.Closed() {
			return &ImmutablePlanError{Date: p.Date, Op: "close"}
		}
		p.Close()
		out, err = c.save(ctx, p, p.Date, by)
		return err
	})
	return out, err
}
