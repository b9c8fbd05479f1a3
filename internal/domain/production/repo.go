package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
)

const uniqueViolation = "23505"

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByDate(ctx context.Context, date string) (*DayPlan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT date, day_no, status, cards, materials, created_at, created_by, updated_at, updated_by
		FROM production_days WHERE date = $1
	`, date)

	var p DayPlan
	var cards, mats []byte
	if err := row.Scan(&p.Date, &p.DayNumber, &p.Status, &cards, &mats,
		&p.CreatedAt, &p.CreatedBy, &p.UpdatedAt, &p.UpdatedBy); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(cards, &p.Cards); err != nil {
		return nil, fmt.Errorf("production: decode cards of %s: %w", date, err)
	}
	if err := json.Unmarshal(mats, &p.Materials); err != nil {
		return nil, fmt.Errorf("production: decode materials of %s: %w", date, err)
	}
	if p.Cards == nil {
		p.Cards = []Card{}
	}
	if p.Materials == nil {
		p.Materials = []materials.Item{}
	}
	return &p, nil
}

func (r *Repo) MaxDayNumber(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(day_no), 0) FROM production_days`).Scan(&n)
	return n, err
}

func (r *Repo) Insert(ctx context.Context, p *DayPlan) error {
	cards, mats, err := encode(p)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO production_days (date, day_no, status, cards, materials, created_at, created_by, updated_at, updated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, p.Date, p.DayNumber, string(p.Status), cards, mats, p.CreatedAt, p.CreatedBy, p.UpdatedAt, p.UpdatedBy)
	return mapErr(p, err)
}

// Update rewrites the plan stored under originalDate. The stored status
// is re-checked inside the transaction.
func (r *Repo) Update(ctx context.Context, originalDate string, p *DayPlan) error {
	cards, mats, err := encode(p)
	if err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM production_days WHERE date = $1 FOR UPDATE`, originalDate).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, originalDate)
	}
	if err != nil {
		return err
	}
	if Status(status) == StatusClosed {
		return &ImmutablePlanError{Date: originalDate, Op: "save"}
	}

	_, err = tx.Exec(ctx, `
		UPDATE production_days
		SET date=$2, status=$3, cards=$4, materials=$5, updated_at=$6, updated_by=$7
		WHERE date=$1
	`, originalDate, p.Date, string(p.Status), cards, mats, p.UpdatedAt, p.UpdatedBy)
	if err != nil {
		return mapErr(p, err)
	}
	return tx.Commit(ctx)
}

func (r *Repo) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date, day_no, status, jsonb_array_length(cards), updated_at
		FROM production_days
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Date, &s.DayNumber, &s.Status, &s.Cards, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func encode(p *DayPlan) ([]byte, []byte, error) {
	cards, err := json.Marshal(p.Cards)
	if err != nil {
		return nil, nil, err
	}
	mats, err := json.Marshal(p.Materials)
	if err != nil {
		return nil, nil, err
	}
	return cards, mats, nil
}

func mapErr(p *DayPlan, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "production_days_date_key":
		return &DateConflictError{Date: p.Date}
	case "production_days_day_no_key":
		return &DayNumberConflictError{Date: p.Date, DayNumber: p.DayNumber}
	}
	return err
}
