package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Customers */

func (r *Repo) CreateCustomer(ctx context.Context, slug, name string) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (slug, name) VALUES ($1,$2)
		ON CONFLICT (slug) DO NOTHING
		RETURNING id, slug, name, created_at
	`, slug, name)
	var c Customer
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.GetCustomerBySlug(ctx, slug)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetCustomerBySlug(ctx context.Context, slug string) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, slug, name, created_at FROM customers WHERE slug = $1`, slug)
	var c Customer
	if err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

/* Subprojects */

const subprojectCols = `
	s.id, s.customer_id, c.slug, c.name, s.project_code, s.code, s.type, s.active, s.created_at`

func scanSubproject(row pgx.Row) (*Subproject, error) {
	var s Subproject
	if err := row.Scan(&s.ID, &s.CustomerID, &s.CustomerSlug, &s.CustomerName,
		&s.ProjectCode, &s.Code, &s.Type, &s.Active, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) CreateSubproject(ctx context.Context, customerID int64, projectCode, code string, t Type) (*Subproject, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO subprojects (customer_id, project_code, code, type, active)
		VALUES ($1,$2,$3,$4,TRUE)
		ON CONFLICT (customer_id, code) DO UPDATE SET project_code = EXCLUDED.project_code, type = EXCLUDED.type
		RETURNING id
	`, customerID, projectCode, code, string(t)).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetSubproject(ctx, id)
}

func (r *Repo) GetSubproject(ctx context.Context, id int64) (*Subproject, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subprojectCols+`
		FROM subprojects s JOIN customers c ON c.id = s.customer_id
		WHERE s.id = $1`, id)
	s, err := scanSubproject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// ListSubprojects lists active subprojects, of one customer when slug is
// not empty.
func (r *Repo) ListSubprojects(ctx context.Context, slug string) ([]Subproject, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+subprojectCols+`
		FROM subprojects s JOIN customers c ON c.id = s.customer_id
		WHERE s.active AND ($1::text = '' OR c.slug = $1)
		ORDER BY c.slug, s.code`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Subproject
	for rows.Next() {
		s, err := scanSubproject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
