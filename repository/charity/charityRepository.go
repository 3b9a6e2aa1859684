package charityrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Kaboom2025/Centive/model"
)

type Repo interface {
	Create(ctx context.Context, c *model.Charity) error
	Get(ctx context.Context, id int64) (*model.Charity, error)
	Search(ctx context.Context, query, category string) ([]model.Charity, error)
	Categories(ctx context.Context) ([]string, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const charityCols = `id, name, category, mission, description, rating, impact_metrics, financial_info, logo_url, payment_ref, created_at`

func (r *repo) Create(ctx context.Context, c *model.Charity) error {
	metrics, err := json.Marshal(c.ImpactMetrics)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO charities (name, category, mission, description, rating, impact_metrics, financial_info, logo_url, payment_ref)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at`,
		c.Name, c.Category, c.Mission, c.Description, c.Rating, metrics, c.FinancialInfo, c.LogoURL, c.PaymentRef,
	).Scan(&c.ID, &c.CreatedAt)
}

func scanCharity(scan func(dest ...any) error) (*model.Charity, error) {
	c := &model.Charity{}
	var metrics []byte
	if err := scan(&c.ID, &c.Name, &c.Category, &c.Mission, &c.Description, &c.Rating,
		&metrics, &c.FinancialInfo, &c.LogoURL, &c.PaymentRef, &c.CreatedAt); err != nil {
		return nil, err
	}
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &c.ImpactMetrics); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Charity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+charityCols+` FROM charities WHERE id=$1`, id)
	return scanCharity(row.Scan)
}

func (r *repo) Search(ctx context.Context, query, category string) ([]model.Charity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+charityCols+`
		FROM charities
		WHERE ($1='' OR name ILIKE '%'||$1||'%' OR mission ILIKE '%'||$1||'%')
		  AND ($2='' OR category=$2)
		ORDER BY rating DESC, name`,
		query, category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Charity
	for rows.Next() {
		c, err := scanCharity(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM charities ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
