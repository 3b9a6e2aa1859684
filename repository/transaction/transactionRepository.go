package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/Kaboom2025/Centive/model"
)

type Repo interface {
	// Insert stores a purchase; returns false when a record with the same
	// (user, external id) was already ingested.
	Insert(ctx context.Context, p *model.Purchase) (bool, error)
	// Delete compensates an insert whose ledger apply failed, so the
	// record is re-processed on the next ingest of the same feed page.
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Purchase, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, p *model.Purchase) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO purchases (id, user_id, external_id, merchant_name, category,
		                       amount_minor, currency, round_up_minor, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (user_id, external_id) DO NOTHING`,
		p.ID, p.UserID, p.ExternalID, p.MerchantName, p.CategoryLabel,
		p.AmountMinor, p.Currency, p.RoundUpMinor, p.OccurredAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id=$1`, id)
	return err
}

func (r *repo) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Purchase, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, external_id, merchant_name, category,
		       amount_minor, currency, round_up_minor, occurred_at, created_at
		FROM purchases
		WHERE user_id=$1
		ORDER BY occurred_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.ExternalID, &p.MerchantName, &p.CategoryLabel,
			&p.AmountMinor, &p.Currency, &p.RoundUpMinor, &p.OccurredAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
