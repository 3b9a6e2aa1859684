package donationrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/Kaboom2025/Centive/model"
)

type Repo interface {
	SetPaymentRef(ctx context.Context, id, paymentRef, receiptURL string) error
	FindByID(ctx context.Context, id string) (*model.Donation, error)
	// MarkSettled transitions a PENDING donation to the given terminal
	// status. Returns false when the donation was not pending (idempotent
	// callbacks, already-expired donations).
	MarkSettled(ctx context.Context, id string, status model.DonationStatus, at time.Time) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Donation, error)
	TotalsByUser(ctx context.Context, userID int64) (completedMinor int64, count int64, err error)
	ExpirePending(ctx context.Context, before time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) SetPaymentRef(ctx context.Context, id, paymentRef, receiptURL string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE donations SET payment_ref=$2, receipt_url=NULLIF($3,'')
		WHERE id=$1`,
		id, paymentRef, receiptURL,
	)
	return err
}

func (r *repo) FindByID(ctx context.Context, id string) (*model.Donation, error) {
	d := &model.Donation{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, charity_id, amount_minor, status, payment_ref, receipt_url, created_at, settled_at
		FROM donations
		WHERE id=$1`,
		id,
	).Scan(&d.ID, &d.UserID, &d.CharityID, &d.AmountMinor, &d.Status, &d.PaymentRef, &d.ReceiptURL, &d.CreatedAt, &d.SettledAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repo) MarkSettled(ctx context.Context, id string, status model.DonationStatus, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE donations SET status=$2, settled_at=$3
		WHERE id=$1 AND status='PENDING'`,
		id, status, at,
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

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Donation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.user_id, d.charity_id, c.name, d.amount_minor, d.status,
		       d.payment_ref, d.receipt_url, d.created_at, d.settled_at
		FROM donations d
		JOIN charities c ON c.id = d.charity_id
		WHERE d.user_id=$1
		ORDER BY d.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Donation
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.ID, &d.UserID, &d.CharityID, &d.CharityName, &d.AmountMinor, &d.Status,
			&d.PaymentRef, &d.ReceiptURL, &d.CreatedAt, &d.SettledAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repo) TotalsByUser(ctx context.Context, userID int64) (int64, int64, error) {
	var total, count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_minor) FILTER (WHERE status='COMPLETED'), 0), COUNT(*)
		FROM donations
		WHERE user_id=$1`,
		userID,
	).Scan(&total, &count)
	return total, count, err
}

func (r *repo) ExpirePending(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE donations SET status='FAILED', settled_at=NOW()
		WHERE status='PENDING' AND created_at < $1`,
		before,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
