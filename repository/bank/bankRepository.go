package bankrepo

import (
	"context"
	"database/sql"

	"github.com/Kaboom2025/Centive/model"
)

type Repo interface {
	Insert(ctx context.Context, a *model.BankAccount) error
	ListByUser(ctx context.Context, userID int64) ([]model.BankAccount, error)
	// ListAll feeds the sync poller; includes access tokens and cursors.
	ListAll(ctx context.Context) ([]model.BankAccount, error)
	UpdateCursor(ctx context.Context, id int64, cursor string) error
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const accountCols = `id, user_id, item_id, access_token, account_ref, institution_name, account_type, mask, sync_cursor, connected_at`

func (r *repo) Insert(ctx context.Context, a *model.BankAccount) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO bank_accounts (user_id, item_id, access_token, account_ref, institution_name, account_type, mask)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, connected_at`,
		a.UserID, a.ItemID, a.AccessToken, a.AccountRef, a.InstitutionName, a.AccountType, a.Mask,
	).Scan(&a.ID, &a.ConnectedAt)
}

func (r *repo) list(ctx context.Context, where string, args ...any) ([]model.BankAccount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountCols+` FROM bank_accounts `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BankAccount
	for rows.Next() {
		var a model.BankAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.ItemID, &a.AccessToken, &a.AccountRef,
			&a.InstitutionName, &a.AccountType, &a.Mask, &a.SyncCursor, &a.ConnectedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.BankAccount, error) {
	return r.list(ctx, `WHERE user_id=$1 ORDER BY connected_at`, userID)
}

func (r *repo) ListAll(ctx context.Context) ([]model.BankAccount, error) {
	return r.list(ctx, `ORDER BY id`)
}

func (r *repo) UpdateCursor(ctx context.Context, id int64, cursor string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bank_accounts SET sync_cursor=$2 WHERE id=$1`, id, cursor)
	return err
}

func (r *repo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bank_accounts WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
