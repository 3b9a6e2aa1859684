package ledgerrepo

import (
	"context"
	"database/sql"

	"github.com/Kaboom2025/Centive/model"
)

type Repo interface {
	Get(ctx context.Context, userID int64) (*model.LedgerState, error)
	// Create runs inside the onboarding transaction.
	Create(ctx context.Context, tx *sql.Tx, userID int64) error
	// ApplyVersioned persists the new accumulator value and any donation
	// rows in a single transaction, conditional on the stored version
	// still matching expectedVersion. Returns false on a stale version;
	// nothing is written in that case.
	ApplyVersioned(ctx context.Context, userID, newAccumMinor, expectedVersion int64, donations []model.Donation) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Get(ctx context.Context, userID int64) (*model.LedgerState, error) {
	st := &model.LedgerState{UserID: userID}
	err := r.db.QueryRowContext(ctx, `
		SELECT accumulated_minor, version
		FROM round_up_ledgers
		WHERE user_id=$1`,
		userID,
	).Scan(&st.AccumulatedMinor, &st.Version)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *repo) Create(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO round_up_ledgers (user_id, accumulated_minor, version)
		VALUES ($1, 0, 0)`,
		userID,
	)
	return err
}

func (r *repo) ApplyVersioned(ctx context.Context, userID, newAccumMinor, expectedVersion int64, donations []model.Donation) (_ bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE round_up_ledgers
		SET accumulated_minor=$2, version=version+1
		WHERE user_id=$1 AND version=$3`,
		userID, newAccumMinor, expectedVersion,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		_ = tx.Rollback()
		return false, nil
	}

	for i := range donations {
		d := &donations[i]
		if err = tx.QueryRowContext(ctx, `
			INSERT INTO donations (id, user_id, charity_id, amount_minor, status)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING created_at`,
			d.ID, d.UserID, d.CharityID, d.AmountMinor, d.Status,
		).Scan(&d.CreatedAt); err != nil {
			return false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
