package settingsrepo

import (
	"context"
	"database/sql"

	"github.com/Kaboom2025/Centive/model"
)

type Repo interface {
	CreateDefaults(ctx context.Context, tx *sql.Tx, userID int64) error
	Get(ctx context.Context, userID int64) (*model.Preferences, error)
	Save(ctx context.Context, p *model.Preferences) error
	SetCharity(ctx context.Context, userID, charityID int64) error

	Policy(ctx context.Context, userID int64) (model.RoundUpPolicy, error)
	SelectedCharity(ctx context.Context, userID int64) (*int64, error)
	Notifications(ctx context.Context, userID int64) (model.NotificationPrefs, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) CreateDefaults(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id) VALUES ($1)`,
		userID,
	)
	return err
}

func (r *repo) Get(ctx context.Context, userID int64) (*model.Preferences, error) {
	p := &model.Preferences{UserID: userID}
	err := r.db.QueryRowContext(ctx, `
		SELECT threshold_minor, multiplier, paused,
		       notify_transactions, notify_donations, notify_monthly_reports, notify_method,
		       charity_id
		FROM user_preferences
		WHERE user_id=$1`,
		userID,
	).Scan(&p.Policy.ThresholdMinor, &p.Policy.Multiplier, &p.Policy.Paused,
		&p.Notifications.Transactions, &p.Notifications.Donations,
		&p.Notifications.MonthlyReports, &p.Notifications.Method,
		&p.CharityID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) Save(ctx context.Context, p *model.Preferences) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_preferences
		SET threshold_minor=$2, multiplier=$3, paused=$4,
		    notify_transactions=$5, notify_donations=$6, notify_monthly_reports=$7,
		    notify_method=$8, updated_at=NOW()
		WHERE user_id=$1`,
		p.UserID, p.Policy.ThresholdMinor, p.Policy.Multiplier, p.Policy.Paused,
		p.Notifications.Transactions, p.Notifications.Donations,
		p.Notifications.MonthlyReports, p.Notifications.Method,
	)
	return err
}

func (r *repo) SetCharity(ctx context.Context, userID, charityID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_preferences SET charity_id=$2, updated_at=NOW()
		WHERE user_id=$1`,
		userID, charityID,
	)
	return err
}

func (r *repo) Policy(ctx context.Context, userID int64) (model.RoundUpPolicy, error) {
	var pol model.RoundUpPolicy
	err := r.db.QueryRowContext(ctx, `
		SELECT threshold_minor, multiplier, paused FROM user_preferences WHERE user_id=$1`,
		userID,
	).Scan(&pol.ThresholdMinor, &pol.Multiplier, &pol.Paused)
	return pol, err
}

func (r *repo) SelectedCharity(ctx context.Context, userID int64) (*int64, error) {
	var id *int64
	err := r.db.QueryRowContext(ctx, `
		SELECT charity_id FROM user_preferences WHERE user_id=$1`,
		userID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return id, nil
}

func (r *repo) Notifications(ctx context.Context, userID int64) (model.NotificationPrefs, error) {
	var n model.NotificationPrefs
	err := r.db.QueryRowContext(ctx, `
		SELECT notify_transactions, notify_donations, notify_monthly_reports, notify_method
		FROM user_preferences
		WHERE user_id=$1`,
		userID,
	).Scan(&n.Transactions, &n.Donations, &n.MonthlyReports, &n.Method)
	return n, err
}
