package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kaboom2025/Centive/model"
	settingsrepo "github.com/Kaboom2025/Centive/repository/settings"
)

var ErrInvalidUpdate = errors.New("invalid preferences update")

const thresholdStepMinor = 500

type Service interface {
	Get(ctx context.Context, userID int64) (*model.Preferences, error)
	// Update applies a typed partial update: only set fields change, each
	// validated on its own.
	Update(ctx context.Context, userID int64, req model.UpdatePreferencesReq) (*model.Preferences, error)
}

type service struct {
	r settingsrepo.Repo
}

func New(r settingsrepo.Repo) Service { return &service{r: r} }

func (s *service) Get(ctx context.Context, userID int64) (*model.Preferences, error) {
	return s.r.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID int64, req model.UpdatePreferencesReq) (*model.Preferences, error) {
	p, err := s.r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.ThresholdMinorUnits != nil {
		t := *req.ThresholdMinorUnits
		if t%thresholdStepMinor != 0 {
			return nil, fmt.Errorf("%w: threshold must be a multiple of %d", ErrInvalidUpdate, thresholdStepMinor)
		}
		p.Policy.ThresholdMinor = t
	}
	if req.Multiplier != nil {
		p.Policy.Multiplier = *req.Multiplier
	}
	if req.Paused != nil {
		p.Policy.Paused = *req.Paused
	}
	if req.NotifyTransactions != nil {
		p.Notifications.Transactions = *req.NotifyTransactions
	}
	if req.NotifyDonations != nil {
		p.Notifications.Donations = *req.NotifyDonations
	}
	if req.NotifyMonthlyReports != nil {
		p.Notifications.MonthlyReports = *req.NotifyMonthlyReports
	}
	if req.NotifyMethod != nil {
		p.Notifications.Method = *req.NotifyMethod
	}

	if err := s.r.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
