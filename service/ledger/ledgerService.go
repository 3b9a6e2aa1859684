package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kaboom2025/Centive/model"
	"github.com/google/uuid"
)

// errors used by controllers

type ErrCode string

const (
	ErrVersionConflict   ErrCode = "VERSION_CONFLICT"
	ErrLedgerBusy        ErrCode = "LEDGER_BUSY"
	ErrNoCharitySelected ErrCode = "NO_CHARITY_SELECTED"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.msg
}
func (e codedError) Code() ErrCode { return e.code }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const (
	maxApplyAttempts = 5
	baseBackoff      = 10 * time.Millisecond
)

// ApplyResult describes one committed apply. Crossings is the number of
// donations emitted; CarryMinor is the accumulator remainder after the
// last crossing (equal to State.AccumulatedMinor when Crossings > 0).
type ApplyResult struct {
	State      model.LedgerState
	Crossings  int
	CarryMinor int64
	Donations  []model.Donation
}

// Store is the versioned ledger persistence. Implemented by the ledger
// repository; ApplyVersioned commits the accumulator update and donation
// rows atomically or not at all.
type Store interface {
	Get(ctx context.Context, userID int64) (*model.LedgerState, error)
	ApplyVersioned(ctx context.Context, userID, newAccumMinor, expectedVersion int64, donations []model.Donation) (bool, error)
}

// PolicySource reads the round-up policy and selected charity in effect
// at apply time. Implemented by the settings repository.
type PolicySource interface {
	Policy(ctx context.Context, userID int64) (model.RoundUpPolicy, error)
	SelectedCharity(ctx context.Context, userID int64) (*int64, error)
}

type Service interface {
	// Apply adds a round-up increment to the user's accumulator. Version
	// conflicts are retried internally with bounded backoff; callers only
	// ever see LEDGER_BUSY or NO_CHARITY_SELECTED.
	Apply(ctx context.Context, userID, incrementMinor int64) (*ApplyResult, error)
	Balance(ctx context.Context, userID int64) (*model.LedgerState, error)
}

type service struct {
	store    Store
	policies PolicySource
	log      *slog.Logger
}

func New(store Store, policies PolicySource, log *slog.Logger) Service {
	return &service{store: store, policies: policies, log: log}
}

func (s *service) Balance(ctx context.Context, userID int64) (*model.LedgerState, error) {
	return s.store.Get(ctx, userID)
}

func (s *service) Apply(ctx context.Context, userID, incrementMinor int64) (*ApplyResult, error) {
	if incrementMinor < 0 {
		return nil, fmt.Errorf("negative increment %d for user %d", incrementMinor, userID)
	}

	backoff := baseBackoff
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		res, err := s.attempt(ctx, userID, incrementMinor)
		if err == nil {
			return res, nil
		}
		if Code(err) != ErrVersionConflict {
			return nil, err
		}
		s.log.Debug("ledger apply conflict, retrying", "user_id", userID, "attempt", attempt)
	}
	return nil, codedError{code: ErrLedgerBusy, msg: fmt.Sprintf("user %d: retry budget exhausted", userID)}
}

func (s *service) attempt(ctx context.Context, userID, incrementMinor int64) (*ApplyResult, error) {
	st, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	pol, err := s.policies.Policy(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pol.ThresholdMinor <= 0 {
		return nil, fmt.Errorf("user %d: invalid threshold %d", userID, pol.ThresholdMinor)
	}

	total := st.AccumulatedMinor + incrementMinor
	crossings := total / pol.ThresholdMinor
	newAccum := total
	if crossings > 0 {
		newAccum = total % pol.ThresholdMinor
	}

	var donations []model.Donation
	if crossings > 0 {
		// the ledger reset never commits without its donation rows; a
		// missing charity fails the whole apply so the increment is not
		// silently consumed
		charityID, err := s.policies.SelectedCharity(ctx, userID)
		if err != nil {
			return nil, err
		}
		if charityID == nil {
			return nil, codedError{code: ErrNoCharitySelected, msg: fmt.Sprintf("user %d", userID)}
		}
		for i := int64(0); i < crossings; i++ {
			donations = append(donations, model.Donation{
				ID:          uuid.NewString(),
				UserID:      userID,
				CharityID:   *charityID,
				AmountMinor: pol.ThresholdMinor,
				Status:      model.DonationPending,
			})
		}
	}

	ok, err := s.store.ApplyVersioned(ctx, userID, newAccum, st.Version, donations)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, codedError{code: ErrVersionConflict, msg: fmt.Sprintf("user %d version %d", userID, st.Version)}
	}

	res := &ApplyResult{
		State: model.LedgerState{
			UserID:           userID,
			AccumulatedMinor: newAccum,
			Version:          st.Version + 1,
		},
		Crossings: int(crossings),
		Donations: donations,
	}
	if crossings > 0 {
		res.CarryMinor = newAccum
	}
	return res, nil
}
