package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kaboom2025/Centive/model"
	aggregatorrepo "github.com/Kaboom2025/Centive/repository/aggregator"
	bankrepo "github.com/Kaboom2025/Centive/repository/bank"
	"github.com/Kaboom2025/Centive/service/donation"
	"github.com/Kaboom2025/Centive/service/ledger"
	"github.com/Kaboom2025/Centive/service/normalizer"
)

// RejectedRecord reports a feed record the normalizer refused.
type RejectedRecord struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type IngestResult struct {
	Applied   int               `json:"applied"`
	Skipped   int               `json:"skipped"`
	Rejected  []RejectedRecord  `json:"rejected,omitempty"`
	Donations []model.Donation  `json:"donations,omitempty"`
	State     model.LedgerState `json:"state"`
}

// PurchaseStore persists canonical purchases. Implemented by the
// transaction repository.
type PurchaseStore interface {
	Insert(ctx context.Context, p *model.Purchase) (bool, error)
	Delete(ctx context.Context, id string) error
}

// PolicySource reads the multiplier in effect for a batch.
type PolicySource interface {
	Policy(ctx context.Context, userID int64) (model.RoundUpPolicy, error)
}

type Service interface {
	// Ingest normalizes and applies a batch of raw feed records for one
	// user. Malformed records are rejected individually; duplicates are
	// skipped; a NO_CHARITY_SELECTED apply aborts the batch.
	Ingest(ctx context.Context, userID int64, raws []model.RawTransaction) (*IngestResult, error)
	// SyncAccount pulls new transactions from the aggregator and routes
	// them through Ingest, advancing the stored cursor.
	SyncAccount(ctx context.Context, acct *model.BankAccount) (int, error)
}

type service struct {
	purchases PurchaseStore
	policies  PolicySource
	ledger    ledger.Service
	donations donation.Service
	banks     bankrepo.Repo
	agg       aggregatorrepo.Repo
	log       *slog.Logger
}

func New(purchases PurchaseStore, policies PolicySource, ls ledger.Service, ds donation.Service,
	banks bankrepo.Repo, agg aggregatorrepo.Repo, log *slog.Logger) Service {
	return &service{purchases: purchases, policies: policies, ledger: ls, donations: ds, banks: banks, agg: agg, log: log}
}

func (s *service) Ingest(ctx context.Context, userID int64, raws []model.RawTransaction) (*IngestResult, error) {
	pol, err := s.policies.Policy(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &IngestResult{}
	for i, raw := range raws {
		p, err := normalizer.Normalize(userID, raw)
		if err != nil {
			if normalizer.Code(err) == normalizer.ErrMalformed {
				res.Rejected = append(res.Rejected, RejectedRecord{
					Index:  i,
					Field:  normalizer.Field(err),
					Reason: err.Error(),
				})
				continue
			}
			return nil, err
		}
		// purchases are always recorded; while paused their round-ups
		// do not accumulate
		if !pol.Paused {
			p.RoundUpMinor = normalizer.Increment(p.AmountMinor, pol)
		}

		inserted, err := s.purchases.Insert(ctx, p)
		if err != nil {
			return nil, err
		}
		if !inserted {
			res.Skipped++
			continue
		}

		applied, err := s.ledger.Apply(ctx, userID, p.RoundUpMinor)
		if err != nil {
			// undo the insert so a retry re-processes this record instead
			// of deduplicating away its round-up
			if derr := s.purchases.Delete(ctx, p.ID); derr != nil {
				s.log.Error("purchase rollback failed", "err", derr, "purchase_id", p.ID)
			}
			// surfaced verbatim: NO_CHARITY_SELECTED and LEDGER_BUSY are
			// the caller's to act on
			return nil, fmt.Errorf("apply purchase %s: %w", p.ExternalID, err)
		}
		res.Applied++
		res.State = applied.State
		res.Donations = append(res.Donations, applied.Donations...)
	}

	if res.Applied == 0 {
		st, err := s.ledger.Balance(ctx, userID)
		if err != nil {
			return nil, err
		}
		res.State = *st
	}

	for _, d := range res.Donations {
		if err := s.donations.Submit(ctx, d); err != nil {
			// donation is committed; stays pending for the expiry sweep
			s.log.Error("donation submit failed", "err", err, "donation_id", d.ID)
		}
	}
	return res, nil
}

func (s *service) SyncAccount(ctx context.Context, acct *model.BankAccount) (int, error) {
	applied := 0
	cursor := acct.SyncCursor
	for {
		page, err := s.agg.SyncTransactions(ctx, acct.AccessToken, cursor)
		if err != nil {
			return applied, err
		}
		if len(page.Added) > 0 {
			res, err := s.Ingest(ctx, acct.UserID, page.Added)
			if err != nil {
				return applied, err
			}
			applied += res.Applied
		}
		cursor = page.NextCursor
		if err := s.banks.UpdateCursor(ctx, acct.ID, cursor); err != nil {
			return applied, err
		}
		if !page.HasMore {
			return applied, nil
		}
	}
}
