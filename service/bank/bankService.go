package bank

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Kaboom2025/Centive/model"
	aggregatorrepo "github.com/Kaboom2025/Centive/repository/aggregator"
	bankrepo "github.com/Kaboom2025/Centive/repository/bank"
)

var ErrAccountNotFound = errors.New("bank account not found")

type Service interface {
	// LinkToken starts the link flow: the client opens the aggregator's
	// widget with this token.
	LinkToken(ctx context.Context, userID int64) (string, error)
	// Exchange swaps the widget's public token for a stable access token
	// and stores one row per account on the linked item.
	Exchange(ctx context.Context, userID int64, publicToken string) ([]model.BankAccount, error)
	List(ctx context.Context, userID int64) ([]model.BankAccount, error)
	Disconnect(ctx context.Context, userID, accountID int64) error
}

type service struct {
	r   bankrepo.Repo
	agg aggregatorrepo.Repo
	log *slog.Logger
}

func New(r bankrepo.Repo, agg aggregatorrepo.Repo, log *slog.Logger) Service {
	return &service{r: r, agg: agg, log: log}
}

func (s *service) LinkToken(ctx context.Context, userID int64) (string, error) {
	return s.agg.CreateLinkToken(ctx, userID)
}

func (s *service) Exchange(ctx context.Context, userID int64, publicToken string) ([]model.BankAccount, error) {
	item, err := s.agg.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, err
	}
	accounts, err := s.agg.GetAccounts(ctx, item.AccessToken)
	if err != nil {
		return nil, err
	}

	var out []model.BankAccount
	for _, a := range accounts {
		acct := model.BankAccount{
			UserID:          userID,
			ItemID:          item.ItemID,
			AccessToken:     item.AccessToken,
			AccountRef:      a.AccountRef,
			InstitutionName: a.InstitutionName,
			AccountType:     a.Subtype,
			Mask:            a.Mask,
		}
		if err := s.r.Insert(ctx, &acct); err != nil {
			return nil, err
		}
		out = append(out, acct)
	}
	s.log.Info("bank item linked", "user_id", userID, "item_id", item.ItemID, "accounts", len(out))
	return out, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]model.BankAccount, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) Disconnect(ctx context.Context, userID, accountID int64) error {
	ok, err := s.r.Delete(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	return nil
}
