package aggregatorrepo

import (
	"context"

	"github.com/Kaboom2025/Centive/model"
)

// Item is a linked login at the aggregator: the stable access token and
// item id returned by the public-token exchange.
type Item struct {
	AccessToken string
	ItemID      string
}

type Account struct {
	AccountRef      string
	InstitutionName string
	Subtype         string
	Mask            string
}

// TransactionsPage is one page of the cursor-based transactions sync.
type TransactionsPage struct {
	Added      []model.RawTransaction
	NextCursor string
	HasMore    bool
}

type Repo interface {
	CreateLinkToken(ctx context.Context, userID int64) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*Item, error)
	GetAccounts(ctx context.Context, accessToken string) ([]Account, error)
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*TransactionsPage, error)
}
