package bank

import (
	"context"
	"log/slog"
	"testing"

	"github.com/Kaboom2025/Centive/model"
	aggregatorrepo "github.com/Kaboom2025/Centive/repository/aggregator"

	"github.com/stretchr/testify/require"
)

type bankRepoMock struct {
	inserted []model.BankAccount
	deleteOK bool
}

func (m *bankRepoMock) Insert(ctx context.Context, a *model.BankAccount) error {
	a.ID = int64(len(m.inserted) + 1)
	m.inserted = append(m.inserted, *a)
	return nil
}
func (m *bankRepoMock) ListByUser(ctx context.Context, userID int64) ([]model.BankAccount, error) {
	return m.inserted, nil
}
func (m *bankRepoMock) ListAll(ctx context.Context) ([]model.BankAccount, error) {
	return m.inserted, nil
}
func (m *bankRepoMock) UpdateCursor(ctx context.Context, id int64, cursor string) error { return nil }
func (m *bankRepoMock) Delete(ctx context.Context, userID, id int64) (bool, error) {
	return m.deleteOK, nil
}

type aggregatorMock struct {
	item     *aggregatorrepo.Item
	accounts []aggregatorrepo.Account
}

func (m *aggregatorMock) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	return "link-sandbox-abc", nil
}
func (m *aggregatorMock) ExchangePublicToken(ctx context.Context, publicToken string) (*aggregatorrepo.Item, error) {
	return m.item, nil
}
func (m *aggregatorMock) GetAccounts(ctx context.Context, accessToken string) ([]aggregatorrepo.Account, error) {
	return m.accounts, nil
}
func (m *aggregatorMock) SyncTransactions(ctx context.Context, accessToken, cursor string) (*aggregatorrepo.TransactionsPage, error) {
	return &aggregatorrepo.TransactionsPage{}, nil
}

func TestExchange_StoresOneRowPerAccount(t *testing.T) {
	r := &bankRepoMock{}
	svc := New(r, &aggregatorMock{
		item: &aggregatorrepo.Item{AccessToken: "access-tok", ItemID: "item-1"},
		accounts: []aggregatorrepo.Account{
			{AccountRef: "acc-1", InstitutionName: "First Bank", Subtype: "checking", Mask: "1234"},
			{AccountRef: "acc-2", InstitutionName: "First Bank", Subtype: "savings", Mask: "5678"},
		},
	}, slog.Default())

	out, err := svc.Exchange(context.Background(), 7, "public-tok")
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, a := range out {
		require.Equal(t, int64(7), a.UserID)
		require.Equal(t, "item-1", a.ItemID)
		require.Equal(t, "access-tok", a.AccessToken)
	}
	require.Equal(t, "checking", out[0].AccountType)
	require.Equal(t, "5678", out[1].Mask)
}

func TestDisconnect_UnknownAccount(t *testing.T) {
	svc := New(&bankRepoMock{deleteOK: false}, &aggregatorMock{}, slog.Default())

	err := svc.Disconnect(context.Background(), 7, 99)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLinkToken(t *testing.T) {
	svc := New(&bankRepoMock{}, &aggregatorMock{}, slog.Default())

	tok, err := svc.LinkToken(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "link-sandbox-abc", tok)
}
