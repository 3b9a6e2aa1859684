package feed

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Kaboom2025/Centive/model"
	aggregatorrepo "github.com/Kaboom2025/Centive/repository/aggregator"
	"github.com/Kaboom2025/Centive/service/donation"
	"github.com/Kaboom2025/Centive/service/ledger"

	"github.com/stretchr/testify/require"
)

type purchaseStoreMock struct {
	insert func(ctx context.Context, p *model.Purchase) (bool, error)
	delete func(ctx context.Context, id string) error
}

func (m *purchaseStoreMock) Insert(ctx context.Context, p *model.Purchase) (bool, error) {
	return m.insert(ctx, p)
}

func (m *purchaseStoreMock) Delete(ctx context.Context, id string) error {
	if m.delete == nil {
		return nil
	}
	return m.delete(ctx, id)
}

// memPurchaseStore keeps inserted purchases keyed by external id so the
// dedupe and rollback paths behave like the real table.
type memPurchaseStore struct {
	byExternal map[string]string
}

func newMemPurchaseStore() *memPurchaseStore {
	return &memPurchaseStore{byExternal: map[string]string{}}
}

func (m *memPurchaseStore) Insert(ctx context.Context, p *model.Purchase) (bool, error) {
	if _, ok := m.byExternal[p.ExternalID]; ok {
		return false, nil
	}
	m.byExternal[p.ExternalID] = p.ID
	return true, nil
}

func (m *memPurchaseStore) Delete(ctx context.Context, id string) error {
	for ext, pid := range m.byExternal {
		if pid == id {
			delete(m.byExternal, ext)
		}
	}
	return nil
}

type policySourceMock struct {
	policy model.RoundUpPolicy
}

func (m *policySourceMock) Policy(ctx context.Context, userID int64) (model.RoundUpPolicy, error) {
	return m.policy, nil
}

type ledgerMock struct {
	apply   func(ctx context.Context, userID, incrementMinor int64) (*ledger.ApplyResult, error)
	balance func(ctx context.Context, userID int64) (*model.LedgerState, error)
}

func (m *ledgerMock) Apply(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
	return m.apply(ctx, userID, inc)
}
func (m *ledgerMock) Balance(ctx context.Context, userID int64) (*model.LedgerState, error) {
	return m.balance(ctx, userID)
}

type donationSvcMock struct {
	submitted []model.Donation
	submitErr error
}

func (m *donationSvcMock) Submit(ctx context.Context, d model.Donation) error {
	m.submitted = append(m.submitted, d)
	return m.submitErr
}
func (m *donationSvcMock) HandleCallback(ctx context.Context, sig string, raw []byte) error {
	return nil
}
func (m *donationSvcMock) History(ctx context.Context, userID int64) ([]model.Donation, error) {
	return nil, nil
}
func (m *donationSvcMock) Stats(ctx context.Context, userID int64) (*donation.Stats, error) {
	return nil, nil
}

type bankRepoMock struct {
	cursors map[int64]string
}

func (m *bankRepoMock) Insert(ctx context.Context, a *model.BankAccount) error { return nil }
func (m *bankRepoMock) ListByUser(ctx context.Context, userID int64) ([]model.BankAccount, error) {
	return nil, nil
}
func (m *bankRepoMock) ListAll(ctx context.Context) ([]model.BankAccount, error) { return nil, nil }
func (m *bankRepoMock) UpdateCursor(ctx context.Context, id int64, cursor string) error {
	if m.cursors == nil {
		m.cursors = map[int64]string{}
	}
	m.cursors[id] = cursor
	return nil
}
func (m *bankRepoMock) Delete(ctx context.Context, userID, id int64) (bool, error) {
	return false, nil
}

type aggregatorMock struct {
	pages []aggregatorrepo.TransactionsPage
	calls int
}

func (m *aggregatorMock) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	return "", nil
}
func (m *aggregatorMock) ExchangePublicToken(ctx context.Context, publicToken string) (*aggregatorrepo.Item, error) {
	return nil, nil
}
func (m *aggregatorMock) GetAccounts(ctx context.Context, accessToken string) ([]aggregatorrepo.Account, error) {
	return nil, nil
}
func (m *aggregatorMock) SyncTransactions(ctx context.Context, accessToken, cursor string) (*aggregatorrepo.TransactionsPage, error) {
	p := m.pages[m.calls]
	m.calls++
	return &p, nil
}

func amount(v float64) *float64 { return &v }

func rawTxn(id string, amt float64) model.RawTransaction {
	return model.RawTransaction{
		TransactionID: id,
		Amount:        amount(amt),
		Currency:      "USD",
		Date:          "2026-08-29",
		MerchantName:  "Blue Bottle",
	}
}

func applyOK(state model.LedgerState) func(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
	return func(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
		state.AccumulatedMinor += inc
		state.Version++
		return &ledger.ApplyResult{State: state}, nil
	}
}

func TestIngest_AppliesSkipsAndRejects(t *testing.T) {
	seen := map[string]bool{"dup-1": true}
	store := &purchaseStoreMock{
		insert: func(ctx context.Context, p *model.Purchase) (bool, error) {
			if seen[p.ExternalID] {
				return false, nil
			}
			seen[p.ExternalID] = true
			return true, nil
		},
	}

	var increments []int64
	lm := &ledgerMock{
		apply: func(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
			increments = append(increments, inc)
			return &ledger.ApplyResult{State: model.LedgerState{UserID: userID, AccumulatedMinor: inc}}, nil
		},
	}

	svc := New(store,
		&policySourceMock{policy: model.RoundUpPolicy{ThresholdMinor: 1000, Multiplier: 1}},
		lm, &donationSvcMock{}, &bankRepoMock{}, &aggregatorMock{}, slog.Default())

	raws := []model.RawTransaction{
		rawTxn("txn-1", 4.37),
		rawTxn("dup-1", 9.99),
		{TransactionID: "txn-bad", Currency: "USD", Date: "2026-08-29"}, // missing amount
		rawTxn("txn-2", 23.45),
	}

	res, err := svc.Ingest(context.Background(), 7, raws)
	require.NoError(t, err)
	require.Equal(t, 2, res.Applied)
	require.Equal(t, 1, res.Skipped)
	require.Len(t, res.Rejected, 1)
	require.Equal(t, 2, res.Rejected[0].Index)
	require.Equal(t, "amount", res.Rejected[0].Field)
	require.Equal(t, []int64{63, 55}, increments)
}

func TestIngest_SubmitsEmittedDonations(t *testing.T) {
	store := &purchaseStoreMock{
		insert: func(ctx context.Context, p *model.Purchase) (bool, error) { return true, nil },
	}
	emitted := model.Donation{ID: "d-1", UserID: 7, CharityID: 3, AmountMinor: 1000, Status: model.DonationPending}
	lm := &ledgerMock{
		apply: func(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
			return &ledger.ApplyResult{
				State:     model.LedgerState{UserID: userID, AccumulatedMinor: 11},
				Crossings: 1,
				Donations: []model.Donation{emitted},
			}, nil
		},
	}
	ds := &donationSvcMock{}

	svc := New(store,
		&policySourceMock{policy: model.RoundUpPolicy{ThresholdMinor: 1000, Multiplier: 1}},
		lm, ds, &bankRepoMock{}, &aggregatorMock{}, slog.Default())

	res, err := svc.Ingest(context.Background(), 7, []model.RawTransaction{rawTxn("txn-1", 4.37)})
	require.NoError(t, err)
	require.Len(t, res.Donations, 1)
	require.Equal(t, []model.Donation{emitted}, ds.submitted)
}

func TestIngest_SubmitFailureDoesNotFailBatch(t *testing.T) {
	store := &purchaseStoreMock{
		insert: func(ctx context.Context, p *model.Purchase) (bool, error) { return true, nil },
	}
	lm := &ledgerMock{
		apply: func(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
			return &ledger.ApplyResult{
				Donations: []model.Donation{{ID: "d-1", AmountMinor: 1000}},
			}, nil
		},
	}
	ds := &donationSvcMock{submitErr: errors.New("gateway down")}

	svc := New(store,
		&policySourceMock{policy: model.RoundUpPolicy{ThresholdMinor: 1000, Multiplier: 1}},
		lm, ds, &bankRepoMock{}, &aggregatorMock{}, slog.Default())

	res, err := svc.Ingest(context.Background(), 7, []model.RawTransaction{rawTxn("txn-1", 4.37)})
	require.NoError(t, err)
	require.Equal(t, 1, res.Applied)
}

func TestIngest_RetryAfterApplyFailureReappliesRoundUp(t *testing.T) {
	// an apply failure must not leave the purchase behind, or the retry
	// would deduplicate the record and its round-up would never accumulate
	store := newMemPurchaseStore()

	var accum int64 = 990
	charitySelected := false
	lm := &ledgerMock{
		apply: func(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
			if !charitySelected {
				return nil, errors.New("NO_CHARITY_SELECTED: user 7")
			}
			accum += inc
			return &ledger.ApplyResult{State: model.LedgerState{UserID: userID, AccumulatedMinor: accum}}, nil
		},
	}

	svc := New(store,
		&policySourceMock{policy: model.RoundUpPolicy{ThresholdMinor: 1000, Multiplier: 1}},
		lm, &donationSvcMock{}, &bankRepoMock{}, &aggregatorMock{}, slog.Default())

	batch := []model.RawTransaction{rawTxn("txn-1", 4.37)}

	_, err := svc.Ingest(context.Background(), 7, batch)
	require.Error(t, err)
	require.Empty(t, store.byExternal)
	require.Equal(t, int64(990), accum)

	charitySelected = true
	res, err := svc.Ingest(context.Background(), 7, batch)
	require.NoError(t, err)
	require.Equal(t, 1, res.Applied)
	require.Zero(t, res.Skipped)
	require.Equal(t, int64(1053), accum)
	require.Contains(t, store.byExternal, "txn-1")
}

func TestIngest_AllSkippedReportsCurrentState(t *testing.T) {
	store := &purchaseStoreMock{
		insert: func(ctx context.Context, p *model.Purchase) (bool, error) { return false, nil },
	}
	lm := &ledgerMock{
		balance: func(ctx context.Context, userID int64) (*model.LedgerState, error) {
			return &model.LedgerState{UserID: userID, AccumulatedMinor: 151, Version: 3}, nil
		},
	}

	svc := New(store,
		&policySourceMock{policy: model.RoundUpPolicy{ThresholdMinor: 1000, Multiplier: 1}},
		lm, &donationSvcMock{}, &bankRepoMock{}, &aggregatorMock{}, slog.Default())

	res, err := svc.Ingest(context.Background(), 7, []model.RawTransaction{rawTxn("txn-1", 4.37)})
	require.NoError(t, err)
	require.Zero(t, res.Applied)
	require.Equal(t, 1, res.Skipped)
	require.Equal(t, int64(151), res.State.AccumulatedMinor)
	require.Equal(t, int64(3), res.State.Version)
}

func TestIngest_ApplyErrorAbortsBatch(t *testing.T) {
	store := &purchaseStoreMock{
		insert: func(ctx context.Context, p *model.Purchase) (bool, error) { return true, nil },
	}
	lm := &ledgerMock{
		apply: func(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
			return nil, errors.New("NO_CHARITY_SELECTED: user 7")
		},
	}

	svc := New(store,
		&policySourceMock{policy: model.RoundUpPolicy{ThresholdMinor: 1000, Multiplier: 1}},
		lm, &donationSvcMock{}, &bankRepoMock{}, &aggregatorMock{}, slog.Default())

	_, err := svc.Ingest(context.Background(), 7, []model.RawTransaction{rawTxn("txn-1", 4.37)})
	require.Error(t, err)
	require.ErrorContains(t, err, "txn-1")
}

func TestIngest_MultiplierScalesIncrements(t *testing.T) {
	store := &purchaseStoreMock{
		insert: func(ctx context.Context, p *model.Purchase) (bool, error) { return true, nil },
	}
	var gotInc int64
	lm := &ledgerMock{
		apply: func(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
			gotInc = inc
			return &ledger.ApplyResult{}, nil
		},
	}

	svc := New(store,
		&policySourceMock{policy: model.RoundUpPolicy{ThresholdMinor: 1000, Multiplier: 3}},
		lm, &donationSvcMock{}, &bankRepoMock{}, &aggregatorMock{}, slog.Default())

	_, err := svc.Ingest(context.Background(), 7, []model.RawTransaction{rawTxn("txn-1", 4.37)})
	require.NoError(t, err)
	require.Equal(t, int64(189), gotInc)
}

func TestIngest_PausedRecordsPurchaseWithoutRoundUp(t *testing.T) {
	var storedRoundUp int64 = -1
	store := &purchaseStoreMock{
		insert: func(ctx context.Context, p *model.Purchase) (bool, error) {
			storedRoundUp = p.RoundUpMinor
			return true, nil
		},
	}
	var gotInc int64 = -1
	lm := &ledgerMock{
		apply: func(ctx context.Context, userID, inc int64) (*ledger.ApplyResult, error) {
			gotInc = inc
			return &ledger.ApplyResult{}, nil
		},
	}

	svc := New(store,
		&policySourceMock{policy: model.RoundUpPolicy{ThresholdMinor: 1000, Multiplier: 1, Paused: true}},
		lm, &donationSvcMock{}, &bankRepoMock{}, &aggregatorMock{}, slog.Default())

	res, err := svc.Ingest(context.Background(), 7, []model.RawTransaction{rawTxn("txn-1", 4.37)})
	require.NoError(t, err)
	require.Equal(t, 1, res.Applied)
	require.Zero(t, storedRoundUp)
	require.Zero(t, gotInc)
}

func TestSyncAccount_PagesUntilDoneAndAdvancesCursor(t *testing.T) {
	store := &purchaseStoreMock{
		insert: func(ctx context.Context, p *model.Purchase) (bool, error) { return true, nil },
	}
	lm := &ledgerMock{apply: applyOK(model.LedgerState{UserID: 7})}
	banks := &bankRepoMock{}
	agg := &aggregatorMock{pages: []aggregatorrepo.TransactionsPage{
		{Added: []model.RawTransaction{rawTxn("txn-1", 4.37), rawTxn("txn-2", 23.45)}, NextCursor: "c1", HasMore: true},
		{Added: []model.RawTransaction{rawTxn("txn-3", 45.67)}, NextCursor: "c2", HasMore: false},
	}}

	svc := New(store,
		&policySourceMock{policy: model.RoundUpPolicy{ThresholdMinor: 1000, Multiplier: 1}},
		lm, &donationSvcMock{}, banks, agg, slog.Default())

	applied, err := svc.SyncAccount(context.Background(), &model.BankAccount{ID: 11, UserID: 7, AccessToken: "tok"})
	require.NoError(t, err)
	require.Equal(t, 3, applied)
	require.Equal(t, 2, agg.calls)
	require.Equal(t, "c2", banks.cursors[11])
}
