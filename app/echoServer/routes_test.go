package echoServer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	authctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/auth"
	bankctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/bank"
	charityctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/charity"
	donationctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/donation"
	paymentctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/payment"
	settingsctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/settings"
	transactionctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/transaction"
	"github.com/Kaboom2025/Centive/model"
	donationsvc "github.com/Kaboom2025/Centive/service/donation"
	ledgersvc "github.com/Kaboom2025/Centive/service/ledger"
	jwtutil "github.com/Kaboom2025/Centive/util/jwt"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "route-test-secret"

type ledgerSvcStub struct {
	balanceUserID int64
}

func (s *ledgerSvcStub) Apply(ctx context.Context, userID, inc int64) (*ledgersvc.ApplyResult, error) {
	return &ledgersvc.ApplyResult{}, nil
}

func (s *ledgerSvcStub) Balance(ctx context.Context, userID int64) (*model.LedgerState, error) {
	s.balanceUserID = userID
	return &model.LedgerState{UserID: userID, AccumulatedMinor: 151, Version: 3}, nil
}

type donationSvcStub struct{}

func (donationSvcStub) Submit(ctx context.Context, d model.Donation) error { return nil }
func (donationSvcStub) HandleCallback(ctx context.Context, sig string, raw []byte) error {
	return nil
}
func (donationSvcStub) History(ctx context.Context, userID int64) ([]model.Donation, error) {
	return nil, nil
}
func (donationSvcStub) Stats(ctx context.Context, userID int64) (*donationsvc.Stats, error) {
	return &donationsvc.Stats{}, nil
}

func newTestServer(ls *ledgerSvcStub) *echo.Echo {
	e := echo.New()
	Register(e, C{
		Auth:        &authctrl.Controller{},
		Bank:        &bankctrl.Controller{},
		Transaction: &transactionctrl.Controller{},
		Charity:     &charityctrl.Controller{},
		Settings:    &settingsctrl.Controller{},
		Donation:    &donationctrl.Controller{Svc: donationSvcStub{}, Ledger: ls},
		Payment:     &paymentctrl.Controller{},

		JWTSecret: testSecret,
	})
	return e
}

func TestAuthedRoutes_BearerTokenAccepted(t *testing.T) {
	token, err := jwtutil.Issue(testSecret, 7, "user", 1)
	require.NoError(t, err)

	ls := &ledgerSvcStub{}
	e := newTestServer(ls)

	req := httptest.NewRequest(http.MethodGet, "/v1/ledger", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"accumulated_minor_units":151`)
	// user id comes from the verified token's sub claim
	require.Equal(t, int64(7), ls.balanceUserID)
}

func TestAuthedRoutes_BadSignatureRejected(t *testing.T) {
	token, err := jwtutil.Issue("other-secret", 7, "user", 1)
	require.NoError(t, err)

	e := newTestServer(&ledgerSvcStub{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ledger", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthedRoutes_MissingTokenRejected(t *testing.T) {
	e := newTestServer(&ledgerSvcStub{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ledger", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthedRoutes_ExpiredTokenRejected(t *testing.T) {
	token, err := jwtutil.Issue(testSecret, 7, "user", -1)
	require.NoError(t, err)

	e := newTestServer(&ledgerSvcStub{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ledger", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
