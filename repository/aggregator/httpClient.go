package aggregatorrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Kaboom2025/Centive/model"
	"github.com/Kaboom2025/Centive/util/httpx"
)

type httpRepo struct {
	baseURL  string
	clientID string
	secret   string
	client   *http.Client
}

func NewHTTP(baseURL, clientID, secret string) Repo {
	return &httpRepo{baseURL: baseURL, clientID: clientID, secret: secret, client: httpx.Client()}
}

func (r *httpRepo) post(ctx context.Context, path string, body map[string]any, out any) error {
	body["client_id"] = r.clientID
	body["secret"] = r.secret
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("aggregator %s failed: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *httpRepo) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	var out struct {
		LinkToken string `json:"link_token"`
	}
	err := r.post(ctx, "/link/token/create", map[string]any{
		"user":          map[string]any{"client_user_id": strconv.FormatInt(userID, 10)},
		"client_name":   "Centive",
		"products":      []string{"transactions"},
		"country_codes": []string{"US"},
		"language":      "en",
	}, &out)
	if err != nil {
		return "", err
	}
	if out.LinkToken == "" {
		return "", fmt.Errorf("aggregator: empty link token")
	}
	return out.LinkToken, nil
}

func (r *httpRepo) ExchangePublicToken(ctx context.Context, publicToken string) (*Item, error) {
	var out struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	err := r.post(ctx, "/item/public_token/exchange", map[string]any{
		"public_token": publicToken,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("aggregator: empty access token")
	}
	return &Item{AccessToken: out.AccessToken, ItemID: out.ItemID}, nil
}

func (r *httpRepo) GetAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	var out struct {
		Accounts []struct {
			AccountID string `json:"account_id"`
			Name      string `json:"name"`
			Mask      string `json:"mask"`
			Subtype   string `json:"subtype"`
		} `json:"accounts"`
		Item struct {
			InstitutionName string `json:"institution_name"`
		} `json:"item"`
	}
	if err := r.post(ctx, "/accounts/get", map[string]any{"access_token": accessToken}, &out); err != nil {
		return nil, err
	}
	accounts := make([]Account, 0, len(out.Accounts))
	for _, a := range out.Accounts {
		name := out.Item.InstitutionName
		if name == "" {
			name = a.Name
		}
		accounts = append(accounts, Account{
			AccountRef:      a.AccountID,
			InstitutionName: name,
			Subtype:         a.Subtype,
			Mask:            a.Mask,
		})
	}
	return accounts, nil
}

func (r *httpRepo) SyncTransactions(ctx context.Context, accessToken, cursor string) (*TransactionsPage, error) {
	var out struct {
		Added      []model.RawTransaction `json:"added"`
		NextCursor string                 `json:"next_cursor"`
		HasMore    bool                   `json:"has_more"`
	}
	err := r.post(ctx, "/transactions/sync", map[string]any{
		"access_token": accessToken,
		"cursor":       cursor,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &TransactionsPage{Added: out.Added, NextCursor: out.NextCursor, HasMore: out.HasMore}, nil
}
