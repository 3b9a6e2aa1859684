package paymentsrepo

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Kaboom2025/Centive/util/httpx"
)

type httpRepo struct {
	baseURL       string
	apiKey        string
	callbackToken string
	client        *http.Client
}

func NewHTTP(baseURL, apiKey, callbackToken string) Repo {
	return &httpRepo{baseURL: baseURL, apiKey: apiKey, callbackToken: callbackToken, client: httpx.Client()}
}

func (r *httpRepo) SubmitDonation(req SubmitDonationReq) (*SubmitDonationResp, error) {
	body := map[string]any{
		"external_id":     req.ExternalID,
		"amount":          req.Amount,
		"beneficiary_ref": req.CharityRef,
		"description":     req.Description,
	}
	b, _ := json.Marshal(body)
	httpReq, err := http.NewRequest(http.MethodPost, r.baseURL+"/v1/disbursements", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.apiKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment executor submit failed: %s", resp.Status)
	}

	var out struct {
		ID         string `json:"id"`
		ReceiptURL string `json:"receipt_url"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("payment executor: empty payment id")
	}
	return &SubmitDonationResp{PaymentID: out.ID, ReceiptURL: out.ReceiptURL, Status: out.Status}, nil
}

func (r *httpRepo) VerifyCallbackSignature(sigHeader string, rawBody []byte) error {
	if r.callbackToken == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(sigHeader), []byte(r.callbackToken)) != 1 {
		return errors.New("invalid callback token")
	}
	return nil
}
