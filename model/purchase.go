package model

import "time"

// RawTransaction is a record as delivered by the transaction feed. Extra
// fields sent by the aggregator are ignored; Amount is a pointer so a
// missing amount can be told apart from zero.
type RawTransaction struct {
	TransactionID string   `json:"transaction_id"`
	Amount        *float64 `json:"amount"`
	Currency      string   `json:"iso_currency_code"`
	Date          string   `json:"date"`
	MerchantName  string   `json:"merchant_name"`
	Category      string   `json:"category"`
}

// Purchase is the canonical form of a feed record. Amounts are minor units
// (cents). Immutable once created, kept for history and audit.
type Purchase struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	ExternalID    string    `json:"external_id"`
	MerchantName  string    `json:"merchant"`
	CategoryLabel string    `json:"category"`
	AmountMinor   int64     `json:"amount_minor_units"`
	Currency      string    `json:"currency"`
	RoundUpMinor  int64     `json:"round_up_minor_units"`
	OccurredAt    time.Time `json:"occurred_at"`
	CreatedAt     time.Time `json:"created_at"`
}
