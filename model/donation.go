package model

import "time"

type DonationStatus string

const (
	DonationPending   DonationStatus = "PENDING"
	DonationCompleted DonationStatus = "COMPLETED"
	DonationFailed    DonationStatus = "FAILED"
)

// Donation is created when the accumulated round-ups cross the threshold.
// Amount equals the threshold in effect at trigger time. Completed and
// Failed are terminal.
type Donation struct {
	ID          string         `json:"id"`
	UserID      int64          `json:"user_id"`
	CharityID   int64          `json:"charity_id"`
	CharityName string         `json:"charity,omitempty"`
	AmountMinor int64          `json:"amount_minor_units"`
	Status      DonationStatus `json:"status"`
	PaymentRef  *string        `json:"payment_ref,omitempty"`
	ReceiptURL  *string        `json:"receipt_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	SettledAt   *time.Time     `json:"settled_at,omitempty"`
}
