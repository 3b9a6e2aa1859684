package normalizer

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/Kaboom2025/Centive/model"
	"github.com/google/uuid"
)

// errors used by controllers

type ErrCode string

const (
	ErrMalformed ErrCode = "MALFORMED_TRANSACTION"
)

type codedError struct {
	code  ErrCode
	field string
}

func (e codedError) Error() string { return string(e.code) + ": " + e.field }
func (e codedError) Code() ErrCode { return e.code }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Field names the offending input field of a malformed record.
func Field(err error) string {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.field
	}
	return ""
}

// Normalize converts a raw feed record into a canonical Purchase. Amounts
// arrive in major units and are converted to minor units. Pure: no side
// effects, extra feed fields are ignored by decoding.
func Normalize(userID int64, raw model.RawTransaction) (*model.Purchase, error) {
	if raw.TransactionID == "" {
		return nil, codedError{code: ErrMalformed, field: "transaction_id"}
	}
	if raw.Amount == nil {
		return nil, codedError{code: ErrMalformed, field: "amount"}
	}
	amt := *raw.Amount
	if amt < 0 || math.IsNaN(amt) || math.IsInf(amt, 0) {
		return nil, codedError{code: ErrMalformed, field: "amount"}
	}
	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency == "" {
		return nil, codedError{code: ErrMalformed, field: "iso_currency_code"}
	}

	occurredAt := time.Now().UTC()
	if raw.Date != "" {
		t, err := time.Parse("2006-01-02", raw.Date)
		if err != nil {
			return nil, codedError{code: ErrMalformed, field: "date"}
		}
		occurredAt = t
	}

	merchant := strings.TrimSpace(raw.MerchantName)
	if merchant == "" {
		merchant = "Unknown"
	}

	return &model.Purchase{
		ID:            uuid.NewString(),
		UserID:        userID,
		ExternalID:    raw.TransactionID,
		MerchantName:  merchant,
		CategoryLabel: strings.TrimSpace(raw.Category),
		AmountMinor:   int64(math.Round(amt * model.MinorUnitsPerWhole)),
		Currency:      currency,
		OccurredAt:    occurredAt,
	}, nil
}

// Increment computes the round-up for a purchase under the given policy:
// the distance to the next whole unit, scaled by the multiplier. A
// whole-unit amount yields zero, not a full unit.
func Increment(amountMinor int64, pol model.RoundUpPolicy) int64 {
	rem := amountMinor % model.MinorUnitsPerWhole
	if rem == 0 {
		return 0
	}
	return (model.MinorUnitsPerWhole - rem) * int64(pol.Multiplier)
}
