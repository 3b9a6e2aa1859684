package model

// LedgerState is the per-user round-up accumulator. Version increases by
// exactly one per successful apply and acts as the optimistic-concurrency
// token: a conditional update against a stale version affects zero rows.
type LedgerState struct {
	UserID           int64 `json:"user_id"`
	AccumulatedMinor int64 `json:"accumulated_minor_units"`
	Version          int64 `json:"version"`
}
