package model

// MinorUnitsPerWhole is the minor-unit scale for supported currencies.
const MinorUnitsPerWhole = 100

// RoundUpPolicy controls how purchase round-ups accumulate. Threshold is
// the accumulated amount that triggers a donation; multiplier scales each
// round-up increment. While paused, purchases are still recorded but their
// round-ups do not accumulate.
type RoundUpPolicy struct {
	ThresholdMinor int64 `json:"threshold_minor_units"`
	Multiplier     int   `json:"multiplier"`
	Paused         bool  `json:"paused"`
}

type NotificationPrefs struct {
	Transactions   bool   `json:"transactions"`
	Donations      bool   `json:"donations"`
	MonthlyReports bool   `json:"monthly_reports"`
	Method         string `json:"method"`
}

type Preferences struct {
	UserID        int64             `json:"user_id"`
	Policy        RoundUpPolicy     `json:"policy"`
	Notifications NotificationPrefs `json:"notifications"`
	CharityID     *int64            `json:"charity_id,omitempty"`
}

// UpdatePreferencesReq is a typed partial update: nil fields are left
// untouched, set fields are validated individually.
// swagger:model UpdatePreferencesReq
type UpdatePreferencesReq struct {
	ThresholdMinorUnits  *int64  `json:"threshold_minor_units" validate:"omitempty,gte=500,lte=5000"`
	Multiplier           *int    `json:"multiplier" validate:"omitempty,gte=1,lte=5"`
	Paused               *bool   `json:"paused"`
	NotifyTransactions   *bool   `json:"notify_transactions"`
	NotifyDonations      *bool   `json:"notify_donations"`
	NotifyMonthlyReports *bool   `json:"notify_monthly_reports"`
	NotifyMethod         *string `json:"notify_method" validate:"omitempty,oneof=email app both"`
}
