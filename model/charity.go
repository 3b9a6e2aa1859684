package model

import "time"

type Charity struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Mission       string    `json:"mission"`
	Description   string    `json:"description"`
	Rating        float64   `json:"rating"`
	ImpactMetrics []string  `json:"impact_metrics"`
	FinancialInfo string    `json:"financial_info"`
	LogoURL       string    `json:"logo_url"`
	PaymentRef    string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateCharityReq adds a charity to the directory (admin).
// swagger:model CreateCharityReq
type CreateCharityReq struct {
	Name          string   `json:"name" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Mission       string   `json:"mission" validate:"required"`
	Description   string   `json:"description"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	ImpactMetrics []string `json:"impact_metrics"`
	FinancialInfo string   `json:"financial_info"`
	LogoURL       string   `json:"logo_url"`
	PaymentRef    string   `json:"payment_ref"`
}
