package bank

type ExchangeReq struct {
	PublicToken string `json:"public_token" validate:"required"`
}
