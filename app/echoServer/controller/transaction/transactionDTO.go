package transaction

import "github.com/Kaboom2025/Centive/model"

type FeedReq struct {
	Transactions []model.RawTransaction `json:"transactions" validate:"required,min=1,max=500"`
}
