package model

import "time"

// BankAccount is a linked account at the external aggregator. AccessToken
// and the sync cursor never leave the server.
type BankAccount struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ItemID          string    `json:"-"`
	AccessToken     string    `json:"-"`
	AccountRef      string    `json:"-"`
	InstitutionName string    `json:"institution_name"`
	AccountType     string    `json:"account_type"`
	Mask            string    `json:"mask"`
	SyncCursor      string    `json:"-"`
	ConnectedAt     time.Time `json:"connected_at"`
}
