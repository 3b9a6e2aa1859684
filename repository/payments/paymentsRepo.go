package paymentsrepo

// SubmitDonationReq asks the payment executor to disburse a donation.
// Amount is in major units as the gateway API expects.
type SubmitDonationReq struct {
	ExternalID  string
	Amount      float64
	CharityRef  string
	Description string
}

type SubmitDonationResp struct {
	PaymentID  string
	ReceiptURL string
	Status     string
}

type Repo interface {
	SubmitDonation(req SubmitDonationReq) (*SubmitDonationResp, error)
	VerifyCallbackSignature(sigHeader string, rawBody []byte) error
}
