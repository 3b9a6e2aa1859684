package donation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kaboom2025/Centive/model"
	donationrepo "github.com/Kaboom2025/Centive/repository/donation"
	"github.com/Kaboom2025/Centive/repository/notify"
	paymentsrepo "github.com/Kaboom2025/Centive/repository/payments"
)

type ErrCode string

const (
	ErrPaymentExecutionFailed ErrCode = "PAYMENT_EXECUTION_FAILED"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return string(e.code) + ": " + e.msg }
func (e codedError) Code() ErrCode { return e.code }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Stats struct {
	TotalDonatedMinor int64 `json:"total_donated_minor_units"`
	DonationCount     int64 `json:"donation_count"`
}

// CharitySource resolves the payment rail reference of a charity.
// Implemented by the charity repository.
type CharitySource interface {
	Get(ctx context.Context, id int64) (*model.Charity, error)
}

// PrefsSource gates notification publishing per user preference.
// Implemented by the settings repository.
type PrefsSource interface {
	Notifications(ctx context.Context, userID int64) (model.NotificationPrefs, error)
}

type Publisher interface {
	PublishDonationEvent(ctx context.Context, ev notify.DonationEvent) error
}

type Service interface {
	// Submit hands a committed pending donation to the payment executor.
	// The donation stays PENDING on submission failure; the expiry sweep
	// eventually fails it.
	Submit(ctx context.Context, d model.Donation) error
	HandleCallback(ctx context.Context, sigHeader string, raw []byte) error
	History(ctx context.Context, userID int64) ([]model.Donation, error)
	Stats(ctx context.Context, userID int64) (*Stats, error)
}

type service struct {
	r         donationrepo.Repo
	x         paymentsrepo.Repo
	charities CharitySource
	prefs     PrefsSource
	pub       Publisher
	log       *slog.Logger
}

func New(r donationrepo.Repo, x paymentsrepo.Repo, charities CharitySource, prefs PrefsSource, pub Publisher, log *slog.Logger) Service {
	return &service{r: r, x: x, charities: charities, prefs: prefs, pub: pub, log: log}
}

func (s *service) Submit(ctx context.Context, d model.Donation) error {
	charity, err := s.charities.Get(ctx, d.CharityID)
	if err != nil {
		return err
	}

	resp, err := s.x.SubmitDonation(paymentsrepo.SubmitDonationReq{
		ExternalID:  d.ID,
		Amount:      float64(d.AmountMinor) / model.MinorUnitsPerWhole,
		CharityRef:  charity.PaymentRef,
		Description: "Round-up donation to " + charity.Name,
	})
	if err != nil {
		return codedError{code: ErrPaymentExecutionFailed, msg: err.Error()}
	}
	if err := s.r.SetPaymentRef(ctx, d.ID, resp.PaymentID, resp.ReceiptURL); err != nil {
		return err
	}

	s.notify(ctx, "created", d)
	return nil
}

type callbackEvent struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
}

func (s *service) HandleCallback(ctx context.Context, sigHeader string, raw []byte) error {
	if err := s.x.VerifyCallbackSignature(sigHeader, raw); err != nil {
		return err
	}

	var ev callbackEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("bad callback json: %w", err)
	}
	if ev.ExternalID == "" || ev.Status == "" {
		return errors.New("missing callback fields")
	}

	var status model.DonationStatus
	switch ev.Status {
	case "COMPLETED", "SUCCEEDED":
		status = model.DonationCompleted
	case "FAILED", "EXPIRED":
		status = model.DonationFailed
	default:
		// PENDING and other interim statuses carry no transition
		return nil
	}

	transitioned, err := s.r.MarkSettled(ctx, ev.ExternalID, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if !transitioned {
		// replayed callback or already-terminal donation
		s.log.Info("callback ignored, donation not pending", "donation_id", ev.ExternalID, "status", ev.Status)
		return nil
	}

	d, err := s.r.FindByID(ctx, ev.ExternalID)
	if err != nil {
		return err
	}
	if status == model.DonationCompleted {
		s.notify(ctx, "completed", *d)
	} else {
		s.notify(ctx, "failed", *d)
	}
	return nil
}

func (s *service) notify(ctx context.Context, kind string, d model.Donation) {
	prefs, err := s.prefs.Notifications(ctx, d.UserID)
	if err != nil {
		s.log.Error("load notification prefs failed", "err", err, "user_id", d.UserID)
		return
	}
	if !prefs.Donations {
		return
	}
	ev := notify.DonationEvent{
		Kind:        kind,
		DonationID:  d.ID,
		UserID:      d.UserID,
		CharityID:   d.CharityID,
		AmountMinor: d.AmountMinor,
		Method:      prefs.Method,
	}
	if err := s.pub.PublishDonationEvent(ctx, ev); err != nil {
		s.log.Error("publish donation event failed", "err", err, "donation_id", d.ID)
	}
}

func (s *service) History(ctx context.Context, userID int64) ([]model.Donation, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) Stats(ctx context.Context, userID int64) (*Stats, error) {
	total, count, err := s.r.TotalsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Stats{TotalDonatedMinor: total, DonationCount: count}, nil
}
