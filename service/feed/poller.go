package feed

import (
	"context"
	"log/slog"
	"time"

	bankrepo "github.com/Kaboom2025/Centive/repository/bank"
)

// Poller periodically syncs every linked bank account through the feed
// service. Errors on one account do not stop the sweep.
type Poller struct {
	banks bankrepo.Repo
	feed  Service
	log   *slog.Logger
}

func NewPoller(banks bankrepo.Repo, feed Service, log *slog.Logger) *Poller {
	return &Poller{banks: banks, feed: feed, log: log}
}

func (p *Poller) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

func (p *Poller) sweep(ctx context.Context) {
	accounts, err := p.banks.ListAll(ctx)
	if err != nil {
		p.log.Error("feed sweep: list accounts failed", "err", err)
		return
	}
	for i := range accounts {
		acct := &accounts[i]
		n, err := p.feed.SyncAccount(ctx, acct)
		if err != nil {
			p.log.Error("feed sweep: account sync failed", "err", err, "account_id", acct.ID, "user_id", acct.UserID)
			continue
		}
		if n > 0 {
			p.log.Info("feed sweep: applied transactions", "account_id", acct.ID, "count", n)
		}
	}
}
