package donation

import (
	"context"
	"log/slog"
	"time"

	donationrepo "github.com/Kaboom2025/Centive/repository/donation"
)

// Sweeper fails donations that sat PENDING past the executor timeout.
// A Failed donation is terminal and does not refund the ledger.
type Sweeper interface {
	ExpireStalePending(ctx context.Context) (int64, error)
	Run(ctx context.Context, interval time.Duration) error
}

type sweeper struct {
	r       donationrepo.Repo
	timeout time.Duration
	log     *slog.Logger
}

func NewSweeper(r donationrepo.Repo, timeout time.Duration, log *slog.Logger) Sweeper {
	return &sweeper{r: r, timeout: timeout, log: log}
}

func (s *sweeper) ExpireStalePending(ctx context.Context) (int64, error) {
	return s.r.ExpirePending(ctx, time.Now().UTC().Add(-s.timeout))
}

func (s *sweeper) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.ExpireStalePending(ctx)
			if err != nil {
				s.log.Error("donation expiry sweep failed", "err", err)
				continue
			}
			if n > 0 {
				s.log.Info("expired stale pending donations", "count", n)
			}
		}
	}
}
