package charity

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Kaboom2025/Centive/model"
	charityrepo "github.com/Kaboom2025/Centive/repository/charity"
)

var ErrNotFound = errors.New("charity not found")

// CharitySetter writes the per-user selected charity. Implemented by the
// settings repository.
type CharitySetter interface {
	SetCharity(ctx context.Context, userID, charityID int64) error
}

type Service interface {
	Create(ctx context.Context, req model.CreateCharityReq) (*model.Charity, error)
	Get(ctx context.Context, id int64) (*model.Charity, error)
	Search(ctx context.Context, query, category string) ([]model.Charity, error)
	Categories(ctx context.Context) ([]string, error)
	// Select sets the user's charity after validating it exists.
	Select(ctx context.Context, userID, charityID int64) error
}

type service struct {
	r        charityrepo.Repo
	selector CharitySetter
}

func New(r charityrepo.Repo, selector CharitySetter) Service {
	return &service{r: r, selector: selector}
}

func (s *service) Create(ctx context.Context, req model.CreateCharityReq) (*model.Charity, error) {
	c := &model.Charity{
		Name:          strings.TrimSpace(req.Name),
		Category:      strings.TrimSpace(req.Category),
		Mission:       strings.TrimSpace(req.Mission),
		Description:   req.Description,
		Rating:        req.Rating,
		ImpactMetrics: req.ImpactMetrics,
		FinancialInfo: req.FinancialInfo,
		LogoURL:       req.LogoURL,
		PaymentRef:    req.PaymentRef,
	}
	if c.Name == "" || c.Category == "" || c.Mission == "" {
		return nil, errors.New("name, category and mission are required")
	}
	if err := s.r.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Charity, error) {
	c, err := s.r.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *service) Search(ctx context.Context, query, category string) ([]model.Charity, error) {
	return s.r.Search(ctx, strings.TrimSpace(query), strings.TrimSpace(category))
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	return s.r.Categories(ctx)
}

func (s *service) Select(ctx context.Context, userID, charityID int64) error {
	if _, err := s.Get(ctx, charityID); err != nil {
		return err
	}
	return s.selector.SetCharity(ctx, userID, charityID)
}
