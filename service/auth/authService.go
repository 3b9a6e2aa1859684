package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Kaboom2025/Centive/model"
	ledgerrepo "github.com/Kaboom2025/Centive/repository/ledger"
	settingsrepo "github.com/Kaboom2025/Centive/repository/settings"
	userrepo "github.com/Kaboom2025/Centive/repository/user"
	"github.com/Kaboom2025/Centive/util/hash"
	jwtutil "github.com/Kaboom2025/Centive/util/jwt"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrBadInput      = errors.New("bad input")
	ErrInvalidCreds  = errors.New("invalid credentials")
	ErrUsernameTaken = errors.New("username already taken")
)

type Service interface {
	// Register onboards a user: the user row, a zero round-up ledger and
	// default preferences commit in one transaction.
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
}

type service struct {
	db       *sql.DB
	users    userrepo.Repo
	ledgers  ledgerrepo.Repo
	settings settingsrepo.Repo
	secret   string
}

func New(db *sql.DB, users userrepo.Repo, ledgers ledgerrepo.Repo, settings settingsrepo.Repo, secret string) Service {
	return &service{db: db, users: users, ledgers: ledgers, settings: settings, secret: secret}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (_ *model.User, _ string, err error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hashed,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.users.Create(ctx, tx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			err = derr
		}
		return nil, "", err
	}
	if err = s.ledgers.Create(ctx, tx, u.ID); err != nil {
		return nil, "", err
	}
	if err = s.settings.CreateDefaults(ctx, tx, u.ID); err != nil {
		return nil, "", err
	}
	if err = tx.Commit(); err != nil {
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, "user", 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "users_email") || strings.Contains(msg, "email") {
			return ErrEmailTaken
		}
		if strings.Contains(cn, "users_username") || strings.Contains(msg, "username") {
			return ErrUsernameTaken
		}
		return ErrBadInput
	}
	return nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.users.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", ErrInvalidCreds
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCreds
	}
	token, err := jwtutil.Issue(s.secret, u.ID, "user", 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
