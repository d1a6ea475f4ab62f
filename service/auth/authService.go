package authsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hamiltonroad/checked-out/model"
	patronrepo "github.com/hamiltonroad/checked-out/repository/patron"
	"github.com/hamiltonroad/checked-out/util/hash"
	jwtutil "github.com/hamiltonroad/checked-out/util/jwt"
)

var (
	ErrCardTaken     = errors.New("card number already registered")
	ErrEmailTaken    = errors.New("email already registered")
	ErrBadInput      = errors.New("bad input")
	ErrInvalidCreds  = errors.New("invalid credentials")
	ErrPatronBlocked = errors.New("patron is not active")
)

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.Patron, string, error)
	// Login authenticates by card number. Only active patrons may
	// authenticate; inactive and suspended cards are rejected.
	Login(ctx context.Context, req model.LoginReq) (*model.Patron, string, error)
}

type service struct {
	pr     patronrepo.Repo
	secret string
}

func New(pr patronrepo.Repo, secret string) Service {
	return &service{pr: pr, secret: secret}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.Patron, string, error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	p := &model.Patron{
		CardNumber:   req.CardNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashed,
		Status:       model.PatronActive,
	}
	if err := s.pr.Create(ctx, p); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, p.ID, "patron", 24)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.Patron, string, error) {
	p, err := s.pr.ByCardNumber(ctx, req.CardNumber)
	if err != nil {
		return nil, "", ErrInvalidCreds
	}
	if !hash.Check(p.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCreds
	}
	if p.Status != model.PatronActive {
		return nil, "", ErrPatronBlocked
	}

	token, err := jwtutil.Issue(s.secret, p.ID, "patron", 24)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "card_number") || strings.Contains(msg, "card_number") {
			return ErrCardTaken
		}
		if strings.Contains(cn, "email") || strings.Contains(msg, "email") {
			return ErrEmailTaken
		}
		return ErrBadInput
	}
	return nil
}
