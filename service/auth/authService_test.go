package authsvc

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/hamiltonroad/checked-out/model"
	"github.com/hamiltonroad/checked-out/util/hash"
	jwtutil "github.com/hamiltonroad/checked-out/util/jwt"
)

const testSecret = "test-secret"

type patronRepoMock struct {
	createFn       func(ctx context.Context, p *model.Patron) error
	byIDFn         func(ctx context.Context, id int64) (*model.Patron, error)
	byCardNumberFn func(ctx context.Context, cardNumber string) (*model.Patron, error)
	existsFn       func(ctx context.Context, id int64) (bool, error)
}

func (m *patronRepoMock) Create(ctx context.Context, p *model.Patron) error {
	return m.createFn(ctx, p)
}
func (m *patronRepoMock) ByID(ctx context.Context, id int64) (*model.Patron, error) {
	return m.byIDFn(ctx, id)
}
func (m *patronRepoMock) ByCardNumber(ctx context.Context, cardNumber string) (*model.Patron, error) {
	return m.byCardNumberFn(ctx, cardNumber)
}
func (m *patronRepoMock) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existsFn(ctx, id)
}

func TestRegisterHashesAndIssuesToken(t *testing.T) {
	var stored *model.Patron
	s := New(&patronRepoMock{
		createFn: func(ctx context.Context, p *model.Patron) error {
			p.ID = 7
			stored = p
			return nil
		},
	}, testSecret)

	p, token, err := s.Register(context.Background(), model.RegisterReq{
		CardNumber: "LIB-001",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "Ada@Example.COM",
		Password:   "s3cret",
	})
	require.NoError(t, err)
	require.Equal(t, model.PatronActive, p.Status)
	require.Equal(t, "ada@example.com", p.Email)

	// never stores the plaintext
	require.NotEqual(t, "s3cret", stored.PasswordHash)
	require.True(t, hash.Check(stored.PasswordHash, "s3cret"))

	claims, err := jwtutil.ParseAuth(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, float64(7), claims["sub"])
	require.Equal(t, "patron", claims["role"])
}

func TestRegisterDuplicateCard(t *testing.T) {
	s := New(&patronRepoMock{
		createFn: func(ctx context.Context, p *model.Patron) error {
			return &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "patrons_card_number_key",
			}
		},
	}, testSecret)

	_, _, err := s.Register(context.Background(), model.RegisterReq{CardNumber: "LIB-001"})
	require.ErrorIs(t, err, ErrCardTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := New(&patronRepoMock{
		createFn: func(ctx context.Context, p *model.Patron) error {
			return &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "patrons_email_key",
			}
		},
	}, testSecret)

	_, _, err := s.Register(context.Background(), model.RegisterReq{Email: "a@b.c"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	hashed, err := hash.HashPassword("right")
	require.NoError(t, err)

	s := New(&patronRepoMock{
		byCardNumberFn: func(ctx context.Context, cardNumber string) (*model.Patron, error) {
			return &model.Patron{ID: 1, PasswordHash: hashed, Status: model.PatronActive}, nil
		},
	}, testSecret)

	_, _, err = s.Login(context.Background(), model.LoginReq{CardNumber: "LIB-001", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCreds)
}

func TestLoginSuspendedPatron(t *testing.T) {
	hashed, err := hash.HashPassword("s3cret")
	require.NoError(t, err)

	s := New(&patronRepoMock{
		byCardNumberFn: func(ctx context.Context, cardNumber string) (*model.Patron, error) {
			return &model.Patron{ID: 1, PasswordHash: hashed, Status: model.PatronSuspended}, nil
		},
	}, testSecret)

	_, _, err = s.Login(context.Background(), model.LoginReq{CardNumber: "LIB-001", Password: "s3cret"})
	require.ErrorIs(t, err, ErrPatronBlocked)
}

func TestLoginSuccess(t *testing.T) {
	hashed, err := hash.HashPassword("s3cret")
	require.NoError(t, err)

	s := New(&patronRepoMock{
		byCardNumberFn: func(ctx context.Context, cardNumber string) (*model.Patron, error) {
			require.Equal(t, "LIB-001", cardNumber)
			return &model.Patron{ID: 5, PasswordHash: hashed, Status: model.PatronActive}, nil
		},
	}, testSecret)

	p, token, err := s.Login(context.Background(), model.LoginReq{CardNumber: "LIB-001", Password: "s3cret"})
	require.NoError(t, err)
	require.Equal(t, int64(5), p.ID)

	claims, err := jwtutil.ParseAuth("Bearer "+token, testSecret)
	require.NoError(t, err)
	require.Equal(t, float64(5), claims["sub"])
}
