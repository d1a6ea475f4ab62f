package checkoutsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hamiltonroad/checked-out/model"
	checkoutrepo "github.com/hamiltonroad/checked-out/repository/checkout"
)

// errors used by controllers

type ErrCode string

const (
	ErrPatronNotFound   ErrCode = "PATRON_NOT_FOUND"
	ErrCopyNotFound     ErrCode = "COPY_NOT_FOUND"
	ErrCheckoutNotFound ErrCode = "CHECKOUT_NOT_FOUND"
	ErrNotOwner         ErrCode = "NOT_OWNER"
	ErrAlreadyReturned  ErrCode = "ALREADY_RETURNED"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func makeErrf(c ErrCode, format string, args ...any) error {
	return codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

// Code extracts the error code, or "" for unclassified errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type PatronRepo interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Repo = checkoutrepo.Repo

type Service interface {
	// Create validates that the patron and copy exist (patron first) and
	// inserts one checkout row due in 14 calendar days.
	Create(ctx context.Context, copyID, patronID int64) (*model.Checkout, error)

	// Return marks an unreturned checkout as returned. Owner-gated.
	Return(ctx context.Context, checkoutID, patronID int64) (*model.Checkout, error)
}

type service struct {
	r  Repo
	pr PatronRepo
}

func New(r Repo, pr PatronRepo) Service { return &service{r: r, pr: pr} }

// Create deliberately does not check that the copy is currently available:
// two concurrent requests for the same copy can both insert unreturned rows.
// Availability is derived at read time by the resolver; serializing checkout
// creation per copy is out of scope here.
func (s *service) Create(ctx context.Context, copyID, patronID int64) (*model.Checkout, error) {
	ok, err := s.pr.Exists(ctx, patronID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErrf(ErrPatronNotFound, "Patron with ID %d not found", patronID)
	}

	ok, err = s.r.CopyExists(ctx, copyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErrf(ErrCopyNotFound, "Copy with ID %d not found", copyID)
	}

	now := time.Now().UTC()
	c := &model.Checkout{
		CopyID:       copyID,
		PatronID:     patronID,
		CheckoutDate: now,
		DueDate:      now.AddDate(0, 0, model.LoanPeriodDays),
	}
	if err := s.r.Insert(ctx, c); err != nil {
		return nil, err
	}

	// Re-read with patron and copy+book attached for the response. This is a
	// second read after the insert, not one atomic operation.
	return s.r.FindWithRelations(ctx, c.ID)
}

func (s *service) Return(ctx context.Context, checkoutID, patronID int64) (*model.Checkout, error) {
	owner, returned, err := s.r.OwnerAndReturnState(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErrf(ErrCheckoutNotFound, "Checkout with ID %d not found", checkoutID)
		}
		return nil, err
	}
	if owner != patronID {
		return nil, makeErrf(ErrNotOwner, "you can only return your own checkouts")
	}
	if returned {
		return nil, makeErrf(ErrAlreadyReturned, "checkout %d is already returned", checkoutID)
	}

	if err := s.r.MarkReturned(ctx, checkoutID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.r.FindWithRelations(ctx, checkoutID)
}
