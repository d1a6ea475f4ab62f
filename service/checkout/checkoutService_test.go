package checkoutsvc

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/hamiltonroad/checked-out/model"
)

type patronRepoMock struct {
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *patronRepoMock) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existsFn(ctx, id)
}

type repoMock struct {
	copyExistsFn          func(ctx context.Context, id int64) (bool, error)
	insertFn              func(ctx context.Context, c *model.Checkout) error
	findWithRelationsFn   func(ctx context.Context, id int64) (*model.Checkout, error)
	ownerAndReturnStateFn func(ctx context.Context, id int64) (int64, bool, error)
	markReturnedFn        func(ctx context.Context, id int64, at time.Time) error
}

func (m *repoMock) CopyExists(ctx context.Context, id int64) (bool, error) {
	return m.copyExistsFn(ctx, id)
}
func (m *repoMock) Insert(ctx context.Context, c *model.Checkout) error {
	return m.insertFn(ctx, c)
}
func (m *repoMock) FindWithRelations(ctx context.Context, id int64) (*model.Checkout, error) {
	return m.findWithRelationsFn(ctx, id)
}
func (m *repoMock) OwnerAndReturnState(ctx context.Context, id int64) (int64, bool, error) {
	return m.ownerAndReturnStateFn(ctx, id)
}
func (m *repoMock) MarkReturned(ctx context.Context, id int64, at time.Time) error {
	return m.markReturnedFn(ctx, id, at)
}

func TestCreateUnknownPatron(t *testing.T) {
	copyLookups := 0
	s := New(
		&repoMock{
			copyExistsFn: func(ctx context.Context, id int64) (bool, error) {
				copyLookups++
				return true, nil
			},
		},
		&patronRepoMock{existsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		}},
	)

	_, err := s.Create(context.Background(), 1, 999)
	require.Error(t, err)
	require.Equal(t, ErrPatronNotFound, Code(err))
	require.Equal(t, "Patron with ID 999 not found", err.Error())
	// patron is validated before the copy is even looked up
	require.Zero(t, copyLookups)
}

func TestCreateUnknownCopy(t *testing.T) {
	s := New(
		&repoMock{
			copyExistsFn: func(ctx context.Context, id int64) (bool, error) {
				return false, nil
			},
		},
		&patronRepoMock{existsFn: func(ctx context.Context, id int64) (bool, error) {
			return true, nil
		}},
	)

	_, err := s.Create(context.Background(), 404, 1)
	require.Equal(t, ErrCopyNotFound, Code(err))
}

func TestCreateLoanPeriod(t *testing.T) {
	var inserted *model.Checkout
	s := New(
		&repoMock{
			copyExistsFn: func(ctx context.Context, id int64) (bool, error) {
				return true, nil
			},
			insertFn: func(ctx context.Context, c *model.Checkout) error {
				c.ID = 42
				inserted = c
				return nil
			},
			findWithRelationsFn: func(ctx context.Context, id int64) (*model.Checkout, error) {
				require.Equal(t, int64(42), id)
				return &model.Checkout{
					ID:       id,
					CopyID:   inserted.CopyID,
					PatronID: inserted.PatronID,
					DueDate:  inserted.DueDate,
					Patron:   &model.Patron{ID: inserted.PatronID},
					Copy:     &model.Copy{ID: inserted.CopyID, Book: &model.Book{ID: 7}},
				}, nil
			},
		},
		&patronRepoMock{existsFn: func(ctx context.Context, id int64) (bool, error) {
			return true, nil
		}},
	)

	before := time.Now().UTC()
	out, err := s.Create(context.Background(), 3, 5)
	after := time.Now().UTC()
	require.NoError(t, err)
	require.NotNil(t, inserted)

	// due date is exactly 14 calendar days after the checkout date
	require.Equal(t, inserted.CheckoutDate.AddDate(0, 0, 14), inserted.DueDate)
	require.False(t, inserted.CheckoutDate.Before(before))
	require.False(t, inserted.CheckoutDate.After(after))
	require.Nil(t, inserted.ReturnDate)

	// response comes from the relation-loaded re-read
	require.Equal(t, int64(42), out.ID)
	require.NotNil(t, out.Patron)
	require.NotNil(t, out.Copy)
	require.NotNil(t, out.Copy.Book)
}

func TestCreateNoAvailabilityGate(t *testing.T) {
	// An already-checked-out copy does not block a new checkout; the write
	// path never consults availability.
	inserts := 0
	s := New(
		&repoMock{
			copyExistsFn: func(ctx context.Context, id int64) (bool, error) {
				return true, nil
			},
			insertFn: func(ctx context.Context, c *model.Checkout) error {
				c.ID = int64(100 + inserts)
				inserts++
				return nil
			},
			findWithRelationsFn: func(ctx context.Context, id int64) (*model.Checkout, error) {
				return &model.Checkout{ID: id}, nil
			},
		},
		&patronRepoMock{existsFn: func(ctx context.Context, id int64) (bool, error) {
			return true, nil
		}},
	)

	_, err := s.Create(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = s.Create(context.Background(), 1, 11)
	require.NoError(t, err)
	require.Equal(t, 2, inserts)
}

func TestReturnNotFound(t *testing.T) {
	s := New(
		&repoMock{
			ownerAndReturnStateFn: func(ctx context.Context, id int64) (int64, bool, error) {
				return 0, false, pgx.ErrNoRows
			},
		},
		&patronRepoMock{},
	)

	_, err := s.Return(context.Background(), 9, 1)
	require.Equal(t, ErrCheckoutNotFound, Code(err))
}

func TestReturnWrongOwner(t *testing.T) {
	s := New(
		&repoMock{
			ownerAndReturnStateFn: func(ctx context.Context, id int64) (int64, bool, error) {
				return 7, false, nil
			},
		},
		&patronRepoMock{},
	)

	_, err := s.Return(context.Background(), 9, 8)
	require.Equal(t, ErrNotOwner, Code(err))
}

func TestReturnTwice(t *testing.T) {
	s := New(
		&repoMock{
			ownerAndReturnStateFn: func(ctx context.Context, id int64) (int64, bool, error) {
				return 7, true, nil
			},
		},
		&patronRepoMock{},
	)

	_, err := s.Return(context.Background(), 9, 7)
	require.Equal(t, ErrAlreadyReturned, Code(err))
}

func TestReturnMarksAndReloads(t *testing.T) {
	marked := false
	s := New(
		&repoMock{
			ownerAndReturnStateFn: func(ctx context.Context, id int64) (int64, bool, error) {
				return 7, false, nil
			},
			markReturnedFn: func(ctx context.Context, id int64, at time.Time) error {
				require.Equal(t, int64(9), id)
				require.False(t, at.IsZero())
				marked = true
				return nil
			},
			findWithRelationsFn: func(ctx context.Context, id int64) (*model.Checkout, error) {
				now := time.Now().UTC()
				return &model.Checkout{ID: id, PatronID: 7, ReturnDate: &now}, nil
			},
		},
		&patronRepoMock{},
	)

	out, err := s.Return(context.Background(), 9, 7)
	require.NoError(t, err)
	require.True(t, marked)
	require.NotNil(t, out.ReturnDate)
}
