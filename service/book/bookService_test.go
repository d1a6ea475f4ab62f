package booksvc

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/hamiltonroad/checked-out/model"
	"github.com/hamiltonroad/checked-out/service/availability"
	feedbacksvc "github.com/hamiltonroad/checked-out/service/feedback"
	"github.com/hamiltonroad/checked-out/util/profanity"
)

type repoMock struct {
	createFn              func(ctx context.Context, b *model.Book, authorIDs []int64) error
	existsFn              func(ctx context.Context, id int64) (bool, error)
	listFn                func(ctx context.Context, f ListFilter) ([]model.Book, error)
	detailFn              func(ctx context.Context, id int64) (*model.Book, error)
	addCopiesFn           func(ctx context.Context, bookID int64, format model.CopyFormat, n int) (int64, error)
	copiesFn              func(ctx context.Context, bookID int64) ([]model.Copy, error)
	copiesForBooksFn      func(ctx context.Context, bookIDs []int64) (map[int64][]model.Copy, error)
}

func (m *repoMock) Create(ctx context.Context, b *model.Book, authorIDs []int64) error {
	return m.createFn(ctx, b, authorIDs)
}
func (m *repoMock) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existsFn(ctx, id)
}
func (m *repoMock) List(ctx context.Context, f ListFilter) ([]model.Book, error) {
	return m.listFn(ctx, f)
}
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	return m.detailFn(ctx, id)
}
func (m *repoMock) AddCopies(ctx context.Context, bookID int64, format model.CopyFormat, n int) (int64, error) {
	return m.addCopiesFn(ctx, bookID, format, n)
}
func (m *repoMock) CopiesWithCheckouts(ctx context.Context, bookID int64) ([]model.Copy, error) {
	return m.copiesFn(ctx, bookID)
}
func (m *repoMock) CopiesWithCheckoutsForBooks(ctx context.Context, bookIDs []int64) (map[int64][]model.Copy, error) {
	return m.copiesForBooksFn(ctx, bookIDs)
}

type statsRepoStub struct {
	groups map[int64]feedbacksvc.RatingGroup
}

func (s *statsRepoStub) RatingBuckets(ctx context.Context, bookID int64) (map[int]int, error) {
	return map[int]int{}, nil
}
func (s *statsRepoStub) RatingGroups(ctx context.Context, bookIDs []int64) ([]feedbacksvc.RatingGroup, error) {
	out := make([]feedbacksvc.RatingGroup, 0, len(s.groups))
	for _, id := range bookIDs {
		if g, ok := s.groups[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func newService(r Repo, groups map[int64]feedbacksvc.RatingGroup) Service {
	return New(r,
		availability.New(nil),
		feedbacksvc.NewAggregator(&statsRepoStub{groups: groups}),
		profanity.New(),
	)
}

func TestCreateSetsProfanityFlag(t *testing.T) {
	var stored *model.Book
	s := newService(&repoMock{
		createFn: func(ctx context.Context, b *model.Book, authorIDs []int64) error {
			b.ID = 1
			stored = b
			return nil
		},
	}, nil)

	_, err := s.Create(context.Background(), model.CreateBookReq{Title: "What the hell happened"})
	require.NoError(t, err)
	require.True(t, stored.HasProfanity)
}

func TestCreateWholeWordOnly(t *testing.T) {
	var stored *model.Book
	s := newService(&repoMock{
		createFn: func(ctx context.Context, b *model.Book, authorIDs []int64) error {
			stored = b
			return nil
		},
	}, nil)

	// "assassin" contains "ass" as a substring but not as a word
	_, err := s.Create(context.Background(), model.CreateBookReq{Title: "The Assassin's Creed"})
	require.NoError(t, err)
	require.False(t, stored.HasProfanity)
}

func TestCreateEmptyTitle(t *testing.T) {
	s := newService(&repoMock{}, nil)

	_, err := s.Create(context.Background(), model.CreateBookReq{})
	require.Equal(t, ErrBadInput, Code(err))
}

func TestListAnnotatesEveryBook(t *testing.T) {
	s := newService(&repoMock{
		listFn: func(ctx context.Context, f ListFilter) ([]model.Book, error) {
			return []model.Book{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, nil
		},
		copiesForBooksFn: func(ctx context.Context, bookIDs []int64) (map[int64][]model.Copy, error) {
			// book 1 has one copy out, book 2 has no copies at all
			return map[int64][]model.Copy{
				1: {{ID: 10, BookID: 1, Checkouts: []model.Checkout{{ID: 100}}}},
			}, nil
		},
	}, map[int64]feedbacksvc.RatingGroup{
		1: {BookID: 1, AverageRating: 4.5, Count: 2},
	})

	out, err := s.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Equal(t, model.StatusCheckedOut, out[0].Status)
	require.Equal(t, 4.5, out[0].AverageRating)
	require.Equal(t, 2, out[0].TotalRatings)

	// no copies and no ratings: still annotated, never missing
	require.Equal(t, model.StatusAvailable, out[1].Status)
	require.Zero(t, out[1].AverageRating)
	require.Zero(t, out[1].TotalRatings)
}

func TestDetailNotFound(t *testing.T) {
	s := newService(&repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return nil, pgx.ErrNoRows
		},
	}, nil)

	_, err := s.Detail(context.Background(), 404)
	require.Equal(t, ErrBookNotFound, Code(err))
}

func TestDetailResolvesStatus(t *testing.T) {
	s := newService(&repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "x"}, nil
		},
		copiesFn: func(ctx context.Context, bookID int64) ([]model.Copy, error) {
			return []model.Copy{{ID: 1, BookID: bookID}}, nil
		},
	}, nil)

	d, err := s.Detail(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, model.StatusAvailable, d.Status)
	require.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, d.Stats.Distribution)
}

func TestAddCopiesUnknownBook(t *testing.T) {
	s := newService(&repoMock{
		existsFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}, nil)

	_, err := s.AddCopies(context.Background(), 9, model.FormatPhysical, 3)
	require.Equal(t, ErrBookNotFound, Code(err))
}
