package booksvc

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hamiltonroad/checked-out/model"
	bookrepo "github.com/hamiltonroad/checked-out/repository/book"
	"github.com/hamiltonroad/checked-out/service/availability"
	feedbacksvc "github.com/hamiltonroad/checked-out/service/feedback"
	"github.com/hamiltonroad/checked-out/util/profanity"
)

type ErrCode string

const (
	ErrBookNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrBadInput     ErrCode = "BAD_INPUT"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

// Code extracts the error code, or "" for unclassified errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type ListFilter = bookrepo.ListFilter

// Listing is one row of GET /v1/books: the book annotated with its derived
// status and batch rating summary.
type Listing struct {
	model.Book
	Status        model.AvailabilityStatus `json:"status"`
	AverageRating float64                  `json:"average_rating"`
	TotalRatings  int                      `json:"total_ratings"`
}

// Detail is GET /v1/books/:id, with the full copy/checkout snapshot and the
// full rating stats block.
type Detail struct {
	model.Book
	Status model.AvailabilityStatus `json:"status"`
	Copies []model.Copy             `json:"copies"`
	Stats  model.RatingStats        `json:"rating_stats"`
}

type Repo = bookrepo.Repo

type Service interface {
	Create(ctx context.Context, req model.CreateBookReq) (*model.Book, error)
	List(ctx context.Context, f ListFilter) ([]Listing, error)
	Detail(ctx context.Context, id int64) (*Detail, error)
	AddCopies(ctx context.Context, bookID int64, format model.CopyFormat, n int) (int64, error)
}

type service struct {
	r        Repo
	resolver *availability.Resolver
	agg      feedbacksvc.Aggregator
	matcher  *profanity.Matcher
}

func New(r Repo, resolver *availability.Resolver, agg feedbacksvc.Aggregator, matcher *profanity.Matcher) Service {
	return &service{r: r, resolver: resolver, agg: agg, matcher: matcher}
}

// Create stores a new book. The has_profanity flag is derived here, exactly
// once; reads never re-scan the title.
func (s *service) Create(ctx context.Context, req model.CreateBookReq) (*model.Book, error) {
	if req.Title == "" {
		return nil, codedError{code: ErrBadInput, msg: "title is required"}
	}

	b := &model.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Genre:           req.Genre,
		HasProfanity:    s.matcher.Contains(req.Title),
	}
	if err := s.r.Create(ctx, b, req.AuthorIDs); err != nil {
		return nil, err
	}
	return b, nil
}

// List annotates each book with its availability status (resolved fresh from
// the copy/checkout snapshot) and its rating summary. Both annotations come
// from one batch read each, never one query per book.
func (s *service) List(ctx context.Context, f ListFilter) ([]Listing, error) {
	books, err := s.r.List(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}

	copiesByBook, err := s.r.CopiesWithCheckoutsForBooks(ctx, ids)
	if err != nil {
		return nil, err
	}
	summaries, err := s.agg.StatsForBooks(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Listing, len(books))
	for i, b := range books {
		sum := summaries[b.ID]
		out[i] = Listing{
			Book:          b,
			Status:        s.resolver.Resolve(copiesByBook[b.ID]),
			AverageRating: sum.AverageRating,
			TotalRatings:  sum.ReviewCount,
		}
	}
	return out, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*Detail, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, codedError{code: ErrBookNotFound, msg: "book not found"}
		}
		return nil, err
	}

	copies, err := s.r.CopiesWithCheckouts(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.agg.Stats(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Book:   *b,
		Status: s.resolver.Resolve(copies),
		Copies: copies,
		Stats:  *stats,
	}, nil
}

func (s *service) AddCopies(ctx context.Context, bookID int64, format model.CopyFormat, n int) (int64, error) {
	ok, err := s.r.Exists(ctx, bookID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, codedError{code: ErrBookNotFound, msg: "book not found"}
	}
	return s.r.AddCopies(ctx, bookID, format, n)
}
