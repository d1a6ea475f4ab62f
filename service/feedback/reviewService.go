package feedbacksvc

import (
	"context"

	"github.com/hamiltonroad/checked-out/model"
)

type ReviewRepo interface {
	InsertReview(ctx context.Context, rv *model.Review) error
	GetReview(ctx context.Context, bookID, patronID int64) (*model.Review, error)
	GetReviewByID(ctx context.Context, id int64) (*model.Review, error)
	UpdateReview(ctx context.Context, id int64, rating int, reviewText *string) (*model.Review, error)
	DeleteReview(ctx context.Context, id int64) error
	ListReviewsByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Review, int, error)
}

// ReviewService owns the insert-once feedback path: a second review for the
// same (book, patron) pair is a conflict, and edits/deletes are owner-gated.
type ReviewService interface {
	Create(ctx context.Context, bookID, patronID int64, rating int, reviewText *string) (*model.Review, error)
	Update(ctx context.Context, reviewID, patronID int64, rating int, reviewText *string) (*model.Review, error)
	Delete(ctx context.Context, reviewID, patronID int64) error
	ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Review, int, error)
}

type reviewService struct {
	r  ReviewRepo
	br BookRepo
	pr PatronRepo
}

func NewReviewService(r ReviewRepo, br BookRepo, pr PatronRepo) ReviewService {
	return &reviewService{r: r, br: br, pr: pr}
}

func (s *reviewService) Create(ctx context.Context, bookID, patronID int64, rating int, reviewText *string) (*model.Review, error) {
	ok, err := s.br.Exists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErrf(ErrBookNotFound, "Book with ID %d not found", bookID)
	}

	ok, err = s.pr.Exists(ctx, patronID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErrf(ErrPatronNotFound, "Patron with ID %d not found", patronID)
	}

	existing, err := s.r.GetReview(ctx, bookID, patronID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, makeErrf(ErrDuplicateReview, "you have already reviewed this book")
	}

	rv := &model.Review{
		BookID:     bookID,
		PatronID:   patronID,
		Rating:     rating,
		ReviewText: reviewText,
	}
	if err := s.r.InsertReview(ctx, rv); err != nil {
		// Lost the race to a concurrent first review: the unique constraint
		// is the safety net, and it means conflict, not a generic failure.
		if isUniqueViolation(err) {
			return nil, makeErrf(ErrDuplicateReview, "you have already reviewed this book")
		}
		return nil, err
	}
	return rv, nil
}

func (s *reviewService) Update(ctx context.Context, reviewID, patronID int64, rating int, reviewText *string) (*model.Review, error) {
	rv, err := s.r.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return nil, makeErrf(ErrReviewNotFound, "Review with ID %d not found", reviewID)
	}
	if rv.PatronID != patronID {
		return nil, makeErrf(ErrNotOwner, "you can only edit your own reviews")
	}
	return s.r.UpdateReview(ctx, reviewID, rating, reviewText)
}

func (s *reviewService) Delete(ctx context.Context, reviewID, patronID int64) error {
	rv, err := s.r.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rv == nil {
		return makeErrf(ErrReviewNotFound, "Review with ID %d not found", reviewID)
	}
	if rv.PatronID != patronID {
		return makeErrf(ErrNotOwner, "you can only delete your own reviews")
	}
	return s.r.DeleteReview(ctx, reviewID)
}

func (s *reviewService) ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Review, int, error) {
	ok, err := s.br.Exists(ctx, bookID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, makeErrf(ErrBookNotFound, "Book with ID %d not found", bookID)
	}
	return s.r.ListReviewsByBook(ctx, bookID, limit, offset)
}
