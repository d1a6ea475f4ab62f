package feedbacksvc

import (
	"context"

	"github.com/hamiltonroad/checked-out/model"
)

type BookRepo interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type PatronRepo interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type RatingRepo interface {
	GetRating(ctx context.Context, bookID, patronID int64) (*model.Rating, error)
	InsertRating(ctx context.Context, rt *model.Rating) error
	UpdateRating(ctx context.Context, bookID, patronID int64, rating int, reviewText *string) (*model.Rating, error)
	DeleteRating(ctx context.Context, bookID, patronID int64) (bool, error)
	ListRatingsByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Rating, error)
	ListRatingsByPatron(ctx context.Context, patronID int64, limit, offset int) ([]model.Rating, error)
}

// RatingService owns the upsert feedback path: a patron's first submission
// for a book inserts, any resubmission updates the same row in place.
type RatingService interface {
	Submit(ctx context.Context, bookID, patronID int64, rating int, reviewText *string) (*model.Rating, error)
	ForBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Rating, *model.RatingStats, error)
	ForPatron(ctx context.Context, patronID int64, limit, offset int) ([]model.Rating, error)
	Mine(ctx context.Context, bookID, patronID int64) (*model.Rating, error)
	Delete(ctx context.Context, bookID, patronID, requesterID int64) error
}

type ratingService struct {
	r   RatingRepo
	br  BookRepo
	pr  PatronRepo
	agg Aggregator
}

func NewRatingService(r RatingRepo, br BookRepo, pr PatronRepo, agg Aggregator) RatingService {
	return &ratingService{r: r, br: br, pr: pr, agg: agg}
}

func (s *ratingService) Submit(ctx context.Context, bookID, patronID int64, rating int, reviewText *string) (*model.Rating, error) {
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

	existing, err := s.r.GetRating(ctx, bookID, patronID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.r.UpdateRating(ctx, bookID, patronID, rating, reviewText)
	}

	rt := &model.Rating{
		BookID:     bookID,
		PatronID:   patronID,
		Rating:     rating,
		ReviewText: reviewText,
	}
	if err := s.r.InsertRating(ctx, rt); err != nil {
		// A concurrent first submission won the insert; the unique constraint
		// on (book_id, patron_id) rejected ours. Retry as an update.
		if isUniqueViolation(err) {
			return s.r.UpdateRating(ctx, bookID, patronID, rating, reviewText)
		}
		return nil, err
	}
	return rt, nil
}

func (s *ratingService) ForBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Rating, *model.RatingStats, error) {
	ratings, err := s.r.ListRatingsByBook(ctx, bookID, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.agg.Stats(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}
	return ratings, stats, nil
}

func (s *ratingService) ForPatron(ctx context.Context, patronID int64, limit, offset int) ([]model.Rating, error) {
	return s.r.ListRatingsByPatron(ctx, patronID, limit, offset)
}

func (s *ratingService) Mine(ctx context.Context, bookID, patronID int64) (*model.Rating, error) {
	rt, err := s.r.GetRating(ctx, bookID, patronID)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, makeErrf(ErrRatingNotFound, "Rating not found")
	}
	return rt, nil
}

func (s *ratingService) Delete(ctx context.Context, bookID, patronID, requesterID int64) error {
	if patronID != requesterID {
		return makeErrf(ErrNotOwner, "you can only delete your own ratings")
	}
	found, err := s.r.DeleteRating(ctx, bookID, patronID)
	if err != nil {
		return err
	}
	if !found {
		return makeErrf(ErrRatingNotFound, "Rating not found")
	}
	return nil
}
