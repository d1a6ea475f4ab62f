package feedbackrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"

	"github.com/hamiltonroad/checked-out/model"
	"github.com/hamiltonroad/checked-out/util/database"
)

const dialectPostgres = "postgres"

// RatingGroup is one row of the grouped batch aggregation scan.
type RatingGroup struct {
	BookID        int64
	AverageRating float64
	Count         int
}

type Repo interface {
	// Ratings (upsert semantics lives in the service; these are the pieces).
	GetRating(ctx context.Context, bookID, patronID int64) (*model.Rating, error)
	InsertRating(ctx context.Context, rt *model.Rating) error
	UpdateRating(ctx context.Context, bookID, patronID int64, rating int, reviewText *string) (*model.Rating, error)
	DeleteRating(ctx context.Context, bookID, patronID int64) (bool, error)
	ListRatingsByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Rating, error)
	ListRatingsByPatron(ctx context.Context, patronID int64, limit, offset int) ([]model.Rating, error)

	// Aggregation scans.
	RatingBuckets(ctx context.Context, bookID int64) (map[int]int, error)
	RatingGroups(ctx context.Context, bookIDs []int64) ([]RatingGroup, error)

	// Reviews (insert-once semantics).
	InsertReview(ctx context.Context, rv *model.Review) error
	GetReview(ctx context.Context, bookID, patronID int64) (*model.Review, error)
	GetReviewByID(ctx context.Context, id int64) (*model.Review, error)
	UpdateReview(ctx context.Context, id int64, rating int, reviewText *string) (*model.Review, error)
	DeleteReview(ctx context.Context, id int64) error
	ListReviewsByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Review, int, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

// --- ratings ---

func (r *repo) GetRating(ctx context.Context, bookID, patronID int64) (*model.Rating, error) {
	rt := &model.Rating{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, book_id, patron_id, rating, review_text, created_at, updated_at
		FROM ratings
		WHERE book_id = $1 AND patron_id = $2`,
		bookID, patronID,
	).Scan(&rt.ID, &rt.BookID, &rt.PatronID, &rt.Rating, &rt.ReviewText, &rt.CreatedAt, &rt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *repo) InsertRating(ctx context.Context, rt *model.Rating) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO ratings (book_id, patron_id, rating, review_text)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at`,
		rt.BookID, rt.PatronID, rt.Rating, rt.ReviewText,
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
}

func (r *repo) UpdateRating(ctx context.Context, bookID, patronID int64, rating int, reviewText *string) (*model.Rating, error) {
	rt := &model.Rating{}
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE ratings
		SET rating = $3, review_text = $4, updated_at = NOW()
		WHERE book_id = $1 AND patron_id = $2
		RETURNING id, book_id, patron_id, rating, review_text, created_at, updated_at`,
		bookID, patronID, rating, reviewText,
	).Scan(&rt.ID, &rt.BookID, &rt.PatronID, &rt.Rating, &rt.ReviewText, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *repo) DeleteRating(ctx context.Context, bookID, patronID int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM ratings WHERE book_id = $1 AND patron_id = $2`, bookID, patronID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) ListRatingsByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Rating, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.db.Pool.Query(ctx, `
		SELECT rt.id, rt.book_id, rt.patron_id, rt.rating, rt.review_text, rt.created_at, rt.updated_at,
		       p.id, p.first_name, p.last_name
		FROM ratings rt
		JOIN patrons p ON p.id = rt.patron_id
		WHERE rt.book_id = $1
		ORDER BY rt.created_at DESC
		LIMIT $2 OFFSET $3`,
		bookID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rating
	for rows.Next() {
		var rt model.Rating
		p := &model.Patron{}
		if err := rows.Scan(
			&rt.ID, &rt.BookID, &rt.PatronID, &rt.Rating, &rt.ReviewText, &rt.CreatedAt, &rt.UpdatedAt,
			&p.ID, &p.FirstName, &p.LastName,
		); err != nil {
			return nil, err
		}
		rt.Patron = p
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *repo) ListRatingsByPatron(ctx context.Context, patronID int64, limit, offset int) ([]model.Rating, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.db.Pool.Query(ctx, `
		SELECT rt.id, rt.book_id, rt.patron_id, rt.rating, rt.review_text, rt.created_at, rt.updated_at,
		       b.id, b.title, b.isbn, b.genre
		FROM ratings rt
		JOIN books b ON b.id = rt.book_id
		WHERE rt.patron_id = $1
		ORDER BY rt.updated_at DESC
		LIMIT $2 OFFSET $3`,
		patronID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rating
	for rows.Next() {
		var rt model.Rating
		b := &model.Book{}
		if err := rows.Scan(
			&rt.ID, &rt.BookID, &rt.PatronID, &rt.Rating, &rt.ReviewText, &rt.CreatedAt, &rt.UpdatedAt,
			&b.ID, &b.Title, &b.ISBN, &b.Genre,
		); err != nil {
			return nil, err
		}
		rt.Book = b
		out = append(out, rt)
	}
	return out, rows.Err()
}

// RatingBuckets returns the star-value histogram for one book. Buckets with
// no rows are simply absent; the aggregator zero-fills.
func (r *repo) RatingBuckets(ctx context.Context, bookID int64) (map[int]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT rating, COUNT(*)
		FROM ratings
		WHERE book_id = $1
		GROUP BY rating`,
		bookID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make(map[int]int)
	for rows.Next() {
		var star, count int
		if err := rows.Scan(&star, &count); err != nil {
			return nil, err
		}
		buckets[star] = count
	}
	return buckets, rows.Err()
}

// RatingGroups is the single grouped scan behind the batch stats call.
func (r *repo) RatingGroups(ctx context.Context, bookIDs []int64) ([]RatingGroup, error) {
	if len(bookIDs) == 0 {
		return nil, nil
	}

	query, args, err := goqu.Dialect(dialectPostgres).
		From("ratings").
		Select(
			goqu.C("book_id"),
			goqu.AVG(goqu.C("rating")).As("average_rating"),
			goqu.COUNT(goqu.Star()).As("review_count"),
		).
		Where(goqu.C("book_id").In(bookIDs)).
		GroupBy(goqu.C("book_id")).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build rating groups query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RatingGroup
	for rows.Next() {
		var g RatingGroup
		if err := rows.Scan(&g.BookID, &g.AverageRating, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// --- reviews ---

func (r *repo) InsertReview(ctx context.Context, rv *model.Review) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO reviews (book_id, patron_id, rating, review_text)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at`,
		rv.BookID, rv.PatronID, rv.Rating, rv.ReviewText,
	).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
}

func (r *repo) GetReview(ctx context.Context, bookID, patronID int64) (*model.Review, error) {
	rv := &model.Review{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, book_id, patron_id, rating, review_text, created_at, updated_at
		FROM reviews
		WHERE book_id = $1 AND patron_id = $2`,
		bookID, patronID,
	).Scan(&rv.ID, &rv.BookID, &rv.PatronID, &rv.Rating, &rv.ReviewText, &rv.CreatedAt, &rv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *repo) GetReviewByID(ctx context.Context, id int64) (*model.Review, error) {
	rv := &model.Review{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, book_id, patron_id, rating, review_text, created_at, updated_at
		FROM reviews
		WHERE id = $1`,
		id,
	).Scan(&rv.ID, &rv.BookID, &rv.PatronID, &rv.Rating, &rv.ReviewText, &rv.CreatedAt, &rv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *repo) UpdateReview(ctx context.Context, id int64, rating int, reviewText *string) (*model.Review, error) {
	rv := &model.Review{}
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE reviews
		SET rating = $2, review_text = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, book_id, patron_id, rating, review_text, created_at, updated_at`,
		id, rating, reviewText,
	).Scan(&rv.ID, &rv.BookID, &rv.PatronID, &rv.Rating, &rv.ReviewText, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *repo) DeleteReview(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return err
}

func (r *repo) ListReviewsByBook(ctx context.Context, bookID int64, limit, offset int) ([]model.Review, int, error) {
	limit, offset = clampPage(limit, offset)

	var total int
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE book_id = $1`, bookID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT rv.id, rv.book_id, rv.patron_id, rv.rating, rv.review_text, rv.created_at, rv.updated_at,
		       p.id, p.first_name, p.last_name
		FROM reviews rv
		JOIN patrons p ON p.id = rv.patron_id
		WHERE rv.book_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2 OFFSET $3`,
		bookID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rv model.Review
		p := &model.Patron{}
		if err := rows.Scan(
			&rv.ID, &rv.BookID, &rv.PatronID, &rv.Rating, &rv.ReviewText, &rv.CreatedAt, &rv.UpdatedAt,
			&p.ID, &p.FirstName, &p.LastName,
		); err != nil {
			return nil, 0, err
		}
		rv.Patron = p
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
