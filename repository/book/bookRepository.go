package bookrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"

	"github.com/hamiltonroad/checked-out/model"
	"github.com/hamiltonroad/checked-out/util/database"
)

const dialectPostgres = "postgres"

// ListFilter drives the dynamic book-listing query.
type ListFilter struct {
	Genre        string
	SortByRating bool
	SortDesc     bool
	Limit        int
	Offset       int
}

type Repo interface {
	Create(ctx context.Context, b *model.Book, authorIDs []int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f ListFilter) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	AddCopies(ctx context.Context, bookID int64, format model.CopyFormat, n int) (int64, error)
	CopiesWithCheckouts(ctx context.Context, bookID int64) ([]model.Copy, error)
	CopiesWithCheckoutsForBooks(ctx context.Context, bookIDs []int64) (map[int64][]model.Copy, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, b *model.Book, authorIDs []int64) (err error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO books (isbn, title, publisher, publication_year, genre, has_profanity)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`,
		b.ISBN, b.Title, b.Publisher, b.PublicationYear, b.Genre, b.HasProfanity,
	).Scan(&b.ID)
	if err != nil {
		return err
	}

	for _, aid := range authorIDs {
		if _, err = tx.Exec(ctx,
			`INSERT INTO book_authors (book_id, author_id) VALUES ($1,$2)`, b.ID, aid,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *repo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

// List builds the listing query dynamically: optional genre filter, optional
// rating sort. Unrated books sort after rated ones regardless of direction;
// ties keep the scan order.
func (r *repo) List(ctx context.Context, f ListFilter) ([]model.Book, error) {
	dialect := goqu.Dialect(dialectPostgres)

	ds := dialect.
		From(goqu.T("books").As("b")).
		Select(
			goqu.I("b.id"), goqu.I("b.isbn"), goqu.I("b.title"),
			goqu.I("b.publisher"), goqu.I("b.publication_year"),
			goqu.I("b.genre"), goqu.I("b.has_profanity"),
		)

	if f.Genre != "" {
		ds = ds.Where(goqu.I("b.genre").Eq(f.Genre))
	}

	if f.SortByRating {
		stats := dialect.
			From("ratings").
			Select(goqu.C("book_id"), goqu.AVG(goqu.C("rating")).As("avg_rating")).
			GroupBy("book_id")
		ds = ds.LeftJoin(stats.As("rs"), goqu.On(goqu.I("rs.book_id").Eq(goqu.I("b.id"))))
		if f.SortDesc {
			ds = ds.Order(goqu.I("rs.avg_rating").Desc().NullsLast())
		} else {
			ds = ds.Order(goqu.I("rs.avg_rating").Asc().NullsLast())
		}
	} else {
		ds = ds.Order(goqu.I("b.title").Asc())
	}

	if f.Limit > 0 {
		ds = ds.Limit(uint(f.Limit))
	}
	if f.Offset > 0 {
		ds = ds.Offset(uint(f.Offset))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	var ids []int64
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.ISBN, &b.Title, &b.Publisher, &b.PublicationYear, &b.Genre, &b.HasProfanity); err != nil {
			return nil, err
		}
		out = append(out, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachAuthors(ctx, out, ids); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b := &model.Book{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, isbn, title, publisher, publication_year, genre, has_profanity
		FROM books
		WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.ISBN, &b.Title, &b.Publisher, &b.PublicationYear, &b.Genre, &b.HasProfanity)
	if err != nil {
		return nil, err
	}

	books := []model.Book{*b}
	if err := r.attachAuthors(ctx, books, []int64{id}); err != nil {
		return nil, err
	}
	return &books[0], nil
}

func (r *repo) attachAuthors(ctx context.Context, books []model.Book, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT ba.book_id, a.id, a.first_name, a.last_name
		FROM book_authors ba
		JOIN authors a ON a.id = ba.author_id
		WHERE ba.book_id = ANY($1)
		ORDER BY a.last_name`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	byBook := make(map[int64][]model.Author, len(ids))
	for rows.Next() {
		var bookID int64
		var a model.Author
		if err := rows.Scan(&bookID, &a.ID, &a.FirstName, &a.LastName); err != nil {
			return err
		}
		byBook[bookID] = append(byBook[bookID], a)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range books {
		books[i].Authors = byBook[books[i].ID]
	}
	return nil
}

// AddCopies inserts n copies of a book. Physical copies get sequential copy
// numbers and a generated barcode; kindle copies carry neither.
func (r *repo) AddCopies(ctx context.Context, bookID int64, format model.CopyFormat, n int) (int64, error) {
	if n <= 0 {
		return 0, errors.New("n must be > 0")
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var next int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(copy_number), 0) FROM copies WHERE book_id = $1`, bookID,
	).Scan(&next)
	if err != nil {
		return 0, err
	}

	for i := 0; i < n; i++ {
		switch format {
		case model.FormatPhysical:
			next++
			barcode := uuid.NewString()
			_, err = tx.Exec(ctx, `
				INSERT INTO copies (book_id, format, copy_number, barcode)
				VALUES ($1,'physical',$2,$3)`,
				bookID, next, barcode)
		default:
			_, err = tx.Exec(ctx,
				`INSERT INTO copies (book_id, format) VALUES ($1,'kindle')`, bookID)
		}
		if err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int64(n), nil
}

func (r *repo) CopiesWithCheckouts(ctx context.Context, bookID int64) ([]model.Copy, error) {
	byBook, err := r.CopiesWithCheckoutsForBooks(ctx, []int64{bookID})
	if err != nil {
		return nil, err
	}
	return byBook[bookID], nil
}

// CopiesWithCheckoutsForBooks loads the copy/checkout snapshot for a batch of
// books in two scans, so listing pages never issue one query per book.
func (r *repo) CopiesWithCheckoutsForBooks(ctx context.Context, bookIDs []int64) (map[int64][]model.Copy, error) {
	out := make(map[int64][]model.Copy, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	dialect := goqu.Dialect(dialectPostgres)
	query, args, err := dialect.
		From("copies").
		Select("id", "book_id", "format", "copy_number", "barcode", "kindle_asin").
		Where(goqu.C("book_id").In(bookIDs)).
		Order(goqu.C("id").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build copies query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	copyIndex := make(map[int64]*model.Copy)
	var copyIDs []int64
	for rows.Next() {
		var c model.Copy
		if err := rows.Scan(&c.ID, &c.BookID, &c.Format, &c.CopyNumber, &c.Barcode, &c.KindleASIN); err != nil {
			return nil, err
		}
		out[c.BookID] = append(out[c.BookID], c)
		copyIDs = append(copyIDs, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for bookID := range out {
		for i := range out[bookID] {
			copyIndex[out[bookID][i].ID] = &out[bookID][i]
		}
	}

	if len(copyIDs) == 0 {
		return out, nil
	}

	crows, err := r.db.Pool.Query(ctx, `
		SELECT id, copy_id, patron_id, checkout_date, due_date, return_date
		FROM checkouts
		WHERE copy_id = ANY($1)
		ORDER BY checkout_date`,
		copyIDs,
	)
	if err != nil {
		return nil, err
	}
	defer crows.Close()

	for crows.Next() {
		var co model.Checkout
		if err := crows.Scan(&co.ID, &co.CopyID, &co.PatronID, &co.CheckoutDate, &co.DueDate, &co.ReturnDate); err != nil {
			return nil, err
		}
		if c, ok := copyIndex[co.CopyID]; ok {
			c.Checkouts = append(c.Checkouts, co)
		}
	}
	return out, crows.Err()
}
