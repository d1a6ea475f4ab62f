package checkoutrepo

import (
	"context"
	"time"

	"github.com/hamiltonroad/checked-out/model"
	"github.com/hamiltonroad/checked-out/util/database"
)

type Repo interface {
	CopyExists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, c *model.Checkout) error
	// FindWithRelations re-reads a checkout with its patron and copy+book
	// attached, for response convenience. It is a second read after the
	// insert, not part of the same atomic operation.
	FindWithRelations(ctx context.Context, id int64) (*model.Checkout, error)
	OwnerAndReturnState(ctx context.Context, id int64) (patronID int64, returned bool, err error)
	MarkReturned(ctx context.Context, id int64, at time.Time) error
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) CopyExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM copies WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

func (r *repo) Insert(ctx context.Context, c *model.Checkout) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO checkouts (copy_id, patron_id, checkout_date, due_date, return_date)
		VALUES ($1,$2,$3,$4,NULL)
		RETURNING id`,
		c.CopyID, c.PatronID, c.CheckoutDate, c.DueDate,
	).Scan(&c.ID)
}

func (r *repo) FindWithRelations(ctx context.Context, id int64) (*model.Checkout, error) {
	c := &model.Checkout{
		Patron: &model.Patron{},
		Copy:   &model.Copy{Book: &model.Book{}},
	}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT ch.id, ch.copy_id, ch.patron_id, ch.checkout_date, ch.due_date, ch.return_date,
		       p.id, p.card_number, p.first_name, p.last_name, p.email, p.status,
		       cp.id, cp.book_id, cp.format, cp.copy_number, cp.barcode, cp.kindle_asin,
		       b.id, b.isbn, b.title, b.publisher, b.publication_year, b.genre, b.has_profanity
		FROM checkouts ch
		JOIN patrons p ON p.id = ch.patron_id
		JOIN copies cp ON cp.id = ch.copy_id
		JOIN books b ON b.id = cp.book_id
		WHERE ch.id = $1`,
		id,
	).Scan(
		&c.ID, &c.CopyID, &c.PatronID, &c.CheckoutDate, &c.DueDate, &c.ReturnDate,
		&c.Patron.ID, &c.Patron.CardNumber, &c.Patron.FirstName, &c.Patron.LastName, &c.Patron.Email, &c.Patron.Status,
		&c.Copy.ID, &c.Copy.BookID, &c.Copy.Format, &c.Copy.CopyNumber, &c.Copy.Barcode, &c.Copy.KindleASIN,
		&c.Copy.Book.ID, &c.Copy.Book.ISBN, &c.Copy.Book.Title, &c.Copy.Book.Publisher,
		&c.Copy.Book.PublicationYear, &c.Copy.Book.Genre, &c.Copy.Book.HasProfanity,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) OwnerAndReturnState(ctx context.Context, id int64) (int64, bool, error) {
	var patronID int64
	var returnDate *time.Time
	err := r.db.Pool.QueryRow(ctx,
		`SELECT patron_id, return_date FROM checkouts WHERE id = $1`, id,
	).Scan(&patronID, &returnDate)
	if err != nil {
		return 0, false, err
	}
	return patronID, returnDate != nil, nil
}

func (r *repo) MarkReturned(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE checkouts SET return_date = $2 WHERE id = $1`, id, at)
	return err
}
