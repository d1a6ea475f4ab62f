package patronrepo

import (
	"context"

	"github.com/hamiltonroad/checked-out/model"
	"github.com/hamiltonroad/checked-out/util/database"
)

type Repo interface {
	Create(ctx context.Context, p *model.Patron) error
	ByID(ctx context.Context, id int64) (*model.Patron, error)
	ByCardNumber(ctx context.Context, cardNumber string) (*model.Patron, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, p *model.Patron) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO patrons (card_number, first_name, last_name, email, password_hash, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`,
		p.CardNumber, p.FirstName, p.LastName, p.Email, p.PasswordHash, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Patron, error) {
	p := &model.Patron{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, card_number, first_name, last_name, email, password_hash, status, created_at
		FROM patrons
		WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.CardNumber, &p.FirstName, &p.LastName, &p.Email, &p.PasswordHash, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) ByCardNumber(ctx context.Context, cardNumber string) (*model.Patron, error) {
	p := &model.Patron{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, card_number, first_name, last_name, email, password_hash, status, created_at
		FROM patrons
		WHERE card_number = $1`,
		cardNumber,
	).Scan(&p.ID, &p.CardNumber, &p.FirstName, &p.LastName, &p.Email, &p.PasswordHash, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patrons WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}
