package model

// AvailabilityStatus is the derived lending status of a book. It is computed
// from the copy/checkout snapshot on every read and never stored.
type AvailabilityStatus string

const (
	StatusAvailable  AvailabilityStatus = "available"
	StatusCheckedOut AvailabilityStatus = "checked_out"
)

type Book struct {
	ID              int64    `json:"id"`
	ISBN            *string  `json:"isbn,omitempty"`
	Title           string   `json:"title"`
	Publisher       *string  `json:"publisher,omitempty"`
	PublicationYear *int     `json:"publication_year,omitempty"`
	Genre           *string  `json:"genre,omitempty"`
	HasProfanity    bool     `json:"has_profanity"`
	Authors         []Author `json:"authors,omitempty"`
}

type Author struct {
	ID        int64   `json:"id"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  string  `json:"last_name"`
}

// CreateBookReq is the payload for POST /v1/books.
// swagger:model CreateBookReq
type CreateBookReq struct {
	Title           string  `json:"title" validate:"required,max=255"`
	ISBN            *string `json:"isbn,omitempty" validate:"omitempty,max=13"`
	Publisher       *string `json:"publisher,omitempty" validate:"omitempty,max=255"`
	PublicationYear *int    `json:"publication_year,omitempty" validate:"omitempty,gte=0"`
	Genre           *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	AuthorIDs       []int64 `json:"author_ids,omitempty" validate:"omitempty,dive,gt=0"`
}
