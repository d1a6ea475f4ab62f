package model

type CopyFormat string

const (
	FormatPhysical CopyFormat = "physical"
	FormatKindle   CopyFormat = "kindle"
)

// Copy is one lendable instance of a book. Physical copies carry a
// copy_number and barcode, kindle copies an ASIN.
type Copy struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	Format     CopyFormat `json:"format"`
	CopyNumber *int       `json:"copy_number,omitempty"`
	Barcode    *string    `json:"barcode,omitempty"`
	KindleASIN *string    `json:"kindle_asin,omitempty"`

	Checkouts []Checkout `json:"checkouts,omitempty"`
	Book      *Book      `json:"book,omitempty"`
}

// AddCopiesReq is the payload for POST /v1/books/:id/copies.
// swagger:model AddCopiesReq
type AddCopiesReq struct {
	Format CopyFormat `json:"format" validate:"required,oneof=physical kindle"`
	Count  int        `json:"count" validate:"required,gt=0,lte=100"`
}
