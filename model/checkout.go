package model

import "time"

// LoanPeriodDays is the fixed loan period. Due dates are calendar days from
// the checkout date, not business days.
const LoanPeriodDays = 14

// Checkout is a loan transaction linking one patron to one copy. A nil
// ReturnDate means the copy is currently out.
type Checkout struct {
	ID           int64      `json:"id"`
	CopyID       int64      `json:"copy_id"`
	PatronID     int64      `json:"patron_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`

	Patron *Patron `json:"patron,omitempty"`
	Copy   *Copy   `json:"copy,omitempty"`
}

// CreateCheckoutReq is the payload for POST /v1/checkouts.
// swagger:model CreateCheckoutReq
type CreateCheckoutReq struct {
	CopyID   int64 `json:"copy_id" validate:"required,gt=0"`
	PatronID int64 `json:"patron_id" validate:"required,gt=0"`
}
