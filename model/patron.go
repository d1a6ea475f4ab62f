package model

import "time"

type PatronStatus string

const (
	PatronActive    PatronStatus = "active"
	PatronInactive  PatronStatus = "inactive"
	PatronSuspended PatronStatus = "suspended"
)

type Patron struct {
	ID           int64        `json:"id"`
	CardNumber   string       `json:"card_number"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Status       PatronStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

// RegisterReq is the payload for POST /v1/patrons/register.
// swagger:model RegisterReq
type RegisterReq struct {
	CardNumber string `json:"card_number" validate:"required,max=50"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
}

// LoginReq is the payload for POST /v1/patrons/login.
// swagger:model LoginReq
type LoginReq struct {
	CardNumber string `json:"card_number" validate:"required"`
	Password   string `json:"password" validate:"required"`
}
