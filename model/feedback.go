package model

import "time"

// Rating and Review are two structurally parallel feedback records with
// different write semantics: ratings are upserted on resubmission, reviews
// are insert-once and reject duplicates. Both are keyed uniquely by
// (book_id, patron_id).

type Rating struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"book_id"`
	PatronID   int64     `json:"patron_id"`
	Rating     int       `json:"rating"`
	ReviewText *string   `json:"review_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Patron *Patron `json:"patron,omitempty"`
	Book   *Book   `json:"book,omitempty"`
}

type Review struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"book_id"`
	PatronID   int64     `json:"patron_id"`
	Rating     int       `json:"rating"`
	ReviewText *string   `json:"review_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Patron *Patron `json:"patron,omitempty"`
}

// RatingStats is the full per-book aggregate: mean rounded to one decimal
// for display, total row count, and a distribution that always carries all
// five star buckets.
type RatingStats struct {
	AverageRating float64     `json:"average_rating"`
	TotalRatings  int         `json:"total_ratings"`
	Distribution  map[int]int `json:"distribution"`
}

// RatingSummary is the batch-aggregate shape used to annotate book listings.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// SubmitRatingReq is the payload for POST /v1/ratings.
// swagger:model SubmitRatingReq
type SubmitRatingReq struct {
	BookID     int64   `json:"book_id" validate:"required,gt=0"`
	Rating     int     `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText *string `json:"review_text,omitempty" validate:"omitempty,max=2000"`
}

// CreateReviewReq is the payload for POST /v1/books/:id/reviews.
// swagger:model CreateReviewReq
type CreateReviewReq struct {
	Rating     int     `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText *string `json:"review_text,omitempty" validate:"omitempty,max=1000"`
}

// UpdateReviewReq is the payload for PUT /v1/reviews/:id.
// swagger:model UpdateReviewReq
type UpdateReviewReq struct {
	Rating     int     `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText *string `json:"review_text,omitempty" validate:"omitempty,max=1000"`
}
