package feedbacksvc

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	ErrBookNotFound    ErrCode = "BOOK_NOT_FOUND"
	ErrPatronNotFound  ErrCode = "PATRON_NOT_FOUND"
	ErrRatingNotFound  ErrCode = "RATING_NOT_FOUND"
	ErrReviewNotFound  ErrCode = "REVIEW_NOT_FOUND"
	ErrDuplicateReview ErrCode = "DUPLICATE_REVIEW"
	ErrNotOwner        ErrCode = "NOT_OWNER"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func makeErrf(c ErrCode, format string, args ...any) error {
	return codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

// Code extracts the error code, or "" for unclassified errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// isUniqueViolation reports whether err is the store rejecting a duplicate
// (book_id, patron_id) insert. The constraint is the safety net for the
// find-then-insert race on concurrent first submissions.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
