package availability

import (
	"log/slog"

	"github.com/hamiltonroad/checked-out/model"
)

// Resolver derives a book's lending status from its copy/checkout snapshot.
// It is pure and deterministic, and it never raises: malformed data degrades
// per copy, and any unexpected internal failure falls open to "available"
// with a log line. Status is recomputed on every read; there is no cached
// status column to go stale.
type Resolver struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{log: log}
}

// Resolve maps a book's copies to "available" or "checked_out".
//
// An empty or nil copy list resolves to "available": no inventory means
// nothing blocks availability. A copy counts as available when it has no
// checkouts at all, or when every one of its checkouts has been returned.
// One available copy makes the book available.
func (r *Resolver) Resolve(copies []model.Copy) (status model.AvailabilityStatus) {
	defer func() {
		if rec := recover(); rec != nil {
			// Fail open, but say so.
			r.log.Error("availability resolution failed, defaulting to available", "panic", rec)
			status = model.StatusAvailable
		}
	}()

	if len(copies) == 0 {
		return model.StatusAvailable
	}

	for i := range copies {
		if copyAvailable(&copies[i]) {
			return model.StatusAvailable
		}
	}
	return model.StatusCheckedOut
}

func copyAvailable(c *model.Copy) bool {
	if c == nil {
		// Malformed entry: count this copy as unavailable rather than raise.
		return false
	}
	for i := range c.Checkouts {
		if c.Checkouts[i].ReturnDate == nil {
			return false
		}
	}
	return true
}
