package feedbacksvc

import (
	"context"
	"math"

	"github.com/hamiltonroad/checked-out/model"
	feedbackrepo "github.com/hamiltonroad/checked-out/repository/feedback"
)

type RatingGroup = feedbackrepo.RatingGroup

type StatsRepo interface {
	RatingBuckets(ctx context.Context, bookID int64) (map[int]int, error)
	RatingGroups(ctx context.Context, bookIDs []int64) ([]RatingGroup, error)
}

// Aggregator computes per-book rating statistics from raw feedback rows. It
// never validates book existence: a nonexistent book simply yields zero
// statistics, and existence checks stay with the caller.
type Aggregator interface {
	Stats(ctx context.Context, bookID int64) (*model.RatingStats, error)
	// StatsForBooks is one grouped scan across all requested books. Every
	// requested id is present in the result; books with no feedback rows get
	// a zero summary so callers never need to null-check.
	StatsForBooks(ctx context.Context, bookIDs []int64) (map[int64]model.RatingSummary, error)
}

type aggregator struct {
	r StatsRepo
}

func NewAggregator(r StatsRepo) Aggregator { return &aggregator{r: r} }

func (a *aggregator) Stats(ctx context.Context, bookID int64) (*model.RatingStats, error) {
	buckets, err := a.r.RatingBuckets(ctx, bookID)
	if err != nil {
		return nil, err
	}

	stats := &model.RatingStats{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for star := 1; star <= 5; star++ {
		n := buckets[star]
		stats.Distribution[star] = n
		stats.TotalRatings += n
		sum += star * n
	}
	if stats.TotalRatings > 0 {
		// Display rounding only; the distribution and count stay exact.
		stats.AverageRating = round1(float64(sum) / float64(stats.TotalRatings))
	}
	return stats, nil
}

func (a *aggregator) StatsForBooks(ctx context.Context, bookIDs []int64) (map[int64]model.RatingSummary, error) {
	out := make(map[int64]model.RatingSummary, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	groups, err := a.r.RatingGroups(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		out[g.BookID] = model.RatingSummary{
			AverageRating: round1(g.AverageRating),
			ReviewCount:   g.Count,
		}
	}
	for _, id := range bookIDs {
		if _, ok := out[id]; !ok {
			out[id] = model.RatingSummary{}
		}
	}
	return out, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
