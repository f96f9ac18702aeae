package engagement

import "github.com/shopspring/decimal"

// ReviewStats summarizes the reviews of one location or a whole tenant
type ReviewStats struct {
	Total        int64
	Average      decimal.Decimal
	Distribution map[int]int64 // star rating -> count, always keys 1..5
	RepliedCount int64
	ResponseRate decimal.Decimal // percentage of reviews with a reply
}

var hundred = decimal.NewFromInt(100)

// ComputeReviewStats derives averages from per-rating counts.
// Ratings outside 1..5 are ignored.
func ComputeReviewStats(counts map[int]int64, replied int64) ReviewStats {
	stats := ReviewStats{
		Average:      decimal.Zero,
		Distribution: make(map[int]int64, 5),
		ResponseRate: decimal.Zero,
	}

	sum := decimal.Zero
	for rating := 1; rating <= 5; rating++ {
		n := counts[rating]
		stats.Distribution[rating] = n
		stats.Total += n
		sum = sum.Add(decimal.NewFromInt(int64(rating) * n))
	}
	if stats.Total == 0 {
		return stats
	}

	if replied > stats.Total {
		replied = stats.Total
	}
	total := decimal.NewFromInt(stats.Total)
	stats.Average = sum.DivRound(total, 2)
	stats.RepliedCount = replied
	stats.ResponseRate = decimal.NewFromInt(replied).Mul(hundred).DivRound(total, 1)
	return stats
}
