package app

import (
	"math"
	"sort"

	"flex_reviews/internal/domain"
)

// Stats is the four-number dashboard summary over a review collection.
type Stats struct {
	TotalReviews    int     `json:"totalReviews"`
	ApprovedReviews int     `json:"approvedReviews"`
	FlaggedReviews  int     `json:"flaggedReviews"`
	AverageRating   float64 `json:"averageRating"`
	ApprovalRate    float64 `json:"approvalRate"`
}

func validRating(r *float64) bool {
	return r != nil && *r >= 0 && *r <= 5
}

// ComputeStats aggregates a review collection. The average covers only
// present, in-range ratings; reviews without one are excluded from both the
// numerator and the denominator. Empty input yields all zeros.
func ComputeStats(rs []domain.Review) Stats {
	s := Stats{TotalReviews: len(rs)}
	var sum float64
	var rated int
	for _, r := range rs {
		if r.IsApproved {
			s.ApprovedReviews++
		}
		if r.IsFlagged {
			s.FlaggedReviews++
		}
		if validRating(r.Rating) {
			sum += *r.Rating
			rated++
		}
	}
	if rated > 0 {
		s.AverageRating = sum / float64(rated)
	}
	if s.TotalReviews > 0 {
		s.ApprovalRate = 100 * float64(s.ApprovedReviews) / float64(s.TotalReviews)
	}
	return s
}

// PropertyStats aggregates the subset of reviews belonging to one property.
func PropertyStats(rs []domain.Review, propertyID int64) Stats {
	var sub []domain.Review
	for _, r := range rs {
		if r.PropertyID == propertyID {
			sub = append(sub, r)
		}
	}
	return ComputeStats(sub)
}

// ChannelRollup computes live per-channel summaries, ordered by channel name.
func ChannelRollup(rs []domain.Review) []domain.ChannelStat {
	byChannel := map[string][]domain.Review{}
	for _, r := range rs {
		byChannel[string(r.Channel)] = append(byChannel[string(r.Channel)], r)
	}
	names := make([]string, 0, len(byChannel))
	for name := range byChannel {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]domain.ChannelStat, 0, len(names))
	for _, name := range names {
		st := ComputeStats(byChannel[name])
		out = append(out, domain.ChannelStat{
			Channel:       name,
			TotalReviews:  st.TotalReviews,
			AverageRating: st.AverageRating,
			ApprovalRate:  st.ApprovalRate,
		})
	}
	return out
}

// MonthlyRollup computes live per-month summaries keyed by the review's
// submission month (YYYY-MM), in chronological order.
func MonthlyRollup(rs []domain.Review) []domain.MonthlyStat {
	byMonth := map[string][]domain.Review{}
	for _, r := range rs {
		m := r.SubmittedDate.Format("2006-01")
		byMonth[m] = append(byMonth[m], r)
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	out := make([]domain.MonthlyStat, 0, len(months))
	for _, m := range months {
		st := ComputeStats(byMonth[m])
		out = append(out, domain.MonthlyStat{
			Month:         m,
			TotalReviews:  st.TotalReviews,
			AverageRating: st.AverageRating,
			ApprovalRate:  st.ApprovalRate,
		})
	}
	return out
}

// EstimatePrice is the nightly-price fallback for listings without a
// configured price: round(rating*30 + 50).
func EstimatePrice(averageRating float64) float64 {
	return math.Round(averageRating*30 + 50)
}
