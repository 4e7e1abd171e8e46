package app

import (
	"strconv"
	"strings"

	"flex_reviews/internal/domain"
)

// FilterAll is the neutral criteria value: no constraint from that dimension.
const FilterAll = "All"

const (
	FilterFiveStars     = "5 Stars"
	FilterFourPlusStars = "4+ Stars"
	FilterThreePlus     = "3+ Stars"
	FilterApproved      = "Approved"
	FilterPending       = "Pending"
	FilterFlagged       = "Flagged"
)

// Criteria is a composable predicate set over a review collection. Empty or
// "All" means unconstrained; all set criteria are combined with AND.
type Criteria struct {
	Rating   string `json:"rating"`
	Channel  string `json:"channel"`
	Property string `json:"property"`
	Status   string `json:"status"`
	Search   string `json:"search"`
}

func unset(v string) bool { return v == "" || v == FilterAll }

// ratingTierMin maps a tier label to its minimum effective rating.
func ratingTierMin(label string) (float64, bool) {
	switch label {
	case FilterFiveStars:
		return 5, true
	case FilterFourPlusStars:
		return 4, true
	case FilterThreePlus:
		return 3, true
	}
	return 0, false
}

// Filter returns the order-preserving subsequence of rs matching c. It never
// mutates its input. Reviews should be normalized first so the rating tier
// sees category-derived ratings; a review with no effective rating compares
// as zero and is dropped by any tier above "All".
func Filter(rs []domain.Review, c Criteria) []domain.Review {
	out := make([]domain.Review, 0, len(rs))
	for _, r := range rs {
		if matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.Review, c Criteria) bool {
	if !unset(c.Rating) {
		var rating float64
		if r.Rating != nil {
			rating = *r.Rating
		}
		if min, ok := ratingTierMin(c.Rating); ok && rating < min {
			return false
		}
	}

	if !unset(c.Channel) && string(r.Channel) != c.Channel {
		return false
	}

	if !unset(c.Property) {
		id, err := strconv.ParseInt(c.Property, 10, 64)
		if err != nil || r.PropertyID != id {
			return false
		}
	}

	if !unset(c.Status) {
		switch c.Status {
		case FilterApproved:
			if !r.IsApproved {
				return false
			}
		case FilterPending:
			if r.IsApproved {
				return false
			}
		case FilterFlagged:
			if !r.IsFlagged {
				return false
			}
		}
	}

	if c.Search != "" {
		q := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(r.ListingName), q) &&
			!strings.Contains(strings.ToLower(r.ReviewerName), q) &&
			!strings.Contains(strings.ToLower(r.PublicReview), q) {
			return false
		}
	}

	return true
}
