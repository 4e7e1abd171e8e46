package app

import "flex_reviews/internal/domain"

// Normalize returns a copy of r with Rating derived from the category
// ratings when the source supplied no overall score. A review with no
// categories keeps a nil rating; it is not defaulted to zero here — the
// aggregator excludes it and display renders "No rating".
func Normalize(r domain.Review) domain.Review {
	if r.Rating != nil || len(r.ReviewCategory) == 0 {
		return r
	}
	var sum float64
	for _, c := range r.ReviewCategory {
		sum += c.Rating
	}
	v := sum / float64(len(r.ReviewCategory))
	r.Rating = &v
	return r
}

// NormalizeAll maps Normalize over a collection without mutating the input.
func NormalizeAll(rs []domain.Review) []domain.Review {
	out := make([]domain.Review, len(rs))
	for i, r := range rs {
		out[i] = Normalize(r)
	}
	return out
}
