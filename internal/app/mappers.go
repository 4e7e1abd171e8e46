package app

import (
	"strconv"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

// Hostaway review payloads are loosely typed; field names drift between API
// revisions, so lookups go through small alias lists.

func lookupStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func lookupFloat(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func lookupInt64(m map[string]any, keys ...string) int64 {
	if f := lookupFloat(m, keys...); f != nil {
		return int64(*f)
	}
	return 0
}

// parseSubmitted accepts the Hostaway "2020-08-21 22:45:14" form as well as
// RFC 3339. Unparseable dates map to the zero time rather than failing the
// whole import.
func parseSubmitted(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func mapCategories(v any) []domain.CategoryRating {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]domain.CategoryRating, 0, len(raw))
	for _, it := range raw {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		var c domain.CategoryRating
		c.Category = lookupStr(m, "category", "name")
		if f := lookupFloat(m, "rating", "score"); f != nil {
			c.Rating = *f
		}
		out = append(out, c)
	}
	return out
}

// MapHostawayReview converts one raw Hostaway payload into a pending,
// unflagged domain review for the given property. Hostaway scores arrive on
// a 0-10 scale; they are halved to the dashboard's 0-5 scale.
func MapHostawayReview(propertyID int64, m map[string]any) domain.Review {
	r := domain.Review{
		ID:             lookupInt64(m, "id", "reviewId"),
		PropertyID:     propertyID,
		ListingName:    lookupStr(m, "listingName", "listing_name"),
		ReviewerName:   lookupStr(m, "guestName", "guest_name", "reviewerName"),
		PublicReview:   lookupStr(m, "publicReview", "public_review", "comment"),
		SubmittedDate:  parseSubmitted(lookupStr(m, "submittedAt", "submitted_at", "submittedDate")),
		Channel:        domain.ChannelHostaway,
		ReviewCategory: mapCategories(m["reviewCategory"]),
	}
	if f := lookupFloat(m, "rating"); f != nil {
		v := *f / 2
		r.Rating = &v
	}
	for i := range r.ReviewCategory {
		r.ReviewCategory[i].Rating /= 2
	}
	return r
}

// MapHostawayReviews converts a batch, dropping records with no usable id.
func MapHostawayReviews(propertyID int64, in []map[string]any) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, m := range in {
		r := MapHostawayReview(propertyID, m)
		if r.ID <= 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}
