package app_test

import (
	"testing"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

func TestMapHostawayReview_ScalesTenPointRatings(t *testing.T) {
	raw := map[string]any{
		"id":           float64(7453),
		"guestName":    "Shane Finkelstein",
		"listingName":  "2B N1 A - 29 Shoreditch Heights",
		"publicReview": "Shane and family are wonderful!",
		"submittedAt":  "2020-08-21 22:45:14",
		"rating":       float64(9),
		"reviewCategory": []any{
			map[string]any{"category": "cleanliness", "rating": float64(10)},
			map[string]any{"category": "communication", "rating": float64(8)},
		},
	}
	r := app.MapHostawayReview(101, raw)
	if r.ID != 7453 || r.PropertyID != 101 {
		t.Fatalf("unexpected ids: %+v", r)
	}
	if r.Rating == nil || *r.Rating != 4.5 {
		t.Fatalf("expected rating 4.5 on the 0-5 scale, got %+v", r.Rating)
	}
	if len(r.ReviewCategory) != 2 || r.ReviewCategory[0].Rating != 5 || r.ReviewCategory[1].Rating != 4 {
		t.Fatalf("unexpected categories: %+v", r.ReviewCategory)
	}
	if r.Channel != domain.ChannelHostaway {
		t.Fatalf("expected Hostaway channel, got %s", r.Channel)
	}
	if r.SubmittedDate.IsZero() {
		t.Fatalf("expected parsed submission date")
	}
	if r.IsApproved || r.IsFlagged {
		t.Fatalf("imported reviews must arrive pending and unflagged")
	}
}

func TestMapHostawayReview_MissingRatingStaysAbsent(t *testing.T) {
	r := app.MapHostawayReview(1, map[string]any{"id": float64(2), "guestName": "Ana"})
	if r.Rating != nil {
		t.Fatalf("expected nil rating, got %v", *r.Rating)
	}
}

func TestMapHostawayReviews_DropsRecordsWithoutID(t *testing.T) {
	out := app.MapHostawayReviews(1, []map[string]any{
		{"guestName": "no id"},
		{"id": float64(5), "guestName": "ok"},
	})
	if len(out) != 1 || out[0].ID != 5 {
		t.Fatalf("unexpected batch: %+v", out)
	}
}
