package jsonfile_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"flex_reviews/internal/domain"
	"flex_reviews/internal/storage/jsonfile"
)

func ptr[T any](v T) *T { return &v }

func testReview(id, propertyID int64) domain.Review {
	return domain.Review{
		ID:            id,
		PropertyID:    propertyID,
		ListingName:   "29 Shoreditch Heights",
		ReviewerName:  "Shane Finkelstein",
		Rating:        ptr(4.5),
		PublicReview:  "Great stay",
		SubmittedDate: time.Date(2024, 8, 21, 22, 45, 14, 0, time.UTC),
		Channel:       domain.ChannelHostaway,
	}
}

func TestSnapshot_MissingFileIsEmptyStore(t *testing.T) {
	s := jsonfile.New(filepath.Join(t.TempDir(), "records.json"))
	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Reviews) != 0 || len(snap.Properties) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestUpsertReviews_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	ctx := context.Background()

	s := jsonfile.New(path)
	if err := s.UpsertReviews(ctx, []domain.Review{testReview(1, 101), testReview(2, 101)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// A fresh store on the same path sees the written document.
	s2 := jsonfile.New(path)
	snap, err := s2.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(snap.Reviews))
	}
	if snap.Reviews[0].ReviewerName != "Shane Finkelstein" {
		t.Fatalf("unexpected review: %+v", snap.Reviews[0])
	}
}

func TestUpdateReview_AppliesPatchAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	ctx := context.Background()
	s := jsonfile.New(path)
	if err := s.UpsertReviews(ctx, []domain.Review{testReview(1, 101)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	err := s.UpdateReview(ctx, 1, domain.ReviewPatch{
		IsApproved: ptr(true),
		Response:   ptr("Thanks for staying with us"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	snap, err := jsonfile.New(path).Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	r := snap.Reviews[0]
	if !r.IsApproved || r.IsFlagged {
		t.Fatalf("patch not applied: %+v", r)
	}
	if r.Response == nil || *r.Response != "Thanks for staying with us" {
		t.Fatalf("response not persisted: %+v", r.Response)
	}
	if r.Rating == nil || *r.Rating != 4.5 {
		t.Fatalf("unpatched fields must survive: %+v", r)
	}
}

func TestUpdateReview_UnknownIDIsNotFound(t *testing.T) {
	s := jsonfile.New(filepath.Join(t.TempDir(), "records.json"))
	err := s.UpdateReview(context.Background(), 42, domain.ReviewPatch{IsApproved: ptr(true)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertReviews_ReimportKeepsModerationState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	ctx := context.Background()
	s := jsonfile.New(path)

	if err := s.UpsertReviews(ctx, []domain.Review{testReview(1, 101)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpdateReview(ctx, 1, domain.ReviewPatch{IsApproved: ptr(true), Response: ptr("hi")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Re-import with refreshed content.
	updated := testReview(1, 101)
	updated.PublicReview = "Updated text from source"
	if err := s.UpsertReviews(ctx, []domain.Review{updated}); err != nil {
		t.Fatalf("reimport: %v", err)
	}

	snap, _ := s.Snapshot(ctx)
	r := snap.Reviews[0]
	if r.PublicReview != "Updated text from source" {
		t.Fatalf("content not refreshed: %+v", r)
	}
	if !r.IsApproved || r.Response == nil || *r.Response != "hi" {
		t.Fatalf("moderation state lost on re-import: %+v", r)
	}
}

func TestUpsertProperty_InsertThenReplace(t *testing.T) {
	s := jsonfile.New(filepath.Join(t.TempDir(), "records.json"))
	ctx := context.Background()

	p := domain.Property{ID: 101, Name: "29 Shoreditch Heights", Type: domain.PropertyApartment}
	if err := s.UpsertProperty(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}
	p.Name = "Renamed Heights"
	if err := s.UpsertProperty(ctx, p); err != nil {
		t.Fatalf("replace: %v", err)
	}

	snap, _ := s.Snapshot(ctx)
	if len(snap.Properties) != 1 || snap.Properties[0].Name != "Renamed Heights" {
		t.Fatalf("unexpected properties: %+v", snap.Properties)
	}
}
