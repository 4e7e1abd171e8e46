package app

import (
	"context"
	"errors"
	"fmt"

	"flex_reviews/internal/domain"
)

// IngestionService pulls reviews for one listing from the Hostaway API and
// upserts them into the record store.
type IngestionService struct {
	client domain.HostawayClient
	repo   domain.ReviewImporter
	cache  domain.Cache
}

func NewIngestionService(c domain.HostawayClient, r domain.ReviewImporter, cache domain.Cache) *IngestionService {
	return &IngestionService{client: c, repo: r, cache: cache}
}

// IngestListing fetches up to count reviews for the listing and stores them.
// A 404 from Hostaway is not an error: the listing simply has no reviews yet.
// Other failures bubble up so the caller can log and retry the listing later.
func (s *IngestionService) IngestListing(ctx context.Context, listingID int64, count int) (int, error) {
	raw, err := s.client.GetListingReviews(ctx, listingID, count)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("fetch reviews for listing %d: %w", listingID, err)
	}

	rs := MapHostawayReviews(listingID, raw)
	if len(rs) > 0 {
		if err := s.repo.UpsertReviews(ctx, rs); err != nil {
			return 0, fmt.Errorf("upsert reviews for listing %d: %w", listingID, err)
		}
	}

	// New reviews change every cached read for this property.
	if s.cache != nil {
		_ = s.cache.Del(ctx, dashboardKeyAll)
		_ = s.cache.Del(ctx, dashboardKey(listingID))
		_ = s.cache.Del(ctx, propertyKey(listingID))
		_ = s.cache.Del(ctx, overviewKey)
	}
	return len(rs), nil
}
