package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("invalid input")
)

// Snapshot is the full current state of the record store.
type Snapshot struct {
	Reviews    []Review   `json:"reviews"`
	Properties []Property `json:"properties"`
	Trends     Trend      `json:"trends"`
}

// RecordStore is the canonical Review/Property/Trend collaborator.
// UpdateReview merges the non-nil patch fields into the review with the
// given id, returning ErrNotFound when no such review exists.
type RecordStore interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	UpdateReview(ctx context.Context, id int64, patch ReviewPatch) error
}

// ReviewImporter is the write path used by the ingestor.
type ReviewImporter interface {
	UpsertProperty(ctx context.Context, p Property) error
	UpsertReviews(ctx context.Context, rs []Review) error
}

// HostawayClient fetches raw review payloads from the (mock) Hostaway API.
type HostawayClient interface {
	GetListingReviews(ctx context.Context, listingID int64, count int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
