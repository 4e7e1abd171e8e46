package app

import (
	"context"
	"fmt"
	"time"

	"flex_reviews/internal/domain"
)

const (
	dashboardKeyAll = "dashboard:all"
	overviewKey     = "stats:overview"
)

func dashboardKey(propertyID int64) string { return fmt.Sprintf("dashboard:prop:%d", propertyID) }
func propertyKey(id int64) string          { return fmt.Sprintf("property:%d", id) }

// QueryService is the read path: store snapshot -> normalization ->
// (filter | aggregation) -> view, with a TTL cache in front.
type QueryService struct {
	store    domain.RecordStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(store domain.RecordStore, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: store, cache: cache, cacheTTL: ttl}
}

// DashboardView is the GET /v1/reviews/hostaway payload.
type DashboardView struct {
	NormalizedReviews []domain.Review   `json:"normalizedReviews"`
	Properties        []domain.Property `json:"properties"`
	Trends            domain.Trend      `json:"trends"`
	TotalCount        int               `json:"totalCount"`
}

// Dashboard returns the normalized review collection (restricted to one
// property when propertyID is non-nil) plus properties and stored trends.
func (s *QueryService) Dashboard(ctx context.Context, propertyID *int64) (DashboardView, error) {
	key := dashboardKeyAll
	if propertyID != nil {
		key = dashboardKey(*propertyID)
	}
	var v DashboardView
	if ok, _ := s.cache.Get(ctx, key, &v); ok {
		return v, nil
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return DashboardView{}, fmt.Errorf("load records: %w", err)
	}

	reviews := NormalizeAll(snap.Reviews)
	if propertyID != nil {
		reviews = Filter(reviews, Criteria{Property: fmt.Sprintf("%d", *propertyID)})
	}

	v = DashboardView{
		NormalizedReviews: reviews,
		Properties:        snap.Properties,
		Trends:            snap.Trends,
		TotalCount:        len(reviews),
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	return v, nil
}

// PropertySummary is one row of the dashboard's per-property ranking.
type PropertySummary struct {
	Property domain.Property `json:"property"`
	Stats    Stats           `json:"stats"`
}

// ListProperties returns every property with its review summary, in store
// order, for the performance ranking table.
func (s *QueryService) ListProperties(ctx context.Context) ([]PropertySummary, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	reviews := NormalizeAll(snap.Reviews)
	out := make([]PropertySummary, 0, len(snap.Properties))
	for _, p := range snap.Properties {
		st := PropertyStats(reviews, p.ID)
		if p.Price == nil && st.AverageRating > 0 {
			est := EstimatePrice(st.AverageRating)
			p.Price = &est
		}
		out = append(out, PropertySummary{Property: p, Stats: st})
	}
	return out, nil
}

// PropertyView is the public property-page payload: the listing plus its
// approved reviews and summary.
type PropertyView struct {
	Property domain.Property `json:"property"`
	Reviews  []domain.Review `json:"reviews"`
	Stats    Stats           `json:"stats"`
}

// GetProperty returns one property with its approved, normalized reviews.
func (s *QueryService) GetProperty(ctx context.Context, id int64) (PropertyView, error) {
	key := propertyKey(id)
	var v PropertyView
	if ok, _ := s.cache.Get(ctx, key, &v); ok {
		return v, nil
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return PropertyView{}, fmt.Errorf("load records: %w", err)
	}

	var prop *domain.Property
	for i := range snap.Properties {
		if snap.Properties[i].ID == id {
			prop = &snap.Properties[i]
			break
		}
	}
	if prop == nil {
		return PropertyView{}, fmt.Errorf("%w: property %d", domain.ErrNotFound, id)
	}

	all := NormalizeAll(snap.Reviews)
	st := PropertyStats(all, id)

	approved := Filter(all, Criteria{
		Property: fmt.Sprintf("%d", id),
		Status:   FilterApproved,
	})

	p := *prop
	if p.Price == nil && st.AverageRating > 0 {
		est := EstimatePrice(st.AverageRating)
		p.Price = &est
	}

	v = PropertyView{Property: p, Reviews: approved, Stats: st}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	return v, nil
}

// OverviewView is the GET /v1/stats payload: collection summary plus live
// channel and monthly rollups alongside the stored trend aggregates.
type OverviewView struct {
	Stats     Stats                `json:"stats"`
	ByChannel []domain.ChannelStat `json:"byChannel"`
	ByMonth   []domain.MonthlyStat `json:"byMonth"`
	Trends    domain.Trend         `json:"trends"`
}

func (s *QueryService) Overview(ctx context.Context) (OverviewView, error) {
	var v OverviewView
	if ok, _ := s.cache.Get(ctx, overviewKey, &v); ok {
		return v, nil
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return OverviewView{}, fmt.Errorf("load records: %w", err)
	}
	reviews := NormalizeAll(snap.Reviews)
	v = OverviewView{
		Stats:     ComputeStats(reviews),
		ByChannel: ChannelRollup(reviews),
		ByMonth:   MonthlyRollup(reviews),
		Trends:    snap.Trends,
	}
	_ = s.cache.Set(ctx, overviewKey, v, int(s.cacheTTL.Seconds()))
	return v, nil
}
