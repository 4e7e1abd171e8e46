package memory

import (
	"context"
	"fmt"
	"sync"

	"flex_reviews/internal/domain"
)

// Store is the ephemeral record store: a deep-copied seed snapshot mutated
// under a mutex. State is lost on restart, which is the accepted trade-off
// for deployments without a writable filesystem. Tests construct one per
// case for isolation.
type Store struct {
	mu   sync.Mutex
	snap domain.Snapshot
}

func New(seed domain.Snapshot) *Store {
	return &Store{snap: cloneSnapshot(seed)}
}

func (s *Store) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshot(s.snap), nil
}

func (s *Store) UpdateReview(ctx context.Context, id int64, patch domain.ReviewPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.Reviews {
		if s.snap.Reviews[i].ID != id {
			continue
		}
		r := &s.snap.Reviews[i]
		if patch.IsApproved != nil {
			r.IsApproved = *patch.IsApproved
		}
		if patch.IsFlagged != nil {
			r.IsFlagged = *patch.IsFlagged
		}
		if patch.Response != nil {
			v := *patch.Response
			r.Response = &v
		}
		return nil
	}
	return fmt.Errorf("%w: review %d", domain.ErrNotFound, id)
}

func (s *Store) UpsertProperty(ctx context.Context, p domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.Properties {
		if s.snap.Properties[i].ID == p.ID {
			s.snap.Properties[i] = cloneProperty(p)
			return nil
		}
	}
	s.snap.Properties = append(s.snap.Properties, cloneProperty(p))
	return nil
}

func (s *Store) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := make(map[int64]int, len(s.snap.Reviews))
	for i := range s.snap.Reviews {
		byID[s.snap.Reviews[i].ID] = i
	}
	for _, r := range rs {
		c := cloneReview(r)
		if i, ok := byID[r.ID]; ok {
			prev := s.snap.Reviews[i]
			c.IsApproved = prev.IsApproved
			c.IsFlagged = prev.IsFlagged
			c.Response = prev.Response
			s.snap.Reviews[i] = c
			continue
		}
		s.snap.Reviews = append(s.snap.Reviews, c)
		byID[r.ID] = len(s.snap.Reviews) - 1
	}
	return nil
}

// ---- deep copies ----
// Snapshots returned to callers must not alias internal state; a caller
// holding a slice from a previous read would otherwise observe later writes.

func cloneSnapshot(in domain.Snapshot) domain.Snapshot {
	out := domain.Snapshot{Trends: cloneTrend(in.Trends)}
	if len(in.Reviews) > 0 {
		out.Reviews = make([]domain.Review, len(in.Reviews))
		for i, r := range in.Reviews {
			out.Reviews[i] = cloneReview(r)
		}
	}
	if len(in.Properties) > 0 {
		out.Properties = make([]domain.Property, len(in.Properties))
		for i, p := range in.Properties {
			out.Properties[i] = cloneProperty(p)
		}
	}
	return out
}

func cloneReview(r domain.Review) domain.Review {
	if r.Rating != nil {
		v := *r.Rating
		r.Rating = &v
	}
	if r.Response != nil {
		v := *r.Response
		r.Response = &v
	}
	if r.ReviewCategory != nil {
		r.ReviewCategory = append([]domain.CategoryRating(nil), r.ReviewCategory...)
	}
	return r
}

func cloneProperty(p domain.Property) domain.Property {
	if p.Price != nil {
		v := *p.Price
		p.Price = &v
	}
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	if p.Amenities != nil {
		p.Amenities = append([]domain.Amenity(nil), p.Amenities...)
	}
	if p.Policies.HouseRules != nil {
		p.Policies.HouseRules = append([]string(nil), p.Policies.HouseRules...)
	}
	return p
}

func cloneTrend(t domain.Trend) domain.Trend {
	if t.MonthlyStats != nil {
		t.MonthlyStats = append([]domain.MonthlyStat(nil), t.MonthlyStats...)
	}
	if t.CommonIssues != nil {
		t.CommonIssues = append([]domain.CommonIssue(nil), t.CommonIssues...)
	}
	if t.ChannelPerformance != nil {
		t.ChannelPerformance = append([]domain.ChannelStat(nil), t.ChannelPerformance...)
	}
	return t
}
