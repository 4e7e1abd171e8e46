package app

import (
	"context"
	"fmt"
	"strings"

	"flex_reviews/internal/domain"
)

// ModerationService validates and applies moderation actions to single
// reviews. Validation runs before any store access; either the full patch is
// merged or nothing is.
type ModerationService struct {
	store domain.RecordStore
	cache domain.Cache
}

func NewModerationService(store domain.RecordStore, cache domain.Cache) *ModerationService {
	return &ModerationService{store: store, cache: cache}
}

// ModerationResult carries the pre- and post-transition snapshots so callers
// can render a diff or support undo.
type ModerationResult struct {
	Review   domain.Review `json:"review"`
	Previous domain.Review `json:"previousState"`
}

func boolPtr(b bool) *bool { return &b }

// Apply runs one moderation action against the review with the given id.
// Unknown actions and a missing/empty response text for "respond" fail with
// domain.ErrValidation; an unresolvable id fails with domain.ErrNotFound.
func (s *ModerationService) Apply(ctx context.Context, id int64, action domain.Action, response string) (ModerationResult, error) {
	if id <= 0 {
		return ModerationResult{}, fmt.Errorf("%w: review id must be a positive integer", domain.ErrValidation)
	}
	if !action.Valid() {
		return ModerationResult{}, fmt.Errorf("%w: invalid action: %s", domain.ErrValidation, action)
	}

	var patch domain.ReviewPatch
	switch action {
	case domain.ActionApprove:
		patch.IsApproved = boolPtr(true)
	case domain.ActionReject:
		patch.IsApproved = boolPtr(false)
	case domain.ActionFlag:
		patch.IsFlagged = boolPtr(true)
	case domain.ActionUnflag:
		patch.IsFlagged = boolPtr(false)
	case domain.ActionRespond:
		if strings.TrimSpace(response) == "" {
			return ModerationResult{}, fmt.Errorf("%w: response text is required for respond action", domain.ErrValidation)
		}
		patch.Response = &response
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return ModerationResult{}, fmt.Errorf("load records: %w", err)
	}
	var prev *domain.Review
	for i := range snap.Reviews {
		if snap.Reviews[i].ID == id {
			prev = &snap.Reviews[i]
			break
		}
	}
	if prev == nil {
		return ModerationResult{}, fmt.Errorf("%w: review %d", domain.ErrNotFound, id)
	}

	if err := s.store.UpdateReview(ctx, id, patch); err != nil {
		return ModerationResult{}, fmt.Errorf("update review %d: %w", id, err)
	}

	updated := *prev
	if patch.IsApproved != nil {
		updated.IsApproved = *patch.IsApproved
	}
	if patch.IsFlagged != nil {
		updated.IsFlagged = *patch.IsFlagged
	}
	if patch.Response != nil {
		updated.Response = patch.Response
	}

	if s.cache != nil {
		s.invalidate(ctx, prev.PropertyID)
	}

	return ModerationResult{Review: updated, Previous: *prev}, nil
}

// invalidate drops the read-path cache entries touched by a moderation.
func (s *ModerationService) invalidate(ctx context.Context, propertyID int64) {
	_ = s.cache.Del(ctx, dashboardKeyAll)
	_ = s.cache.Del(ctx, dashboardKey(propertyID))
	_ = s.cache.Del(ctx, propertyKey(propertyID))
	_ = s.cache.Del(ctx, overviewKey)
}
