package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"flex_reviews/internal/domain"
)

// Store is the file-backed record store: a single JSON document re-read on
// every snapshot and rewritten in full on every update. A mutex serializes
// access because the HTTP server handles requests concurrently.
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store { return &Store{path: path} }

type document struct {
	Reviews    []domain.Review   `json:"reviews"`
	Properties []domain.Property `json:"properties"`
	Trends     domain.Trend      `json:"trends"`
}

func (s *Store) read() (document, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		// A missing file is an empty store; the first write creates it.
		return document{}, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("read data file %s: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return document{}, fmt.Errorf("parse data file %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write data file %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{Reviews: doc.Reviews, Properties: doc.Properties, Trends: doc.Trends}, nil
}

func (s *Store) UpdateReview(ctx context.Context, id int64, patch domain.ReviewPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	idx := -1
	for i := range doc.Reviews {
		if doc.Reviews[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: review %d", domain.ErrNotFound, id)
	}
	applyPatch(&doc.Reviews[idx], patch)
	return s.write(doc)
}

func applyPatch(r *domain.Review, patch domain.ReviewPatch) {
	if patch.IsApproved != nil {
		r.IsApproved = *patch.IsApproved
	}
	if patch.IsFlagged != nil {
		r.IsFlagged = *patch.IsFlagged
	}
	if patch.Response != nil {
		r.Response = patch.Response
	}
}

// UpsertProperty inserts or replaces a property, keyed by id.
func (s *Store) UpsertProperty(ctx context.Context, p domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range doc.Properties {
		if doc.Properties[i].ID == p.ID {
			doc.Properties[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Properties = append(doc.Properties, p)
	}
	return s.write(doc)
}

// UpsertReviews merges imported reviews by id. Re-imports refresh review
// content but keep the existing moderation state (approval, flag, response).
func (s *Store) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	byID := make(map[int64]int, len(doc.Reviews))
	for i := range doc.Reviews {
		byID[doc.Reviews[i].ID] = i
	}
	for _, r := range rs {
		if i, ok := byID[r.ID]; ok {
			prev := doc.Reviews[i]
			r.IsApproved = prev.IsApproved
			r.IsFlagged = prev.IsFlagged
			r.Response = prev.Response
			doc.Reviews[i] = r
			continue
		}
		doc.Reviews = append(doc.Reviews, r)
		byID[r.ID] = len(doc.Reviews) - 1
	}
	return s.write(doc)
}
