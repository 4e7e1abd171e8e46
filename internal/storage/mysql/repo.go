package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"flex_reviews/internal/domain"
)

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func valStrPtr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valBoolPtr(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

// Repo is the durable record store backend.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	reviews, err := r.listReviews(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	props, err := r.listProperties(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	trends, err := r.loadTrends(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.Reviews = reviews
	snap.Properties = props
	snap.Trends = trends
	return snap, nil
}

func (r *Repo) UpdateReview(ctx context.Context, id int64, patch domain.ReviewPatch) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, reviewExistsSQL, id).Scan(&exists); err != nil {
		return fmt.Errorf("check review %d: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("%w: review %d", domain.ErrNotFound, id)
	}
	_, err := r.db.ExecContext(ctx, updateReviewSQL,
		valBoolPtr(patch.IsApproved),
		valBoolPtr(patch.IsFlagged),
		valStrPtr(patch.Response),
		id,
	)
	return err
}

func (r *Repo) UpsertProperty(ctx context.Context, p domain.Property) error {
	images, _ := json.Marshal(p.Images)
	amenities, _ := json.Marshal(p.Amenities)
	policies, _ := json.Marshal(p.Policies)
	_, err := r.db.ExecContext(ctx, upsertPropertySQL,
		p.ID,
		p.Name,
		p.Location,
		p.Address,
		p.Coordinates.Lat,
		p.Coordinates.Lng,
		string(p.Type),
		p.Bedrooms,
		p.Bathrooms,
		p.Guests,
		valF64(p.Price),
		p.Description,
		string(images),
		string(amenities),
		string(policies),
	)
	return err
}

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*12)
	for _, rv := range rs {
		cats, _ := json.Marshal(rv.ReviewCategory)
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.ID,
			rv.PropertyID,
			rv.ListingName,
			rv.ReviewerName,
			valF64(rv.Rating),
			string(cats),
			rv.PublicReview,
			rv.SubmittedDate,
			string(rv.Channel),
			rv.IsApproved,
			rv.IsFlagged,
			valStrPtr(rv.Response),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) listReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, selectReviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var (
			rating    sql.NullFloat64
			catsRaw   []byte
			submitted sql.NullTime
			channel   string
			response  sql.NullString
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.PropertyID,
			&rv.ListingName,
			&rv.ReviewerName,
			&rating,
			&catsRaw,
			&rv.PublicReview,
			&submitted,
			&channel,
			&rv.IsApproved,
			&rv.IsFlagged,
			&response,
		); err != nil {
			return nil, err
		}
		if rating.Valid {
			f := rating.Float64
			rv.Rating = &f
		}
		if len(catsRaw) > 0 {
			_ = json.Unmarshal(catsRaw, &rv.ReviewCategory)
		}
		if submitted.Valid {
			rv.SubmittedDate = submitted.Time
		}
		rv.Channel = domain.Channel(channel)
		if response.Valid {
			s := response.String
			rv.Response = &s
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) listProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, selectPropertiesSQL)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		var p domain.Property
		var (
			ptype     string
			price     sql.NullFloat64
			images    []byte
			amenities []byte
			policies  []byte
		)
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Location,
			&p.Address,
			&p.Coordinates.Lat,
			&p.Coordinates.Lng,
			&ptype,
			&p.Bedrooms,
			&p.Bathrooms,
			&p.Guests,
			&price,
			&p.Description,
			&images,
			&amenities,
			&policies,
		); err != nil {
			return nil, err
		}
		p.Type = domain.PropertyType(ptype)
		if price.Valid {
			f := price.Float64
			p.Price = &f
		}
		_ = json.Unmarshal(images, &p.Images)
		_ = json.Unmarshal(amenities, &p.Amenities)
		_ = json.Unmarshal(policies, &p.Policies)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) loadTrends(ctx context.Context) (domain.Trend, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, selectTrendsSQL).Scan(&doc)
	if err == sql.ErrNoRows {
		return domain.Trend{}, nil
	}
	if err != nil {
		return domain.Trend{}, fmt.Errorf("load trends: %w", err)
	}
	var t domain.Trend
	if err := json.Unmarshal(doc, &t); err != nil {
		return domain.Trend{}, fmt.Errorf("parse trends doc: %w", err)
	}
	return t, nil
}
