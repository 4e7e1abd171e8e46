//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"flex_reviews/internal/domain"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pbool(b bool) *bool        { return &b }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_UpsertModerateAndSnapshot(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=flex_reviews",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "flex_reviews")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange
	p := domain.Property{
		ID:       101,
		Name:     "29 Shoreditch Heights",
		Location: "London",
		Type:     domain.PropertyApartment,
		Bedrooms: 2, Bathrooms: 1, Guests: 4,
		Price:  pfloat(150),
		Images: []string{},
		Amenities: []domain.Amenity{
			{Name: "Wifi", Category: domain.AmenityInternetOffice, Icon: "wifi"},
		},
		Policies: domain.Policies{CheckIn: "15:00", CheckOut: "10:00", HouseRules: []string{}},
	}
	if err := repo.UpsertProperty(ctx, p); err != nil {
		t.Fatalf("UpsertProperty: %v", err)
	}

	r1 := domain.Review{
		ID: 7453, PropertyID: 101,
		ListingName:  "29 Shoreditch Heights",
		ReviewerName: "Shane Finkelstein",
		Rating:       pfloat(4.5),
		ReviewCategory: []domain.CategoryRating{
			{Category: "cleanliness", Rating: 5},
		},
		PublicReview:  "Shane and family are wonderful!",
		SubmittedDate: time.Date(2020, 8, 21, 22, 45, 14, 0, time.UTC),
		Channel:       domain.ChannelHostaway,
	}
	r2 := domain.Review{
		ID: 7454, PropertyID: 101,
		ListingName:   "29 Shoreditch Heights",
		ReviewerName:  "Ana Costa",
		SubmittedDate: time.Date(2020, 9, 2, 10, 0, 0, 0, time.UTC),
		Channel:       domain.ChannelGoogle,
	}
	if err := repo.UpsertReviews(ctx, []domain.Review{r1, r2}); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}

	// Moderate
	if err := repo.UpdateReview(ctx, 7453, domain.ReviewPatch{
		IsApproved: pbool(true),
		Response:   pstr("Thanks Shane!"),
	}); err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}
	if err := repo.UpdateReview(ctx, 99999, domain.ReviewPatch{IsApproved: pbool(true)}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown review, got %v", err)
	}

	// Re-import refreshed content; moderation state must survive.
	r1.PublicReview = "Updated from source"
	if err := repo.UpsertReviews(ctx, []domain.Review{r1}); err != nil {
		t.Fatalf("re-import: %v", err)
	}

	// Assert
	snap, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Properties) != 1 || snap.Properties[0].Name != "29 Shoreditch Heights" {
		t.Fatalf("unexpected properties: %+v", snap.Properties)
	}
	if len(snap.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(snap.Reviews))
	}
	got := snap.Reviews[0]
	if got.ID != 7453 || !got.IsApproved || got.Response == nil || *got.Response != "Thanks Shane!" {
		t.Fatalf("moderation state lost: %+v", got)
	}
	if got.PublicReview != "Updated from source" {
		t.Fatalf("re-import did not refresh content: %+v", got)
	}
	if len(got.ReviewCategory) != 1 || got.ReviewCategory[0].Category != "cleanliness" {
		t.Fatalf("categories not round-tripped: %+v", got.ReviewCategory)
	}
	if got.Rating == nil || *got.Rating != 4.5 {
		t.Fatalf("rating not round-tripped: %+v", got.Rating)
	}
	if snap.Reviews[1].Rating != nil {
		t.Fatalf("absent rating must stay NULL: %+v", snap.Reviews[1])
	}
}
