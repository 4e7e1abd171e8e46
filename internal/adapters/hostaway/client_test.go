package hostaway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/domain"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := hostaway.New("http://example.com", "", 5); err == nil {
		t.Fatalf("expected error for empty API key")
	}
}

func TestGetListingReviews_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("listingId"); got != "101" {
			t.Errorf("listingId = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","result":[{"id":7453,"rating":9}]}`))
	}))
	defer srv.Close()

	c, err := hostaway.New(srv.URL, "test-key", 50)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := c.GetListingReviews(context.Background(), 101, 100)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out) != 1 || out[0]["id"].(float64) != 7453 {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestGetListingReviews_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","result":[]}`))
	}))
	defer srv.Close()

	c, _ := hostaway.New(srv.URL, "test-key", 50)
	if _, err := c.GetListingReviews(context.Background(), 101, 100); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestGetListingReviews_MissingListingWrapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := hostaway.New(srv.URL, "test-key", 50)
	_, err := c.GetListingReviews(context.Background(), 999, 100)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetListingReviews_AuthFailuresDoNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _ := hostaway.New(srv.URL, "test-key", 50)
	_, err := c.GetListingReviews(context.Background(), 101, 100)
	if !errors.Is(err, hostaway.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("401 should not be retried, got %d attempts", n)
	}
}

func TestGetListingReviews_RejectsFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","result":[]}`))
	}))
	defer srv.Close()

	c, _ := hostaway.New(srv.URL, "test-key", 50)
	if _, err := c.GetListingReviews(context.Background(), 101, 100); err == nil {
		t.Fatalf("expected error for non-success envelope status")
	}
}
