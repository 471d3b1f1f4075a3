package cricketapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

func TestProber_Healthy(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("health probe must be unauthenticated")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	status, err := NewProber(srv.URL).Probe(context.Background(), "/api/health", "", time.Second)
	if err != nil || status != http.StatusOK {
		t.Fatalf("unexpected probe result %d %v", status, err)
	}
}

func TestProber_Unauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer")
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	status, err := NewProber(srv.URL).Probe(context.Background(), "/api/matches?per_page=1", "tok", time.Second)
	if status != http.StatusUnauthorized || !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("unexpected probe result %d %v", status, err)
	}
}

func TestProber_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewProber(srv.URL).Probe(context.Background(), "/api/health", "", 30*time.Millisecond)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "request timed out" {
		t.Fatalf("expected timeout, got %v", err)
	}
}
