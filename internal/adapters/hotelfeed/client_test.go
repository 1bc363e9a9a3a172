package hotelfeed_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"wanderbot/internal/adapters/hotelfeed"
	"wanderbot/internal/domain"
)

func feedServer(t *testing.T, h http.HandlerFunc) *hotelfeed.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := hotelfeed.New(ts.URL+"/", "feed-key", 100)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return cl
}

func TestGetProperty_SendsKeyAndSurvivesTransientErrors(t *testing.T) {
	var calls int32
	cl := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "feed-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path != "/properties/501" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"hotel_id": 501, "hotel_name": "Backwater Retreat"})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	doc, err := cl.GetProperty(ctx, 501)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["hotel_name"] != "Backwater Retreat" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
}

func TestGetProperty_SingularPathFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/property/88", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 88})
	})
	cl := feedServer(t, mux.ServeHTTP)

	doc, err := cl.GetProperty(context.Background(), 88)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["id"] != 88.0 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestGetProperty_MissingEverywhere(t *testing.T) {
	cl := feedServer(t, http.NotFound)
	_, err := cl.GetProperty(context.Background(), 9)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestGetProperty_AccessDeniedIsNotRetriedOnLegacyPath(t *testing.T) {
	var calls int32
	cl := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	})
	_, err := cl.GetProperty(context.Background(), 3)
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("want access denied, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := hotelfeed.New("http://feed", "", 1); !errors.Is(err, hotelfeed.ErrNoKey) {
		t.Fatalf("missing key: %v", err)
	}
	if _, err := hotelfeed.New("", "k", 1); !errors.Is(err, hotelfeed.ErrNoBase) {
		t.Fatalf("missing base: %v", err)
	}
}
