package geo

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testAPIKey = "AIza-test-key"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: testAPIKey, BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}, nil); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("address"); got != "12 Hang Bac, Hanoi" {
			t.Errorf("address = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":21.0341,"lng":105.8522}}}]}`))
	})

	lat, lng, err := c.Geocode(context.Background(), "12 Hang Bac, Hanoi")
	if err != nil {
		t.Fatalf("Geocode error: %v", err)
	}
	if math.Abs(lat-21.0341) > 1e-9 || math.Abs(lng-105.8522) > 1e-9 {
		t.Fatalf("location = (%v, %v), want (21.0341, 105.8522)", lat, lng)
	}
}

func TestGeocode_ZeroResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	if _, _, err := c.Geocode(context.Background(), "nowhere"); err == nil {
		t.Fatalf("expected error for zero results")
	}
}

func TestTimezoneForCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/timezone/json" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("location"); got == "" {
			t.Errorf("missing location parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","dstOffset":0,"rawOffset":25200,"timeZoneId":"Asia/Ho_Chi_Minh","timeZoneName":"Indochina Time"}`))
	})

	zone, err := c.TimezoneForCoordinates(context.Background(), 21.0341, 105.8522, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("TimezoneForCoordinates error: %v", err)
	}
	if zone != "Asia/Ho_Chi_Minh" {
		t.Fatalf("zone = %q, want %q", zone, "Asia/Ho_Chi_Minh")
	}
}

func TestDistanceAndDuration(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/distancematrix/json" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("mode"); got != "driving" {
			t.Errorf("mode = %q, want driving", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","origin_addresses":["a"],"destination_addresses":["b"],"rows":[{"elements":[{"status":"OK","distance":{"text":"12.5 km","value":12500},"duration":{"text":"30 mins","value":1800}}]}]}`))
	})

	km, hours, err := c.DistanceAndDuration(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("DistanceAndDuration error: %v", err)
	}
	if math.Abs(km-12.5) > 1e-9 {
		t.Fatalf("distance = %v, want 12.5", km)
	}
	if math.Abs(hours-0.5) > 1e-9 {
		t.Fatalf("duration = %v, want 0.5", hours)
	}
}

func TestDistanceAndDuration_ElementNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"ZERO_RESULTS","distance":{"text":"","value":0},"duration":{"text":"","value":0}}]}]}`))
	})

	_, _, err := c.DistanceAndDuration(context.Background(), "a", "b")
	if err == nil {
		t.Fatalf("expected error for unroutable element")
	}
	if errors.Is(err, ErrNoResults) {
		t.Fatalf("error = %v, want element status error", err)
	}
}
