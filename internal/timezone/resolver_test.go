package timezone

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"vietchef/backend/internal/metrics"
)

type fakeGeocoder struct {
	calls atomic.Int32
	fn    func(ctx context.Context, address string) (float64, float64, error)
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	f.calls.Add(1)
	if f.fn == nil {
		panic("Geocode not configured")
	}
	return f.fn(ctx, address)
}

type fakeZoneLookup struct {
	fn func(ctx context.Context, lat, lng float64, at time.Time) (string, error)
}

func (f *fakeZoneLookup) TimezoneForCoordinates(ctx context.Context, lat, lng float64, at time.Time) (string, error) {
	if f.fn == nil {
		panic("TimezoneForCoordinates not configured")
	}
	return f.fn(ctx, lat, lng, at)
}

func saigonLookup() (*fakeGeocoder, *fakeZoneLookup) {
	geo := &fakeGeocoder{fn: func(ctx context.Context, address string) (float64, float64, error) {
		return 10.77, 106.70, nil
	}}
	zones := &fakeZoneLookup{fn: func(ctx context.Context, lat, lng float64, at time.Time) (string, error) {
		return "Asia/Ho_Chi_Minh", nil
	}}
	return geo, zones
}

func TestResolver_CachesByAddress(t *testing.T) {
	geo, zones := saigonLookup()
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	zones.fn = func(ctx context.Context, lat, lng float64, at time.Time) (string, error) {
		if !at.Equal(now) {
			t.Fatalf("lookup timestamp = %v, want %v", at, now)
		}
		return "Asia/Ho_Chi_Minh", nil
	}
	r := NewResolver(geo, zones, NewMemoryCache(16, time.Hour), WithClock(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		if got := r.Resolve(context.Background(), "District 1, Saigon"); got != "Asia/Ho_Chi_Minh" {
			t.Fatalf("Resolve = %q, want %q", got, "Asia/Ho_Chi_Minh")
		}
	}
	if n := geo.calls.Load(); n != 1 {
		t.Fatalf("geocode calls = %d, want 1", n)
	}
}

func TestResolver_FallbackIsNotCached(t *testing.T) {
	fail := true
	geo := &fakeGeocoder{fn: func(ctx context.Context, address string) (float64, float64, error) {
		if fail {
			return 0, 0, errors.New("quota exceeded")
		}
		return 21.03, 105.85, nil
	}}
	zones := &fakeZoneLookup{fn: func(ctx context.Context, lat, lng float64, at time.Time) (string, error) {
		return "Asia/Bangkok", nil
	}}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r := NewResolver(geo, zones, nil, WithFallbackZone("Asia/Tokyo"), WithMetrics(m))

	if got := r.Resolve(context.Background(), "Hanoi"); got != "Asia/Tokyo" {
		t.Fatalf("Resolve = %q, want fallback %q", got, "Asia/Tokyo")
	}
	fail = false
	if got := r.Resolve(context.Background(), "Hanoi"); got != "Asia/Bangkok" {
		t.Fatalf("Resolve after recovery = %q, want %q", got, "Asia/Bangkok")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var failures float64
	for _, f := range families {
		if f.GetName() != "vietchef_external_lookup_failures_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			failures += metric.GetCounter().GetValue()
		}
	}
	if failures != 1 {
		t.Fatalf("external lookup failures = %v, want 1", failures)
	}
}

func TestResolver_InvalidZoneFallsBack(t *testing.T) {
	geo, zones := saigonLookup()
	zones.fn = func(ctx context.Context, lat, lng float64, at time.Time) (string, error) {
		return "Mars/Olympus_Mons", nil
	}
	r := NewResolver(geo, zones, nil)

	if got := r.Resolve(context.Background(), "somewhere"); got != DefaultFallbackZone {
		t.Fatalf("Resolve = %q, want %q", got, DefaultFallbackZone)
	}
	if got := r.Resolve(context.Background(), "   "); got != DefaultFallbackZone {
		t.Fatalf("Resolve(blank) = %q, want %q", got, DefaultFallbackZone)
	}
}

func TestResolver_ConcurrentResolve(t *testing.T) {
	geo, zones := saigonLookup()
	r := NewResolver(geo, zones, NewMemoryCache(16, time.Hour))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := r.Resolve(context.Background(), "Ben Thanh"); got != "Asia/Ho_Chi_Minh" {
				t.Errorf("Resolve = %q, want %q", got, "Asia/Ho_Chi_Minh")
			}
		}()
	}
	wg.Wait()
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(2, 20*time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "a", "UTC")
	if zone, ok := c.Get(ctx, "a"); !ok || zone != "UTC" {
		t.Fatalf("Get = %q/%v, want UTC/true", zone, ok)
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatalf("expected entry to expire")
	}

	c.Set(ctx, "a", "UTC")
	c.Set(ctx, "b", "UTC")
	c.Set(ctx, "c", "UTC")
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestTieredCache_BackfillsFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	shared := NewRedisCache(client, "test:tz:", time.Hour, nil)
	shared.Set(ctx, "Hoi An", "Asia/Ho_Chi_Minh")

	if got, err := mr.Get("test:tz:Hoi An"); err != nil || got != "Asia/Ho_Chi_Minh" {
		t.Fatalf("redis value = %q (err %v), want %q", got, err, "Asia/Ho_Chi_Minh")
	}
	if ttl := mr.TTL("test:tz:Hoi An"); ttl != time.Hour {
		t.Fatalf("redis ttl = %v, want %v", ttl, time.Hour)
	}

	reg := prometheus.NewRegistry()
	local := NewMemoryCache(8, time.Hour)
	tiered := NewTieredCache(local, shared, metrics.New(reg))

	zone, ok := tiered.Get(ctx, "Hoi An")
	if !ok || zone != "Asia/Ho_Chi_Minh" {
		t.Fatalf("Get = %q/%v, want Asia/Ho_Chi_Minh/true", zone, ok)
	}
	if _, ok := local.Get(ctx, "Hoi An"); !ok {
		t.Fatalf("expected local tier to be backfilled")
	}
	if _, ok := tiered.Get(ctx, "Da Lat"); ok {
		t.Fatalf("expected miss for unknown address")
	}

	tiered.Set(ctx, "Hue", "Asia/Ho_Chi_Minh")
	if !mr.Exists("test:tz:Hue") {
		t.Fatalf("expected Set to write through to redis")
	}
}

func TestRedisCache_ErrorsAreMisses(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	c := NewRedisCache(client, "", time.Hour, nil)

	mr.Close()
	if _, ok := c.Get(context.Background(), "anywhere"); ok {
		t.Fatalf("expected miss when redis is unavailable")
	}
	c.Set(context.Background(), "anywhere", "UTC")
}

func TestResolve_CanceledCallerDoesNotFailSharedLookup(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var (
		sharedErr    error
		sawDeadline  bool
		sharedLookup sync.Once
	)
	geo := &fakeGeocoder{fn: func(ctx context.Context, address string) (float64, float64, error) {
		once.Do(func() { close(entered) })
		<-release
		sharedLookup.Do(func() {
			_, sawDeadline = ctx.Deadline()
			sharedErr = ctx.Err()
		})
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		return 21.03, 105.85, nil
	}}
	zones := &fakeZoneLookup{fn: func(ctx context.Context, lat, lng float64, at time.Time) (string, error) {
		return "Asia/Bangkok", nil
	}}
	r := NewResolver(geo, zones, nil, WithFallbackZone("Asia/Tokyo"), WithLookupTimeout(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan string, 1)
	go func() { first <- r.Resolve(ctx, "Hanoi") }()

	<-entered
	cancel()
	if got := <-first; got != "Asia/Tokyo" {
		t.Fatalf("canceled caller = %q, want fallback %q", got, "Asia/Tokyo")
	}
	close(release)

	if got := r.Resolve(context.Background(), "Hanoi"); got != "Asia/Bangkok" {
		t.Fatalf("Resolve = %q, want %q", got, "Asia/Bangkok")
	}
	if sharedErr != nil {
		t.Fatalf("shared lookup context error = %v, want nil", sharedErr)
	}
	if !sawDeadline {
		t.Fatalf("expected shared lookup to carry its own deadline")
	}
}
