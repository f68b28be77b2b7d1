package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"vietchef/backend/internal/metrics"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/vietchef.test.v1.Test/Do"}

func TestRequestIDInterceptor_AdoptsIncomingID(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDMetadataKey, "req-123"))

	var got string
	_, err := RequestIDInterceptor()(ctx, nil, testInfo, func(ctx context.Context, req any) (any, error) {
		got = RequestIDFromContext(ctx)
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor error: %v", err)
	}
	if got != "req-123" {
		t.Fatalf("request id = %q, want %q", got, "req-123")
	}
}

func TestRequestIDInterceptor_GeneratesID(t *testing.T) {
	var got string
	_, _ = RequestIDInterceptor()(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		got = RequestIDFromContext(ctx)
		return nil, nil
	})
	if got == "" {
		t.Fatalf("expected a generated request id")
	}
}

func TestDefaultTimeoutInterceptor(t *testing.T) {
	interceptor := DefaultTimeoutInterceptor(time.Minute)

	_, _ = interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Fatalf("expected deadline to be set")
		}
		if until := time.Until(deadline); until <= 0 || until > time.Minute {
			t.Fatalf("deadline in %v, want within 1m", until)
		}
		return nil, nil
	})

	parent, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	want, _ := parent.Deadline()
	_, _ = interceptor(parent, nil, testInfo, func(ctx context.Context, req any) (any, error) {
		got, _ := ctx.Deadline()
		if !got.Equal(want) {
			t.Fatalf("deadline = %v, want caller deadline %v", got, want)
		}
		return nil, nil
	})
}

func TestRateLimitInterceptor(t *testing.T) {
	interceptor := RateLimitInterceptor(rate.NewLimiter(rate.Every(time.Hour), 1))
	ok := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	if _, err := interceptor(context.Background(), nil, testInfo, ok); err != nil {
		t.Fatalf("first call error: %v", err)
	}
	_, err := interceptor(context.Background(), nil, testInfo, ok)
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("code = %v, want ResourceExhausted", status.Code(err))
	}

	if _, err := RateLimitInterceptor(nil)(context.Background(), nil, testInfo, ok); err != nil {
		t.Fatalf("nil limiter error: %v", err)
	}
}

func TestMetricsInterceptor_RecordsCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	interceptor := MetricsInterceptor(metrics.New(reg))

	_, _ = interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	found := false
	for _, fam := range families {
		if fam.GetName() != "vietchef_rpc_requests_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["method"] == testInfo.FullMethod && labels["code"] == "NotFound" && metric.GetCounter().GetValue() == 1 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected vietchef_rpc_requests_total{code=NotFound} = 1")
	}
}
