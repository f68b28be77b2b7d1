package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"vietchef/backend/internal/metrics"
	"vietchef/backend/internal/service/availability"
	"vietchef/backend/internal/service/schedules"
	"vietchef/backend/internal/store"
)

type ServerOptions struct {
	RequestTimeout time.Duration
	// RateLimit is requests per second across all methods; zero disables limiting.
	RateLimit float64
	RateBurst int
	Metrics   *metrics.Metrics
}

// NewServer builds a gRPC server with tracing and the standard interceptor chain.
func NewServer(opts ServerOptions, extra ...grpc.ServerOption) *grpc.Server {
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimit)
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	serverOpts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			RequestIDInterceptor(),
			MetricsInterceptor(opts.Metrics),
			RateLimitInterceptor(limiter),
			DefaultTimeoutInterceptor(opts.RequestTimeout),
		),
	}
	serverOpts = append(serverOpts, extra...)
	return grpc.NewServer(serverOpts...)
}

// unary adapts a typed handler method into a grpc.MethodDesc.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func rpcLogger(ctx context.Context, base *slog.Logger, rpc string) *slog.Logger {
	log := base.With(slog.String("rpc", rpc))
	if id := RequestIDFromContext(ctx); id != "" {
		log = log.With(slog.String("request_id", id))
	}
	return log
}

// statusFromError maps service and store errors onto gRPC status codes and
// logs them at the level their kind warrants.
func statusFromError(ctx context.Context, log *slog.Logger, op string, err error, attrs ...any) error {
	var (
		availValidation *availability.ValidationError
		schedValidation *schedules.ValidationError
		external        *availability.ExternalServiceError
	)
	switch {
	case errors.As(err, &availValidation), errors.As(err, &schedValidation):
		log.WarnContext(ctx, "invalid request", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, store.ErrNotFound):
		log.InfoContext(ctx, op+" not found", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		log.InfoContext(ctx, op+" conflict", attrs...)
		return status.Error(codes.FailedPrecondition, "This change conflicts with an existing booking or schedule. Pick a different time.")
	case errors.As(err, &external):
		log.ErrorContext(ctx, op+" external lookup failed", append([]any{slog.Any("err", err), slog.String("service", external.Service)}, attrs...)...)
		return status.Errorf(codes.Unavailable, "%s service unavailable", external.Service)
	case errors.Is(err, context.DeadlineExceeded):
		log.WarnContext(ctx, op+" timed out", attrs...)
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	default:
		log.ErrorContext(ctx, op+" failed", append([]any{slog.Any("err", err)}, attrs...)...)
		return status.Error(codes.Internal, "internal error")
	}
}
