package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"vietchef/backend/internal/config"
	"vietchef/backend/internal/geo"
	"vietchef/backend/internal/metrics"
	"vietchef/backend/internal/service/availability"
	"vietchef/backend/internal/service/schedules"
	"vietchef/backend/internal/store/postgres"
	"vietchef/backend/internal/telemetry"
	"vietchef/backend/internal/timezone"
	grpcTransport "vietchef/backend/internal/transport/grpc"
)

const serviceName = "vietchef-server"

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	log.Info("starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("metrics_addr", cfg.MetricsAddr),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Error("tracing setup failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", slog.Any("err", err))
		}
	}()

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("database migration failed", slog.Any("err", err))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	readyChecks := []metrics.ReadyCheck{{
		Name:  "database",
		Check: func(ctx context.Context) error { return db.PingContext(ctx) },
	}}

	var sharedCache timezone.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("redis close failed", slog.Any("err", err))
			}
		}()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable; timezone cache will retry per request", slog.Any("err", err), slog.String("redis_addr", cfg.RedisAddr))
		}
		sharedCache = timezone.NewRedisCache(rdb, "", cfg.TimezoneCacheTTL, log)
		readyChecks = append(readyChecks, metrics.ReadyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	maps, err := geo.NewClient(geo.Config{
		APIKey:    cfg.MapsAPIKey,
		RateLimit: cfg.MapsRateLimit,
	}, log)
	if err != nil {
		log.Error("maps client init failed", slog.Any("err", err))
		os.Exit(1)
	}

	zones := timezone.NewResolver(maps, maps,
		timezone.NewTieredCache(timezone.NewMemoryCache(cfg.TimezoneCacheSize, cfg.TimezoneCacheTTL), sharedCache, m),
		timezone.WithFallbackZone(cfg.TimezoneFallbackZone),
		timezone.WithLookupTimeout(cfg.TimezoneLookupTimeout),
		timezone.WithLogger(log),
		timezone.WithMetrics(m),
	)

	repo := postgres.NewAvailabilityRepo(db)
	availabilitySvc := availability.NewService(repo, availability.Deps{
		Zones:    zones,
		Distance: maps,
		CookTime: postgres.NewCookTimeRepo(db),
		Metrics:  m,
		Logger:   log,
	}, availability.Config{
		MaxRangeDays:        cfg.MaxRangeDays,
		ConflictHorizonDays: cfg.ConflictHorizonDays,
		Concurrency:         cfg.ResolveConcurrency,
	})
	schedulesSvc := schedules.NewService(repo, availabilitySvc, log)

	grpcServer := grpcTransport.NewServer(grpcTransport.ServerOptions{
		RequestTimeout: cfg.GRPCRequestTimeout,
		RateLimit:      cfg.GRPCRateLimit,
		RateBurst:      cfg.GRPCRateBurst,
		Metrics:        m,
	})
	grpcTransport.RegisterAvailabilityServer(grpcServer, grpcTransport.NewAvailabilityServer(availabilitySvc, log))
	grpcTransport.RegisterScheduleServer(grpcServer, grpcTransport.NewScheduleServer(schedulesSvc, log))

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metrics.NewMux(reg, readyChecks...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr()))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("server stopped with error", slog.Any("err", err))
		}
	}
	shutdown(log, grpcServer, metricsServer, cfg.ShutdownTimeout)
}

func shutdown(log *slog.Logger, s *grpc.Server, metricsServer *http.Server, timeout time.Duration) {
	log.Info("shutting down", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Warn("metrics server shutdown failed", slog.Any("err", err))
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
