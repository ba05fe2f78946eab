package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/clinic-booking-widget/internal/booking"
	appconfig "github.com/wolfman30/clinic-booking-widget/internal/config"
	"github.com/wolfman30/clinic-booking-widget/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-widget/internal/snapshot"
	"github.com/wolfman30/clinic-booking-widget/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		client.Close()
		return nil
	}
	return client
}

// BuildBlobStore picks the snapshot backend named in cfg. An unreachable
// Redis falls back to the file backend. The returned closer is never nil.
func BuildBlobStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (snapshot.BlobStore, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() error { return nil }

	switch cfg.SnapshotBackend {
	case appconfig.BackendMemory:
		logger.Info("snapshot backend", "backend", appconfig.BackendMemory)
		return snapshot.NewMemoryStore(), noop, nil
	case appconfig.BackendRedis:
		if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
			logger.Info("snapshot backend", "backend", appconfig.BackendRedis, "addr", cfg.RedisAddr)
			return snapshot.NewRedisStore(client), client.Close, nil
		}
		logger.Warn("falling back to file snapshot backend", "dir", cfg.SnapshotDir)
	case appconfig.BackendFile, "":
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown snapshot backend %q", cfg.SnapshotBackend)
	}

	store, err := snapshot.NewFileStore(cfg.SnapshotDir)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: file snapshot: %w", err)
	}
	logger.Info("snapshot backend", "backend", appconfig.BackendFile, "dir", cfg.SnapshotDir)
	return store, noop, nil
}

// BuildBookingMetrics registers booking counters on reg when metrics are
// enabled, otherwise returns nil (the metrics type is nil-safe).
func BuildBookingMetrics(cfg *appconfig.Config, reg prometheus.Registerer) *metrics.BookingMetrics {
	if cfg == nil || !cfg.MetricsEnabled {
		return nil
	}
	return metrics.NewBookingMetrics(reg)
}

// BuildBookingService opens the booking service over blobs: load, sweep,
// ready for the first render.
func BuildBookingService(ctx context.Context, cfg *appconfig.Config, blobs snapshot.BlobStore, logger *logging.Logger, opts ...booking.Option) *booking.Service {
	key := ""
	if cfg != nil {
		key = cfg.SnapshotKey
	}
	store := booking.NewStore(blobs, key, logger)
	return booking.Open(ctx, store, logger, opts...)
}
