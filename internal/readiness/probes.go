package readiness

import (
	"context"
	"fmt"
	"net"
	"strings"

	"user_accounts/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Service names used in logs and metrics
const (
	ServiceDatabase = "database"
	ServiceCache    = "cache"
	ServiceBroker   = "broker"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probes groups the probe for each dependency of the startup gate
type Probes struct {
	Database Probe
	Cache    Probe
	Broker   Probe
}

// Checks returns the startup checks in their fixed order: database, then the
// cache when cache-backed mode is on, then the broker.
func Checks(cfg *config.Config, probes Probes) []ServiceCheck {
	newCheck := func(name string, probe Probe) ServiceCheck {
		return ServiceCheck{
			Name:         name,
			Probe:        probe,
			WaitInterval: cfg.Readiness.Interval,
			MaxAttempts:  cfg.Readiness.MaxAttempts,
		}
	}

	checks := []ServiceCheck{newCheck(ServiceDatabase, probes.Database)}
	if cfg.UseRedisForCache {
		checks = append(checks, newCheck(ServiceCache, probes.Cache))
	}
	return append(checks, newCheck(ServiceBroker, probes.Broker))
}

// DefaultProbes builds the production probes for cfg
func DefaultProbes(cfg *config.Config, pool Pinger, logger *zap.Logger) Probes {
	return Probes{
		Database: DatabaseProbe(pool, cfg.Database, DirectConnect(cfg.Database), logger),
		Cache:    CacheProbe(cfg.Cache),
		Broker:   BrokerProbe(cfg.Broker),
	}
}

// DatabaseProbe pings the pool. If the ping error mentions the connection
// pooler, the pooler may be up while the pool itself is misbehaving, so a
// single direct connection is tried instead.
func DatabaseProbe(pool Pinger, cfg config.DBConfig, direct Probe, logger *zap.Logger) Probe {
	return func(ctx context.Context) error {
		err := pool.Ping(ctx)
		if err == nil {
			return nil
		}
		if cfg.PoolerMarker == "" || !strings.Contains(err.Error(), cfg.PoolerMarker) {
			return err
		}

		logger.Info("Checking connection pooler", zap.String("marker", cfg.PoolerMarker))
		if err := direct(ctx); err != nil {
			return fmt.Errorf("pooler check failed: %w", err)
		}
		return nil
	}
}

// DirectConnect opens and immediately closes one connection using the
// discrete database credentials.
func DirectConnect(cfg config.DBConfig) Probe {
	return func(ctx context.Context) error {
		conn, err := pgx.Connect(ctx, cfg.DSN())
		if err != nil {
			return err
		}
		return conn.Close(ctx)
	}
}

// CacheProbe connects to redis on database 0 and sends PING. The client is
// created per attempt and always closed.
func CacheProbe(cfg config.CacheConfig) Probe {
	return func(ctx context.Context) error {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       0,
		})
		defer client.Close()

		return ping(ctx, client)
	}
}

func ping(ctx context.Context, client redis.Cmdable) error {
	return client.Ping(ctx).Err()
}

// BrokerProbe opens a raw TCP connection to the broker and closes it
func BrokerProbe(cfg config.BrokerConfig) Probe {
	return func(ctx context.Context) error {
		dialer := net.Dialer{Timeout: cfg.DialTimeout}
		conn, err := dialer.DialContext(ctx, "tcp", cfg.Addr())
		if err != nil {
			return err
		}
		defer conn.Close()

		return nil
	}
}
