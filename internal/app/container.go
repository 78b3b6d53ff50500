// Package app wires application dependencies for the CLI and tests.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	availabilityApp "github.com/tetherhq/tether/internal/availability/application"
	"github.com/tetherhq/tether/internal/availability/application/queries"
	"github.com/tetherhq/tether/internal/availability/application/services"
	calendarApp "github.com/tetherhq/tether/internal/calendar/application"
	calendarDomain "github.com/tetherhq/tether/internal/calendar/domain"
	"github.com/tetherhq/tether/internal/calendar/infrastructure/cache"
	"github.com/tetherhq/tether/internal/calendar/infrastructure/caldav"
	"github.com/tetherhq/tether/internal/calendar/infrastructure/google"
	"github.com/tetherhq/tether/internal/calendar/infrastructure/persistence"
	"github.com/tetherhq/tether/internal/calendar/infrastructure/resilience"
	"github.com/tetherhq/tether/pkg/config"

	_ "modernc.org/sqlite"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	// Database (one of the two is set, per DATABASE_DRIVER)
	SQLiteDB *sql.DB
	PGPool   *pgxpool.Pool

	// Redis (optional)
	RedisClient *redis.Client

	// Calendar context
	CalendarRepo calendarDomain.ConnectedCalendarRepository
	Providers    *calendarApp.ProviderRegistry
	Gateway      availabilityApp.CalendarGateway

	// Availability context
	Aggregator       *services.BusyTimeAggregator
	FindAvailability *queries.FindAvailabilityHandler
	CheckConflicts   *queries.CheckConflictsHandler
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid TETHER_USER_ID: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		UserID: userID,
	}

	if err := c.connectDatabase(ctx); err != nil {
		return nil, err
	}

	c.connectRedis(ctx)

	// Providers: CalDAV needs no setup; Google is registered only when OAuth
	// credentials are configured.
	c.Providers = calendarApp.NewProviderRegistry()
	c.Providers.Register(calendarDomain.ProviderCalDAV, caldav.NewProvider(logger))
	if cfg.GoogleClientID != "" && cfg.GoogleRefreshToken != "" {
		tokens := google.NewEnvTokenService(google.OAuthConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RefreshToken: cfg.GoogleRefreshToken,
			TokenURL:     cfg.GoogleTokenURL,
		})
		c.Providers.Register(calendarDomain.ProviderGoogle, google.NewProvider(tokens, logger))
	}

	// Gateway chain: registry -> breaker -> cache.
	var gateway availabilityApp.CalendarGateway = calendarApp.NewRegistryGateway(c.CalendarRepo, c.Providers, logger)
	gateway = resilience.NewBreakerGateway(gateway, breakerConfig(cfg), logger)
	if c.RedisClient != nil {
		gateway = cache.NewRedisGateway(gateway, c.RedisClient, cfg.BusyCacheTTL, logger)
	}
	c.Gateway = gateway

	c.Aggregator = services.NewBusyTimeAggregator(gateway, logger)
	c.FindAvailability = queries.NewFindAvailabilityHandler(c.Aggregator, logger)
	c.CheckConflicts = queries.NewCheckConflictsHandler(gateway, logger)

	return c, nil
}

func (c *Container) connectDatabase(ctx context.Context) error {
	switch c.Config.DatabaseDriver {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		c.PGPool = pool
		c.CalendarRepo = persistence.NewPostgresConnectedCalendarRepository(pool)
		c.Logger.Info("connected to postgres")
	case "sqlite":
		db, err := sql.Open("sqlite", c.Config.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to ping sqlite database: %w", err)
		}
		c.SQLiteDB = db
		c.CalendarRepo = persistence.NewSQLiteConnectedCalendarRepository(db)
		c.Logger.Info("opened sqlite database", "path", c.Config.SQLitePath)
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Config.DatabaseDriver)
	}
	return nil
}

// connectRedis opens the optional busy cache. Unreachable Redis downgrades
// to no caching rather than failing startup.
func (c *Container) connectRedis(ctx context.Context) {
	if c.Config.RedisURL == "" {
		return
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid Redis URL, busy cache disabled", "error", err)
		return
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("Redis not available, busy cache disabled", "error", err)
		_ = client.Close()
		return
	}
	c.RedisClient = client
	c.Logger.Info("connected to redis")
}

// breakerConfig maps environment settings onto the circuit breaker defaults.
// Non-positive values keep the default; they would otherwise wrap around when
// converted to uint32.
func breakerConfig(cfg *config.Config) resilience.BreakerConfig {
	breaker := resilience.DefaultBreakerConfig()
	if cfg.BreakerMaxRequests > 0 {
		breaker.MaxRequests = uint32(cfg.BreakerMaxRequests)
	}
	if cfg.BreakerInterval > 0 {
		breaker.Interval = cfg.BreakerInterval
	}
	if cfg.BreakerTimeout > 0 {
		breaker.Timeout = cfg.BreakerTimeout
	}
	if cfg.BreakerFailureThreshold > 0 {
		breaker.FailureThreshold = uint32(cfg.BreakerFailureThreshold)
	}
	return breaker
}

// Close releases all held resources.
func (c *Container) Close() {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
	if c.SQLiteDB != nil {
		_ = c.SQLiteDB.Close()
	}
}
