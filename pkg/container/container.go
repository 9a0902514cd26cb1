package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bookstore-api/internal/config"
	"bookstore-api/internal/domains/author"
	"bookstore-api/internal/domains/book"
	"bookstore-api/internal/domains/user"
	infraCache "bookstore-api/internal/infrastructure/cache"
	"bookstore-api/internal/infrastructure/database"
	"bookstore-api/internal/shared/repository"
	"bookstore-api/pkg/cache"
	"bookstore-api/pkg/jwt"
	"bookstore-api/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the application's dependency graph.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Cache      cache.Counter
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AuthorRepo author.Repository
	BookRepo   book.Repository
	UserRepo   user.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService user.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	AuthorHandler *author.Handler
	BookHandler   *book.Handler
	UserHandler   *user.Handler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer connects the infrastructure and wires every layer on top of it.
// Order matters: config, infrastructure, repositories, services, handlers.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI container...")

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	// ========================================
	// STEP 2: REDIS
	// ========================================
	// Redis only backs the login throttle, which fails open, so a
	// connection failure is logged and startup continues.
	rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		logger.Warn("Redis connection failed (non-critical)", err)
	}

	c, err := Wire(cfg, db.Pool, rc)
	if err != nil {
		db.Close()
		_ = rc.Close()
		return nil, err
	}
	c.DB = db
	c.Redis = rc

	// ========================================
	// STEP 3: BOOTSTRAP ADMINISTRATOR
	// ========================================
	if err := c.bootstrapAdministrator(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	log.Info().Msg("DI container initialized")
	return c, nil
}

// Wire builds repositories, services and handlers over already connected
// storage. It performs no I/O.
func Wire(cfg *config.Config, pool repository.DB, counter cache.Counter) (*Container, error) {
	tokens, err := jwt.NewManager(jwt.Options{
		Key:      []byte(cfg.JWT.Key),
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.Expiry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init token manager: %w", err)
	}

	c := &Container{
		Config:     cfg,
		Cache:      counter,
		JWTManager: tokens,
	}

	c.initRepositories(pool)
	c.initServices()
	c.initHandlers()

	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories(pool repository.DB) {
	c.AuthorRepo = author.NewRepository(pool)
	c.BookRepo = book.NewRepository(pool)
	c.UserRepo = user.NewRepository(pool)
}

func (c *Container) initServices() {
	opts := []user.Option{}
	if c.Cache != nil {
		opts = append(opts, user.WithThrottle(user.NewLoginThrottle(
			c.Cache,
			c.Config.Auth.MaxLoginAttempts,
			c.Config.Auth.LoginLockout,
		)))
	}

	c.UserService = user.NewService(c.UserRepo, c.JWTManager, opts...)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = author.NewHandler(c.AuthorRepo)
	c.BookHandler = book.NewHandler(c.BookRepo, c.AuthorRepo)
	c.UserHandler = user.NewHandler(c.UserService)
}

func (c *Container) bootstrapAdministrator(ctx context.Context) error {
	email := c.Config.Auth.BootstrapAdminEmail
	if email == "" {
		return nil
	}

	if err := c.UserService.EnsureAdministrator(ctx, email, c.Config.Auth.BootstrapAdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap administrator: %w", err)
	}
	return nil
}

// Cleanup releases the pool and the Redis client. Call on shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
}
