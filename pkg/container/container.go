package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"

	authorRepo "blog-backend/internal/domains/author/repository"
	authorService "blog-backend/internal/domains/author/service"
	commentHandler "blog-backend/internal/domains/comment/handler"
	commentRepo "blog-backend/internal/domains/comment/repository"
	commentService "blog-backend/internal/domains/comment/service"
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
	userHandler "blog-backend/internal/domains/user/handler"
	userRepo "blog-backend/internal/domains/user/repository"
	userService "blog-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Every field is a singleton
// for the lifetime of the process.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo    userRepo.UserRepository
	AuthorRepo  authorRepo.RepositoryInterface
	PostRepo    postRepo.RepositoryInterface
	CommentRepo commentRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService    userService.ServiceInterface
	AuthorService  authorService.ServiceInterface
	PostService    postService.ServiceInterface
	CommentService commentService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler    *userHandler.UserHandler
	PostHandler    *postHandler.PostHandler
	CommentHandler *commentHandler.CommentHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in dependency order:
// infrastructure, repositories, services, handlers.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("[CONTAINER] Initializing")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 2: CACHE
	// ========================================
	c.Cache = c.connectCache(ctx)

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenTTL(),
		cfg.JWT.RefreshTokenTTL(),
	)

	// ========================================
	// STEP 3..5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("[CONTAINER] Initialized")
	return c, nil
}

// connectCache prefers Redis. Lockout counters and token revocations fall back
// to process memory when Redis is unreachable, which is only correct for a
// single instance.
func (c *Container) connectCache(ctx context.Context) cache.Cache {
	redisCache := infraCache.NewRedisCache(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)

	if err := redisCache.Connect(ctx); err != nil {
		logger.Warn("[REDIS] Unavailable, falling back to in-memory cache", map[string]interface{}{
			"addr":  c.Config.Redis.Host,
			"error": err.Error(),
		})
		_ = redisCache.Close()
		return cache.NewMemoryCache()
	}
	return redisCache
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
	c.PostRepo = postRepo.NewPostgresRepository(pool, c.Config.App.TimeZone)
	c.CommentRepo = commentRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.Cache,
		c.JWTManager,
		userService.LockoutPolicy{
			MaxAttempts: c.Config.API.LoginMaxAttempts,
			Duration:    c.Config.API.LoginLockout,
		},
	)

	// Authors are seeded from user accounts
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.UserService)

	// Comments look posts up regardless of their active flag
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.PostRepo, c.UserService)

	c.PostService = postService.NewPostService(
		c.PostRepo,
		c.AuthorService,
		c.CommentService,
		c.Config.API.PageSize,
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.PostHandler = postHandler.NewPostHandler(c.PostService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
}

// Cleanup releases pooled connections. Called during graceful shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("[CONTAINER] Cleaning up")

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("[REDIS] Close failed", err)
		}
	}
}
