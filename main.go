package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xytext/xytext/handlers"
	"github.com/xytext/xytext/internal/actor"
	"github.com/xytext/xytext/internal/archive"
	"github.com/xytext/xytext/internal/config"
	"github.com/xytext/xytext/internal/database"
	"github.com/xytext/xytext/internal/document/repository"
	"github.com/xytext/xytext/internal/identity"
	"github.com/xytext/xytext/pkg/logger"
	"github.com/xytext/xytext/pkg/metrics"
	"github.com/xytext/xytext/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging first (controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v oidc=%v archive=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Identity.OIDCIssuer != "", cfg.Archive.Endpoint != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// Redis carries the external token->username mappings and optionally the
	// distributed rate limiter
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Identity resolution chain: Redis token store, then OIDC, then shared
	// secret JWTs; anything unresolved degrades to anonymous
	var resolvers []identity.Resolver
	if redisClient != nil {
		resolvers = append(resolvers, identity.NewRedisResolver(redisClient, ""))
	}
	if cfg.Identity.OIDCIssuer != "" && cfg.Identity.OIDCClientID != "" {
		or, err := identity.NewOIDCResolver(ctx, cfg.Identity.OIDCIssuer, cfg.Identity.OIDCClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC resolver: %v", err)
		} else {
			resolvers = append(resolvers, or)
		}
	}
	if cfg.Identity.JWTSecret != "" {
		resolvers = append(resolvers, identity.NewJWTResolver(cfg.Identity.JWTSecret))
	}
	resolver := identity.NewChain(resolvers...)
	r.Use(middleware.IdentityMiddleware(resolver, cfg.Identity.TokenCookie))

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Document store: MongoDB when configured, in-memory otherwise (dev mode,
	// contents do not survive a restart)
	var repo repository.Repository
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		// retry/backoff to tolerate startup races with the database container
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		}
		defer func() { _ = mongoClient.Disconnect(ctx) }()
		repo = repository.NewMongoRepo(mongoClient.Database(cfg.MongoDB.Database).Collection("documents"))
		logger.Infof("Using MongoDB document store (db=%s)", cfg.MongoDB.Database)
	} else {
		repo = repository.NewMemoryRepo()
		logger.Warn("MONGODB_URI not set; using in-memory document store")
	}

	// optional delete-time archive to object storage
	var archiver actor.Archiver
	if cfg.Archive.Endpoint != "" {
		a, err := archive.New(cfg.Archive)
		if err != nil {
			logger.Warnf("failed to initialize archive storage: %v", err)
		} else {
			archiver = a
			logger.Infof("Archiving deleted documents to bucket %q", cfg.Archive.Bucket)
		}
	}

	manager := actor.NewManager(repo, archiver)
	defer manager.Close()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: storage is always up (memory fallback); report the state of
	// optional dependencies
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"storage": true,
			"mongo":   mongoClient != nil,
			"redis":   redisClient != nil,
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterSwagger(r)
	handlers.New(cfg, manager).Register(r)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting xytext on %s (env=%s)", addr, cfg.Server.Environment)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
