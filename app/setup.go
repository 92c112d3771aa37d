package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/sahilchouksey/pandiu-api/api"
	"github.com/sahilchouksey/pandiu-api/config"
	"github.com/sahilchouksey/pandiu-api/database"
	"github.com/sahilchouksey/pandiu-api/repository"
	"github.com/sahilchouksey/pandiu-api/router"
	"github.com/sahilchouksey/pandiu-api/services"
	"github.com/sahilchouksey/pandiu-api/services/storage"
	"github.com/sahilchouksey/pandiu-api/utils/cache"
	"github.com/sahilchouksey/pandiu-api/utils/logger"
	"github.com/sahilchouksey/pandiu-api/utils/middleware"
	"github.com/sahilchouksey/pandiu-api/utils/pdfvalidation"
)

// multipart framing on top of the largest document
const uploadOverhead = 1 << 20

// LoadEnvironment loads .env, reads the configuration and initializes logging
func LoadEnvironment() (*config.EnviornmentVariable, error) {
	if err := config.LoadENV(); err != nil {
		return nil, err
	}

	env, err := config.Get()
	if err != nil {
		return nil, err
	}

	logger.Init(env.LOG_LEVEL)
	return env, nil
}

// Migrate creates or updates every table
func Migrate(env *config.EnviornmentVariable) error {
	store, err := database.StartGORM(env)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Init()
}

// Seed loads reference data from path, or the bundled data when path is empty
func Seed(env *config.EnviornmentVariable, path string) error {
	store, err := database.StartGORM(env)
	if err != nil {
		return err
	}
	defer store.Close()

	return database.RunSeeds(store.GetDB(), path)
}

func SetupAndRunServer() error {
	env, err := LoadEnvironment()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, env)
}

// Serve connects every backing service and runs the HTTP server until ctx ends
func Serve(ctx context.Context, env *config.EnviornmentVariable) error {
	// Initialize GORM database connection
	store, err := database.StartGORM(env)
	if err != nil {
		log.Error().Err(err).Str("driver", env.DB_DRIVER).Msg("check whether the database is running")
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return err
	}

	limits := DocumentLimits(env)
	svc := services.New(repository.NewGORMStore(store.GetDB()), documentStore(env), limits)

	var limiterStorage fiber.Storage
	if redisStorage := rateLimitStorage(env); redisStorage != nil {
		defer redisStorage.Close()
		limiterStorage = redisStorage
	}

	server := NewServer(env, svc, limiterStorage)
	return server.Run(ctx)
}

// NewServer builds the API server with every route attached
func NewServer(env *config.EnviornmentVariable, svc *services.Services, limiterStorage fiber.Storage) *api.APIServer {
	limits := DocumentLimits(env)
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), int(limits.MaxBytes())+uploadOverhead)

	router.SetupRoutes(server.GetEngine(), svc, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   time.Minute,
		LimiterStorage:    limiterStorage,
	})

	return server
}

// DocumentLimits reads the PDF limits from the environment
func DocumentLimits(env *config.EnviornmentVariable) pdfvalidation.PDFLimits {
	return pdfvalidation.PDFLimits{
		MaxFileSizeMB: env.MAX_DOCUMENT_MB,
		MaxPages:      env.MAX_DOCUMENT_PAGES,
	}.WithDefaults()
}

// documentStore returns nil when no bucket is configured; uploads then answer 503
func documentStore(env *config.EnviornmentVariable) services.DocumentStore {
	cfg := storage.SpacesConfig{
		AccessKey: env.DO_SPACES_ACCESS_KEY,
		SecretKey: env.DO_SPACES_SECRET_KEY,
		Bucket:    env.DO_SPACES_BUCKET,
		Region:    env.DO_SPACES_REGION,
		Endpoint:  env.DO_SPACES_ENDPOINT,
		CDNURL:    env.DO_SPACES_CDN_ENDPOINT,
	}
	if !cfg.Enabled() {
		log.Warn().Msg("DO Spaces not configured, publication documents are disabled")
		return nil
	}

	client, err := storage.NewSpacesClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("failed to create Spaces client, publication documents are disabled")
		return nil
	}
	return client
}

// rateLimitStorage returns nil, meaning in-memory counters, when Redis is unavailable
func rateLimitStorage(env *config.EnviornmentVariable) *cache.RedisStorage {
	if env.REDIS_URL == "" {
		return nil
	}

	redisStorage, err := cache.NewRedisStorage(env.REDIS_URL)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, rate limiting uses in-memory counters")
		return nil
	}
	return redisStorage
}
