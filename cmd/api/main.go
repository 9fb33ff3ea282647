package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/pollenow/pollenow/docs"
	"github.com/pollenow/pollenow/internal/auth"
	"github.com/pollenow/pollenow/internal/cache"
	"github.com/pollenow/pollenow/internal/config"
	"github.com/pollenow/pollenow/internal/database"
	"github.com/pollenow/pollenow/internal/email"
	"github.com/pollenow/pollenow/internal/geocoding"
	httpServer "github.com/pollenow/pollenow/internal/http"
	"github.com/pollenow/pollenow/internal/location"
	"github.com/pollenow/pollenow/internal/logging"
	"github.com/pollenow/pollenow/internal/pollen"
	"github.com/pollenow/pollenow/internal/ratelimit"
)

// @title           Pollenow API
// @version         1.0
// @description     Pollen forecasts for a saved US ZIP code, with account authentication.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"token_format", cfg.Auth.TokenFormat,
	)

	ctx := context.Background()

	store, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close(context.Background())

	// Redis is optional; without it rate limiting and forecast caching are off
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = initRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()
	}

	rateLimiter := ratelimit.NewLimiter(
		redisClient,
		cfg.RateLimit.MaxRequests,
		cfg.RateLimit.Window,
		cfg.RateLimit.EmailCooldown,
	)

	var forecastCache pollen.Cache
	if redisClient != nil {
		forecastCache = cache.NewRedisCache(redisClient, "pollen")
	}

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	var mailer auth.Mailer
	if cfg.Email.Enabled() {
		mailer = email.NewService(cfg.Email, email.FormatTTL(cfg.Auth.ResetTokenTTL))
	} else {
		logger.Warn("SMTP not configured, password reset emails are disabled")
	}

	if cfg.Google.APIKey == "" {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, geocoding and forecasts will fail")
	}
	geocoder := geocoding.NewGoogleGeocoder(cfg.Google.APIKey, cfg.Google.Timeout)
	pollenClient := pollen.NewGoogleClient(cfg.Google.APIKey, cfg.Google.Timeout)

	authService := auth.NewService(
		store.Users,
		auth.NewPasswordHasher(auth.DefaultBcryptCost),
		tokenService,
		mailer,
		logger,
		cfg.Auth.ResetTokenTTL,
	)
	locationService := location.NewService(store.Locations, geocoder, logger)
	pollenService := pollen.NewService(locationService, pollenClient, forecastCache, cfg.Cache.ForecastTTL, logger)

	router := httpServer.NewRouter(
		cfg.Server,
		httpServer.Handlers{
			Auth:     auth.NewHandler(authService, rateLimiter),
			Location: location.NewHandler(locationService),
			Pollen:   pollen.NewHandler(pollenService),
		},
		auth.NewMiddleware(tokenService),
		logger,
	)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
