package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/HSouheill/audiogate_backend/config"
	"github.com/HSouheill/audiogate_backend/controllers"
	"github.com/HSouheill/audiogate_backend/middleware"
	"github.com/HSouheill/audiogate_backend/repositories"
	"github.com/HSouheill/audiogate_backend/routes"
	"github.com/HSouheill/audiogate_backend/services"
	"github.com/HSouheill/audiogate_backend/utils"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	clock := utils.SystemClock

	// OTP storage: Mongo, or in-process when developing without a database
	var otpStore repositories.OTPStore
	var ping routes.Pinger
	if cfg.MongoURI == "" && cfg.IsDevelopment() {
		log.Println("Warning: no MONGO_URI set, OTPs are kept in memory")
		otpStore = repositories.NewMemoryOTPStore(clock, config.OTPTTL)
	} else {
		client := config.ConnectDB(cfg)
		defer client.Disconnect(context.Background())
		otpStore = repositories.NewOTPRepository(client.Database(cfg.DBName), clock)
		ping = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	}

	rdb := config.ConnectRedis()
	if rdb != nil {
		defer rdb.Close()
	}

	artifacts, err := utils.NewArtifactStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}
	if n, err := artifacts.PurgeStale(time.Hour, clock.Now()); err != nil {
		log.Printf("Failed to purge stale uploads: %v", err)
	} else if n > 0 {
		log.Printf("Purged %d stale uploads from %s", n, artifacts.Dir())
	}

	otpService := services.NewOTPService(otpStore, services.NewMailService(cfg), clock)
	gate := services.NewAdmissionGate(otpStore, utils.FFProbe{}, clock, services.DefaultUploadWindow())
	publisher := services.NewPublisher(services.NewTwitterService(cfg), cfg.TweetStatus)
	audioController := controllers.NewAudioController(otpService, gate, publisher, artifacts, rdb, cfg.OTPRequestsPerHour)

	e := echo.New()
	e.Validator = utils.NewValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler

	rateLimiter := middleware.NewRateLimiter()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS(cfg.CORSAllowedOrigins))
	// Leave room above 100MB so oversize clips reach the admission checks
	e.Use(echoMiddleware.BodyLimit("110M"))
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: cfg.CORSAllowedOrigins,
		HSTS:           !cfg.IsDevelopment(),
	}))

	routes.SetupRoutes(e, audioController, ping)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
