package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/config"
	"github.com/natours/natours-backend/internal/controller"
	"github.com/natours/natours-backend/internal/handler"
	"github.com/natours/natours-backend/internal/middleware"
	"github.com/natours/natours-backend/internal/repository"
	"github.com/natours/natours-backend/internal/router"
	"github.com/natours/natours-backend/internal/service"
	"github.com/natours/natours-backend/pkg/database"
	"github.com/natours/natours-backend/pkg/email"
	"github.com/natours/natours-backend/pkg/jwt"
	"github.com/natours/natours-backend/pkg/logger"
	"github.com/natours/natours-backend/pkg/payment"
	"github.com/natours/natours-backend/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env
	envErr := godotenv.Load()

	cfg := config.LoadConfig()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if envErr != nil {
		log.Info("no .env file loaded, using process environment")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.DatabaseURL, database.DefaultOptions)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tourRepo := repository.NewTourRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Email service
	var transport email.Transport
	if cfg.IsProduction() && cfg.Email.ResendAPIKey != "" {
		transport = email.NewResendTransport(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, cfg.Email.FromName)
	} else {
		transport = email.NewSMTPTransport(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.FromAddress, cfg.Email.FromName)
	}
	emailService := email.NewEmailService(email.NewComposer(cfg.FrontendURL), transport, log)

	// Stripe service
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	// Services
	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	creds := service.NewCredentialStore(userRepo)
	authService := service.NewAuthService(userRepo, creds, tokens, emailService, cfg.JWT.MaxLoginAttempts, log)
	userService := service.NewUserService(userRepo, tourRepo, bookingRepo)
	tourService := service.NewTourService(tourRepo)
	aggregator := service.NewRatingAggregator(reviewRepo, tourRepo, log)
	reviewService := service.NewReviewService(reviewRepo, tourRepo, aggregator, log)
	bookingService := service.NewBookingService(bookingRepo, tourRepo, userRepo, stripeService, cfg.FrontendURL, cfg.Stripe.Currency, log)

	// Controllers
	authController := controller.NewAuthController(authService)

	validator := utils.NewValidator()

	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authController, validator, cfg.CookieTTL()),
		User:    handler.NewUserHandler(controller.NewUserController(userService), validator),
		Tour:    handler.NewTourHandler(controller.NewTourController(tourService), validator),
		Review:  handler.NewReviewHandler(controller.NewReviewController(reviewService), validator),
		Booking: handler.NewBookingHandler(controller.NewBookingController(bookingService), validator),
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	app := fiber.New(fiber.Config{
		AppName:      "natours",
		ErrorHandler: handler.ErrorHandler(log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	// Global middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PATCH, DELETE",
		AllowCredentials: true,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	rateLimit := limiter.New(limiter.Config{
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return apperror.New(apperror.ErrTooManyRequests, "Too many requests from this IP, please try again in an hour!")
		},
	})

	router.Setup(app, handlers, authController, rateLimit)

	// Start server
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
