// Package server contains the HTTP handlers and route registration for the
// coaching API.
package server

import (
	"context"
	"fmt"
	"time"

	"rightfit/internal/cache"
	"rightfit/internal/config"
	"rightfit/internal/database"
	"rightfit/internal/featureflags"
	"rightfit/internal/middleware"
	"rightfit/internal/repository"
	"rightfit/internal/service"
	"rightfit/notifications"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	mailer         notifications.Mailer
	flags          *featureflags.Manager

	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	workoutRepo  repository.WorkoutRepository
	requestRepo  repository.RequestRepository

	userService     *service.UserService
	partnerService  *service.PartnerService
	exerciseService *service.ExerciseService
	workoutService  *service.WorkoutService
	requestService  *service.RequestService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	mailer := notifications.NewBrevoMailer(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName)

	return NewServerWithDeps(cfg, db, cache.GetClient(), mailer), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mailer notifications.Mailer) *Server {
	userRepo := repository.NewUserRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	prom := middleware.InitMetrics("rightfit-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		mailer:         mailer,
		flags:          featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       userRepo,
		exerciseRepo:   exerciseRepo,
		workoutRepo:    workoutRepo,
		requestRepo:    requestRepo,
	}

	server.userService = service.NewUserService(userRepo)
	server.partnerService = service.NewPartnerService(userRepo)
	server.exerciseService = service.NewExerciseService(exerciseRepo, userRepo)
	server.workoutService = service.NewWorkoutService(workoutRepo, exerciseRepo)
	server.requestService = service.NewRequestService(
		requestRepo, userRepo, workoutRepo, exerciseRepo, server.partnerService, mailer)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing spans per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	v1 := app.Group("/api/v1")

	// Outbound email
	v1.Post("/sendapplication", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "send_application"), s.SendApplication)
	v1.Get("/verificationemail/:id", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "send_verification"), s.SendVerificationEmail)

	// Directory
	v1.Get("/mentees", s.ListMentees)
	v1.Get("/mentees/:userId", s.GetMentee)
	v1.Get("/mentors", s.ListMentors)
	v1.Post("/mentors/setuserid", s.SetMentorUserID)
	v1.Get("/mentors/:userId", s.GetMentor)
	v1.Get("/role/:userId", s.GetRole)
	v1.Post("/users/new", s.CreateUser)
	v1.Put("/users/edit/:userId", s.EditUser)

	// Request lifecycle transitions acted by a user
	v1.Put("/users/:mentorId/acceptrequest/:requestId", s.AcceptRequest)
	v1.Put("/users/:mentorId/denyrequest/:requestId", s.DenyRequest)
	v1.Put("/users/:menteeId/paid/:workoutId", s.PayWorkout)

	// Exercise catalog; /search before the generic /:name route
	v1.Post("/exercises/new", s.CreateExercise)
	v1.Get("/exercises/search/:keyphrase", middleware.RateLimit(
		s.redis, 30, time.Minute, "exercise_search"), s.SearchExercises)
	v1.Get("/exercises/:name", s.GetExercise)

	// Workouts and requests
	v1.Post("/workouts/new", s.CreateWorkout)
	v1.Put("/workouts/edit/:workoutId", s.EditWorkout)
	v1.Post("/requests/new", middleware.RateLimit(
		s.redis, 10, time.Minute, "send_request"), s.SendRequest)
	v1.Get("/requests/:requestId", s.GetRequest)

	// Generic per-user collections must come last so the named prefixes above
	// keep winning the match.
	v1.Get("/:userId/workouts", s.ListWorkouts)
	v1.Get("/:userId/workouts/:workoutId", s.GetWorkout)
	v1.Get("/:userId/requests", s.ListRequests)
}

// Shutdown releases the server's database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// The API stays functional without Redis, so a missing cache degrades the
	// report without failing readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
