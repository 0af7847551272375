// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"openeyes/internal/cache"
	"openeyes/internal/config"
	"openeyes/internal/database"
	"openeyes/internal/featureflags"
	"openeyes/internal/importer"
	"openeyes/internal/middleware"
	"openeyes/internal/models"
	"openeyes/internal/notifications"
	"openeyes/internal/repository"
	"openeyes/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	shutdownCtx     context.Context
	shutdownFn      context.CancelFunc
	userRepo        repository.UserRepository
	postRepo        repository.PostRepository
	commentRepo     repository.CommentRepository
	reactionRepo    repository.ReactionRepository
	conflictRepo    repository.ConflictRepository
	countryRepo     repository.CountryRepository
	violationRepo   repository.ViolationRepository
	declarationRepo repository.DeclarationRepository
	disasterRepo    repository.DisasterRepository
	logRepo         repository.ActivityLogRepository
	notifier        *notifications.Notifier
	hub             *notifications.Hub
	featureFlags    *featureflags.Manager
	audit           *service.AuditLogger
	postService     *service.PostService
	commentService  *service.CommentService
	reactionService *service.ReactionService
	userService     *service.UserService
	resourceService *service.ResourceService
	dashboard       *service.DashboardService
	wikiImporter    *importer.Wikipedia
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)
	middleware.SetRevocationChecker(cache.IsTokenRevoked)

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("openeyes-api"),
		userRepo:        repository.NewUserRepository(db),
		postRepo:        repository.NewPostRepository(db),
		commentRepo:     repository.NewCommentRepository(db),
		reactionRepo:    repository.NewReactionRepository(db),
		conflictRepo:    repository.NewConflictRepository(db),
		countryRepo:     repository.NewCountryRepository(db),
		violationRepo:   repository.NewViolationRepository(db),
		declarationRepo: repository.NewDeclarationRepository(db),
		disasterRepo:    repository.NewDisasterRepository(db),
		logRepo:         repository.NewActivityLogRepository(db),
		featureFlags:    featureflags.NewManager(cfg.FeatureFlags),
	}

	server.audit = service.NewAuditLogger(server.logRepo)
	server.postService = service.NewPostService(server.postRepo, server.audit, server.canModerateByUserID)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo, server.canModerateByUserID)
	server.reactionService = service.NewReactionService(server.reactionRepo, server.postRepo)
	server.userService = service.NewUserService(server.userRepo, server.audit)
	server.resourceService = service.NewResourceService(
		server.conflictRepo, server.countryRepo, server.violationRepo,
		server.declarationRepo, server.disasterRepo, server.audit)
	server.dashboard = service.NewDashboardService(
		server.conflictRepo, server.countryRepo, server.violationRepo,
		server.declarationRepo, server.disasterRepo, server.postRepo)
	server.wikiImporter = importer.NewWikipedia(
		&http.Client{Timeout: 30 * time.Second}, server.conflictRepo, server.audit)

	// Live updates need Redis for cross-instance fan-out; without it the
	// hub still serves single-instance broadcasts.
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}
	server.hub = notifications.NewHub()

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Distributed tracing
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
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
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "OpenEyes Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Post("/logout", s.Logout)
	auth.Get("/session", middleware.OptionalAuth, s.Session)

	// Navigation menu for the caller's role (guest when anonymous)
	api.Get("/navigation", middleware.OptionalAuth, s.Navigation)

	// Dashboard aggregates
	api.Get("/dashboard/metrics", s.DashboardMetrics)

	// Public forum routes (browse/search); OptionalAuth resolves the
	// caller's own reaction on each post when logged in.
	publicPosts := api.Group("/posts", middleware.OptionalAuth)
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)
	api.Get("/users/:id/posts", middleware.OptionalAuth, s.GetUserPosts)

	// Public record routes
	conflicts := api.Group("/conflicts")
	conflicts.Get("/", s.GetConflicts)
	conflicts.Get("/:id", s.GetConflict)

	countries := api.Group("/countries")
	countries.Get("/", s.GetCountries)
	countries.Get("/:id", s.GetCountry)

	violations := api.Group("/violations")
	violations.Get("/", s.GetViolations)
	violations.Get("/:id", s.GetViolation)

	declarations := api.Group("/un-declarations")
	declarations.Get("/", s.GetDeclarations)
	declarations.Get("/:id", s.GetDeclaration)

	disasters := api.Group("/natural-disasters")
	disasters.Get("/", s.GetDisasters)
	disasters.Get("/:id", s.GetDisaster)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/:id", s.GetUserProfile)

	// Protected forum routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 1, 5*time.Minute, "create_post"), s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/react", s.ReactToPost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 1, time.Minute, "create_comment"), s.CreateComment)
	posts.Put("/:id/comments/:commentId", s.UpdateComment)
	posts.Delete("/:id/comments/:commentId", s.DeleteComment)
	// Generic /:id routes (for item update, delete)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Record mutations: reporters and above
	reporters := protected.Group("", middleware.RoleRequired(
		models.RoleAdmin, models.RoleModerator, models.RoleReporter))
	reporters.Post("/conflicts", s.CreateConflict)
	reporters.Put("/conflicts/:id", s.UpdateConflict)
	reporters.Delete("/conflicts/:id", s.DeleteConflict)
	reporters.Post("/countries", s.CreateCountry)
	reporters.Put("/countries/:id", s.UpdateCountry)
	reporters.Delete("/countries/:id", s.DeleteCountry)
	reporters.Post("/violations", s.CreateViolation)
	reporters.Put("/violations/:id", s.UpdateViolation)
	reporters.Delete("/violations/:id", s.DeleteViolation)
	reporters.Post("/un-declarations", s.CreateDeclaration)
	reporters.Put("/un-declarations/:id", s.UpdateDeclaration)
	reporters.Delete("/un-declarations/:id", s.DeleteDeclaration)
	reporters.Post("/natural-disasters", s.CreateDisaster)
	reporters.Put("/natural-disasters/:id", s.UpdateDisaster)
	reporters.Delete("/natural-disasters/:id", s.DeleteDisaster)

	// Admin panel: admins and moderators
	admin := protected.Group("/admin", middleware.RoleRequired(
		models.RoleAdmin, models.RoleModerator))
	admin.Get("/users", s.GetAllUsers)
	admin.Get("/moderation", s.GetModerationQueue)
	admin.Post("/moderation/:id/approve", s.ApprovePost)
	admin.Post("/moderation/:id/reject", s.RejectPost)
	admin.Get("/logs", s.GetActivityLogs)
	admin.Get("/feature-flags", s.GetFeatureFlags)

	// Destructive user operations are admin-only
	adminOnly := protected.Group("/admin", middleware.RoleRequired(models.RoleAdmin))
	adminOnly.Post("/users/:id/ban", s.BanUser)
	adminOnly.Post("/users/:id/unban", s.UnbanUser)
	adminOnly.Post("/users/:id/role", s.SetUserRole)

	// Data importer: admin-only
	api.Post("/import/wikipedia",
		middleware.AuthRequired, middleware.RoleRequired(models.RoleAdmin),
		s.ImportWikipedia)

	// Websocket endpoint - token via query param for browser clients
	ws := api.Group("/ws", middleware.WebSocketAuthRequired)
	ws.Get("/", s.WebsocketHandler())
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
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
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "OpenEyes",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// canModerateByUserID reports whether the user holds a role allowed to act
// on moderation queues. Consulted from services, so roles are re-read from
// the database rather than trusted from the token.
func (s *Server) canModerateByUserID(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("role").First(&user, userID).Error; err != nil {
		return false, err
	}
	return user.CanModerate(), nil
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "OpenEyes API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the hub to the Redis subscriber if available
	if s.notifier != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start %s wiring: %v", s.hub.Name(), err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", s.hub.Name(), err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
