package routes

import (
	"fcr-robofed/internal/adapters/http/handlers"
	"fcr-robofed/internal/adapters/http/middleware"
	"fcr-robofed/internal/adapters/persistence/repositories"
	"fcr-robofed/internal/config"
	"fcr-robofed/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	clubRepo := repositories.NewClubRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	disablementRepo := repositories.NewDisablementRepository(db)
	transferRepo := repositories.NewTransferRepository(db)
	robotRepo := repositories.NewRobotRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	tournamentRepo := repositories.NewTournamentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	clubService := services.NewClubService(clubRepo, userRepo, membershipRepo, categoryRepo)
	robotService := services.NewRobotService(robotRepo, categoryRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, robotRepo, categoryRepo)

	notifyService := services.NewNotificationService()
	matcher := services.NewReallocationService(membershipRepo)
	disablementService := services.NewDisablementService(
		disablementRepo,
		membershipRepo,
		clubRepo,
		robotRepo,
		matcher,
		notifyService,
	)
	transferService := services.NewTransferService(
		transferRepo,
		disablementRepo,
		membershipRepo,
		clubRepo,
		userRepo,
		notifyService,
	)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	clubHandler := handlers.NewClubHandler(clubService)
	robotHandler := handlers.NewRobotHandler(robotService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	disablementHandler := handlers.NewDisablementHandler(disablementService)
	transferHandler := handlers.NewTransferHandler(transferService)
	catalogHandler := handlers.NewCatalogHandler(categoryRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Club routes
	clubRoutes := apiV1.Group("/clubs")
	setupClubRoutes(clubRoutes, clubHandler, disablementHandler, transferHandler, cfg)

	// Robot routes
	robotRoutes := apiV1.Group("/robots")
	setupRobotRoutes(robotRoutes, robotHandler, tournamentHandler, cfg)

	// Tournament routes
	tournamentRoutes := apiV1.Group("/tournaments")
	setupTournamentRoutes(tournamentRoutes, tournamentHandler, cfg)

	// Disablement workflow routes (Admin only)
	disablementRoutes := apiV1.Group("/disablements")
	disablementRoutes.Use(middleware.AuthMiddleware(cfg))
	disablementRoutes.Use(middleware.AdminOnly())
	setupDisablementRoutes(disablementRoutes, disablementHandler)

	// Transfer routes (Authenticated users)
	transferRoutes := apiV1.Group("/transfers")
	transferRoutes.Use(middleware.AuthMiddleware(cfg))
	setupTransferRoutes(transferRoutes, transferHandler)

	// Catalog routes (public read, admin write)
	catalogRoutes := apiV1.Group("/catalog")
	setupCatalogRoutes(catalogRoutes, catalogHandler, cfg)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupClubRoutes configures club routes
func setupClubRoutes(
	router fiber.Router,
	clubHandler *handlers.ClubHandler,
	disablementHandler *handlers.DisablementHandler,
	transferHandler *handlers.TransferHandler,
	cfg *config.Config,
) {
	// Public reads
	router.Get("/", clubHandler.ListClubs)
	router.Get("/:id", clubHandler.GetClub)

	// Authenticated
	router.Post("/", middleware.AuthMiddleware(cfg), clubHandler.CreateClub)
	router.Post("/:id/join", middleware.AuthMiddleware(cfg), clubHandler.Join)
	router.Get("/:id/members", middleware.AuthMiddleware(cfg), clubHandler.ListMembers)

	// Owner or admin
	router.Put("/:id", middleware.AuthMiddleware(cfg), middleware.OwnerOrAdmin(), clubHandler.UpdateClub)
	router.Get("/:id/transfers/pending", middleware.AuthMiddleware(cfg), middleware.OwnerOrAdmin(), transferHandler.PendingForClub)

	// Admin only
	router.Delete("/:id", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), clubHandler.DeleteClub)
	router.Post("/:id/disable", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), disablementHandler.Initiate)
}

// setupRobotRoutes configures robot routes
func setupRobotRoutes(
	router fiber.Router,
	robotHandler *handlers.RobotHandler,
	tournamentHandler *handlers.TournamentHandler,
	cfg *config.Config,
) {
	router.Get("/mine", middleware.AuthMiddleware(cfg), robotHandler.ListMyRobots)
	router.Get("/:id", robotHandler.GetRobot)
	router.Get("/:id/matches", tournamentHandler.ListRobotMatches)

	router.Post("/", middleware.AuthMiddleware(cfg), robotHandler.CreateRobot)
	router.Put("/:id", middleware.AuthMiddleware(cfg), robotHandler.UpdateRobot)
	router.Delete("/:id", middleware.AuthMiddleware(cfg), robotHandler.DeleteRobot)

	// Admin only
	router.Get("/", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), robotHandler.ListRobots)
	router.Post("/:id/approve", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), robotHandler.ApproveRobot)
}

// setupTournamentRoutes configures tournament routes
func setupTournamentRoutes(router fiber.Router, handler *handlers.TournamentHandler, cfg *config.Config) {
	// Public reads
	router.Get("/", handler.ListTournaments)
	router.Get("/:id", handler.GetTournament)
	router.Get("/:id/matches", handler.ListMatches)

	// Admin only
	router.Post("/", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.CreateTournament)
	router.Post("/:id/finish", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.FinishTournament)
	router.Post("/:id/matches", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.RecordMatch)
}

// setupDisablementRoutes configures disablement workflow routes (Admin only)
func setupDisablementRoutes(router fiber.Router, handler *handlers.DisablementHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Post("/:id/process", handler.Process)
	router.Post("/:id/force-resolve", handler.ForceResolve)
	router.Post("/:id/cancel", handler.Cancel)
}

// setupTransferRoutes configures transfer routes (Authenticated)
func setupTransferRoutes(router fiber.Router, handler *handlers.TransferHandler) {
	router.Post("/", handler.Request)
	router.Get("/mine", handler.Mine)
	router.Get("/:id", handler.Get)
	router.Post("/:id/approve-exit", handler.ApproveExit)
	router.Post("/:id/approve-entry", handler.ApproveEntry)
	router.Post("/:id/reject", handler.Reject)
}

// setupCatalogRoutes configures master data routes
func setupCatalogRoutes(router fiber.Router, handler *handlers.CatalogHandler, cfg *config.Config) {
	router.Get("/categories", middleware.MasterDataCache(), handler.ListCategories)
	router.Get("/categories/:id", middleware.MasterDataCache(), handler.GetCategory)
	router.Post("/categories", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.CreateCategory)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Get("/admin", middleware.AdminOnly(), handler.AdminDashboard)
	router.Get("/club", middleware.OwnerOrAdmin(), handler.OwnerDashboard)
}
