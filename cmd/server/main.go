package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"fcr-robofed/internal/adapters/http/middleware"
	"fcr-robofed/internal/adapters/http/routes"
	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/adapters/persistence/repositories"
	"fcr-robofed/internal/config"
	"fcr-robofed/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "fcr-robofed/docs" // Swagger docs
)

// @title FCR RoboFed API
// @version 1.0
// @description API de la Federación de Clubes de Robótica: clubes, membresías, robots y torneos.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email soporte@fcr-robofed.mx

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.fcr-robofed.mx
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed default admin account
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed admin user: %v", err)
	}

	// Seed master data (robot categories)
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}

	// Start the expiry sweeper that force-resolves overdue disablements
	disablementRepo := repositories.NewDisablementRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	clubRepo := repositories.NewClubRepository(db)
	robotRepo := repositories.NewRobotRepository(db)
	matcher := services.NewReallocationService(membershipRepo)
	notifyService := services.NewNotificationService()
	disablementService := services.NewDisablementService(
		disablementRepo,
		membershipRepo,
		clubRepo,
		robotRepo,
		matcher,
		notifyService,
	)
	sweeper := services.NewSweeperService(disablementRepo, disablementService)
	sweeper.Start()
	defer sweeper.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "FCR RoboFed API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
