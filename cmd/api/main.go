package main

import (
	"fmt"
	"net/http"
	"os"

	"hardhat/internal/config"
	"hardhat/internal/database"
	"hardhat/internal/handlers"
	"hardhat/internal/logger"
	"hardhat/internal/middleware"
	"hardhat/internal/services"
	"hardhat/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "hardhat/internal/docs" // Import swagger docs
)

// @title           Hardhat API
// @version         1.0
// @description     Hardhat tracks construction jobs, their material lists, and vendor invoices, and rolls them up into budget reports.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager and apply migrations
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	jobService := services.NewJobService(db)
	materialService := services.NewMaterialService(db)
	notificationService := services.NewNotificationService(db)
	invoiceService := services.NewInvoiceService(db, notificationService)
	reportService := services.NewReportService(db)
	catalogService := services.NewCatalogService(db)
	extractionService := services.NewExtractionService(appConfig)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	jobHandler := handlers.NewJobHandler(jobService)
	materialHandler := handlers.NewMaterialHandler(materialService, notificationService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, extractionService)
	reportHandler := handlers.NewReportHandler(reportService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/users", authHandler.ListUsers)

	// Job routes
	jobs := protected.Group("/jobs")
	jobs.POST("", jobHandler.CreateJob)
	jobs.GET("", jobHandler.GetJobs)
	jobs.GET("/:id", jobHandler.GetJob)
	jobs.PATCH("/:id", jobHandler.UpdateJob)
	jobs.DELETE("/:id", jobHandler.DeleteJob)
	jobs.GET("/:id/budget", reportHandler.GetJobBudget)

	// Materials scoped to a job
	jobs.GET("/:id/materials", materialHandler.GetJobMaterials)
	jobs.POST("/:id/materials", materialHandler.CreateMaterials)
	jobs.POST("/:id/materials/import", materialHandler.ImportMaterials)

	// Invoices scoped to a job
	jobs.GET("/:id/invoices", invoiceHandler.GetJobInvoices)
	jobs.POST("/:id/invoices", invoiceHandler.CreateInvoice)
	jobs.POST("/:id/invoices/extract", invoiceHandler.ExtractInvoice)

	// Material routes
	materials := protected.Group("/materials")
	materials.PATCH("/:id", materialHandler.UpdateMaterial)
	materials.DELETE("/:id", materialHandler.DeleteMaterial)

	// Invoice routes
	invoices := protected.Group("/invoices")
	invoices.GET("/:id", invoiceHandler.GetInvoice)
	invoices.PATCH("/:id", invoiceHandler.UpdateInvoice)
	invoices.DELETE("/:id", invoiceHandler.DeleteInvoice)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetFleetSummary)
	reports.GET("/summary/export", reportHandler.ExportFleetSummary)
	reports.GET("/vendors", reportHandler.GetVendorReport)
	reports.GET("/materials", reportHandler.GetMaterialsReport)

	// Catalog routes
	catalog := protected.Group("/catalog")
	catalog.GET("", catalogHandler.GetCatalog)
	catalog.POST("/categories", catalogHandler.CreateCategory)
	catalog.POST("/subcategories", catalogHandler.CreateSubcategory)
	catalog.POST("/items", catalogHandler.CreateItem)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PATCH("", notificationHandler.MarkNotifications)

	log.Infof("Starting Hardhat backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
