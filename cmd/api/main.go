package main

import (
	"fmt"
	"net/http"
	"os"

	"fairshare/internal/config"
	"fairshare/internal/database"
	"fairshare/internal/handlers"
	"fairshare/internal/logger"
	"fairshare/internal/middleware"
	"fairshare/internal/services"
	"fairshare/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fairshare/internal/docs" // Import swagger docs
)

// @title           Fairshare API
// @version         1.0
// @description     Fairshare is a shared household expense tracker: members submit expenses against shared budgets, recurring expenses materialize automatically, and the household is alerted when a budget runs hot.

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

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	budgetService := services.NewBudgetService(db)
	memberService := services.NewMemberService(db)
	sender := services.NewLogSender()
	alertService := services.NewAlertService(db, budgetService, memberService, sender, appConfig.CollaboratorTimeout)
	expenseService := services.NewExpenseService(db, alertService)
	recurringService := services.NewRecurringService(db, appConfig.CollaboratorTimeout)

	// Initialize handlers
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	recurringHandler := handlers.NewRecurringHandler(recurringService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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

	// API v1 group, all routes require a token from the auth collaborator
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())

	// Budget routes
	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/check", budgetHandler.CheckBudget)
	budgets.GET("/status", budgetHandler.GetBudgetStatus)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Expense routes
	expenses := v1.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.POST("/:id/approve", expenseHandler.ApproveExpense)
	expenses.POST("/:id/reject", expenseHandler.RejectExpense)
	expenses.POST("/:id/pay", expenseHandler.PayExpense)

	// Recurring materializer, admin only
	recurring := v1.Group("/recurring")
	recurring.Use(middleware.RequireAdmin())
	recurring.POST("/run", recurringHandler.RunGeneration)

	log.Infof("Starting Fairshare backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
