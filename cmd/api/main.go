package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "statement-engine/docs"
	"statement-engine/internal/config"
	"statement-engine/internal/handler"
	"statement-engine/internal/middleware"
	"statement-engine/internal/parser"
	"statement-engine/internal/repository"
	"statement-engine/internal/service"
	"statement-engine/pkg/logger"
)

// @title Bank Statement Engine API
// @version 1.0
// @description Normalizes bank-statement exports, classifies payment methods from remarks and serves categorical and monthly aggregate feeds

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.App.LogLevel)
	logger.GetLogger().Info("Starting Bank Statement Engine")

	// Connect to database
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := repository.EnsureSchema(db); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to ensure database schema")
	}

	logger.GetLogger().Info("Database connection established")

	// Wire the pipeline
	uploadRepo := repository.NewUploadRepository(db)
	statementParser := parser.NewStatementParser(cfg.Statement.DateLayout)
	statementService := service.NewStatementService(uploadRepo, statementParser, cfg.App.UploadDir)
	statementHandler := handler.NewStatementHandler(statementService, cfg.Statement.BalanceMode, cfg.App.MaxUploadMB)

	// Setup router
	router := setupRouter(statementHandler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.GetLogger().WithField("address", addr).Info("Server starting")

	if err := router.Run(addr); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to start server")
	}
}

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func setupRouter(statementHandler *handler.StatementHandler) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		statement := v1.Group("/statement")
		{
			statement.POST("/upload", statementHandler.Upload)
			statement.GET("/table", statementHandler.GetTable)
			statement.GET("/methods", statementHandler.GetMethodSummary)
			statement.GET("/monthly", statementHandler.GetMonthlySeries)
		}
	}

	return router
}
