package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration, unit time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Ignoring invalid %s=%q", key, raw)
		return fallback
	}
	return time.Duration(n) * unit
}

// @title           Sales CRM API
// @version         1.0
// @description     Sales CRM backend: JWT auth with refresh rotation, contacts, call ledger with disposition-driven contact statuses, and sales records.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Token lifetimes: short access window, long refresh window. The access
	// TTL bounds how long a stale role snapshot can outlive a role change.
	accessTTL := envDuration("ACCESS_TOKEN_TTL_MIN", 30*time.Minute, time.Minute)
	refreshTTL := envDuration("REFRESH_TOKEN_TTL_DAYS", 7*24*time.Hour, 24*time.Hour)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	contactRepo := repository.NewContactRepository(db)
	callRepo := repository.NewCallRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	tokenService := service.NewTokenService(middleware.GetJWTSecret(), accessTTL, refreshTTL)
	userService := service.NewUserService(userRepo, tokenService, refreshRepo, txManager)
	contactService := service.NewContactService(contactRepo, callRepo, txManager)
	callService := service.NewCallService(callRepo, contactRepo, txManager, wsHub)
	saleService := service.NewSaleService(saleRepo, contactRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService, tokenService)
	contactHandler := handler.NewContactHandler(contactService, tokenService)
	callHandler := handler.NewCallHandler(callService, tokenService)
	saleHandler := handler.NewSaleHandler(saleService, tokenService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{envOr("ALLOWED_ORIGIN", "http://localhost:3000")}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	contactHandler.RegisterRoutes(router.Group(""))
	callHandler.RegisterRoutes(router.Group(""))
	saleHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
