package main

import (
	"log"
	"net/http"
	"os"

	_ "userbase/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"userbase/internal/auth"
	"userbase/internal/cache"
	"userbase/internal/config"
	"userbase/internal/db"
	"userbase/internal/graph"
	"userbase/internal/handler"
	"userbase/internal/model"
	"userbase/internal/repository"
	"userbase/internal/router"
	"userbase/internal/service"
)

// @title Userbase API
// @version 1.0
// @description User account backend: read-only GraphQL queries over users plus OAuth2 bearer-token issuance.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range []interface{}{&model.User{}, &model.OAuthClient{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.OAuthClient{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	clientRepo := repository.NewOAuthClientRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient)
	tokenService := service.NewTokenService(userRepo, clientRepo, jwtService, tokenStore)

	// Build the GraphQL schema
	schema, err := graph.NewSchema(userService)
	if err != nil {
		log.Fatalf("build schema: %v", err)
	}

	// Initialize handlers
	graphqlHandler := handler.NewGraphQLHandler(schema)
	tokenHandler := handler.NewTokenHandler(tokenService)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(e, cfg, graphqlHandler, tokenHandler, userHandler)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
