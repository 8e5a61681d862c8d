package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userbase/internal/cache"
	"userbase/internal/config"
	"userbase/internal/db"
	"userbase/internal/model"
	"userbase/internal/repository"
	"userbase/internal/service"
)

// seedUser describes one fixture account.
type seedUser struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      model.Role
	Inactive  bool
}

var seedUsers = []seedUser{
	{Username: "admin", Email: "admin@example.com", Password: "adminpass123", FirstName: "Site", LastName: "Admin", Role: model.RoleAdmin},
	{Username: "user1", Email: "user1@example.com", Password: "pass123", FirstName: "First", LastName: "User"},
	{Username: "user2", Email: "user2@example.com", Password: "pass123"},
	{Username: "inactive", Email: "inactive@example.com", Password: "pass123", Inactive: true},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.OAuthClient{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	clientRepo := repository.NewOAuthClientRepository(gormDB)
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	users := service.NewUserService(userRepo, cacheClient)

	created, skipped := 0, 0
	for _, su := range seedUsers {
		if _, err := userRepo.FindByUsername(ctx, su.Username); err == nil {
			skipped++
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("Error checking user %s: %v", su.Username, err)
		}

		active := !su.Inactive
		if _, err := users.CreateUser(ctx, service.CreateUserInput{
			Username:  su.Username,
			Email:     su.Email,
			Password:  su.Password,
			FirstName: su.FirstName,
			LastName:  su.LastName,
			Role:      su.Role,
			IsActive:  &active,
		}); err != nil {
			log.Fatalf("Error creating user %s: %v", su.Username, err)
		}
		created++
	}
	log.Printf("Users seeded: %d created, %d already present", created, skipped)

	if err := seedClient(ctx, clientRepo); err != nil {
		log.Fatalf("Failed to seed OAuth client: %v", err)
	}

	log.Println("Seed completed successfully!")
}

// seedClient registers the default OAuth2 application unless it already exists.
func seedClient(ctx context.Context, repo repository.OAuthClientRepository) error {
	clientID := getEnv("SEED_CLIENT_ID", "userbase-local")
	clientSecret := getEnv("SEED_CLIENT_SECRET", "local-client-secret")

	if _, err := repo.FindByClientID(ctx, clientID); err == nil {
		log.Printf("OAuth client %q already present", clientID)
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), 10)
	if err != nil {
		return err
	}
	if err := repo.Create(ctx, &model.OAuthClient{
		ClientID:         clientID,
		ClientSecretHash: string(hash),
		Name:             "Local Development Client",
		GrantType:        model.GrantPassword,
	}); err != nil {
		return err
	}
	log.Printf("OAuth client created: client_id=%s client_secret=%s", clientID, clientSecret)
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
