package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-results-api/internal/repository"
	"github.com/noah-isme/school-results-api/internal/service"
	"github.com/noah-isme/school-results-api/pkg/config"
	"github.com/noah-isme/school-results-api/pkg/database"
	"github.com/noah-isme/school-results-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	username := flag.String("username", cfg.Session.AdminUsername, "admin username")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	flag.Parse()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	// Sessions are not touched when provisioning the account.
	auth := service.NewAuthService(repository.NewAdminRepository(db), nil, nil, validator.New(), logr, service.AuthConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
	})

	admin, err := auth.EnsureAdmin(ctx, service.AdminCredentials{Username: *username, Password: *password})
	if err != nil {
		logr.Fatal("failed to create admin", zap.Error(err))
	}
	fmt.Printf("admin %q ready (id %s)\n", admin.Username, admin.ID)
}
