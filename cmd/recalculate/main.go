package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

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

	useSubjectScale := flag.Bool("use-subject-scale", cfg.Recalculate.UseSubjectScale, "grade each result on its subject's max marks")
	flag.Parse()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	job := service.NewRecalculationService(repository.NewResultRepository(db), nil, service.RecalculationOptions{
		UseSubjectScale: *useSubjectScale,
	}, logr)

	summary, err := job.Run(ctx)
	if err != nil {
		logr.Error("recalculation failed", zap.Error(err))
		db.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(summary)
}
