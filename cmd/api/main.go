package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-results-api/api/swagger"
	"github.com/noah-isme/school-results-api/internal/handler"
	internalmiddleware "github.com/noah-isme/school-results-api/internal/middleware"
	"github.com/noah-isme/school-results-api/internal/repository"
	"github.com/noah-isme/school-results-api/internal/router"
	"github.com/noah-isme/school-results-api/internal/service"
	"github.com/noah-isme/school-results-api/pkg/config"
	"github.com/noah-isme/school-results-api/pkg/database"
	"github.com/noah-isme/school-results-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-results-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-results-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-results-api/pkg/redisclient"
)

// @title School Results API
// @version 1.0.0
// @description Student results, grading and admin management
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey AdminSession
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

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

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
		logr.Info("database schema up to date")
	}

	redisClient, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classSubjectRepo := repository.NewClassSubjectRepository(db)
	resultRepo := repository.NewResultRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)

	classService := service.NewClassService(classRepo, validate, logr)
	subjectService := service.NewSubjectService(subjectRepo, validate, logr)
	studentService := service.NewStudentService(studentRepo, classRepo, validate, logr)
	classSubjectService := service.NewClassSubjectService(classSubjectRepo, classRepo, subjectRepo, validate, logr)
	resultService := service.NewResultService(resultRepo, studentRepo, subjectRepo, validate, logr)
	recalcService := service.NewRecalculationService(resultRepo, metrics, service.RecalculationOptions{
		UseSubjectScale: cfg.Recalculate.UseSubjectScale,
	}, logr)
	lookupService := service.NewLookupService(studentRepo, resultRepo, metrics, validate, logr)
	exportService := service.NewExportService(lookupService)
	authService := service.NewAuthService(adminRepo, sessionRepo, metrics, validate, logr, service.AuthConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: "school-results-api",
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(metrics))
	}

	router.Register(r, router.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		}),
		Class:        handler.NewClassHandler(classService),
		Subject:      handler.NewSubjectHandler(subjectService),
		Student:      handler.NewStudentHandler(studentService),
		ClassSubject: handler.NewClassSubjectHandler(classSubjectService),
		Result:       handler.NewResultHandler(resultService, recalcService),
		Lookup:       handler.NewLookupHandler(lookupService, exportService),
		Health: handler.NewHealthHandler(map[string]handler.Check{
			"database": db.PingContext,
			"redis":    sessionRepo.Ping,
		}, logr),
		Metrics: handler.NewMetricsHandler(metrics.Handler()),
	}, router.Options{
		APIPrefix:     cfg.APIPrefix,
		AdminGuard:    internalmiddleware.AdminSession(authService, cfg.Session.CookieName),
		EnableDocs:    cfg.Env != config.EnvProduction,
		EnableMetrics: cfg.Metrics.Enabled,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
