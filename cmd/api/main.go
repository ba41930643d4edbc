package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mecahub-backend/config"
	_ "mecahub-backend/docs" // Important for Swagger
	v1 "mecahub-backend/internal/delivery/http/v1"
	"mecahub-backend/internal/domain"
	"mecahub-backend/internal/repository/postgres"
	"mecahub-backend/internal/usecase"
	"mecahub-backend/pkg/database"
	"mecahub-backend/pkg/email"
	"mecahub-backend/pkg/logger"
	"mecahub-backend/pkg/ratelimit"
	"mecahub-backend/pkg/redis"
	"mecahub-backend/pkg/security"
	"mecahub-backend/pkg/security/antivirus"
	"mecahub-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// @title           MecaHUB Forms API
// @version         1.0
// @description     Upload and notification endpoints behind the MecaHUB Pro contact and job application forms.
// @host            localhost:8080
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	secLog := security.InitSecurityLogger("mecahub-forms", cfg.GinMode)
	defer secLog.Sync()
	logger.Log.Info("Starting MecaHUB forms backend", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health := map[string]domain.Pinger{"database": nil, "redis": nil}

	// 3. Rate limit store: Redis when configured, process memory otherwise
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.Redis.URL != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limits are per process", "error", err)
		} else {
			defer rdb.Close()
			store = ratelimit.NewRedisStore(rdb, "mecahub:rl:")
			health["redis"] = pingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		}
	}
	uploadLimiter := ratelimit.New(store, ratelimit.FileUpload)
	notifyLimiter := ratelimit.New(store, ratelimit.FormSubmission)

	// 4. Setup Database (optional, only file metadata is written by the API)
	var files domain.FileRepository
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Warn("Database unavailable, file metadata will not be recorded", "error", err)
		} else {
			defer dbPool.Close()
			files = postgres.NewFileRepository(dbPool)
			health["database"] = dbPool
		}
	}

	// 5. Setup Object Storage
	if !cfg.S3.Configured() {
		logger.Log.Error("Object storage is not configured (S3_BUCKET, S3_REGION)")
		os.Exit(1)
	}
	s3Client, err := storage.NewS3Client(ctx, cfg.S3)
	if err != nil {
		logger.Log.Error("Failed to create S3 client", "error", err)
		os.Exit(1)
	}
	objects := storage.NewS3Storage(s3Client, cfg.S3)
	health["storage"] = objects

	// 6. Optional antivirus
	var scanner antivirus.Scanner
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAVScanner(cfg.ClamAVAddress, 30*time.Second)
		if !clam.Available(ctx) {
			logger.Log.Warn("ClamAV not reachable yet, uploads fail closed until it is", "address", cfg.ClamAVAddress)
		}
		scanner = clam
	}

	// 7. Setup Email
	mailer := email.NewMailer(cfg.Email)
	if !mailer.IsConfigured() {
		logger.Log.Warn("Email provider not fully configured - submissions will be handled manually")
	}

	// 8. Setup UseCases
	uploadUC := usecase.NewUploadUsecase(objects, files, scanner, secLog)
	notifyUC := usecase.NewNotifyUsecase(mailer)
	healthUC := usecase.NewHealthUsecase(health)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		UploadUC:       uploadUC,
		NotifyUC:       notifyUC,
		HealthUC:       healthUC,
		UploadLimiter:  uploadLimiter,
		NotifyLimiter:  notifyLimiter,
		SecurityLogger: secLog,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ratelimit.RunCleanup(gctx, ratelimit.DefaultCleanupInterval, uploadLimiter, notifyLimiter)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Log.Info("Server exiting")
}
