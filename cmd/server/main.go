package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"admissions-service/internal/auth"
	"admissions-service/internal/config"
	apphttp "admissions-service/internal/http"
	"admissions-service/internal/predict"
	"admissions-service/internal/repository/sqlite"
	"admissions-service/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	codec, err := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.Algorithm)
	if err != nil {
		logger.Fatalf("setup token codec: %v", err)
	}
	creds := auth.NewCredentialStore(cfg.Auth.Users)
	gate := auth.NewGate(codec, creds, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	modelRepo := sqlite.NewModelRepository(db)
	if err := modelRepo.Init(ctx); err != nil {
		logger.Fatalf("init model repository: %v", err)
	}

	mv, err := modelRepo.GetLatest(ctx, cfg.Model.Name)
	if err != nil {
		logger.Fatalf("load model %q (run the train command first): %v", cfg.Model.Name, err)
	}
	predictor, err := predict.NewLinearModel(mv)
	if err != nil {
		logger.Fatalf("build predictor: %v", err)
	}
	logger.Infof("serving model %s tag %s (r2 %.4f)", mv.Name, mv.Tag, mv.Metrics.R2)

	var store storage.Service
	if cfg.Storage.Bucket != "" {
		s3svc, err := storage.NewS3ServiceFromOptions(ctx, storage.ClientOptions{
			Region:   cfg.Storage.Region,
			Profile:  cfg.AWS.Profile,
			Endpoint: cfg.Storage.Endpoint,
		})
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
		store = s3svc
		logger.Infof("using s3 bucket %s", cfg.Storage.Bucket)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(gate, predictor, modelRepo, cfg.Model.Name, store, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
