package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"admissions-service/internal/config"
	"admissions-service/internal/dataset"
	"admissions-service/internal/domain"
	"admissions-service/internal/repository/sqlite"
	"admissions-service/internal/storage"
	"admissions-service/internal/train"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("loading dataset from %s", cfg.Data.RawPath)
	ds, err := dataset.Load(cfg.Data.RawPath)
	if err != nil {
		logger.Fatalf("load dataset: %v", err)
	}

	trainSet, testSet := dataset.Split(ds, cfg.Data.TestSize, cfg.Data.Seed)
	logger.Infof("split %d rows into %d train / %d test", ds.Len(), trainSet.Len(), testSet.Len())

	scaler := dataset.FitScaler(trainSet.Features)
	scaledTrain := scaler.Transform(trainSet.Features)
	scaledTest := scaler.Transform(testSet.Features)

	coefficients, intercept, err := train.Fit(scaledTrain, trainSet.Targets)
	if err != nil {
		logger.Fatalf("fit model: %v", err)
	}

	predictions := train.Predict(scaledTest, coefficients, intercept)
	metrics := train.Evaluate(predictions, testSet.Targets)
	logger.Infof("evaluation: mse=%.4f rmse=%.4f r2=%.4f mae=%.4f", metrics.MSE, metrics.RMSE, metrics.R2, metrics.MAE)

	if metrics.R2 <= cfg.Train.MinR2 {
		logger.Warnf("model r2 %.4f is below threshold %.2f; not saving", metrics.R2, cfg.Train.MinR2)
		return
	}

	mv := &domain.ModelVersion{
		Name:         cfg.Model.Name,
		Tag:          uuid.NewString(),
		Coefficients: coefficients,
		Intercept:    intercept,
		ScalerMean:   scaler.Mean,
		ScalerStd:    scaler.Std,
		Metrics:      metrics,
		CreatedAt:    time.Now().UTC(),
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	modelRepo := sqlite.NewModelRepository(db)
	if err := modelRepo.Init(ctx); err != nil {
		logger.Fatalf("init model repository: %v", err)
	}
	if _, err := modelRepo.Save(ctx, mv); err != nil {
		logger.Fatalf("save model: %v", err)
	}
	logger.Infof("saved model %s tag %s", mv.Name, mv.Tag)

	if cfg.Storage.Bucket == "" {
		return
	}
	location, err := exportArtifact(ctx, cfg, mv)
	if err != nil {
		logger.Warnf("export artifact: %v", err)
		return
	}
	logger.Infof("exported artifact to %s", location)
}

func exportArtifact(ctx context.Context, cfg config.Config, mv *domain.ModelVersion) (string, error) {
	svc, err := storage.NewS3ServiceFromOptions(ctx, storage.ClientOptions{
		Region:   cfg.Storage.Region,
		Profile:  cfg.AWS.Profile,
		Endpoint: cfg.Storage.Endpoint,
	})
	if err != nil {
		return "", err
	}

	artifact, err := json.MarshalIndent(struct {
		Name         string              `json:"name"`
		Tag          string              `json:"tag"`
		Coefficients []float64           `json:"coefficients"`
		Intercept    float64             `json:"intercept"`
		ScalerMean   []float64           `json:"scaler_mean"`
		ScalerStd    []float64           `json:"scaler_std"`
		Metrics      domain.ModelMetrics `json:"metrics"`
		CreatedAt    time.Time           `json:"created_at"`
	}{
		Name:         mv.Name,
		Tag:          mv.Tag,
		Coefficients: mv.Coefficients,
		Intercept:    mv.Intercept,
		ScalerMean:   mv.ScalerMean,
		ScalerStd:    mv.ScalerStd,
		Metrics:      mv.Metrics,
		CreatedAt:    mv.CreatedAt,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal artifact: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", mv.Name, mv.Tag)
	return svc.UploadArtifact(ctx, name, artifact, storage.UploadOptions{
		Bucket:    cfg.Storage.Bucket,
		KeyPrefix: cfg.Storage.KeyPrefix,
	})
}
