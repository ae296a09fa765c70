package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-service/internal/domain"
)

func newTestRepo(t *testing.T) *ModelRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewModelRepository(db).(*ModelRepository)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func sampleVersion(tag string) *domain.ModelVersion {
	return &domain.ModelVersion{
		Name:         "admissions_model",
		Tag:          tag,
		Coefficients: []float64{0.02, 0.01, 0.005, 0.01, 0.015, 0.07, 0.01},
		Intercept:    0.72,
		ScalerMean:   []float64{316, 107, 3, 3.4, 3.4, 8.6, 0.5},
		ScalerStd:    []float64{11, 6, 1.1, 1, 0.9, 0.6, 0.5},
		Metrics:      domain.ModelMetrics{MSE: 0.004, RMSE: 0.063, R2: 0.8, MAE: 0.045},
	}
}

func TestModelRepositorySaveAndGetLatest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mv := sampleVersion("v1")
	id, err := repo.Save(ctx, mv)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetLatest(ctx, "admissions_model")
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Tag)
	assert.Equal(t, mv.Coefficients, got.Coefficients)
	assert.Equal(t, mv.Intercept, got.Intercept)
	assert.Equal(t, mv.ScalerMean, got.ScalerMean)
	assert.Equal(t, mv.ScalerStd, got.ScalerStd)
	assert.Equal(t, mv.Metrics, got.Metrics)
}

func TestModelRepositoryGetLatestPicksNewest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := sampleVersion("v1")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	_, err := repo.Save(ctx, older)
	require.NoError(t, err)

	newer := sampleVersion("v2")
	newer.Metrics.R2 = 0.85
	_, err = repo.Save(ctx, newer)
	require.NoError(t, err)

	got, err := repo.GetLatest(ctx, "admissions_model")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Tag)
}

func TestModelRepositoryGetLatestNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetLatest(context.Background(), "missing_model")
	assert.ErrorContains(t, err, "not found")
}

func TestModelRepositoryList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := sampleVersion("v1")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	_, err := repo.Save(ctx, first)
	require.NoError(t, err)
	_, err = repo.Save(ctx, sampleVersion("v2"))
	require.NoError(t, err)

	versions, err := repo.List(ctx, "admissions_model")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "v2", versions[0].Tag)
	assert.Equal(t, "v1", versions[1].Tag)

	empty, err := repo.List(ctx, "missing_model")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestModelRepositoryDuplicateTag(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, sampleVersion("v1"))
	require.NoError(t, err)

	_, err = repo.Save(ctx, sampleVersion("v1"))
	assert.Error(t, err)
}
