package repository

import (
	"context"

	"admissions-service/internal/domain"
)

// ModelRepository defines persistence operations for trained model versions.
type ModelRepository interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, mv *domain.ModelVersion) (int64, error)
	GetLatest(ctx context.Context, name string) (*domain.ModelVersion, error)
	List(ctx context.Context, name string) ([]domain.ModelVersion, error)
}
