package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"admissions-service/internal/domain"
	"admissions-service/internal/repository"
)

const createModelVersionsTable = `
CREATE TABLE IF NOT EXISTS model_versions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	tag TEXT NOT NULL UNIQUE,
	payload TEXT NOT NULL,
	mse REAL NOT NULL,
	rmse REAL NOT NULL,
	r2 REAL NOT NULL,
	mae REAL NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_model_versions_name ON model_versions(name, created_at);
`

// modelPayload is the JSON column carrying the numeric parameters of a version.
type modelPayload struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	ScalerMean   []float64 `json:"scaler_mean"`
	ScalerStd    []float64 `json:"scaler_std"`
}

type ModelRepository struct {
	db *sql.DB
}

func NewModelRepository(db *sql.DB) repository.ModelRepository {
	return &ModelRepository{db: db}
}

func (r *ModelRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createModelVersionsTable); err != nil {
		return fmt.Errorf("create model_versions table: %w", err)
	}
	return nil
}

func (r *ModelRepository) Save(ctx context.Context, mv *domain.ModelVersion) (int64, error) {
	payload, err := json.Marshal(modelPayload{
		Coefficients: mv.Coefficients,
		Intercept:    mv.Intercept,
		ScalerMean:   mv.ScalerMean,
		ScalerStd:    mv.ScalerStd,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal model payload: %w", err)
	}

	if mv.CreatedAt.IsZero() {
		mv.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO model_versions (name, tag, payload, mse, rmse, r2, mae, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		mv.Name,
		mv.Tag,
		string(payload),
		mv.Metrics.MSE,
		mv.Metrics.RMSE,
		mv.Metrics.R2,
		mv.Metrics.MAE,
		mv.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert model version: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("model version last insert id: %w", err)
	}
	mv.ID = id
	return id, nil
}

func (r *ModelRepository) GetLatest(ctx context.Context, name string) (*domain.ModelVersion, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, tag, payload, mse, rmse, r2, mae, created_at
FROM model_versions
WHERE name = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`,
		name,
	)
	return scanModelVersion(row)
}

func (r *ModelRepository) List(ctx context.Context, name string) ([]domain.ModelVersion, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, tag, payload, mse, rmse, r2, mae, created_at
FROM model_versions
WHERE name = ?
ORDER BY created_at DESC, id DESC`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("list model versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.ModelVersion
	for rows.Next() {
		mv, err := scanModelVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *mv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model versions: %w", err)
	}
	return versions, nil
}

func scanModelVersion(row interface {
	Scan(dest ...any) error
}) (*domain.ModelVersion, error) {
	var (
		mv      domain.ModelVersion
		payload string
	)
	if err := row.Scan(
		&mv.ID,
		&mv.Name,
		&mv.Tag,
		&payload,
		&mv.Metrics.MSE,
		&mv.Metrics.RMSE,
		&mv.Metrics.R2,
		&mv.Metrics.MAE,
		&mv.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("model version not found")
		}
		return nil, fmt.Errorf("scan model version: %w", err)
	}

	var p modelPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("unmarshal model payload: %w", err)
	}
	mv.Coefficients = p.Coefficients
	mv.Intercept = p.Intercept
	mv.ScalerMean = p.ScalerMean
	mv.ScalerStd = p.ScalerStd
	return &mv, nil
}
