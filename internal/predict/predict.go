package predict

import (
	"context"

	"admissions-service/internal/domain"
)

// Adapter produces a regression prediction for a validated feature record.
// Implementations must be side-effect free and safe for concurrent use.
type Adapter interface {
	Run(ctx context.Context, record domain.FeatureRecord) (float64, error)
}
