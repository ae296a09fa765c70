package predict

import (
	"context"
	"fmt"

	"admissions-service/internal/domain"
)

// LinearModel is an Adapter backed by a trained linear regression.
// Features are standard-scaled with the parameters fitted at training time
// before the dot product is taken.
type LinearModel struct {
	coefficients []float64
	intercept    float64
	mean         []float64
	std          []float64
}

// NewLinearModel builds a predictor from a stored model version.
func NewLinearModel(mv *domain.ModelVersion) (*LinearModel, error) {
	if mv == nil {
		return nil, fmt.Errorf("model version is required")
	}
	if len(mv.Coefficients) != domain.FeatureCount {
		return nil, fmt.Errorf("model has %d coefficients, want %d", len(mv.Coefficients), domain.FeatureCount)
	}
	if len(mv.ScalerMean) != domain.FeatureCount || len(mv.ScalerStd) != domain.FeatureCount {
		return nil, fmt.Errorf("model scaler parameters have wrong width")
	}
	return &LinearModel{
		coefficients: mv.Coefficients,
		intercept:    mv.Intercept,
		mean:         mv.ScalerMean,
		std:          mv.ScalerStd,
	}, nil
}

func (m *LinearModel) Run(ctx context.Context, record domain.FeatureRecord) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	x := record.Vector()
	sum := m.intercept
	for i, v := range x {
		z := v - m.mean[i]
		if m.std[i] != 0 {
			z /= m.std[i]
		}
		sum += m.coefficients[i] * z
	}
	return sum, nil
}

var _ Adapter = (*LinearModel)(nil)
