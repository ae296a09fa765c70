package predict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-service/internal/domain"
)

func testModelVersion() *domain.ModelVersion {
	return &domain.ModelVersion{
		Name:         "admissions_model",
		Tag:          "test",
		Coefficients: []float64{0.02, 0.01, 0.005, 0.01, 0.015, 0.07, 0.01},
		Intercept:    0.72,
		ScalerMean:   []float64{316, 107, 3, 3.4, 3.4, 8.6, 0.5},
		ScalerStd:    []float64{11, 6, 1.1, 1, 0.9, 0.6, 0.5},
	}
}

func TestNewLinearModelValidation(t *testing.T) {
	_, err := NewLinearModel(nil)
	assert.Error(t, err)

	mv := testModelVersion()
	mv.Coefficients = mv.Coefficients[:3]
	_, err = NewLinearModel(mv)
	assert.Error(t, err)

	mv = testModelVersion()
	mv.ScalerMean = nil
	_, err = NewLinearModel(mv)
	assert.Error(t, err)
}

func TestLinearModelRun(t *testing.T) {
	model, err := NewLinearModel(testModelVersion())
	require.NoError(t, err)

	rec := domain.FeatureRecord{
		GREScore:         337,
		TOEFLScore:       118,
		UniversityRating: 4,
		SOP:              4.5,
		LOR:              4.5,
		CGPA:             9.65,
		Research:         1,
	}
	got, err := model.Run(context.Background(), rec)
	require.NoError(t, err)

	// Recompute by hand from the scaler and coefficients.
	mv := testModelVersion()
	want := mv.Intercept
	for i, v := range rec.Vector() {
		want += mv.Coefficients[i] * (v - mv.ScalerMean[i]) / mv.ScalerStd[i]
	}
	assert.InDelta(t, want, got, 1e-12)
}

func TestLinearModelRunCancelled(t *testing.T) {
	model, err := NewLinearModel(testModelVersion())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = model.Run(ctx, domain.FeatureRecord{})
	assert.ErrorIs(t, err, context.Canceled)
}
