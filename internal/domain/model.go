package domain

import "time"

// ModelVersion is a trained regression model persisted in the model store.
// Coefficients and scaler parameters are indexed in FeatureRecord column order.
type ModelVersion struct {
	ID           int64
	Name         string
	Tag          string
	Coefficients []float64
	Intercept    float64
	ScalerMean   []float64
	ScalerStd    []float64
	Metrics      ModelMetrics
	CreatedAt    time.Time
}

// ModelMetrics captures test-split evaluation results recorded at training time.
type ModelMetrics struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
	MAE  float64 `json:"mae"`
}
