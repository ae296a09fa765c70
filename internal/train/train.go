package train

import (
	"fmt"
	"math"

	"admissions-service/internal/domain"
)

// Fit solves ordinary least squares over the rows via the normal equations,
// returning per-column coefficients and the intercept. Rows must all share
// the same width and there must be more rows than columns.
func Fit(features [][]float64, targets []float64) ([]float64, float64, error) {
	n := len(features)
	if n == 0 || n != len(targets) {
		return nil, 0, fmt.Errorf("need matching feature and target rows, got %d and %d", n, len(targets))
	}
	width := len(features[0])
	if width == 0 {
		return nil, 0, fmt.Errorf("feature rows are empty")
	}
	if n <= width {
		return nil, 0, fmt.Errorf("need more than %d rows to fit %d columns", width, width)
	}
	for _, row := range features {
		if len(row) != width {
			return nil, 0, fmt.Errorf("ragged feature rows")
		}
	}

	// Augment with a leading 1s column for the intercept, then solve
	// (X^T X) beta = X^T y.
	dim := width + 1
	xtx := make([][]float64, dim)
	for i := range xtx {
		xtx[i] = make([]float64, dim)
	}
	xty := make([]float64, dim)

	for r, row := range features {
		aug := make([]float64, dim)
		aug[0] = 1
		copy(aug[1:], row)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				xtx[i][j] += aug[i] * aug[j]
			}
			xty[i] += aug[i] * targets[r]
		}
	}

	beta, err := solve(xtx, xty)
	if err != nil {
		return nil, 0, err
	}
	return beta[1:], beta[0], nil
}

// solve performs Gaussian elimination with partial pivoting on a copy of the
// system.
func solve(a [][]float64, b []float64) ([]float64, error) {
	dim := len(b)
	m := make([][]float64, dim)
	for i := range m {
		m[i] = make([]float64, dim+1)
		copy(m[i], a[i])
		m[i][dim] = b[i]
	}

	for col := 0; col < dim; col++ {
		pivot := col
		for r := col + 1; r < dim; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("normal equations are singular")
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < dim; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= dim; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	x := make([]float64, dim)
	for i := dim - 1; i >= 0; i-- {
		sum := m[i][dim]
		for j := i + 1; j < dim; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}
	return x, nil
}

// Predict applies the fitted coefficients to every row.
func Predict(features [][]float64, coefficients []float64, intercept float64) []float64 {
	out := make([]float64, len(features))
	for r, row := range features {
		sum := intercept
		for i, v := range row {
			sum += coefficients[i] * v
		}
		out[r] = sum
	}
	return out
}

// Evaluate computes MSE, RMSE, R2 and MAE of predictions against actuals.
func Evaluate(predicted, actual []float64) domain.ModelMetrics {
	n := float64(len(actual))
	if n == 0 {
		return domain.ModelMetrics{}
	}

	var mean float64
	for _, y := range actual {
		mean += y
	}
	mean /= n

	var sse, sst, absErr float64
	for i, y := range actual {
		diff := predicted[i] - y
		sse += diff * diff
		absErr += math.Abs(diff)
		dev := y - mean
		sst += dev * dev
	}

	metrics := domain.ModelMetrics{
		MSE:  sse / n,
		MAE:  absErr / n,
		RMSE: math.Sqrt(sse / n),
	}
	if sst != 0 {
		metrics.R2 = 1 - sse/sst
	}
	return metrics
}
