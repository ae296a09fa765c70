package domain

import "fmt"

// FeatureRecord is the validated numeric input to the prediction model.
// Field order matches the training columns of the admissions dataset.
type FeatureRecord struct {
	GREScore         int
	TOEFLScore       int
	UniversityRating int
	SOP              float64
	LOR              float64
	CGPA             float64
	Research         int
}

// PredictionResult wraps the bounded scalar returned to the client.
type PredictionResult struct {
	ChanceOfAdmit float64
}

// ValidationError reports the first feature that violates its declared bounds.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every feature against its bounds and returns a
// ValidationError naming the first offending field.
func (r FeatureRecord) Validate() error {
	if r.GREScore < 0 || r.GREScore > 340 {
		return &ValidationError{Field: "GRE_Score", Message: "must be between 0 and 340"}
	}
	if r.TOEFLScore < 0 || r.TOEFLScore > 120 {
		return &ValidationError{Field: "TOEFL_Score", Message: "must be between 0 and 120"}
	}
	if r.UniversityRating < 1 || r.UniversityRating > 5 {
		return &ValidationError{Field: "University_Rating", Message: "must be between 1 and 5"}
	}
	if r.SOP < 1 || r.SOP > 5 {
		return &ValidationError{Field: "SOP", Message: "must be between 1 and 5"}
	}
	if r.LOR < 1 || r.LOR > 5 {
		return &ValidationError{Field: "LOR", Message: "must be between 1 and 5"}
	}
	if r.CGPA < 0 || r.CGPA > 10 {
		return &ValidationError{Field: "CGPA", Message: "must be between 0 and 10"}
	}
	if r.Research != 0 && r.Research != 1 {
		return &ValidationError{Field: "Research", Message: "must be 0 or 1"}
	}
	return nil
}

// Vector returns the features as a slice in training-column order.
func (r FeatureRecord) Vector() []float64 {
	return []float64{
		float64(r.GREScore),
		float64(r.TOEFLScore),
		float64(r.UniversityRating),
		r.SOP,
		r.LOR,
		r.CGPA,
		float64(r.Research),
	}
}

// FeatureCount is the fixed width of a FeatureRecord vector.
const FeatureCount = 7
