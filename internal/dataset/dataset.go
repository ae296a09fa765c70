package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// featureColumns are the training columns in FeatureRecord order. Header
// names are matched after trimming: the raw admissions CSV carries trailing
// spaces on "LOR " and "Chance of Admit ".
var featureColumns = []string{
	"GRE Score",
	"TOEFL Score",
	"University Rating",
	"SOP",
	"LOR",
	"CGPA",
	"Research",
}

const targetColumn = "Chance of Admit"

// Dataset holds feature rows and their regression targets.
type Dataset struct {
	Features [][]float64
	Targets  []float64
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Targets) }

// Load reads the admissions CSV, drops the Serial No. column and any row
// with a missing or unparseable value.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	cols := make([]int, 0, len(featureColumns))
	for _, name := range featureColumns {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("dataset missing column %q", name)
		}
		cols = append(cols, i)
	}
	targetCol, ok := index[targetColumn]
	if !ok {
		return nil, fmt.Errorf("dataset missing column %q", targetColumn)
	}

	ds := &Dataset{}
	for _, row := range records[1:] {
		features := make([]float64, 0, len(cols))
		valid := true
		for _, col := range cols {
			v, err := parseCell(row, col)
			if err != nil {
				valid = false
				break
			}
			features = append(features, v)
		}
		if !valid {
			continue
		}
		target, err := parseCell(row, targetCol)
		if err != nil {
			continue
		}
		ds.Features = append(ds.Features, features)
		ds.Targets = append(ds.Targets, target)
	}

	if ds.Len() == 0 {
		return nil, fmt.Errorf("dataset %s has no complete rows", path)
	}
	return ds, nil
}

func parseCell(row []string, col int) (float64, error) {
	if col >= len(row) {
		return 0, fmt.Errorf("missing cell")
	}
	cell := strings.TrimSpace(row[col])
	if cell == "" {
		return 0, fmt.Errorf("empty cell")
	}
	return strconv.ParseFloat(cell, 64)
}

// Split shuffles rows with the given seed and partitions them into train and
// test sets. testSize is the test fraction; the same seed always yields the
// same partition.
func Split(ds *Dataset, testSize float64, seed int64) (*Dataset, *Dataset) {
	n := ds.Len()
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	testCount := int(float64(n) * testSize)
	if testCount < 1 && n > 1 {
		testCount = 1
	}

	test := &Dataset{}
	train := &Dataset{}
	for i, idx := range perm {
		if i < testCount {
			test.Features = append(test.Features, ds.Features[idx])
			test.Targets = append(test.Targets, ds.Targets[idx])
		} else {
			train.Features = append(train.Features, ds.Features[idx])
			train.Targets = append(train.Targets, ds.Targets[idx])
		}
	}
	return train, test
}

// Scaler standardizes features to zero mean and unit variance per column.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-column mean and standard deviation over the rows.
func FitScaler(features [][]float64) *Scaler {
	if len(features) == 0 {
		return &Scaler{}
	}
	width := len(features[0])
	mean := make([]float64, width)
	std := make([]float64, width)

	for _, row := range features {
		for i, v := range row {
			mean[i] += v
		}
	}
	n := float64(len(features))
	for i := range mean {
		mean[i] /= n
	}
	for _, row := range features {
		for i, v := range row {
			d := v - mean[i]
			std[i] += d * d
		}
	}
	for i := range std {
		std[i] = math.Sqrt(std[i] / n)
	}
	return &Scaler{Mean: mean, Std: std}
}

// Transform returns a standardized copy of the rows. Columns with zero
// variance are left centered only.
func (s *Scaler) Transform(features [][]float64) [][]float64 {
	out := make([][]float64, len(features))
	for r, row := range features {
		scaled := make([]float64, len(row))
		for i, v := range row {
			z := v - s.Mean[i]
			if s.Std[i] != 0 {
				z /= s.Std[i]
			}
			scaled[i] = z
		}
		out[r] = scaled
	}
	return out
}
