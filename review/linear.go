package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

const (
	ModelLinear   = "linear"
	ModelCentroid = "centroid"
)

// LinearModel is a classifier exported as plain weights.
//
// For "linear" models Coef holds one row per class (one-vs-rest decision function),
// or a single row for binary models where a positive margin selects Classes[1].
// For "centroid" models Centroids holds one vector per class and the most
// cosine-similar centroid wins.
type LinearModel struct {
	Kind      string      `json:"kind"`
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef,omitempty"`
	Intercept []float64   `json:"intercept,omitempty"`
	Centroids [][]float32 `json:"centroids,omitempty"`
}

// LoadLinearModel reads and validates a JSON model.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return &m, nil
}

func (m *LinearModel) validate() error {
	if len(m.Classes) == 0 {
		return errors.New("no classes")
	}
	switch m.Kind {
	case ModelLinear, "":
		m.Kind = ModelLinear
		binary := len(m.Coef) == 1 && len(m.Classes) == 2
		if len(m.Coef) != len(m.Classes) && !binary {
			return fmt.Errorf("%d coefficient rows for %d classes", len(m.Coef), len(m.Classes))
		}
		if len(m.Intercept) == 0 {
			m.Intercept = make([]float64, len(m.Coef))
		}
		if len(m.Intercept) != len(m.Coef) {
			return fmt.Errorf("%d intercepts for %d coefficient rows", len(m.Intercept), len(m.Coef))
		}
		for _, row := range m.Coef {
			if len(row) != len(m.Coef[0]) || len(row) == 0 {
				return errors.New("coefficient rows differ in length")
			}
		}
	case ModelCentroid:
		if len(m.Centroids) != len(m.Classes) {
			return fmt.Errorf("%d centroids for %d classes", len(m.Centroids), len(m.Classes))
		}
		for _, c := range m.Centroids {
			if len(c) != len(m.Centroids[0]) || len(c) == 0 {
				return errors.New("centroids differ in length")
			}
		}
	default:
		return fmt.Errorf("unknown model kind %q", m.Kind)
	}
	return nil
}

// Dim returns the expected vector length.
func (m *LinearModel) Dim() int {
	if m.Kind == ModelCentroid {
		return len(m.Centroids[0])
	}
	return len(m.Coef[0])
}

// Predict returns the winning class; ties go to the earliest class.
func (m *LinearModel) Predict(ctx context.Context, vec []float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(vec) != m.Dim() {
		return "", fmt.Errorf("vector has %d dimensions, model expects %d", len(vec), m.Dim())
	}
	if m.Kind == ModelCentroid {
		best, bestScore := 0, float32(math.Inf(-1))
		for i, c := range m.Centroids {
			if s := cosineSimilarity(vec, c); s > bestScore {
				best, bestScore = i, s
			}
		}
		return m.Classes[best], nil
	}
	if len(m.Coef) == 1 && len(m.Classes) == 2 {
		if m.margin(0, vec) > 0 {
			return m.Classes[1], nil
		}
		return m.Classes[0], nil
	}
	best, bestScore := 0, math.Inf(-1)
	for i := range m.Coef {
		if s := m.margin(i, vec); s > bestScore {
			best, bestScore = i, s
		}
	}
	return m.Classes[best], nil
}

func (m *LinearModel) margin(row int, vec []float32) float64 {
	s := m.Intercept[row]
	for j, w := range m.Coef[row] {
		s += w * float64(vec[j])
	}
	return s
}

// Close is a no-op.
func (m *LinearModel) Close() error { return nil }

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
