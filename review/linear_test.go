package review

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLinearModelPredict(t *testing.T) {
	tests := []struct {
		name  string
		model LinearModel
		vec   []float32
		want  string
	}{
		{
			name:  "multiclass argmax",
			model: LinearModel{Classes: []string{"1", "3", "5"}, Coef: [][]float64{{-1, 0}, {0, 1}, {1, 0}}},
			vec:   []float32{1, 0},
			want:  "5",
		},
		{
			name:  "intercept shifts decision",
			model: LinearModel{Classes: []string{"neg", "pos"}, Coef: [][]float64{{1, 0}, {0, 1}}, Intercept: []float64{0, 2}},
			vec:   []float32{1, 0},
			want:  "pos",
		},
		{
			name:  "binary positive margin",
			model: LinearModel{Classes: []string{"1", "5"}, Coef: [][]float64{{1, -1}}},
			vec:   []float32{2, 1},
			want:  "5",
		},
		{
			name:  "binary negative margin",
			model: LinearModel{Classes: []string{"1", "5"}, Coef: [][]float64{{1, -1}}},
			vec:   []float32{1, 2},
			want:  "1",
		},
		{
			name:  "tie goes to first class",
			model: LinearModel{Classes: []string{"a", "b"}, Coef: [][]float64{{1, 1}, {1, 1}}},
			vec:   []float32{1, 1},
			want:  "a",
		},
		{
			name:  "centroid",
			model: LinearModel{Kind: ModelCentroid, Classes: []string{"2", "4"}, Centroids: [][]float32{{1, 0}, {0, 1}}},
			vec:   []float32{0.1, 0.9},
			want:  "4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.model
			if err := m.validate(); err != nil {
				t.Fatalf("validate: %v", err)
			}
			got, err := m.Predict(context.Background(), tt.vec)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if got != tt.want {
				t.Errorf("label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinearModelDimensionMismatch(t *testing.T) {
	m := LinearModel{Classes: []string{"a", "b"}, Coef: [][]float64{{1, 0}, {0, 1}}}
	if err := m.validate(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Predict(context.Background(), []float32{1, 2, 3}); err == nil {
		t.Error("expected dimension error")
	}
}

func TestLinearModelValidate(t *testing.T) {
	bad := []LinearModel{
		{},
		{Classes: []string{"a", "b", "c"}, Coef: [][]float64{{1}}},
		{Classes: []string{"a", "b"}, Coef: [][]float64{{1}, {1, 2}}},
		{Classes: []string{"a"}, Coef: [][]float64{{1}}, Intercept: []float64{1, 2}},
		{Kind: ModelCentroid, Classes: []string{"a", "b"}, Centroids: [][]float32{{1}}},
		{Kind: "forest", Classes: []string{"a"}},
	}
	for i, m := range bad {
		if err := m.validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestLoadClassifierJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	body := `{"kind":"linear","classes":["1","5"],"coef":[[-1,0],[1,0]],"intercept":[0,0]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadClassifier(ClassifierConfig{Path: path}, "")
	if err != nil {
		t.Fatalf("LoadClassifier: %v", err)
	}
	defer c.Close()
	got, err := c.Predict(context.Background(), []float32{1, 0})
	if err != nil || got != "5" {
		t.Errorf("Predict = %q, %v", got, err)
	}
}

func TestLoadClassifierUnsupported(t *testing.T) {
	_, err := LoadClassifier(ClassifierConfig{Path: "model.pkl"}, "")
	if err == nil || !strings.Contains(err.Error(), ".pkl") {
		t.Errorf("err = %v", err)
	}
}

func TestClassLabelLinear(t *testing.T) {
	classes := []string{"bad", "good"}
	if got := classLabel(classes, 1); got != "good" {
		t.Errorf("classLabel(1) = %q", got)
	}
	if got := classLabel(nil, 5); got != "5" {
		t.Errorf("classLabel without classes = %q", got)
	}
	if got := classLabel(classes, 7); got != "7" {
		t.Errorf("classLabel out of range = %q", got)
	}
}
