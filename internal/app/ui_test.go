package app

import (
	"context"
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/reviewlens/review"
)

type fakeDetector map[string]string

func (d fakeDetector) Detect(text string) (string, error) {
	if lang, ok := d[text]; ok {
		return lang, nil
	}
	return "en", nil
}

type fakeEmbedder struct{ calls int }

func (e *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if text == "explode" {
		return nil, errors.New("encoder failed")
	}
	return []float32{1, 0}, nil
}

func (e *fakeEmbedder) ModelID() string { return "fake" }
func (e *fakeEmbedder) Close() error    { return nil }

type fakeClassifier struct{}

func (fakeClassifier) Predict(context.Context, []float32) (string, error) { return "5", nil }
func (fakeClassifier) Close() error                                     { return nil }

func testTable() *review.Table {
	return review.NewTable(
		[]string{"date_publication", "produit", "assureur", "avis_en", "note"},
		[][]string{
			{"2021-01-02", "auto", "A", "Great service", "5"},
			{"2021-01-03", "auto", "B", "Slow response", "2"},
			{"2021-01-04", "auto", "B", "explode", "1"},
		},
	)
}

func testLoaders(dataErr, modelErr error, e *fakeEmbedder) review.Loaders {
	return review.Loaders{
		Dataset: func(string) (*review.Table, error) {
			if dataErr != nil {
				return nil, dataErr
			}
			return testTable(), nil
		},
		Embedder: func(review.EmbedderConfig) (review.Embedder, error) {
			if modelErr != nil {
				return nil, modelErr
			}
			return e, nil
		},
		Classifier: func(review.ClassifierConfig, string) (review.Classifier, error) { return fakeClassifier{}, nil },
		Detector: func() review.LanguageDetector {
			return fakeDetector{"Bonjour, ceci est un avis": "fr"}
		},
	}
}

func newTestUI(t *testing.T, dataErr, modelErr error) (*uiState, *fakeEmbedder) {
	t.Helper()
	e := &fakeEmbedder{}
	actx := review.OpenWith(review.Config{}, testLoaders(dataErr, modelErr, e), nil)
	t.Cleanup(func() { _ = actx.Close() })

	u := newUIState(test.NewTempApp(t), actx, nil)
	u.async = func(f func()) { f() }
	u.do = func(f func()) { f() }
	u.build(nil)
	return u, e
}

func TestInsurerFilterUpdatesPanes(t *testing.T) {
	u, _ := newTestUI(t, nil, nil)
	if u.insurerSel.Selected != review.AllInsurers {
		t.Fatalf("default selection = %q", u.insurerSel.Selected)
	}
	if len(u.rows) != 3 || len(u.chart.bars) != 3 {
		t.Fatalf("rows = %d, bars = %d", len(u.rows), len(u.chart.bars))
	}

	u.insurerSel.SetSelected("A")
	if len(u.rows) != 1 || u.rows[0][2] != "Great service" {
		t.Errorf("rows = %v", u.rows)
	}
	if len(u.chart.bars) != 1 {
		t.Errorf("bars = %d", len(u.chart.bars))
	}
	if got := u.exampleSel.Options; len(got) != 2 || got[1] != "Great service" {
		t.Errorf("examples = %v", got)
	}
}

func TestExampleFillsInput(t *testing.T) {
	u, _ := newTestUI(t, nil, nil)
	u.exampleSel.SetSelected("Slow response")
	if u.input.Text != "Slow response" {
		t.Errorf("input = %q", u.input.Text)
	}
	u.exampleSel.SetSelected(noExample)
	if u.input.Text != "" {
		t.Errorf("input = %q, want empty", u.input.Text)
	}
}

func TestPredictOutcomes(t *testing.T) {
	tests := []struct {
		input string
		want  string
		imp   widget.Importance
	}{
		{"Great service, fast refunds", "Le modèle prédit : 5", widget.SuccessImportance},
		{"   ", "Veuillez entrer un avis avant de prédire.", widget.WarningImportance},
		{"Bonjour, ceci est un avis", "Veuillez entrer un avis rédigé en anglais.", widget.WarningImportance},
		{"explode", "Erreur : embedding failed: encoder failed", widget.DangerImportance},
	}
	for _, tt := range tests {
		u, _ := newTestUI(t, nil, nil)
		u.input.SetText(tt.input)
		test.Tap(u.predictBtn)
		if u.result.Text != tt.want || u.result.Importance != tt.imp {
			t.Errorf("%q: result = %q/%v, want %q/%v", tt.input, u.result.Text, u.result.Importance, tt.want, tt.imp)
		}
		if u.predictBtn.Disabled() {
			t.Errorf("%q: button left disabled", tt.input)
		}
	}
}

func TestComparisonIsolatesRowErrors(t *testing.T) {
	u, e := newTestUI(t, nil, nil)
	u.compareChk.SetChecked(true)
	if len(u.compareRows) != 3 {
		t.Fatalf("rows = %v", u.compareRows)
	}
	if u.compareRows[0][3] != "5" || u.compareRows[1][3] != "5" {
		t.Errorf("rows = %v", u.compareRows)
	}
	if u.compareRows[2][3] == "5" {
		t.Errorf("failing row should show its error: %v", u.compareRows[2])
	}
	if e.calls != 3 {
		t.Errorf("embed calls = %d", e.calls)
	}
	if u.exportBtn.Disabled() || len(u.predictions) != 3 {
		t.Error("export should be available once predictions are shown")
	}

	u.insurerSel.SetSelected("A")
	if len(u.compareRows) != 1 {
		t.Errorf("comparison should follow the filter: %v", u.compareRows)
	}

	u.compareChk.SetChecked(false)
	if u.compareTbl.Visible() || !u.exportBtn.Disabled() {
		t.Error("comparison table or export still available")
	}
}

func TestDatasetErrorDisablesBrowsing(t *testing.T) {
	u, _ := newTestUI(t, errors.New("no such file"), nil)
	if !u.insurerSel.Disabled() || !u.compareChk.Disabled() {
		t.Error("browsing controls should be disabled")
	}
	if !u.dataNotice.Visible() || u.dataNotice.Importance != widget.DangerImportance {
		t.Error("dataset error not shown")
	}
	if u.predictBtn.Disabled() {
		t.Error("prediction should stay available")
	}
	u.input.SetText("Great service")
	test.Tap(u.predictBtn)
	if u.result.Text != "Le modèle prédit : 5" {
		t.Errorf("result = %q", u.result.Text)
	}
}

func TestModelErrorDisablesPrediction(t *testing.T) {
	u, _ := newTestUI(t, nil, errors.New("model.onnx missing"))
	if !u.predictBtn.Disabled() || !u.compareChk.Disabled() {
		t.Error("prediction controls should be disabled")
	}
	if u.result.Importance != widget.DangerImportance {
		t.Errorf("result = %q", u.result.Text)
	}
	if len(u.rows) != 3 {
		t.Errorf("browsing should still work, rows = %d", len(u.rows))
	}
}
