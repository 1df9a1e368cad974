package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Stage is a step of the prediction state machine.
type Stage int

const (
	StageIdle Stage = iota
	StageLanguageChecked
	StageEmbedded
	StageClassified
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageLanguageChecked:
		return "language detection"
	case StageEmbedded:
		return "embedding"
	case StageClassified:
		return "classification"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Outcome is the terminal state of one Classify call.
type Outcome int

const (
	OutcomeClassified Outcome = iota
	OutcomeEmptyInput
	OutcomeRejected
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClassified:
		return "classified"
	case OutcomeEmptyInput:
		return "empty input"
	case OutcomeRejected:
		return "rejected"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Prediction is the result of Classify. Label is set only for OutcomeClassified.
type Prediction struct {
	Outcome  Outcome
	Label    string
	Language string
	Stage    Stage
	Err      error
}

// Pipeline composes the language gate, embedder and classifier.
type Pipeline struct {
	detector   LanguageDetector
	embedder   Embedder
	classifier Classifier
	logger     *zap.Logger
}

// NewPipeline wires the three providers together.
func NewPipeline(detector LanguageDetector, embedder Embedder, classifier Classifier, logger *zap.Logger) (*Pipeline, error) {
	if detector == nil {
		return nil, errors.New("language detector is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		detector:   detector,
		embedder:   embedder,
		classifier: classifier,
		logger:     logger,
	}, nil
}

// Classify runs user text through the gate and, when it is English, through the
// embedder and classifier. It never panics; failures are reported in the result.
func (p *Pipeline) Classify(ctx context.Context, text string) (pred Prediction) {
	if strings.TrimSpace(text) == "" {
		return Prediction{Outcome: OutcomeEmptyInput, Stage: StageIdle, Err: ErrEmptyInput}
	}
	pred.Stage = StageIdle
	defer func() {
		if r := recover(); r != nil {
			pred = p.fail(pred, pred.Stage+1, fmt.Errorf("panic: %v", r))
		}
	}()

	lang, err := p.detector.Detect(text)
	if err != nil {
		return p.fail(pred, StageLanguageChecked, err)
	}
	pred.Stage = StageLanguageChecked
	pred.Language = lang
	if lang != English {
		p.logger.Info("input rejected by language gate", zap.String("language", lang))
		pred.Outcome = OutcomeRejected
		pred.Err = ErrNotEnglish
		return pred
	}

	vec, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		return p.fail(pred, StageEmbedded, err)
	}
	pred.Stage = StageEmbedded

	label, err := p.classifier.Predict(ctx, vec)
	if err != nil {
		return p.fail(pred, StageClassified, err)
	}
	pred.Stage = StageClassified
	pred.Outcome = OutcomeClassified
	pred.Label = label
	p.logger.Debug("classified input", zap.String("label", label), zap.Int("chars", len(text)))
	return pred
}

// Label embeds and classifies text without the language gate. Dataset rows are
// already translated, so they skip detection.
func (p *Pipeline) Label(ctx context.Context, text string) (label string, err error) {
	stage := StageLanguageChecked
	defer func() {
		if r := recover(); r != nil {
			label = ""
			err = &PredictionError{Stage: stage + 1, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	vec, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		return "", &PredictionError{Stage: StageEmbedded, Err: err}
	}
	stage = StageEmbedded
	label, err = p.classifier.Predict(ctx, vec)
	if err != nil {
		return "", &PredictionError{Stage: StageClassified, Err: err}
	}
	return label, nil
}

// Close releases the embedder and classifier.
func (p *Pipeline) Close() error {
	return errors.Join(p.classifier.Close(), p.embedder.Close())
}

func (p *Pipeline) fail(pred Prediction, stage Stage, err error) Prediction {
	p.logger.Warn("prediction failed", zap.Stringer("stage", stage), zap.Error(err))
	pred.Outcome = OutcomeError
	pred.Label = ""
	pred.Err = &PredictionError{Stage: stage, Err: err}
	return pred
}
