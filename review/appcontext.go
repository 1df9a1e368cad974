package review

import (
	"errors"

	"go.uber.org/zap"
)

// Loaders builds the external resources. Tests swap in stubs.
type Loaders struct {
	Dataset    func(path string) (*Table, error)
	Embedder   func(cfg EmbedderConfig) (Embedder, error)
	Classifier func(cfg ClassifierConfig, ortLib string) (Classifier, error)
	Detector   func() LanguageDetector
}

// DefaultLoaders uses the file, ONNX and whatlanggo implementations.
func DefaultLoaders() Loaders {
	return Loaders{
		Dataset: LoadDataset,
		Embedder: func(cfg EmbedderConfig) (Embedder, error) {
			return NewOrtEmbedder(cfg)
		},
		Classifier: LoadClassifier,
		Detector:   func() LanguageDetector { return WhatlangDetector{} },
	}
}

// AppContext owns everything loaded once at startup. A failed dataset disables
// browsing; failed models disable prediction. Neither stops the other.
type AppContext struct {
	Config   Config
	Columns  Columns
	Data     *Table
	DataErr  error
	Pipeline *Pipeline
	ModelErr error

	logger *zap.Logger
}

// Open loads the dataset and models described by cfg.
func Open(cfg Config, logger *zap.Logger) *AppContext {
	return OpenWith(cfg, DefaultLoaders(), logger)
}

// OpenWith is Open with explicit loaders.
func OpenWith(cfg Config, loaders Loaders, logger *zap.Logger) *AppContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	a := &AppContext{Config: cfg, Columns: cfg.Columns, logger: logger}

	data, err := loaders.Dataset(cfg.DataPath)
	if err != nil {
		a.DataErr = asLoadError("dataset", cfg.DataPath, err)
		logger.Error("dataset unavailable", zap.String("path", cfg.DataPath), zap.Error(err))
	} else {
		a.Data = data
		a.Columns = cfg.Columns.Resolve(data)
		logger.Info("dataset loaded",
			zap.String("path", cfg.DataPath),
			zap.Int("rows", data.Len()),
			zap.Strings("columns", data.Columns))
	}

	a.Pipeline, a.ModelErr = openPipeline(cfg, loaders, logger)
	if a.ModelErr != nil {
		logger.Error("prediction unavailable", zap.Error(a.ModelErr))
	}
	return a
}

func openPipeline(cfg Config, loaders Loaders, logger *zap.Logger) (*Pipeline, error) {
	embedder, err := loaders.Embedder(cfg.Embedder)
	if err != nil {
		return nil, asLoadError("embedding model", cfg.Embedder.ModelPath, err)
	}
	classifier, err := loaders.Classifier(cfg.Classifier, cfg.Embedder.OrtLib)
	if err != nil {
		_ = embedder.Close()
		return nil, asLoadError("classifier", cfg.Classifier.Path, err)
	}
	p, err := NewPipeline(loaders.Detector(), embedder, classifier, logger)
	if err != nil {
		_ = classifier.Close()
		_ = embedder.Close()
		return nil, err
	}
	logger.Info("models loaded",
		zap.String("embedder", embedder.ModelID()),
		zap.String("classifier", cfg.Classifier.Path))
	return p, nil
}

func asLoadError(what, path string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{What: what, Path: path, Err: err}
}

// Close releases the models.
func (a *AppContext) Close() error {
	if a.Pipeline == nil {
		return nil
	}
	return a.Pipeline.Close()
}
