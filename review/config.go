package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigFile = "config.json"
	envPrefix         = "REVIEWLENS"
)

// EmbedderConfig locates the sentence-embedding model.
type EmbedderConfig struct {
	ModelName     string `mapstructure:"model_name" json:"model_name"`
	OrtLib        string `mapstructure:"ort_lib" json:"ort_lib"`
	ModelPath     string `mapstructure:"model_path" json:"model_path"`
	TokenizerPath string `mapstructure:"tokenizer_path" json:"tokenizer_path"`
	MaxSeqLen     int    `mapstructure:"max_seq_len" json:"max_seq_len"`
	CacheDir      string `mapstructure:"cache_dir" json:"cache_dir"`
}

// ClassifierConfig locates the trained classifier artifact. Classes names the
// labels of an index-encoded export: an int64 output k maps to Classes[k].
// Leave it empty when the model emits the rating values directly.
type ClassifierConfig struct {
	Path       string   `mapstructure:"path" json:"path"`
	Classes    []string `mapstructure:"classes" json:"classes,omitempty"`
	InputName  string   `mapstructure:"input_name" json:"input_name,omitempty"`
	OutputName string   `mapstructure:"output_name" json:"output_name,omitempty"`
}

// Config aggregates the settings read at startup.
type Config struct {
	DataPath     string           `mapstructure:"data_path" json:"data_path"`
	Columns      Columns          `mapstructure:"columns" json:"columns"`
	Embedder     EmbedderConfig   `mapstructure:"embedder" json:"embedder"`
	Classifier   ClassifierConfig `mapstructure:"classifier" json:"classifier"`
	ExampleCount int              `mapstructure:"example_count" json:"example_count"`
	PreviewRows  int              `mapstructure:"preview_rows" json:"preview_rows"`
}

// DefaultConfig returns the settings used when no file or environment overrides them.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.DataPath == "" {
		c.DataPath = "avis_1_traduit.xlsx"
	}
	c.Columns = c.Columns.withDefaults()
	if c.Embedder.ModelName == "" {
		c.Embedder.ModelName = "bert-base-nli-mean-tokens"
	}
	if c.Embedder.ModelPath == "" {
		c.Embedder.ModelPath = "./models/bert-base-nli-mean-tokens/model.onnx"
	}
	if c.Embedder.TokenizerPath == "" {
		c.Embedder.TokenizerPath = "./models/bert-base-nli-mean-tokens/tokenizer.json"
	}
	if c.Embedder.MaxSeqLen <= 0 {
		c.Embedder.MaxSeqLen = 128
	}
	if c.Classifier.Path == "" {
		c.Classifier.Path = "svm_model.onnx"
	}
	if c.ExampleCount <= 0 {
		c.ExampleCount = 10
	}
	if c.PreviewRows <= 0 {
		c.PreviewRows = 10
	}
}

// LoadConfig reads path (or config.json) when present, then REVIEWLENS_* variables.
// A missing config.json yields the defaults; a missing explicit path is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}

	var out Config
	if err := v.Unmarshal(&out); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	out.ApplyDefaults()
	if out.Embedder.CacheDir != "" {
		if err := os.MkdirAll(out.Embedder.CacheDir, 0o755); err != nil {
			return out, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return out, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("data_path", cfg.DataPath)
	v.SetDefault("columns.date", cfg.Columns.Date)
	v.SetDefault("columns.product", cfg.Columns.Product)
	v.SetDefault("columns.insurer", cfg.Columns.Insurer)
	v.SetDefault("columns.review", cfg.Columns.Review)
	v.SetDefault("columns.rating", cfg.Columns.Rating)
	v.SetDefault("embedder.model_name", cfg.Embedder.ModelName)
	v.SetDefault("embedder.ort_lib", cfg.Embedder.OrtLib)
	v.SetDefault("embedder.model_path", cfg.Embedder.ModelPath)
	v.SetDefault("embedder.tokenizer_path", cfg.Embedder.TokenizerPath)
	v.SetDefault("embedder.max_seq_len", cfg.Embedder.MaxSeqLen)
	v.SetDefault("embedder.cache_dir", cfg.Embedder.CacheDir)
	v.SetDefault("classifier.path", cfg.Classifier.Path)
	v.SetDefault("classifier.classes", []string{})
	v.SetDefault("classifier.input_name", cfg.Classifier.InputName)
	v.SetDefault("classifier.output_name", cfg.Classifier.OutputName)
	v.SetDefault("example_count", cfg.ExampleCount)
	v.SetDefault("preview_rows", cfg.PreviewRows)
}

// SaveConfig persists configuration to disk as JSON.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
