package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/reviewlens/internal/app"
	"yashubustudio/reviewlens/review"
)

const version = "reviewlens v0.3.0"

var (
	cfgFile        string
	verbose        bool
	dataPath       string
	modelPath      string
	tokenizerPath  string
	ortLib         string
	classifierPath string
)

var rootCmd = &cobra.Command{
	Use:   "reviewlens",
	Short: "Browse insurer reviews and predict ratings for new ones",
	Long: `reviewlens opens a desktop dashboard over a dataset of insurer reviews.

Reviews can be filtered by insurer and their rating distribution inspected.
A free-text English review can be classified with a sentence-embedding model
and a pre-trained classifier, both loaded once at startup.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runDashboard,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./config.json)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.StringVar(&dataPath, "data", "", "review dataset (.xlsx, .csv or .tsv)")
	flags.StringVar(&modelPath, "model", "", "sentence-embedding ONNX model")
	flags.StringVar(&tokenizerPath, "tokenizer", "", "tokenizer.json for the embedding model")
	flags.StringVar(&ortLib, "ort-lib", "", "onnxruntime shared library")
	flags.StringVar(&classifierPath, "classifier", "", "classifier artifact (.onnx or .json)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the config file and environment, then applies explicit flags.
func loadConfig(cmd *cobra.Command) (review.Config, error) {
	cfg, err := review.LoadConfig(cfgFile)
	if err != nil {
		return cfg, err
	}
	applyOverrides(cmd, &cfg)
	return cfg, nil
}

func applyOverrides(cmd *cobra.Command, cfg *review.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataPath = dataPath
	}
	if flags.Changed("model") {
		cfg.Embedder.ModelPath = modelPath
	}
	if flags.Changed("tokenizer") {
		cfg.Embedder.TokenizerPath = tokenizerPath
	}
	if flags.Changed("ort-lib") {
		cfg.Embedder.OrtLib = ortLib
	}
	if flags.Changed("classifier") {
		cfg.Classifier.Path = classifierPath
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	capture := app.NewLogCapture(0)
	logger := app.NewLogger(verbose, capture)
	defer func() { _ = logger.Sync() }()

	actx := review.Open(cfg, logger)
	defer func() {
		if err := actx.Close(); err != nil {
			logger.Warn("release models: " + err.Error())
		}
	}()
	return app.Run(actx, logger, capture)
}
