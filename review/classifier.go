package review

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"yashubustudio/reviewlens/emb"
)

// Classifier maps an embedding to a label.
type Classifier interface {
	Predict(ctx context.Context, vec []float32) (string, error)
	Close() error
}

// LoadClassifier opens the artifact at cfg.Path: .onnx exports run through
// onnxruntime, .json files hold a linear or centroid model.
func LoadClassifier(cfg ClassifierConfig, ortLib string) (Classifier, error) {
	switch strings.ToLower(filepath.Ext(cfg.Path)) {
	case ".onnx":
		return NewOrtClassifier(cfg, ortLib)
	case ".json":
		return LoadLinearModel(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported classifier format %q", filepath.Ext(cfg.Path))
	}
}

// OrtClassifier runs a scikit-learn model exported to ONNX with an int64 label output.
type OrtClassifier struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	classes []string
	dim     int
}

// NewOrtClassifier creates the inference session for cfg.Path.
func NewOrtClassifier(cfg ClassifierConfig, ortLib string) (*OrtClassifier, error) {
	if err := emb.AcquireRuntime(ortLib); err != nil {
		return nil, err
	}
	ins, outs, err := ort.GetInputOutputInfo(cfg.Path)
	if err != nil {
		emb.ReleaseRuntime()
		return nil, fmt.Errorf("inspect classifier: %w", err)
	}
	if len(ins) == 0 || len(outs) == 0 {
		emb.ReleaseRuntime()
		return nil, fmt.Errorf("classifier %s declares no inputs or outputs", cfg.Path)
	}
	input := cfg.InputName
	if input == "" {
		input = ins[0].Name
	}
	output := cfg.OutputName
	if output == "" {
		output = "label"
	}
	if err := checkLabelOutput(outs, output); err != nil {
		emb.ReleaseRuntime()
		return nil, fmt.Errorf("classifier %s: %w", cfg.Path, err)
	}
	dim := 0
	for _, in := range ins {
		if in.Name == input && len(in.Dimensions) == 2 && in.Dimensions[1] > 0 {
			dim = int(in.Dimensions[1])
		}
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.Path, []string{input}, []string{output}, nil)
	if err != nil {
		emb.ReleaseRuntime()
		return nil, fmt.Errorf("create classifier session: %w", err)
	}
	return &OrtClassifier{session: session, classes: cfg.Classes, dim: dim}, nil
}

// Predict runs the model on a single vector.
func (c *OrtClassifier) Predict(ctx context.Context, vec []float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.dim > 0 && len(vec) != c.dim {
		return "", fmt.Errorf("vector has %d dimensions, classifier expects %d", len(vec), c.dim)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return "", fmt.Errorf("classifier is closed")
	}
	input, err := ort.NewTensor(ort.NewShape(1, int64(len(vec))), cloneVector(vec))
	if err != nil {
		return "", fmt.Errorf("build input tensor: %w", err)
	}
	defer input.Destroy()
	outputs := []ort.Value{nil}
	if err := c.session.Run([]ort.Value{input}, outputs); err != nil {
		return "", fmt.Errorf("run classifier: %w", err)
	}
	defer func() {
		if outputs[0] != nil {
			_ = outputs[0].Destroy()
		}
	}()
	labels, ok := outputs[0].(*ort.Tensor[int64])
	if !ok {
		return "", fmt.Errorf("unexpected label output type %T", outputs[0])
	}
	data := labels.GetData()
	if len(data) == 0 {
		return "", fmt.Errorf("classifier returned no label")
	}
	return classLabel(c.classes, data[0]), nil
}

// checkLabelOutput requires the named output to be an int64 tensor. String
// labels (zipmap exports, text classes) are not supported.
func checkLabelOutput(outs []ort.InputOutputInfo, name string) error {
	for _, out := range outs {
		if out.Name != name {
			continue
		}
		if out.OrtValueType != ort.ONNXTypeTensor {
			return fmt.Errorf("output %q is a %v, want an int64 tensor", name, out.OrtValueType)
		}
		if out.DataType != ort.TensorElementDataTypeInt64 {
			return fmt.Errorf("output %q holds %v, want int64", name, out.DataType)
		}
		return nil
	}
	return fmt.Errorf("no output named %q", name)
}

// classLabel maps an index-encoded label onto classes. skl2onnx emits the
// class values themselves, so classes is only set for models trained on 0..n-1
// targets and unmatched values print as is.
func classLabel(classes []string, idx int64) string {
	if idx >= 0 && int(idx) < len(classes) {
		return classes[idx]
	}
	return strconv.FormatInt(idx, 10)
}

// Close destroys the session.
func (c *OrtClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session = nil
	emb.ReleaseRuntime()
	return err
}
