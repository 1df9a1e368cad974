// Package emb runs a sentence-embedding transformer exported to ONNX.
package emb

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

const (
	inputIDs      = "input_ids"
	attentionMask = "attention_mask"
	tokenTypeIDs  = "token_type_ids"
	hiddenState   = "last_hidden_state"
)

// Config points the encoder at its runtime library, model and tokenizer.
type Config struct {
	OrtDLL        string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
}

// Encoder produces mean-pooled token embeddings for a single text.
type Encoder struct {
	mu         sync.Mutex
	tk         *tokenizer.Tokenizer
	session    *ort.DynamicAdvancedSession
	inputs     []string
	maxSeqLen  int
	hasRuntime bool
}

// Init loads the tokenizer and creates the inference session.
func (e *Encoder) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("model path is empty")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("tokenizer path is empty")
	}
	for _, p := range []string{cfg.ModelPath, cfg.TokenizerPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}
	if err := AcquireRuntime(cfg.OrtDLL); err != nil {
		return err
	}
	e.hasRuntime = true

	ins, outs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		e.Close()
		return fmt.Errorf("inspect model: %w", err)
	}
	inputs, output, err := pickNames(ins, outs)
	if err != nil {
		e.Close()
		return err
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputs, []string{output}, nil)
	if err != nil {
		e.Close()
		return fmt.Errorf("create session: %w", err)
	}
	e.tk = tk
	e.session = session
	e.inputs = inputs
	e.maxSeqLen = cfg.MaxSeqLen
	if e.maxSeqLen <= 0 {
		e.maxSeqLen = 128
	}
	return nil
}

func pickNames(ins, outs []ort.InputOutputInfo) ([]string, string, error) {
	declared := make(map[string]bool, len(ins))
	for _, in := range ins {
		declared[in.Name] = true
	}
	if !declared[inputIDs] || !declared[attentionMask] {
		return nil, "", fmt.Errorf("model must declare %s and %s inputs", inputIDs, attentionMask)
	}
	inputs := []string{inputIDs, attentionMask}
	if declared[tokenTypeIDs] {
		inputs = append(inputs, tokenTypeIDs)
	}
	if len(outs) == 0 {
		return nil, "", errors.New("model declares no outputs")
	}
	output := outs[0].Name
	for _, out := range outs {
		if out.Name == hiddenState {
			output = out.Name
			break
		}
	}
	return inputs, output, nil
}

// Close releases the session and the runtime reference.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		_ = e.session.Destroy()
		e.session = nil
	}
	if e.hasRuntime {
		ReleaseRuntime()
		e.hasRuntime = false
	}
}

// Encode tokenizes text as-is and returns its pooled embedding.
func (e *Encoder) Encode(text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil || e.tk == nil {
		return nil, errors.New("encoder is not initialized")
	}
	enc, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	ids := truncate(enc.GetIds(), e.maxSeqLen)
	mask := truncate(enc.GetAttentionMask(), e.maxSeqLen)
	types := truncate(enc.GetTypeIds(), e.maxSeqLen)
	if len(ids) == 0 {
		return nil, errors.New("tokenizer produced no tokens")
	}
	if len(mask) != len(ids) {
		mask = onesLike(ids)
	}
	if len(types) != len(ids) {
		types = make([]int, len(ids))
	}

	shape := ort.NewShape(1, int64(len(ids)))
	feeds := map[string][]int{inputIDs: ids, attentionMask: mask, tokenTypeIDs: types}
	inputs := make([]ort.Value, 0, len(e.inputs))
	defer func() {
		for _, in := range inputs {
			_ = in.Destroy()
		}
	}()
	for _, name := range e.inputs {
		t, err := ort.NewTensor(shape, toInt64(feeds[name]))
		if err != nil {
			return nil, fmt.Errorf("build %s tensor: %w", name, err)
		}
		inputs = append(inputs, t)
	}
	outputs := []ort.Value{nil}
	if err := e.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}
	defer func() {
		if outputs[0] != nil {
			_ = outputs[0].Destroy()
		}
	}()
	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}
	dims := hidden.GetShape()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	return meanPool(hidden.GetData(), mask, int(dims[1]), int(dims[2]))
}

// meanPool averages token vectors weighted by the attention mask.
func meanPool(data []float32, mask []int, seqLen, hidden int) ([]float32, error) {
	if seqLen <= 0 || hidden <= 0 || len(data) < seqLen*hidden {
		return nil, fmt.Errorf("hidden state too small: %d values for %dx%d", len(data), seqLen, hidden)
	}
	out := make([]float32, hidden)
	var count float32
	for t := 0; t < seqLen; t++ {
		if t >= len(mask) || mask[t] == 0 {
			continue
		}
		row := data[t*hidden : (t+1)*hidden]
		for i, v := range row {
			out[i] += v
		}
		count++
	}
	if count == 0 {
		return nil, errors.New("attention mask is empty")
	}
	for i := range out {
		out[i] /= count
	}
	return out, nil
}

// truncate keeps the leading tokens and the trailing special token.
func truncate(values []int, max int) []int {
	if max <= 0 || len(values) <= max {
		return values
	}
	out := make([]int, max)
	copy(out, values[:max-1])
	out[max-1] = values[len(values)-1]
	return out
}

func onesLike(values []int) []int {
	out := make([]int, len(values))
	for i := range out {
		out[i] = 1
	}
	return out
}

func toInt64(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}
