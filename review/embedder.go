package review

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"yashubustudio/reviewlens/emb"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	ModelID() string
	Close() error
}

type encoder interface {
	Encode(text string) ([]float32, error)
	Close()
}

// OrtEmbedder wraps emb.Encoder with an in-process memo and an optional disk cache.
type OrtEmbedder struct {
	mu   sync.Mutex
	enc  encoder
	cfg  EmbedderConfig
	memo *gocache.Cache
}

// NewOrtEmbedder initializes the encoder and prepares the cache directory.
func NewOrtEmbedder(cfg EmbedderConfig) (*OrtEmbedder, error) {
	enc := &emb.Encoder{}
	if err := enc.Init(emb.Config{
		OrtDLL:        cfg.OrtLib,
		ModelPath:     cfg.ModelPath,
		TokenizerPath: cfg.TokenizerPath,
		MaxSeqLen:     cfg.MaxSeqLen,
	}); err != nil {
		return nil, err
	}
	o, err := newCachedEmbedder(enc, cfg)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return o, nil
}

func newCachedEmbedder(enc encoder, cfg EmbedderConfig) (*OrtEmbedder, error) {
	if cfg.ModelName == "" && cfg.ModelPath != "" {
		cfg.ModelName = filepath.Base(cfg.ModelPath)
	}
	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return &OrtEmbedder{
		enc:  enc,
		cfg:  cfg,
		memo: gocache.New(gocache.NoExpiration, 0),
	}, nil
}

// Close releases ORT resources.
func (o *OrtEmbedder) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.enc != nil {
		o.enc.Close()
		o.enc = nil
	}
	o.memo.Flush()
	return nil
}

// ModelID identifies the model in cache keys and logs.
func (o *OrtEmbedder) ModelID() string {
	return o.cfg.ModelName
}

// EmbedText embeds text exactly as given.
func (o *OrtEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.Lock()
	enc := o.enc
	o.mu.Unlock()
	if enc == nil {
		return nil, errors.New("embedder is not initialized")
	}
	key := o.cacheKey(text)
	if v, ok := o.memo.Get(key); ok {
		return cloneVector(v.([]float32)), nil
	}
	if vec, err := o.loadFromDisk(key); err == nil {
		o.memo.SetDefault(key, cloneVector(vec))
		return vec, nil
	}
	vec, err := enc.Encode(text)
	if err != nil {
		return nil, err
	}
	o.memo.SetDefault(key, cloneVector(vec))
	_ = o.saveToDisk(key, vec)
	return cloneVector(vec), nil
}

func (o *OrtEmbedder) cacheKey(text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, o.cfg.ModelName)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

func (o *OrtEmbedder) loadFromDisk(key string) ([]float32, error) {
	if o.cfg.CacheDir == "" {
		return nil, os.ErrNotExist
	}
	path := filepath.Join(o.cfg.CacheDir, key+".bin")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("cache file too small: %s", path)
	}
	length := int(binary.LittleEndian.Uint32(data[:4]))
	data = data[4:]
	if len(data) != length*4 {
		return nil, fmt.Errorf("cache length mismatch: %s", path)
	}
	vec := make([]float32, length)
	for i := 0; i < length; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : (i+1)*4]))
	}
	return vec, nil
}

func (o *OrtEmbedder) saveToDisk(key string, vec []float32) error {
	if o.cfg.CacheDir == "" {
		return nil
	}
	path := filepath.Join(o.cfg.CacheDir, key+".bin")
	tmp := path + ".tmp"
	buf := make([]byte, 4+len(vec)*4)
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(vec)))
	off := 4
	for _, v := range vec {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
