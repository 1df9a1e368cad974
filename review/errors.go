package review

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad marks a dataset or model artifact that could not be loaded.
	ErrLoad = errors.New("load failed")
	// ErrEmptyInput is returned for blank text.
	ErrEmptyInput = errors.New("empty input")
	// ErrNotEnglish is returned when the language gate rejects the text.
	ErrNotEnglish = errors.New("text is not in English")
	// ErrUndetectable is returned when no language can be identified.
	ErrUndetectable = errors.New("language could not be detected")
)

// LoadError reports a missing or corrupt dataset or model artifact.
type LoadError struct {
	What string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("load %s %s: %v", e.What, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrLoad) match any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// PredictionError wraps a failure raised while moving into Stage.
type PredictionError struct {
	Stage Stage
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }
