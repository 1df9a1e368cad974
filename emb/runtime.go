package emb

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	runtimeMu   sync.Mutex
	runtimeRefs int
)

// AcquireRuntime initializes the process-wide onnxruntime environment on first use.
// Every successful call must be paired with ReleaseRuntime.
func AcquireRuntime(libPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	if runtimeRefs == 0 && !ort.IsInitialized() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}
	runtimeRefs++
	return nil
}

// ReleaseRuntime drops one reference and tears the environment down with the last one.
func ReleaseRuntime() {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	if runtimeRefs == 0 {
		return
	}
	runtimeRefs--
	if runtimeRefs == 0 && ort.IsInitialized() {
		_ = ort.DestroyEnvironment()
	}
}
