package scripting

import (
	"context"

	"github.com/wudi/ocrbridge/bridge"
	"github.com/wudi/ocrbridge/engine"
)

// Engine represents a scripting engine (e.g., JavaScript) hosting callers of
// the OCR bridge.
type Engine interface {
	// Execute executes a script and returns its exported result.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterBridge exposes the bridge's boundary operations to scripts.
	RegisterBridge(ops BridgeOps) error
}

// BridgeOps is the surface scripts drive. *bridge.Bridge satisfies it; tests
// may substitute their own.
//
// Handles cross the scripting boundary as numbers. The bridge guarantees
// issued handles fit the exact-integer range of a float64, so the number
// round trip is lossless. Scripts own their handles: each created engine
// must be destroyed exactly once, and a destroyed handle must not be reused.
type BridgeOps interface {
	CreateEngine(scanType engine.ScanType, licenseKey string) (bridge.Handle, error)
	DestroyEngine(h bridge.Handle)
	Analyze(h bridge.Handle, src bridge.RecordSource) (string, int, error)
	Decrypt(h bridge.Handle, input string) (string, error)
}
