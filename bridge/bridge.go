package bridge

import (
	"errors"
	"fmt"

	"github.com/wudi/ocrbridge/engine"
	"github.com/wudi/ocrbridge/observability"
)

var (
	// ErrInvalidHandle reports a zero, stale, or never-issued handle.
	ErrInvalidHandle = errors.New("bridge: invalid handle")
	// ErrNilRecords reports a nil record collection passed to Analyze.
	ErrNilRecords = errors.New("bridge: nil record source")
)

// Bridge owns the handle table and dispatches boundary operations to engine
// instances. The zero value is not usable; construct with New.
type Bridge struct {
	factory engine.Factory
	table   handleTable
	log     observability.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the diagnostic logger for call-level precondition failures
// and lifecycle events.
func WithLogger(log observability.Logger) Option {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

// New constructs a Bridge. A nil factory selects the engine package's
// default factory.
func New(factory engine.Factory, opts ...Option) *Bridge {
	if factory == nil {
		factory = engine.DefaultFactory()
	}
	b := &Bridge{
		factory: factory,
		log:     observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateEngine allocates one engine instance configured for scanType and
// validated against licenseKey. The caller owns the returned handle and must
// pass it to DestroyEngine exactly once. On failure the handle is zero.
func (b *Bridge) CreateEngine(scanType engine.ScanType, licenseKey string) (Handle, error) {
	a, err := b.factory(scanType, licenseKey)
	if err != nil {
		b.log.Error("create engine failed",
			observability.Int64("scan_type", int64(scanType)),
			observability.Error("err", err))
		return 0, fmt.Errorf("create engine: %w", err)
	}
	h := b.table.insert(a)
	b.log.Debug("engine created",
		observability.Uint64("handle", uint64(h)),
		observability.Int64("scan_type", int64(scanType)))
	return h, nil
}

// DestroyEngine releases the instance behind h and invalidates the handle.
// A zero or stale handle is a logged no-op, never a fault. The handle value
// must not be used after this call.
func (b *Bridge) DestroyEngine(h Handle) {
	if h == 0 {
		b.log.Warn("destroy engine: zero handle")
		return
	}
	a, ok := b.table.remove(h)
	if !ok {
		b.log.Warn("destroy engine: stale handle", observability.Uint64("handle", uint64(h)))
		return
	}
	if err := a.Close(); err != nil {
		b.log.Error("close engine", observability.Uint64("handle", uint64(h)), observability.Error("err", err))
	}
	b.log.Debug("engine destroyed", observability.Uint64("handle", uint64(h)))
}

// Analyze extracts src into an owned batch and runs the engine behind h over
// it. Well-formed elements survive in order; malformed ones are absorbed
// into the skipped count. The extracted batch lives only for this call.
//
// An invalid handle or nil source fails the call before any extraction or
// engine work happens.
func (b *Bridge) Analyze(h Handle, src RecordSource) (result string, skipped int, err error) {
	if h == 0 {
		b.log.Warn("analyze: zero handle")
		return "", 0, ErrInvalidHandle
	}
	if src == nil {
		b.log.Warn("analyze: nil record source", observability.Uint64("handle", uint64(h)))
		return "", 0, ErrNilRecords
	}
	a, ok := b.table.lookup(h)
	if !ok {
		b.log.Warn("analyze: stale handle", observability.Uint64("handle", uint64(h)))
		return "", 0, ErrInvalidHandle
	}

	records, skipped := Extract(src)
	result, err = a.AnalyzeTextData(records)
	// records are this call's copies; they go out of scope here whatever the
	// engine answered.
	if err != nil {
		b.log.Error("analyze failed",
			observability.Uint64("handle", uint64(h)),
			observability.Int("batch", len(records)),
			observability.Error("err", err))
		return "", skipped, fmt.Errorf("analyze: %w", err)
	}
	b.log.Debug("analyze done",
		observability.Uint64("handle", uint64(h)),
		observability.Int("batch", len(records)),
		observability.Int("skipped", skipped))
	return result, skipped, nil
}

// Decrypt delegates input to the decryption entry point of the engine behind
// h. Single value in, single value out; no batch semantics.
func (b *Bridge) Decrypt(h Handle, input string) (string, error) {
	if h == 0 {
		b.log.Warn("decrypt: zero handle")
		return "", ErrInvalidHandle
	}
	a, ok := b.table.lookup(h)
	if !ok {
		b.log.Warn("decrypt: stale handle", observability.Uint64("handle", uint64(h)))
		return "", ErrInvalidHandle
	}
	out, err := a.DecryptionData(input)
	if err != nil {
		b.log.Error("decrypt failed", observability.Uint64("handle", uint64(h)), observability.Error("err", err))
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return out, nil
}

// LiveEngines reports how many engine instances are currently held by the
// table. Intended for leak checks and operational visibility.
func (b *Bridge) LiveEngines() int {
	return b.table.liveCount()
}
