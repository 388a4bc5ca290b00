package engine

// Rect describes an axis-aligned bounding box in the coordinate space of the
// scanned image, origin in the upper-left corner. The bridge does not
// validate geometry; width and height may be zero or negative if the caller
// supplies them that way.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// TextRecord is one recognized text fragment with its position. Batches
// passed to an Analyzer are per-call copies owned by the bridge; an Analyzer
// must not retain the slice or its elements past the call.
type TextRecord struct {
	Text string
	BBox Rect
}

// ScanType selects the document class an engine instance is configured for.
type ScanType int64

const (
	ScanTypeCreditCard ScanType = iota + 1
	ScanTypeIDCard
	ScanTypeDriverLicense
)

// Analyzer is one engine instance. Instances are stateful and not required
// to be safe for concurrent use; callers serialize operations per instance.
type Analyzer interface {
	// AnalyzeTextData turns a batch of positioned text fragments into a
	// structured result string. The format of the result is engine-defined.
	AnalyzeTextData(records []TextRecord) (string, error)

	// DecryptionData decrypts a payload produced for this engine instance.
	DecryptionData(input string) (string, error)

	// Close releases the instance. The instance must not be used afterwards.
	Close() error
}

// Factory constructs an engine instance for the given scan type, validating
// the license key. A failed validation returns a nil Analyzer and an error.
type Factory func(scanType ScanType, licenseKey string) (Analyzer, error)
