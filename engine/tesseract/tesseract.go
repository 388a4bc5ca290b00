// Package tesseract produces positioned text records from encoded images
// using the gosseract client, so real OCR output can feed the bridge.
package tesseract

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/wudi/ocrbridge/engine"
)

// Recognizer converts encoded images into engine.TextRecord batches. It is
// an upstream producer for the bridge, not an engine.Analyzer.
type Recognizer struct {
	clientFactory func() *gosseract.Client
	languages     []string
	dpi           int
	variables     map[string]string
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLanguages sets language hints (e.g., "eng", "deu").
func WithLanguages(langs ...string) Option {
	return func(r *Recognizer) { r.languages = append([]string(nil), langs...) }
}

// WithDPI sets the effective dots-per-inch for layout heuristics; zero means
// unknown.
func WithDPI(dpi int) Option {
	return func(r *Recognizer) { r.dpi = dpi }
}

// WithVariable passes an engine-specific variable (e.g.,
// "tessedit_char_whitelist") to the client.
func WithVariable(key, value string) Option {
	return func(r *Recognizer) {
		if r.variables == nil {
			r.variables = make(map[string]string)
		}
		r.variables[key] = value
	}
}

// New constructs a Tesseract-backed recognizer.
func New(opts ...Option) *Recognizer {
	r := &Recognizer{clientFactory: gosseract.NewClient}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Records runs recognition on one encoded image and returns one record per
// recognized text line, with pixel-space bounding boxes.
func (r *Recognizer) Records(image []byte) ([]engine.TextRecord, error) {
	c := r.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if len(r.languages) > 0 {
		if err := c.SetLanguage(r.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if r.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(r.dpi)); err != nil {
			return nil, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range r.variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return nil, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize lines: %w", err)
	}
	records := make([]engine.TextRecord, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		records = append(records, engine.TextRecord{
			Text: text,
			BBox: engine.Rect{
				X:      float64(b.Box.Min.X),
				Y:      float64(b.Box.Min.Y),
				Width:  float64(b.Box.Dx()),
				Height: float64(b.Box.Dy()),
			},
		})
	}
	return records, nil
}
