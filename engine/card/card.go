// Package card provides the reference payment-card analyzer. It classifies a
// batch of positioned OCR fragments into card number, expiry date, holder
// name, and network, and returns the result as a JSON object string.
package card

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/wudi/ocrbridge/engine"
)

func init() {
	engine.SetDefaultFactory(New)
}

// Info is the structured analysis result serialized by AnalyzeTextData.
// Fields that could not be recovered from the batch are empty strings.
type Info struct {
	CardNumber  string `json:"cardNumber"`
	ExpiryDate  string `json:"expiryDate"`
	HolderName  string `json:"holderName"`
	NetworkInfo string `json:"networkInfo"`
	ScanType    int64  `json:"scanType"`
}

// Analyzer implements engine.Analyzer with heuristic card-field extraction
// and ChaCha20-Poly1305 payload decryption keyed from the license key.
type Analyzer struct {
	scanType engine.ScanType
	key      [32]byte
	closed   bool
}

// New constructs a card analyzer. The license key must be non-empty; it also
// seeds the decryption key for this instance.
func New(scanType engine.ScanType, licenseKey string) (engine.Analyzer, error) {
	if licenseKey == "" {
		return nil, errors.New("card: empty license key")
	}
	return &Analyzer{
		scanType: scanType,
		key:      sha256.Sum256([]byte(licenseKey)),
	}, nil
}

// AnalyzeTextData classifies the batch into card fields. The input slice is
// not retained.
func (a *Analyzer) AnalyzeTextData(records []engine.TextRecord) (string, error) {
	if a.closed {
		return "", errors.New("card: analyzer is closed")
	}
	info := classify(records)
	info.ScanType = int64(a.scanType)
	data, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("encode card info: %w", err)
	}
	return string(data), nil
}

// Close marks the instance unusable. It is safe to call once per instance.
func (a *Analyzer) Close() error {
	a.closed = true
	return nil
}

var expiryPattern = regexp.MustCompile(`(?:^|[^0-9])(0[1-9]|1[0-2])\s*/\s*([0-9]{4}|[0-9]{2})(?:[^0-9]|$)`)

// classify orders fragments top-to-bottom and applies per-field heuristics.
// Fragments are judged independently; the classifier never merges text
// across records.
func classify(records []engine.TextRecord) Info {
	ordered := make([]engine.TextRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].BBox.Y < ordered[j].BBox.Y
	})

	var info Info
	for _, rec := range ordered {
		text := strings.TrimSpace(rec.Text)
		if text == "" {
			continue
		}
		if digits := panDigits(text); digits != "" && len(digits) > len(info.CardNumber) {
			info.CardNumber = digits
			info.NetworkInfo = network(digits)
			continue
		}
		if info.ExpiryDate == "" {
			if m := expiryPattern.FindStringSubmatch(text); m != nil {
				info.ExpiryDate = m[1] + "/" + m[2]
				continue
			}
		}
		if name := holderName(text); name != "" && len(name) > len(info.HolderName) {
			info.HolderName = name
		}
	}
	return info
}

// panDigits returns the fragment's digit run if it looks like a primary
// account number: 13 to 19 digits after stripping separators, Luhn-valid.
func panDigits(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			// common PAN separators
		default:
			return ""
		}
	}
	digits := b.String()
	if len(digits) < 13 || len(digits) > 19 {
		return ""
	}
	if !luhnValid(digits) {
		return ""
	}
	return digits
}

func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func network(digits string) string {
	switch {
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	case inPrefixRange(digits, 2, 51, 55), inPrefixRange(digits, 4, 2221, 2720):
		return "Mastercard"
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "American Express"
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"),
		inPrefixRange(digits, 3, 644, 649):
		return "Discover"
	default:
		return "Unknown"
	}
}

func inPrefixRange(digits string, width, lo, hi int) bool {
	if len(digits) < width {
		return false
	}
	n := 0
	for _, r := range digits[:width] {
		n = n*10 + int(r-'0')
	}
	return n >= lo && n <= hi
}

// holderName accepts fragments of at least two words made of letters and
// name punctuation, with uppercase letters dominating, as embossed holder
// lines are.
func holderName(text string) string {
	upper, lower, words := 0, 0, 1
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		case r == ' ':
			words++
		case r == '.' || r == '\'' || r == '-':
		default:
			return ""
		}
	}
	if words < 2 || upper < 2 || lower > upper {
		return ""
	}
	return text
}
