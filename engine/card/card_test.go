package card

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/wudi/ocrbridge/engine"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(engine.ScanTypeCreditCard, "test-license")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a.(*Analyzer)
}

func analyze(t *testing.T, records []engine.TextRecord) Info {
	t.Helper()
	a := newAnalyzer(t)
	out, err := a.AnalyzeTextData(records)
	if err != nil {
		t.Fatalf("AnalyzeTextData() error = %v", err)
	}
	var info Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, out)
	}
	return info
}

func TestNewRejectsEmptyLicense(t *testing.T) {
	if _, err := New(engine.ScanTypeCreditCard, ""); err == nil {
		t.Fatalf("expected error for empty license key")
	}
}

func TestAnalyzeCardFront(t *testing.T) {
	records := []engine.TextRecord{
		{Text: "MY BANK", BBox: engine.Rect{X: 10, Y: 5, Width: 80, Height: 12}},
		{Text: "4111 1111 1111 1111", BBox: engine.Rect{X: 10, Y: 40, Width: 180, Height: 16}},
		{Text: "12/27", BBox: engine.Rect{X: 10, Y: 62, Width: 40, Height: 10}},
		{Text: "JANE A. DOE", BBox: engine.Rect{X: 10, Y: 80, Width: 120, Height: 12}},
	}
	info := analyze(t, records)
	if info.CardNumber != "4111111111111111" {
		t.Fatalf("unexpected card number: %q", info.CardNumber)
	}
	if info.NetworkInfo != "Visa" {
		t.Fatalf("unexpected network: %q", info.NetworkInfo)
	}
	if info.ExpiryDate != "12/27" {
		t.Fatalf("unexpected expiry: %q", info.ExpiryDate)
	}
	if info.HolderName != "JANE A. DOE" {
		t.Fatalf("unexpected holder: %q", info.HolderName)
	}
	if info.ScanType != int64(engine.ScanTypeCreditCard) {
		t.Fatalf("unexpected scan type: %d", info.ScanType)
	}
}

func TestAnalyzeIgnoresLuhnInvalidRuns(t *testing.T) {
	records := []engine.TextRecord{
		{Text: "4111 1111 1111 1112", BBox: engine.Rect{Y: 10}},
	}
	info := analyze(t, records)
	if info.CardNumber != "" {
		t.Fatalf("Luhn-invalid run classified as PAN: %q", info.CardNumber)
	}
}

func TestAnalyzeOrderIndependentOfBatchOrder(t *testing.T) {
	// Records arrive bottom-up; classification sorts by bbox Y first.
	records := []engine.TextRecord{
		{Text: "VALID UNTIL 11/29", BBox: engine.Rect{Y: 90}},
		{Text: "5555 5555 5555 4444", BBox: engine.Rect{Y: 40}},
	}
	info := analyze(t, records)
	if info.NetworkInfo != "Mastercard" {
		t.Fatalf("unexpected network: %q", info.NetworkInfo)
	}
	if info.ExpiryDate != "11/29" {
		t.Fatalf("unexpected expiry: %q", info.ExpiryDate)
	}
}

func TestNetworkClassification(t *testing.T) {
	cases := []struct {
		pan, want string
	}{
		{"4111111111111111", "Visa"},
		{"5555555555554444", "Mastercard"},
		{"2223000048400011", "Mastercard"},
		{"378282246310005", "American Express"},
		{"6011111111111117", "Discover"},
	}
	for _, c := range cases {
		if got := network(c.pan); got != c.want {
			t.Fatalf("network(%s) = %q, want %q", c.pan, got, c.want)
		}
	}
}

func TestHolderNameRejectsNonNameLines(t *testing.T) {
	for _, text := range []string{"hello world", "CARD 1234", "SINGLEWORD", "12/27"} {
		if got := holderName(text); got != "" {
			t.Fatalf("holderName(%q) = %q, want rejection", text, got)
		}
	}
}

func TestDecryptionRoundTrip(t *testing.T) {
	a := newAnalyzer(t)
	const plaintext = "track2:4111111111111111=2712"
	payload, err := a.EncryptData(plaintext)
	if err != nil {
		t.Fatalf("EncryptData() error = %v", err)
	}
	got, err := a.DecryptionData(payload)
	if err != nil {
		t.Fatalf("DecryptionData() error = %v", err)
	}
	if got != plaintext {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestDecryptionRejectsTamperedPayload(t *testing.T) {
	a := newAnalyzer(t)
	payload, err := a.EncryptData("secret")
	if err != nil {
		t.Fatalf("EncryptData() error = %v", err)
	}
	tampered := strings.Map(func(r rune) rune {
		if r == 'A' {
			return 'B'
		}
		return 'A'
	}, payload[:1]) + payload[1:]
	if _, err := a.DecryptionData(tampered); err == nil {
		t.Fatalf("expected error for tampered payload")
	}
}

func TestDecryptionRejectsWrongKey(t *testing.T) {
	a := newAnalyzer(t)
	payload, err := a.EncryptData("secret")
	if err != nil {
		t.Fatalf("EncryptData() error = %v", err)
	}
	other, err := New(engine.ScanTypeCreditCard, "another-license")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := other.DecryptionData(payload); err == nil {
		t.Fatalf("expected error for wrong key")
	}
}

func TestClosedAnalyzerRefusesWork(t *testing.T) {
	a := newAnalyzer(t)
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := a.AnalyzeTextData(nil); err == nil {
		t.Fatalf("expected error after Close")
	}
	if _, err := a.DecryptionData("x"); err == nil {
		t.Fatalf("expected error after Close")
	}
}
