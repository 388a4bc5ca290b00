package engine

import "errors"

var defaultFactory Factory = noopFactory

// DefaultFactory returns the library's default engine factory. Importing an
// engine provider package (for example engine/card) replaces the no-op
// default.
func DefaultFactory() Factory {
	return defaultFactory
}

// SetDefaultFactory sets the library's default engine factory.
func SetDefaultFactory(f Factory) {
	defaultFactory = f
}

func noopFactory(ScanType, string) (Analyzer, error) {
	return noopAnalyzer{}, nil
}

type noopAnalyzer struct{}

func (noopAnalyzer) AnalyzeTextData([]TextRecord) (string, error) {
	return "", nil
}

func (noopAnalyzer) DecryptionData(string) (string, error) {
	return "", errors.New("noop engine cannot decrypt")
}

func (noopAnalyzer) Close() error { return nil }
