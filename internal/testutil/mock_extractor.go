package testutil

import "3tcapital/sriats/internal/core/upload"

// MockExtractor is a mock implementation of upload.Extractor for testing.
type MockExtractor struct {
	ExtractFunc func(data []byte) upload.ExtractionResult
}

// Extract calls the mock function if set, otherwise reports an empty archive.
func (m *MockExtractor) Extract(data []byte) upload.ExtractionResult {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(data)
	}
	return upload.ExtractionResult{
		Skipped: []string{},
		Errors:  []upload.FileError{{Code: upload.CodeEmptyZip, Message: "El archivo ZIP está vacío"}},
	}
}
