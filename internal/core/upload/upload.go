// Package upload holds the archive extraction model shared by the upload
// pipeline and its adapters.
package upload

// Extraction and upload error codes exposed to API clients.
const (
	CodeInvalidZip       = "INVALID_ZIP"
	CodeEmptyZip         = "EMPTY_ZIP"
	CodeNoXMLFiles       = "NO_XML_FILES"
	CodeExtractionFailed = "EXTRACTION_FAILED"

	CodeNoFile           = "NO_FILE"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidFileType  = "INVALID_FILE_TYPE"
	CodeProcessingFailed = "PROCESSING_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// FieldName is the multipart field carrying the archive.
const FieldName = "file"

// MaxFileSize is the default upload limit in bytes.
const MaxFileSize = 50 * 1024 * 1024

// AllowedMimeTypes lists the content types accepted for an archive upload.
var AllowedMimeTypes = []string{
	"application/zip",
	"application/x-zip-compressed",
	"application/x-zip",
	"multipart/x-zip",
	"application/octet-stream",
}

// ExtractedFile is one XML entry read from an archive.
type ExtractedFile struct {
	Filename string `json:"filename"`
	Content  string `json:"-"`
	Size     int64  `json:"size"`
}

// FileError describes a problem with the archive or one of its entries.
type FileError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
}

// ExtractionResult is what an Extractor found inside an archive. Success is
// false only when nothing can be processed at all.
type ExtractionResult struct {
	Success bool
	Files   []ExtractedFile
	Skipped []string
	Errors  []FileError
}

// Extractor reads the XML entries of an archive. Problems are reported in
// the result, never as a Go error.
type Extractor interface {
	Extract(data []byte) ExtractionResult
}
