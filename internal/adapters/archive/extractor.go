// Package archive reads uploaded ZIP archives and writes report bundles.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"

	"3tcapital/sriats/internal/core/upload"
)

// DefaultMaxEntrySize caps the uncompressed size of a single entry.
const DefaultMaxEntrySize = 20 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var prologEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*\bencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// ZipExtractor extracts XML entries from a ZIP archive held in memory.
type ZipExtractor struct {
	maxEntrySize int64
}

// NewZipExtractor creates an extractor. maxEntrySize defaults to
// DefaultMaxEntrySize when not positive.
func NewZipExtractor(maxEntrySize int64) *ZipExtractor {
	if maxEntrySize <= 0 {
		maxEntrySize = DefaultMaxEntrySize
	}
	return &ZipExtractor{maxEntrySize: maxEntrySize}
}

// Extract returns the XML entries of data in archive order. Directories and
// files without an .xml extension are listed as skipped.
func (e *ZipExtractor) Extract(data []byte) upload.ExtractionResult {
	if len(data) == 0 {
		return failed(nil, upload.CodeEmptyZip, "El archivo ZIP está vacío")
	}
	if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
		return failed(nil, upload.CodeInvalidZip, "El archivo no es un ZIP válido")
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return failed(nil, upload.CodeInvalidZip, fmt.Sprintf("Error al descomprimir ZIP: %v", err))
	}

	result := upload.ExtractionResult{Skipped: []string{}}
	for _, f := range reader.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			result.Skipped = append(result.Skipped, f.Name)
			continue
		}
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			result.Skipped = append(result.Skipped, f.Name)
			continue
		}

		content, err := e.readEntry(f)
		if err != nil {
			result.Errors = append(result.Errors, upload.FileError{
				Code:     upload.CodeExtractionFailed,
				Message:  fmt.Sprintf("Error al decodificar archivo %s: %v", f.Name, err),
				Filename: f.Name,
			})
			continue
		}

		result.Files = append(result.Files, upload.ExtractedFile{
			Filename: f.Name,
			Content:  content,
			Size:     int64(f.UncompressedSize64),
		})
	}

	if len(result.Files) == 0 && len(result.Errors) == 0 {
		return failed(result.Skipped, upload.CodeNoXMLFiles, "El ZIP no contiene archivos XML")
	}

	result.Success = true
	return result
}

func (e *ZipExtractor) readEntry(f *zip.File) (string, error) {
	if f.UncompressedSize64 > uint64(e.maxEntrySize) {
		return "", fmt.Errorf("el archivo excede el tamaño máximo de %d bytes", e.maxEntrySize)
	}

	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, e.maxEntrySize+1))
	if err != nil {
		return "", err
	}
	if int64(len(raw)) > e.maxEntrySize {
		return "", fmt.Errorf("el archivo excede el tamaño máximo de %d bytes", e.maxEntrySize)
	}

	return decodeEntry(raw)
}

// decodeEntry strips a UTF-8 BOM and returns valid UTF-8. Content that is
// not UTF-8 is transcoded when the XML prolog declares a known charset.
func decodeEntry(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	label, ok := declaredEncoding(raw)
	if !ok {
		return "", errors.New("el contenido no es UTF-8 válido")
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return "", fmt.Errorf("codificación %q no soportada", label)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("transcodificar desde %s: %w", label, err)
	}
	return string(decoded), nil
}

func declaredEncoding(raw []byte) (string, bool) {
	head := raw
	if len(head) > 256 {
		head = head[:256]
	}
	m := prologEncoding.FindSubmatch(head)
	if m == nil {
		return "", false
	}
	label := strings.ToLower(string(m[1]))
	if label == "utf-8" || label == "utf8" {
		return "", false
	}
	return label, true
}

func failed(skipped []string, code, message string) upload.ExtractionResult {
	if skipped == nil {
		skipped = []string{}
	}
	return upload.ExtractionResult{
		Files:   []upload.ExtractedFile{},
		Skipped: skipped,
		Errors:  []upload.FileError{{Code: code, Message: message}},
	}
}
