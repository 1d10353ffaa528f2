package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"

	"3tcapital/sriats/internal/core/ats"
)

const zipMimeType = "application/zip"

// ZipBundler packs rendered files into one ZIP archive.
type ZipBundler struct{}

// NewZipBundler creates a bundler.
func NewZipBundler() *ZipBundler {
	return &ZipBundler{}
}

// Bundle writes files into a ZIP named name, one entry per file in order.
func (b *ZipBundler) Bundle(files []ats.FileResult, name string) (ats.FileResult, error) {
	if len(files) == 0 {
		return ats.FileResult{}, errors.New("zip: no hay archivos para empaquetar")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range files {
		fw, err := zw.Create(f.Filename)
		if err != nil {
			return ats.FileResult{}, fmt.Errorf("zip: crear entrada %s: %w", f.Filename, err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return ats.FileResult{}, fmt.Errorf("zip: escribir %s: %w", f.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return ats.FileResult{}, fmt.Errorf("zip: cerrar archivo: %w", err)
	}

	return ats.FileResult{
		Content:  buf.Bytes(),
		Filename: name,
		MimeType: zipMimeType,
	}, nil
}
