package archive

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/core/upload"
	"3tcapital/sriats/internal/testutil"
)

func TestExtract_ArchiveErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		code    string
		message string
	}{
		{"empty input", nil, upload.CodeEmptyZip, "El archivo ZIP está vacío"},
		{"too short", []byte("PK"), upload.CodeInvalidZip, "El archivo no es un ZIP válido"},
		{"wrong signature", []byte("<factura/>"), upload.CodeInvalidZip, "El archivo no es un ZIP válido"},
		{"truncated archive", []byte("PK\x03\x04garbage"), upload.CodeInvalidZip, "Error al descomprimir ZIP"},
	}

	extractor := NewZipExtractor(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractor.Extract(tt.data)

			if result.Success {
				t.Fatal("expected failure")
			}
			if len(result.Errors) != 1 {
				t.Fatalf("expected 1 error, got %d", len(result.Errors))
			}
			if result.Errors[0].Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, result.Errors[0].Code)
			}
			if !strings.HasPrefix(result.Errors[0].Message, tt.message) {
				t.Errorf("expected message starting with %q, got %q", tt.message, result.Errors[0].Message)
			}
			if len(result.Files) != 0 {
				t.Errorf("expected no files, got %d", len(result.Files))
			}
		})
	}
}

func TestExtract_SkipsDirectoriesAndOtherFiles(t *testing.T) {
	data := testutil.ZipArchive(t,
		testutil.ZipEntry{Name: "enero/"},
		testutil.XMLEntry("enero/factura.xml", testutil.FacturaXML(testutil.FacturaOptions{})),
		testutil.ZipEntry{Name: "enero/leeme.txt", Content: []byte("hola")},
		testutil.XMLEntry("RETENCION.XML", testutil.RetencionXML()),
	)

	result := NewZipExtractor(0).Extract(data)

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(result.Files))
	}
	if result.Files[0].Filename != "enero/factura.xml" || result.Files[1].Filename != "RETENCION.XML" {
		t.Errorf("expected archive order, got %s, %s", result.Files[0].Filename, result.Files[1].Filename)
	}
	if result.Files[0].Size != int64(len(result.Files[0].Content)) {
		t.Errorf("expected size %d, got %d", len(result.Files[0].Content), result.Files[0].Size)
	}
	if len(result.Skipped) != 2 || result.Skipped[0] != "enero/" || result.Skipped[1] != "enero/leeme.txt" {
		t.Errorf("expected skipped [enero/ enero/leeme.txt], got %v", result.Skipped)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
}

func TestExtract_NoXMLFiles(t *testing.T) {
	data := testutil.ZipArchive(t,
		testutil.ZipEntry{Name: "notas.txt", Content: []byte("x")},
		testutil.ZipEntry{Name: "docs/"},
	)

	result := NewZipExtractor(0).Extract(data)

	if result.Success {
		t.Fatal("expected failure")
	}
	if len(result.Errors) != 1 || result.Errors[0].Code != upload.CodeNoXMLFiles {
		t.Fatalf("expected NO_XML_FILES, got %v", result.Errors)
	}
	if result.Errors[0].Message != "El ZIP no contiene archivos XML" {
		t.Errorf("unexpected message %q", result.Errors[0].Message)
	}
	if len(result.Skipped) != 2 {
		t.Errorf("expected skipped entries to be kept, got %v", result.Skipped)
	}
}

func TestExtract_InvalidUTF8(t *testing.T) {
	data := testutil.ZipArchive(t,
		testutil.ZipEntry{Name: "roto.xml", Content: []byte("<factura>\xff\xfe</factura>")},
		testutil.XMLEntry("bueno.xml", testutil.FacturaXML(testutil.FacturaOptions{})),
	)

	result := NewZipExtractor(0).Extract(data)

	if !result.Success {
		t.Fatal("expected the readable file to keep the extraction successful")
	}
	if len(result.Files) != 1 || result.Files[0].Filename != "bueno.xml" {
		t.Fatalf("expected only bueno.xml, got %v", result.Files)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	e := result.Errors[0]
	if e.Code != upload.CodeExtractionFailed || e.Filename != "roto.xml" {
		t.Errorf("expected EXTRACTION_FAILED for roto.xml, got %s for %s", e.Code, e.Filename)
	}
	if !strings.HasPrefix(e.Message, "Error al decodificar archivo roto.xml: ") {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestExtract_OnlyUndecodableFiles(t *testing.T) {
	data := testutil.ZipArchive(t,
		testutil.ZipEntry{Name: "roto.xml", Content: []byte{0xff, 0xfe, 0x00}},
	)

	result := NewZipExtractor(0).Extract(data)

	if !result.Success {
		t.Error("expected success when the archive had XML entries, even if unreadable")
	}
	if len(result.Files) != 0 || len(result.Errors) != 1 {
		t.Errorf("expected 0 files and 1 error, got %d and %d", len(result.Files), len(result.Errors))
	}
}

func TestExtract_StripsBOM(t *testing.T) {
	xml := testutil.FacturaXML(testutil.FacturaOptions{})
	data := testutil.ZipArchive(t,
		testutil.ZipEntry{Name: "bom.xml", Content: append([]byte{0xEF, 0xBB, 0xBF}, xml...)},
	)

	result := NewZipExtractor(0).Extract(data)

	if len(result.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(result.Files))
	}
	if result.Files[0].Content != xml {
		t.Error("expected content without BOM")
	}
}

func TestExtract_TranscodesDeclaredCharset(t *testing.T) {
	// "COMPAÑÍA" in ISO-8859-1.
	latin1 := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><razonSocial>COMPA\xd1\xcdA</razonSocial>")
	data := testutil.ZipArchive(t, testutil.ZipEntry{Name: "latin.xml", Content: latin1})

	result := NewZipExtractor(0).Extract(data)

	if len(result.Files) != 1 {
		t.Fatalf("expected 1 file, got errors %v", result.Errors)
	}
	if !strings.Contains(result.Files[0].Content, "COMPAÑÍA") {
		t.Errorf("expected transcoded content, got %q", result.Files[0].Content)
	}
}

func TestExtract_UnknownDeclaredCharset(t *testing.T) {
	raw := []byte("<?xml version=\"1.0\" encoding=\"klingon\"?><a>\xff</a>")
	data := testutil.ZipArchive(t, testutil.ZipEntry{Name: "raro.xml", Content: raw})

	result := NewZipExtractor(0).Extract(data)

	if len(result.Errors) != 1 || result.Errors[0].Code != upload.CodeExtractionFailed {
		t.Fatalf("expected EXTRACTION_FAILED, got %v", result.Errors)
	}
}

func TestExtract_EntryTooLarge(t *testing.T) {
	data := testutil.ZipArchive(t,
		testutil.ZipEntry{Name: "grande.xml", Content: bytes.Repeat([]byte("a"), 2048)},
		testutil.ZipEntry{Name: "chico.xml", Content: []byte("<a/>")},
	)

	result := NewZipExtractor(1024).Extract(data)

	if len(result.Files) != 1 || result.Files[0].Filename != "chico.xml" {
		t.Fatalf("expected only chico.xml, got %v", result.Files)
	}
	if len(result.Errors) != 1 || result.Errors[0].Filename != "grande.xml" {
		t.Errorf("expected an error for grande.xml, got %v", result.Errors)
	}
}

func TestBundle(t *testing.T) {
	files := []ats.FileResult{
		{Filename: "ATS_2024-01_compras.csv", Content: []byte("compras")},
		{Filename: "ATS_2024-01_ventas.csv", Content: []byte("ventas")},
	}

	bundle, err := NewZipBundler().Bundle(files, "ATS_2024-01.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Filename != "ATS_2024-01.zip" || bundle.MimeType != "application/zip" {
		t.Errorf("unexpected metadata %s %s", bundle.Filename, bundle.MimeType)
	}

	reader, err := zip.NewReader(bytes.NewReader(bundle.Content), int64(len(bundle.Content)))
	if err != nil {
		t.Fatalf("expected a readable zip: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(reader.File))
	}
	for i, f := range reader.File {
		if f.Name != files[i].Filename {
			t.Errorf("entry %d: expected %s, got %s", i, files[i].Filename, f.Name)
		}
	}
}

func TestBundle_RoundTripThroughExtractor(t *testing.T) {
	bundle, err := NewZipBundler().Bundle([]ats.FileResult{
		{Filename: "a.xml", Content: []byte("<a/>")},
	}, "x.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := NewZipExtractor(0).Extract(bundle.Content)
	if !result.Success || len(result.Files) != 1 || result.Files[0].Content != "<a/>" {
		t.Errorf("expected the bundle to extract back, got %+v", result)
	}
}

func TestBundle_Empty(t *testing.T) {
	if _, err := NewZipBundler().Bundle(nil, "x.zip"); err == nil {
		t.Error("expected error for an empty bundle")
	}
}
