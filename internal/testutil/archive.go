package testutil

import (
	"archive/zip"
	"bytes"
	"testing"
)

// ZipEntry is one file written by ZipArchive. Names ending in "/" become
// directory entries.
type ZipEntry struct {
	Name    string
	Content []byte
}

// XMLEntry is a ZipEntry holding an XML string.
func XMLEntry(name, xml string) ZipEntry {
	return ZipEntry{Name: name, Content: []byte(xml)}
}

// ZipArchive builds an in-memory ZIP with entries in order.
func ZipArchive(t testing.TB, entries ...ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", e.Name, err)
		}
		if len(e.Content) > 0 {
			if _, err := fw.Write(e.Content); err != nil {
				t.Fatalf("failed to write zip entry %s: %v", e.Name, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}
