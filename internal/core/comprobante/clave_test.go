package comprobante

import (
	"strings"
	"testing"
)

const testClave = "1501202401179000000000120010010000001231234567811"

func TestParseClaveAcceso(t *testing.T) {
	parsed, ok := ParseClaveAcceso(testClave)
	if !ok {
		t.Fatal("expected key to be parseable")
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"fechaEmision", parsed.FechaEmision, "15012024"},
		{"tipoComprobante", parsed.TipoComprobante, "01"},
		{"rucEmisor", parsed.RUCEmisor, "1790000000001"},
		{"ambiente", parsed.Ambiente, "2"},
		{"establecimiento", parsed.Establecimiento, "001"},
		{"puntoEmision", parsed.PuntoEmision, "001"},
		{"secuencial", parsed.Secuencial, "000000123"},
		{"codigoNumerico", parsed.CodigoNumerico, "12345678"},
		{"tipoEmision", parsed.TipoEmision, "1"},
		{"digitoVerificador", parsed.DigitoVerificador, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s %q, got %q", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestParseClaveAcceso_RoundTrip(t *testing.T) {
	keys := []string{
		testClave,
		strings.Repeat("0", ClaveAccesoLength),
		strings.Repeat("9", ClaveAccesoLength),
		"0104202406179000000000120010010000000303333333312",
		// Slicing is positional only, so non-digits survive untouched.
		strings.Repeat("ab", 24) + "c",
	}

	for _, key := range keys {
		parsed, ok := ParseClaveAcceso(key)
		if !ok {
			t.Fatalf("expected %q to be parseable", key)
		}
		if parsed.String() != key {
			t.Errorf("expected round trip %q, got %q", key, parsed.String())
		}
	}
}

func TestParseClaveAcceso_InvalidLength(t *testing.T) {
	inputs := []string{
		"",
		"123",
		testClave[:48],
		testClave + "0",
	}

	for _, input := range inputs {
		if _, ok := ParseClaveAcceso(input); ok {
			t.Errorf("expected length %d to be rejected", len(input))
		}
	}
}

func TestDocumentParts(t *testing.T) {
	estab, pto, sec := DocumentParts(testClave)
	if estab != "001" || pto != "001" || sec != "000000123" {
		t.Errorf("expected 001-001-000000123, got %s-%s-%s", estab, pto, sec)
	}

	estab, pto, sec = DocumentParts("short")
	if estab != DefaultEstablecimiento || pto != DefaultPuntoEmision || sec != DefaultSecuencial {
		t.Errorf("expected default parts, got %s-%s-%s", estab, pto, sec)
	}
}

func TestClaveAcceso_CheckDigit(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		valid bool
	}{
		{"valid factura key", testClave, true},
		{"valid retencion key", "1501202407179000000000120010010000000451234567814", true},
		{"valid key with zero digit", "1501202401099123456780010010020000005554444444410", true},
		{"wrong digit", testClave[:48] + "7", false},
		{"non numeric", "15012024011790000000001200100100000012312345678A1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseClaveAcceso(tt.key)
			if !ok {
				t.Fatalf("expected %q to be parseable", tt.key)
			}
			if got := parsed.HasValidCheckDigit(); got != tt.valid {
				t.Errorf("expected valid=%v, got %v (computed %d)", tt.valid, got, parsed.ComputeCheckDigit())
			}
		})
	}
}
