package ats

import (
	"testing"

	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/core/comprobante"
	"3tcapital/sriats/internal/testutil"
)

const otroRUC = "1791234567001"

func TestDetectTransactionType(t *testing.T) {
	doc := testutil.NewDocument(testutil.DocumentOptions{})

	tests := []struct {
		name     string
		ruc      string
		expected ats.TransactionType
	}{
		{"taxpayer issued it", testutil.RUCEmisor, ats.Venta},
		{"taxpayer received it", testutil.RUCComprador, ats.Compra},
		{"neither side", otroRUC, ats.Compra},
		{"empty ruc", "", ats.Compra},
		{"garbage ruc", "no-es-ruc", ats.Compra},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectTransactionType(doc, tt.ruc); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDetectTransactionType_SelfInvoice(t *testing.T) {
	doc := testutil.NewDocument(testutil.DocumentOptions{ReceptorID: testutil.RUCEmisor})

	if got := DetectTransactionType(doc, testutil.RUCEmisor); got != ats.Venta {
		t.Errorf("expected the emisor match to win, got %q", got)
	}
}

func TestInferContribuyenteRuc(t *testing.T) {
	tests := []struct {
		name     string
		docs     []comprobante.Document
		expected string
		ok       bool
	}{
		{
			name: "empty batch",
			docs: nil,
			ok:   false,
		},
		{
			name: "single issuer means sales",
			docs: []comprobante.Document{
				testutil.NewDocument(testutil.DocumentOptions{ReceptorID: "0990000000001"}),
				testutil.NewDocument(testutil.DocumentOptions{ReceptorID: "0190000000001"}),
				testutil.NewDocument(testutil.DocumentOptions{ReceptorID: "1712345678"}),
			},
			expected: testutil.RUCEmisor,
			ok:       true,
		},
		{
			name: "most frequent receptor",
			docs: []comprobante.Document{
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "1790000000001", ReceptorID: otroRUC}),
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0990000000001", ReceptorID: testutil.RUCComprador}),
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0190000000001", ReceptorID: testutil.RUCComprador}),
			},
			expected: testutil.RUCComprador,
			ok:       true,
		},
		{
			name: "tie goes to first seen",
			docs: []comprobante.Document{
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "1790000000001", ReceptorID: otroRUC}),
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0990000000001", ReceptorID: testutil.RUCComprador}),
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0190000000001", ReceptorID: testutil.RUCComprador}),
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0190000000001", ReceptorID: otroRUC}),
			},
			expected: otroRUC,
			ok:       true,
		},
		{
			name: "cedulas are not candidates",
			docs: []comprobante.Document{
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "1790000000001", ReceptorID: "1712345678"}),
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0990000000001", ReceptorID: "1712345678"}),
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0190000000001", ReceptorID: otroRUC}),
			},
			expected: otroRUC,
			ok:       true,
		},
		{
			name: "no valid receptor ruc",
			docs: []comprobante.Document{
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "1790000000001", ReceptorID: "1712345678"}),
				testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0990000000001", ReceptorID: "9999999999999X"}),
			},
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InferContribuyenteRuc(tt.docs)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestClassifyDocuments_SingleIssuer(t *testing.T) {
	docs := []comprobante.Document{
		testutil.NewDocument(testutil.DocumentOptions{ReceptorID: "0990000000001"}),
		testutil.NewDocument(testutil.DocumentOptions{ReceptorID: "0190000000001"}),
		testutil.NewDocument(testutil.DocumentOptions{ReceptorID: "1390000000001"}),
	}

	ruc, ok := InferContribuyenteRuc(docs)
	if !ok || ruc != "1790000000001" {
		t.Fatalf("expected 1790000000001, got %q", ruc)
	}

	for i, c := range ClassifyDocuments(docs, "") {
		if c.TransactionType != ats.Venta {
			t.Errorf("document %d: expected venta, got %q", i, c.TransactionType)
		}
	}
}

func TestClassifyDocuments_ExplicitRUCWins(t *testing.T) {
	docs := []comprobante.Document{
		testutil.NewDocument(testutil.DocumentOptions{}),
		testutil.NewDocument(testutil.DocumentOptions{}),
	}

	for i, c := range ClassifyDocuments(docs, testutil.RUCComprador) {
		if c.TransactionType != ats.Compra {
			t.Errorf("document %d: expected compra, got %q", i, c.TransactionType)
		}
	}
}

func TestClassifyDocuments_UnresolvedIsCompra(t *testing.T) {
	docs := []comprobante.Document{
		testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "1790000000001", ReceptorID: "1712345678"}),
		testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0990000000001", ReceptorID: "1712345678"}),
	}

	classified := ClassifyDocuments(docs, "")
	if len(classified) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(classified))
	}
	for i, c := range classified {
		if c.TransactionType != ats.Compra {
			t.Errorf("document %d: expected compra, got %q", i, c.TransactionType)
		}
	}
}

func TestSeparateByTransactionType(t *testing.T) {
	a := testutil.NewDocument(testutil.DocumentOptions{Fecha: "2024-01-01"})
	b := testutil.NewDocument(testutil.DocumentOptions{Fecha: "2024-01-02"})
	c := testutil.NewDocument(testutil.DocumentOptions{Fecha: "2024-01-03"})

	compras, ventas := SeparateByTransactionType([]ats.ClassifiedDocument{
		{Document: a, TransactionType: ats.Compra},
		{Document: b, TransactionType: ats.Venta},
		{Document: c, TransactionType: ats.Compra},
	})

	if len(compras) != 2 || len(ventas) != 1 {
		t.Fatalf("expected 2 compras and 1 venta, got %d and %d", len(compras), len(ventas))
	}
	if compras[0].Fecha != "2024-01-01" || compras[1].Fecha != "2024-01-03" {
		t.Error("expected compras to keep input order")
	}
	if ventas[0].Fecha != "2024-01-02" {
		t.Errorf("expected venta 2024-01-02, got %s", ventas[0].Fecha)
	}
}
