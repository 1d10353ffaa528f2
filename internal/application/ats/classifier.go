package ats

import (
	"3tcapital/sriats/internal/application/parser"
	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/core/comprobante"
)

// DetectTransactionType classifies doc from the point of view of the taxpayer
// identified by contribuyenteRUC. A document the taxpayer issued is a venta;
// everything else, including documents naming neither side, is a compra.
func DetectTransactionType(doc comprobante.Document, contribuyenteRUC string) ats.TransactionType {
	if doc.Emisor.RUC == contribuyenteRUC {
		return ats.Venta
	}
	if doc.Receptor.Identificacion == contribuyenteRUC {
		return ats.Compra
	}
	return ats.Compra
}

// InferContribuyenteRuc guesses the taxpayer of a batch. A single distinct
// issuer means the batch is that issuer's sales. Otherwise the most frequent
// receptor holding a well formed RUC wins, ties going to the one seen first.
// It returns false when nothing qualifies.
func InferContribuyenteRuc(docs []comprobante.Document) (string, bool) {
	if len(docs) == 0 {
		return "", false
	}

	emisores := make(map[string]struct{})
	receptorCounts := make(map[string]int)
	var receptorOrder []string

	for _, doc := range docs {
		emisores[doc.Emisor.RUC] = struct{}{}

		id := doc.Receptor.Identificacion
		if _, seen := receptorCounts[id]; !seen {
			receptorOrder = append(receptorOrder, id)
		}
		receptorCounts[id]++
	}

	if len(emisores) == 1 {
		return docs[0].Emisor.RUC, docs[0].Emisor.RUC != ""
	}

	best, bestCount := "", 0
	for _, id := range receptorOrder {
		if !parser.IsValidRUCFormat(id) {
			continue
		}
		if count := receptorCounts[id]; count > bestCount {
			best, bestCount = id, count
		}
	}

	return best, bestCount > 0
}

// ClassifyDocuments resolves the taxpayer (explicit, then inferred) and tags
// every document. Without a taxpayer every document is a compra.
func ClassifyDocuments(docs []comprobante.Document, contribuyenteRUC string) []ats.ClassifiedDocument {
	ruc := contribuyenteRUC
	if ruc == "" {
		ruc, _ = InferContribuyenteRuc(docs)
	}

	classified := make([]ats.ClassifiedDocument, 0, len(docs))
	for _, doc := range docs {
		tipo := ats.Compra
		if ruc != "" {
			tipo = DetectTransactionType(doc, ruc)
		}
		classified = append(classified, ats.ClassifiedDocument{Document: doc, TransactionType: tipo})
	}
	return classified
}

// SeparateByTransactionType splits classified documents keeping their order.
func SeparateByTransactionType(classified []ats.ClassifiedDocument) (compras, ventas []comprobante.Document) {
	for _, c := range classified {
		if c.TransactionType == ats.Venta {
			ventas = append(ventas, c.Document)
			continue
		}
		compras = append(compras, c.Document)
	}
	return compras, ventas
}
