package parser

import (
	"strings"

	"github.com/beevik/etree"

	"3tcapital/sriats/internal/core/comprobante"
)

// rootKeyOrder is the detection precedence. SRI documents carry exactly one
// of these roots, but a tree with several resolves to the first listed.
var rootKeyOrder = []struct {
	key  string
	tipo comprobante.DocumentType
}{
	{"factura", comprobante.TypeFactura},
	{"comprobanteRetencion", comprobante.TypeRetencion},
	{"notaCredito", comprobante.TypeNotaCredito},
	{"notaDebito", comprobante.TypeNotaDebito},
	{"guiaRemision", comprobante.TypeGuiaRemision},
}

// Detection is the outcome of DetectDocumentType.
type Detection struct {
	Detected bool
	Type     comprobante.DocumentType
	Root     *etree.Element
	Error    string
}

// DetectDocumentType finds the document type from the top-level elements of doc.
func DetectDocumentType(doc *etree.Document) Detection {
	keys := rootKeys(doc)
	if len(keys) == 0 {
		return Detection{Error: "XML parseado está vacío o no es un objeto"}
	}

	for _, candidate := range rootKeyOrder {
		if el := topLevel(doc, candidate.key); el != nil {
			return Detection{Detected: true, Type: candidate.tipo, Root: el}
		}
	}

	return Detection{
		Error: "Tipo de documento no reconocido. Elementos raíz: " + strings.Join(keys, ", "),
	}
}

// DocumentTypeFromCodDoc maps an infoTributaria codDoc to a document type.
func DocumentTypeFromCodDoc(codDoc string) (comprobante.DocumentType, bool) {
	return comprobante.TypeFromCodDoc(NormalizeString(codDoc))
}
