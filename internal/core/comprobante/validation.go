package comprobante

import "fmt"

// Validation error codes. They are stable identifiers exposed to API clients.
const (
	CodeEmptyXML              = "EMPTY_XML"
	CodeXMLSyntaxError        = "XML_SYNTAX_ERROR"
	CodeXMLParseError         = "XML_PARSE_ERROR"
	CodeComprobanteParseError = "COMPROBANTE_PARSE_ERROR"
	CodeNotAuthorized         = "NOT_AUTHORIZED"
	CodeUnknownDocumentType   = "UNKNOWN_DOCUMENT_TYPE"
	CodeUnsupportedType       = "UNSUPPORTED_DOCUMENT_TYPE"
	CodeParseError            = "PARSE_ERROR"
	CodeCancelled             = "CANCELLED"

	CodeInvalidFacturaStructure      = "INVALID_FACTURA_STRUCTURE"
	CodeInvalidRetencionStructure    = "INVALID_RETENCION_STRUCTURE"
	CodeInvalidNotaCreditoStructure  = "INVALID_NOTA_CREDITO_STRUCTURE"
	CodeInvalidNotaDebitoStructure   = "INVALID_NOTA_DEBITO_STRUCTURE"
	CodeInvalidGuiaRemisionStructure = "INVALID_GUIA_REMISION_STRUCTURE"

	CodeMissingClaveAcceso   = "MISSING_CLAVE_ACCESO"
	CodeMissingEmisorRUC     = "MISSING_EMISOR_RUC"
	CodeMissingDocModificado = "MISSING_DOC_MODIFICADO"
	CodeNoRetentions         = "NO_RETENTIONS"
	CodeNoDestinatarios      = "NO_DESTINATARIOS"
	CodeMissingPlaca         = "MISSING_PLACA"

	CodeMissingClave            = "MISSING_CLAVE"
	CodeInvalidClaveFormat      = "INVALID_CLAVE_FORMAT"
	CodeInvalidClaveCheckDigit  = "INVALID_CLAVE_CHECK_DIGIT"
	CodeMissingAutorizacion     = "MISSING_AUTORIZACION"
	CodeInvalidAutorizacion     = "INVALID_AUTORIZACION_FORMAT"
	CodeMissingRUC              = "MISSING_RUC"
	CodeInvalidRUCFormat        = "INVALID_RUC_FORMAT"
	CodeInvalidProvinceCode     = "INVALID_PROVINCE_CODE"
	CodeInvalidRUCSuffix        = "INVALID_RUC_SUFFIX"
	CodeMissingDate             = "MISSING_DATE"
	CodeInvalidDateFormat       = "INVALID_DATE_FORMAT"
	CodeFutureDate              = "FUTURE_DATE"
	CodeInvalidMonetaryValue    = "INVALID_MONETARY_VALUE"
	CodeNegativeMonetaryValue   = "NEGATIVE_VALUE"
)

// ValidationError describes a single problem found while parsing a document.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d, col %d)", e.Code, e.Message, e.Line, e.Col)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StructureErrorCode returns the type-guard failure code for t.
func StructureErrorCode(t DocumentType) string {
	switch t {
	case TypeFactura:
		return CodeInvalidFacturaStructure
	case TypeRetencion:
		return CodeInvalidRetencionStructure
	case TypeNotaCredito:
		return CodeInvalidNotaCreditoStructure
	case TypeNotaDebito:
		return CodeInvalidNotaDebitoStructure
	case TypeGuiaRemision:
		return CodeInvalidGuiaRemisionStructure
	default:
		return CodeUnsupportedType
	}
}
