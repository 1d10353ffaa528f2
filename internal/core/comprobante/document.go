package comprobante

// DocumentType identifies one of the five SRI electronic document schemas.
type DocumentType string

const (
	TypeFactura      DocumentType = "factura"
	TypeRetencion    DocumentType = "retencion"
	TypeNotaCredito  DocumentType = "nota_credito"
	TypeNotaDebito   DocumentType = "nota_debito"
	TypeGuiaRemision DocumentType = "guia_remision"
)

// DocumentTypes lists every supported type in detection precedence order.
var DocumentTypes = []DocumentType{
	TypeFactura,
	TypeRetencion,
	TypeNotaCredito,
	TypeNotaDebito,
	TypeGuiaRemision,
}

var documentTypeLabels = map[DocumentType]string{
	TypeFactura:      "Factura",
	TypeRetencion:    "Retención",
	TypeNotaCredito:  "Nota de Crédito",
	TypeNotaDebito:   "Nota de Débito",
	TypeGuiaRemision: "Guía de Remisión",
}

// Valid reports whether t is one of the five known document types.
func (t DocumentType) Valid() bool {
	_, ok := documentTypeLabels[t]
	return ok
}

// Label returns the human readable name used in reports.
// Unknown types are returned verbatim.
func (t DocumentType) Label() string {
	if label, ok := documentTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// TaxEntry is one totalImpuesto/impuesto line exactly as read from the XML.
type TaxEntry struct {
	Codigo           string
	CodigoPorcentaje string
	BaseImponible    string
	Valor            string
}

// Authorization carries the metadata of the SRI authorization envelope.
type Authorization struct {
	Estado             string `json:"estado"`
	NumeroAutorizacion string `json:"numeroAutorizacion"`
	FechaAutorizacion  string `json:"fechaAutorizacion"`
	Ambiente           string `json:"ambiente"`
}

// DefaultAuthorization is used for bare comprobantes that arrive without an envelope.
func DefaultAuthorization() Authorization {
	return Authorization{
		Estado:   EstadoAutorizado,
		Ambiente: AmbienteProduccion,
	}
}

// Emisor is the issuer of a document.
type Emisor struct {
	RUC             string `json:"ruc"`
	RazonSocial     string `json:"razonSocial"`
	NombreComercial string `json:"nombreComercial,omitempty"`
}

// Receptor is the counterparty of a document. For withholdings it is the
// withheld party and for delivery notes it is the transporter.
type Receptor struct {
	TipoIdentificacion string `json:"tipoIdentificacion"`
	Identificacion     string `json:"identificacion"`
	RazonSocial        string `json:"razonSocial"`
}

// Valores holds every monetary amount of a document in cents.
type Valores struct {
	Subtotal int64 `json:"subtotal"`
	Iva0     int64 `json:"iva0"`
	Iva12    int64 `json:"iva12"`
	Iva15    int64 `json:"iva15"`
	Iva      int64 `json:"iva"`
	Ice      int64 `json:"ice"`
	Irbpnr   int64 `json:"irbpnr"`
	Propina  int64 `json:"propina"`
	Total    int64 `json:"total"`
}

// Retenciones holds the withheld amounts of a retencion document in cents.
type Retenciones struct {
	Iva   int64 `json:"iva"`
	Renta int64 `json:"renta"`
}

// Document is the normalized representation shared by all document types.
type Document struct {
	Tipo               DocumentType `json:"tipo"`
	ClaveAcceso        string       `json:"claveAcceso"`
	NumeroAutorizacion string       `json:"numeroAutorizacion"`
	FechaAutorizacion  string       `json:"fechaAutorizacion"`
	Ambiente           string       `json:"ambiente"`
	Emisor             Emisor       `json:"emisor"`
	Receptor           Receptor     `json:"receptor"`
	Fecha              string       `json:"fecha"`
	Valores            Valores      `json:"valores"`
	Retenciones        *Retenciones `json:"retenciones,omitempty"`
	FormaPago          string       `json:"formaPago,omitempty"`
	XMLHash            string       `json:"xmlHash"`
}

// Periodo returns the YYYY-MM prefix of the emission date.
func (d Document) Periodo() string {
	if len(d.Fecha) < 7 {
		return d.Fecha
	}
	return d.Fecha[:7]
}
