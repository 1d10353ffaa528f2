package comprobante

// SRI document codes (codDoc).
const (
	CodDocFactura      = "01"
	CodDocLiquidacion  = "03"
	CodDocNotaCredito  = "04"
	CodDocNotaDebito   = "05"
	CodDocGuiaRemision = "06"
	CodDocRetencion    = "07"
)

// Tax type codes used in totalConImpuestos.
const (
	TaxIVA    = "2"
	TaxICE    = "3"
	TaxIRBPNR = "5"
)

// Retention type codes used in comprobanteRetencion.
const (
	RetentionRenta = "1"
	RetentionIVA   = "2"
)

// IVA rate codes (codigoPorcentaje).
const (
	IvaRateZero     = "0"
	IvaRateTwelve   = "2"
	IvaRateFourteen = "3"
	IvaRateFifteen  = "4"
	IvaRateNoObjeto = "6"
	IvaRateExento   = "7"
)

// Ambiente codes.
const (
	AmbientePruebas    = "1"
	AmbienteProduccion = "2"
)

// Identification type codes.
const (
	IdentificacionRUC             = "04"
	IdentificacionCedula          = "05"
	IdentificacionPasaporte       = "06"
	IdentificacionConsumidorFinal = "07"
	IdentificacionExterior        = "08"
)

// Payment method codes.
const (
	FormaPagoSinSistemaFinanciero   = "01"
	FormaPagoCompensacionDeudas     = "15"
	FormaPagoTarjetaDebito          = "16"
	FormaPagoDineroElectronico      = "17"
	FormaPagoTarjetaPrepago         = "18"
	FormaPagoTarjetaCredito         = "19"
	FormaPagoOtrosSistemaFinanciero = "20"
	FormaPagoEndosoTitulos          = "21"
)

// Authorization states.
const (
	EstadoAutorizado   = "AUTORIZADO"
	EstadoNoAutorizado = "NO AUTORIZADO"
)

var codDocTypes = map[string]DocumentType{
	CodDocFactura:      TypeFactura,
	CodDocLiquidacion:  TypeFactura,
	CodDocNotaCredito:  TypeNotaCredito,
	CodDocNotaDebito:   TypeNotaDebito,
	CodDocGuiaRemision: TypeGuiaRemision,
	CodDocRetencion:    TypeRetencion,
}

var typeCodDocs = map[DocumentType]string{
	TypeFactura:      CodDocFactura,
	TypeNotaCredito:  CodDocNotaCredito,
	TypeNotaDebito:   CodDocNotaDebito,
	TypeGuiaRemision: CodDocGuiaRemision,
	TypeRetencion:    CodDocRetencion,
}

// TypeFromCodDoc maps an SRI codDoc to a document type.
// Liquidaciones de compra are handled as facturas.
func TypeFromCodDoc(codDoc string) (DocumentType, bool) {
	t, ok := codDocTypes[codDoc]
	return t, ok
}

// CodDoc returns the SRI code for a document type, defaulting to the factura code.
func (t DocumentType) CodDoc() string {
	if code, ok := typeCodDocs[t]; ok {
		return code
	}
	return CodDocFactura
}
