package testutil

import "3tcapital/sriats/internal/core/comprobante"

// DocumentOptions describes a normalized document for aggregation tests.
type DocumentOptions struct {
	Tipo        comprobante.DocumentType
	Clave       string
	EmisorRUC   string
	EmisorRazon string
	ReceptorID  string
	Receptor    string
	Fecha       string // YYYY-MM-DD
	Valores     comprobante.Valores
	Retenciones *comprobante.Retenciones
}

// NewDocument builds a normalized document. Zero values fall back to a
// factura from RUCEmisor to RUCComprador dated 2024-01-15.
func NewDocument(o DocumentOptions) comprobante.Document {
	if o.Tipo == "" {
		o.Tipo = comprobante.TypeFactura
	}
	if o.Clave == "" {
		o.Clave = ClaveFactura
	}
	if o.EmisorRUC == "" {
		o.EmisorRUC = RUCEmisor
	}
	if o.EmisorRazon == "" {
		o.EmisorRazon = "DISTRIBUIDORA ANDINA S.A."
	}
	if o.ReceptorID == "" {
		o.ReceptorID = RUCComprador
	}
	if o.Receptor == "" {
		o.Receptor = "COMERCIAL GUAYAS CIA. LTDA."
	}
	if o.Fecha == "" {
		o.Fecha = "2024-01-15"
	}

	return comprobante.Document{
		Tipo:               o.Tipo,
		ClaveAcceso:        o.Clave,
		NumeroAutorizacion: o.Clave,
		FechaAutorizacion:  o.Fecha + "T10:30:00",
		Ambiente:           comprobante.AmbienteProduccion,
		Emisor: comprobante.Emisor{
			RUC:         o.EmisorRUC,
			RazonSocial: o.EmisorRazon,
		},
		Receptor: comprobante.Receptor{
			TipoIdentificacion: comprobante.IdentificacionRUC,
			Identificacion:     o.ReceptorID,
			RazonSocial:        o.Receptor,
		},
		Fecha:       o.Fecha,
		Valores:     o.Valores,
		Retenciones: o.Retenciones,
		FormaPago:   comprobante.FormaPagoOtrosSistemaFinanciero,
		XMLHash:     o.Clave + o.Fecha,
	}
}
