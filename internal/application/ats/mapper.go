package ats

import (
	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/core/comprobante"
)

// taxBases splits a document's subtotal into the three ATS bases. The no
// objeto base is the remainder and never goes below zero.
func taxBases(v comprobante.Valores) (gravada, iva0, noObjeto int64) {
	gravada = v.Iva12 + v.Iva15
	iva0 = v.Iva0
	noObjeto = v.Subtotal - gravada - iva0
	if noObjeto < 0 {
		noObjeto = 0
	}
	return gravada, iva0, noObjeto
}

func rowBase(doc comprobante.Document, counterparty ats.Counterparty) ats.RowBase {
	estab, pto, secuencial := comprobante.DocumentParts(doc.ClaveAcceso)

	return ats.RowBase{
		TipoIdentificacion: counterparty.TipoIdentificacion,
		Identificacion:     counterparty.Identificacion,
		RazonSocial:        counterparty.RazonSocial,
		TipoComprobante:    doc.Tipo,
		CodigoComprobante:  doc.Tipo.CodDoc(),
		FechaEmision:       doc.Fecha,
		Establecimiento:    estab,
		PuntoEmision:       pto,
		Secuencial:         secuencial,
		Autorizacion:       doc.NumeroAutorizacion,
		ClaveAcceso:        doc.ClaveAcceso,
	}
}

// MapToComprasRow maps a received document. The supplier is the emisor,
// always identified by RUC.
func MapToComprasRow(doc comprobante.Document) ats.ComprasRow {
	gravada, iva0, noObjeto := taxBases(doc.Valores)

	row := ats.ComprasRow{
		RowBase: rowBase(doc, ats.Counterparty{
			TipoIdentificacion: comprobante.IdentificacionRUC,
			Identificacion:     doc.Emisor.RUC,
			RazonSocial:        doc.Emisor.RazonSocial,
		}),
		BaseIvaGravada:  gravada,
		BaseIva0:        iva0,
		BaseNoObjetoIva: noObjeto,
		MontoIva:        doc.Valores.Iva,
		MontoIce:        doc.Valores.Ice,
		Total:           doc.Valores.Total,
		FormaPago:       doc.FormaPago,
	}
	if doc.Retenciones != nil {
		row.RetencionIva = doc.Retenciones.Iva
		row.RetencionRenta = doc.Retenciones.Renta
	}
	return row
}

// MapToVentasRow maps an issued document. The client is the receptor.
func MapToVentasRow(doc comprobante.Document) ats.VentasRow {
	gravada, iva0, noObjeto := taxBases(doc.Valores)

	return ats.VentasRow{
		RowBase: rowBase(doc, ats.Counterparty{
			TipoIdentificacion: doc.Receptor.TipoIdentificacion,
			Identificacion:     doc.Receptor.Identificacion,
			RazonSocial:        doc.Receptor.RazonSocial,
		}),
		BaseIvaGravada:  gravada,
		BaseIva0:        iva0,
		BaseNoObjetoIva: noObjeto,
		MontoIva:        doc.Valores.Iva,
		MontoIce:        doc.Valores.Ice,
		Total:           doc.Valores.Total,
	}
}
