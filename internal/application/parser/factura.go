package parser

import "3tcapital/sriats/internal/core/comprobante"

// parseFactura maps a factura onto the normalized document. Taxes come from
// the document-level totalConImpuestos, never from the detail lines.
func parseFactura(x facturaXML, auth comprobante.Authorization, xmlHash string) (result Result) {
	defer recoverParse("factura", &result)

	taxes := ExtractTaxTotals(x.TotalConImpuestos)

	doc := baseDocument(comprobante.TypeFactura, x.InfoTributaria, auth, xmlHash)
	doc.Receptor = comprobante.Receptor{
		TipoIdentificacion: x.TipoIdentificacionComprador,
		Identificacion:     x.IdentificacionComprador,
		RazonSocial:        x.RazonSocialComprador,
	}
	doc.Fecha = ParseSRIDate(x.FechaEmision)
	doc.Valores = comprobante.Valores{
		Subtotal: ParseMoneyToCents(x.TotalSinImpuestos),
		Iva0:     taxes.Iva0,
		Iva12:    taxes.Iva12,
		Iva15:    taxes.Iva15,
		Iva:      taxes.IvaTotal,
		Ice:      taxes.IceTotal,
		Irbpnr:   taxes.IrbpnrTotal,
		Propina:  ParseMoneyToCents(x.Propina),
		Total:    ParseMoneyToCents(x.ImporteTotal),
	}
	doc.FormaPago = firstOrEmpty(x.FormasPago)

	return finish(doc, requiredFieldErrors(doc), nil)
}
