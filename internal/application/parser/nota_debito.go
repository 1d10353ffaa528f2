package parser

import "3tcapital/sriats/internal/core/comprobante"

// parseNotaDebito maps a nota de débito. Taxes come from impuestos/impuesto,
// which is where the SRI schema puts them, falling back to totalConImpuestos
// for issuers that reuse the factura layout.
func parseNotaDebito(x notaDebitoXML, auth comprobante.Authorization, xmlHash string) (result Result) {
	defer recoverParse("nota de débito", &result)

	taxes := ExtractTaxTotals(x.Impuestos)

	doc := baseDocument(comprobante.TypeNotaDebito, x.InfoTributaria, auth, xmlHash)
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
		Total:    ParseMoneyToCents(x.ValorTotal),
	}
	doc.FormaPago = firstOrEmpty(x.FormasPago)

	var warnings []comprobante.ValidationError
	if x.NumDocModificado == "" {
		warnings = append(warnings, missingDocModificado())
	}

	return finish(doc, requiredFieldErrors(doc), warnings)
}
