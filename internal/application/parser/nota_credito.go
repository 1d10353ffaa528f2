package parser

import "3tcapital/sriats/internal/core/comprobante"

// parseNotaCredito maps a nota de crédito. Its total is the modification
// value, not the sum with taxes.
func parseNotaCredito(x notaCreditoXML, auth comprobante.Authorization, xmlHash string) (result Result) {
	defer recoverParse("nota de crédito", &result)

	taxes := ExtractTaxTotals(x.TotalConImpuestos)

	doc := baseDocument(comprobante.TypeNotaCredito, x.InfoTributaria, auth, xmlHash)
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
		Total:    ParseMoneyToCents(x.ValorModificacion),
	}

	var warnings []comprobante.ValidationError
	if x.NumDocModificado == "" {
		warnings = append(warnings, missingDocModificado())
	}

	return finish(doc, requiredFieldErrors(doc), warnings)
}
