package parser

import "3tcapital/sriats/internal/core/comprobante"

type retentionTotals struct {
	iva   int64
	renta int64
	base  int64
}

// parseRetencion maps a comprobante de retención. The emisor is the
// withholding agent and the receptor is the party withheld from, so the
// roles are the inverse of a factura. A retention carries no sale total:
// valores.total is what was withheld.
func parseRetencion(x retencionXML, auth comprobante.Authorization, xmlHash string) (result Result) {
	defer recoverParse("retención", &result)

	totals := extractRetentionTotals(x.Impuestos)

	doc := baseDocument(comprobante.TypeRetencion, x.InfoTributaria, auth, xmlHash)
	doc.Receptor = comprobante.Receptor{
		TipoIdentificacion: x.TipoIdentificacionSujetoRetenido,
		Identificacion:     x.IdentificacionSujetoRetenido,
		RazonSocial:        x.RazonSocialSujetoRetenido,
	}
	doc.Fecha = ParseSRIDate(x.FechaEmision)
	doc.Valores = comprobante.Valores{
		Subtotal: totals.base,
		Total:    totals.iva + totals.renta,
	}
	doc.Retenciones = &comprobante.Retenciones{
		Iva:   totals.iva,
		Renta: totals.renta,
	}

	var warnings []comprobante.ValidationError
	if len(x.Impuestos) == 0 {
		warnings = append(warnings, comprobante.ValidationError{
			Code:    comprobante.CodeNoRetentions,
			Message: "No se encontraron impuestos retenidos",
			Field:   "impuestos",
		})
	}

	return finish(doc, requiredFieldErrors(doc), warnings)
}

// extractRetentionTotals sums every base and splits withheld amounts by
// code: 1 is renta, 2 is IVA, anything else is ignored.
func extractRetentionTotals(impuestos []impuestoRetenidoXML) retentionTotals {
	var totals retentionTotals

	for _, impuesto := range impuestos {
		totals.base += ParseMoneyToCents(impuesto.BaseImponible)
		valor := ParseMoneyToCents(impuesto.ValorRetenido)

		switch impuesto.Codigo {
		case comprobante.RetentionRenta:
			totals.renta += valor
		case comprobante.RetentionIVA:
			totals.iva += valor
		}
	}

	return totals
}
