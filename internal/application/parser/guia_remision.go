package parser

import "3tcapital/sriats/internal/core/comprobante"

// parseGuiaRemision maps a guía de remisión. It is a transport document:
// every amount is zero and the receptor slot holds the transporter.
func parseGuiaRemision(x guiaRemisionXML, auth comprobante.Authorization, xmlHash string) (result Result) {
	defer recoverParse("guía de remisión", &result)

	doc := baseDocument(comprobante.TypeGuiaRemision, x.InfoTributaria, auth, xmlHash)
	doc.Receptor = comprobante.Receptor{
		TipoIdentificacion: x.TipoIdentificacionTransportista,
		Identificacion:     x.RUCTransportista,
		RazonSocial:        x.RazonSocialTransportista,
	}
	doc.Fecha = ParseSRIDate(x.FechaIniTransporte)
	doc.Valores = comprobante.Valores{}

	var warnings []comprobante.ValidationError
	if x.Destinatarios == 0 {
		warnings = append(warnings, comprobante.ValidationError{
			Code:    comprobante.CodeNoDestinatarios,
			Message: "No se encontraron destinatarios en la guía",
			Field:   "destinatarios",
		})
	}
	if x.Placa == "" {
		warnings = append(warnings, comprobante.ValidationError{
			Code:    comprobante.CodeMissingPlaca,
			Message: "Placa del vehículo no encontrada",
			Field:   "placa",
		})
	}

	return finish(doc, requiredFieldErrors(doc), warnings)
}
