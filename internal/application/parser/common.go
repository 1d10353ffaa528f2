package parser

import (
	"fmt"

	"3tcapital/sriats/internal/core/comprobante"
)

func emisorFrom(info infoTributariaXML) comprobante.Emisor {
	return comprobante.Emisor{
		RUC:             info.RUC,
		RazonSocial:     info.RazonSocial,
		NombreComercial: info.NombreComercial,
	}
}

// baseDocument fills the fields every document type shares.
func baseDocument(tipo comprobante.DocumentType, info infoTributariaXML, auth comprobante.Authorization, xmlHash string) comprobante.Document {
	return comprobante.Document{
		Tipo:               tipo,
		ClaveAcceso:        info.ClaveAcceso,
		NumeroAutorizacion: auth.NumeroAutorizacion,
		FechaAutorizacion:  auth.FechaAutorizacion,
		Ambiente:           auth.Ambiente,
		Emisor:             emisorFrom(info),
		XMLHash:            xmlHash,
	}
}

// requiredFieldErrors reports the fields without which a document cannot be used.
func requiredFieldErrors(doc comprobante.Document) []comprobante.ValidationError {
	var errs []comprobante.ValidationError

	if doc.ClaveAcceso == "" {
		errs = append(errs, comprobante.ValidationError{
			Code:    comprobante.CodeMissingClaveAcceso,
			Message: "Clave de acceso no encontrada",
			Field:   "claveAcceso",
		})
	}

	if doc.Emisor.RUC == "" {
		errs = append(errs, comprobante.ValidationError{
			Code:    comprobante.CodeMissingEmisorRUC,
			Message: "RUC del emisor no encontrado",
			Field:   "emisor.ruc",
		})
	}

	return errs
}

func missingDocModificado() comprobante.ValidationError {
	return comprobante.ValidationError{
		Code:    comprobante.CodeMissingDocModificado,
		Message: "Número de documento modificado no encontrado",
		Field:   "numDocModificado",
	}
}

// finish assembles a per-type result. The document is only attached when
// there are no errors.
func finish(doc comprobante.Document, errs, warnings []comprobante.ValidationError) Result {
	result := Result{
		Success:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
	if result.Success {
		result.Document = &doc
	}
	return result
}

// recoverParse turns a panic raised while mapping a document into a single
// PARSE_ERROR result.
func recoverParse(label string, result *Result) {
	if r := recover(); r != nil {
		*result = Result{
			Errors: []comprobante.ValidationError{{
				Code:    comprobante.CodeParseError,
				Message: fmt.Sprintf("Error al parsear %s: %v", label, r),
			}},
		}
	}
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
