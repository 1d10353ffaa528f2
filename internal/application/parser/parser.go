// Package parser turns SRI electronic document XML into normalized documents.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"3tcapital/sriats/internal/core/comprobante"
)

// Options control a single parse.
type Options struct {
	// Validate checks well-formedness before parsing.
	Validate bool
	// IncludeWarnings forwards non-fatal findings in the result.
	IncludeWarnings bool
	// Strict promotes every warning to an error.
	Strict bool
}

// DefaultOptions validates, forwards warnings and is not strict.
func DefaultOptions() Options {
	return Options{Validate: true, IncludeWarnings: true}
}

// Result is the outcome of parsing one XML document. Document is set only
// when Success is true.
type Result struct {
	Success  bool                          `json:"success"`
	Document *comprobante.Document         `json:"document,omitempty"`
	Errors   []comprobante.ValidationError `json:"errors,omitempty"`
	Warnings []comprobante.ValidationError `json:"warnings,omitempty"`
}

func failure(code, message string) Result {
	return Result{
		Errors: []comprobante.ValidationError{{Code: code, Message: message}},
	}
}

// Parse runs the full pipeline on a raw XML string, which may be an
// authorization envelope or a bare comprobante. Each step can end the call
// with a typed failure; Parse itself never panics.
func Parse(xmlString string, opts Options) (result Result) {
	defer recoverParse("documento", &result)

	if opts.Validate {
		if errs := ValidateXML(xmlString); len(errs) > 0 {
			return Result{Errors: errs}
		}
	}

	doc, err := parseTree(xmlString)
	if err != nil {
		return failure(comprobante.CodeXMLParseError, "Error al parsear XML: "+err.Error())
	}

	comprobanteXML := xmlString
	auth := comprobante.DefaultAuthorization()

	if envelopeEl := findEnvelope(doc); envelopeEl != nil {
		env, err := extractEnvelope(envelopeEl)
		if err != nil {
			return failure(comprobante.CodeComprobanteParseError, "Error al parsear comprobante interno: "+err.Error())
		}

		if !env.Authorized() {
			return failure(comprobante.CodeNotAuthorized, "El documento no está autorizado. Estado: "+env.Estado)
		}

		auth = env.Authorization()
		comprobanteXML = env.Comprobante

		doc, err = parseInner(comprobanteXML)
		if err != nil {
			return failure(comprobante.CodeComprobanteParseError, "Error al parsear comprobante interno: "+err.Error())
		}
	}

	detection := DetectDocumentType(doc)
	if !detection.Detected {
		message := detection.Error
		if message == "" {
			message = "No se pudo detectar el tipo de documento"
		}
		return failure(comprobante.CodeUnknownDocumentType, message)
	}

	xmlHash := ComputeXMLHash(comprobanteXML)

	parsed, ok := dispatch(detection, auth, xmlHash)
	if !ok {
		return parsed
	}

	return applyOptions(parsed, opts)
}

// parseInner parses the comprobante carried by an envelope.
func parseInner(xmlString string) (*etree.Document, error) {
	if strings.TrimSpace(xmlString) == "" {
		return nil, errors.New("el comprobante está vacío")
	}
	return parseTree(xmlString)
}

// dispatch decodes the detected root into its typed shape and runs the
// matching parser. The boolean is false when the shape check failed.
func dispatch(detection Detection, auth comprobante.Authorization, xmlHash string) (Result, bool) {
	structureFailure := func(label string) (Result, bool) {
		return failure(comprobante.StructureErrorCode(detection.Type), "Estructura de "+label+" inválida"), false
	}

	switch detection.Type {
	case comprobante.TypeFactura:
		x, ok := decodeFactura(detection.Root)
		if !ok {
			return structureFailure("factura")
		}
		return parseFactura(x, auth, xmlHash), true

	case comprobante.TypeRetencion:
		x, ok := decodeRetencion(detection.Root)
		if !ok {
			return structureFailure("retención")
		}
		return parseRetencion(x, auth, xmlHash), true

	case comprobante.TypeNotaCredito:
		x, ok := decodeNotaCredito(detection.Root)
		if !ok {
			return structureFailure("nota de crédito")
		}
		return parseNotaCredito(x, auth, xmlHash), true

	case comprobante.TypeNotaDebito:
		x, ok := decodeNotaDebito(detection.Root)
		if !ok {
			return structureFailure("nota de débito")
		}
		return parseNotaDebito(x, auth, xmlHash), true

	case comprobante.TypeGuiaRemision:
		x, ok := decodeGuiaRemision(detection.Root)
		if !ok {
			return structureFailure("guía de remisión")
		}
		return parseGuiaRemision(x, auth, xmlHash), true

	default:
		return failure(comprobante.CodeUnsupportedType, fmt.Sprintf("Tipo de documento no soportado: %s", detection.Type)), false
	}
}

// applyOptions implements strict mode and the includeWarnings switch.
func applyOptions(parsed Result, opts Options) Result {
	if opts.Strict && len(parsed.Warnings) > 0 {
		errs := append([]comprobante.ValidationError{}, parsed.Errors...)
		for _, w := range parsed.Warnings {
			errs = append(errs, comprobante.ValidationError{
				Code:    w.Code,
				Message: "[Strict] " + w.Message,
				Field:   w.Field,
			})
		}
		return Result{Errors: errs}
	}

	result := Result{
		Success:  parsed.Success,
		Document: parsed.Document,
		Errors:   parsed.Errors,
	}
	if opts.IncludeWarnings {
		result.Warnings = parsed.Warnings
	}
	return result
}

// IsValidSRIDocument is a quick check: the XML is well formed and is either
// an authorization envelope or one of the five known comprobantes.
func IsValidSRIDocument(xmlString string) bool {
	if errs := ValidateXML(xmlString); len(errs) > 0 {
		return false
	}

	doc, err := parseTree(xmlString)
	if err != nil {
		return false
	}

	if IsAuthorizationEnvelope(doc) {
		return true
	}
	return DetectDocumentType(doc).Detected
}
