package parser

import (
	"strings"

	"github.com/beevik/etree"

	"3tcapital/sriats/internal/core/comprobante"
)

// Envelope is the content of an SRI authorization response.
type Envelope struct {
	Estado             string
	NumeroAutorizacion string
	FechaAutorizacion  string
	Ambiente           string
	Comprobante        string
	CDATA              bool
}

// Authorization converts the envelope metadata into the document's authorization.
func (e Envelope) Authorization() comprobante.Authorization {
	return comprobante.Authorization{
		Estado:             e.Estado,
		NumeroAutorizacion: e.NumeroAutorizacion,
		FechaAutorizacion:  ParseSRIDateTime(e.FechaAutorizacion),
		Ambiente:           e.Ambiente,
	}
}

// Authorized reports whether the SRI marked the document as AUTORIZADO.
func (e Envelope) Authorized() bool {
	return e.Estado == comprobante.EstadoAutorizado
}

// Wrappers the SRI web service puts around a single autorizacion element.
var envelopeWrappers = map[string]bool{
	"RespuestaAutorizacionComprobante": true,
	"respuestaAutorizacionComprobante": true,
	"autorizaciones":                   true,
}

// findEnvelope returns the autorizacion element holding a comprobante, or nil
// when the tree is a bare comprobante.
func findEnvelope(doc *etree.Document) *etree.Element {
	root := doc.Root()
	if root == nil {
		return nil
	}

	var candidate *etree.Element
	switch {
	case root.Tag == "autorizacion":
		candidate = root
	case envelopeWrappers[root.Tag]:
		candidate = root.FindElement(".//autorizacion")
	}

	if candidate == nil || candidate.SelectElement("comprobante") == nil {
		return nil
	}
	return candidate
}

// IsAuthorizationEnvelope reports whether doc is an authorization envelope.
func IsAuthorizationEnvelope(doc *etree.Document) bool {
	return doc != nil && findEnvelope(doc) != nil
}

// extractEnvelope reads the authorization metadata and the inner comprobante.
// The comprobante usually comes as CDATA, sometimes as escaped text and
// occasionally as embedded elements; the last form is serialized back.
func extractEnvelope(el *etree.Element) (Envelope, error) {
	env := Envelope{
		Estado:             text(el, "estado"),
		NumeroAutorizacion: text(el, "numeroAutorizacion"),
		FechaAutorizacion:  text(el, "fechaAutorizacion"),
		Ambiente:           normalizeAmbiente(text(el, "ambiente")),
	}

	holder := el.SelectElement("comprobante")
	content, cdata := charData(holder)
	env.CDATA = cdata

	if content == "" {
		if inner := holder.ChildElements(); len(inner) > 0 {
			serialized, err := serializeElement(inner[0])
			if err != nil {
				return env, err
			}
			content = serialized
		}
	}

	env.Comprobante = content
	return env, nil
}

// normalizeAmbiente maps the textual environment the SRI returns
// (PRODUCCIÓN, PRUEBAS) onto its code.
func normalizeAmbiente(value string) string {
	upper := strings.ToUpper(value)
	switch {
	case strings.HasPrefix(upper, "PRODUC"):
		return comprobante.AmbienteProduccion
	case strings.HasPrefix(upper, "PRUEBA"):
		return comprobante.AmbientePruebas
	default:
		return value
	}
}
