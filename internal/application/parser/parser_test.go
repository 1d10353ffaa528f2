package parser

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	"3tcapital/sriats/internal/core/comprobante"
	"3tcapital/sriats/internal/testutil"
)

func requireCode(t *testing.T, result Result, code string) {
	t.Helper()
	if result.Success {
		t.Fatalf("expected failure with %s, got success", code)
	}
	if len(result.Errors) == 0 {
		t.Fatalf("expected error %s, got none", code)
	}
	if result.Errors[0].Code != code {
		t.Fatalf("expected error code %s, got %s (%s)", code, result.Errors[0].Code, result.Errors[0].Message)
	}
	if result.Document != nil {
		t.Error("expected no document on failure")
	}
}

func TestParse_AuthorizedFacturaEnvelope(t *testing.T) {
	xml := testutil.Envelope(comprobante.EstadoAutorizado, testutil.FacturaXML(testutil.FacturaOptions{}))

	result := Parse(xml, DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got errors %+v", result.Errors)
	}

	doc := result.Document
	if doc.Tipo != comprobante.TypeFactura {
		t.Errorf("expected tipo factura, got %q", doc.Tipo)
	}
	if doc.Emisor.RUC != testutil.RUCEmisor {
		t.Errorf("expected emisor %s, got %s", testutil.RUCEmisor, doc.Emisor.RUC)
	}
	if doc.Valores.Total != 11200 {
		t.Errorf("expected total 11200, got %d", doc.Valores.Total)
	}
	if doc.Valores.Iva12 != 10000 {
		t.Errorf("expected iva12 10000, got %d", doc.Valores.Iva12)
	}
	if doc.Valores.Iva != 1200 {
		t.Errorf("expected iva 1200, got %d", doc.Valores.Iva)
	}
	if doc.Valores.Subtotal != 10000 {
		t.Errorf("expected subtotal 10000, got %d", doc.Valores.Subtotal)
	}
	if doc.Fecha != "2024-01-15" {
		t.Errorf("expected fecha 2024-01-15, got %q", doc.Fecha)
	}
	if doc.FechaAutorizacion != "2024-01-15T10:30:00" {
		t.Errorf("expected fechaAutorizacion 2024-01-15T10:30:00, got %q", doc.FechaAutorizacion)
	}
	if doc.Ambiente != comprobante.AmbienteProduccion {
		t.Errorf("expected ambiente 2, got %q", doc.Ambiente)
	}
	if doc.NumeroAutorizacion != testutil.ClaveFactura {
		t.Errorf("expected numeroAutorizacion from envelope, got %q", doc.NumeroAutorizacion)
	}
	if doc.Receptor.Identificacion != testutil.RUCComprador {
		t.Errorf("expected receptor %s, got %s", testutil.RUCComprador, doc.Receptor.Identificacion)
	}
	if doc.FormaPago != "20" {
		t.Errorf("expected formaPago 20, got %q", doc.FormaPago)
	}
	if len(doc.XMLHash) != 64 {
		t.Errorf("expected a sha256 hex hash, got %q", doc.XMLHash)
	}
}

func TestParse_NotAuthorized(t *testing.T) {
	xml := testutil.Envelope(comprobante.EstadoNoAutorizado, testutil.FacturaXML(testutil.FacturaOptions{}))

	result := Parse(xml, DefaultOptions())
	requireCode(t, result, comprobante.CodeNotAuthorized)

	if len(result.Errors) != 1 {
		t.Errorf("expected a single error, got %d", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0].Message, "NO AUTORIZADO") {
		t.Errorf("expected estado in message, got %q", result.Errors[0].Message)
	}
}

func TestParse_EstadoIsCaseSensitive(t *testing.T) {
	tests := []struct {
		name   string
		estado string
	}{
		{"lowercase", "autorizado"},
		{"title case", "Autorizado"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xml := testutil.Envelope(tt.estado, testutil.FacturaXML(testutil.FacturaOptions{}))

			result := Parse(xml, DefaultOptions())
			requireCode(t, result, comprobante.CodeNotAuthorized)
		})
	}
}

func TestParse_EscapedEnvelope(t *testing.T) {
	result := Parse(testutil.EscapedEnvelope(testutil.FacturaXML(testutil.FacturaOptions{})), DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if result.Document.Ambiente != comprobante.AmbientePruebas {
		t.Errorf("expected ambiente 1, got %q", result.Document.Ambiente)
	}
	if result.Document.FechaAutorizacion != "2024-01-15T10:30:00-05:00" {
		t.Errorf("expected ISO fechaAutorizacion passthrough, got %q", result.Document.FechaAutorizacion)
	}
}

func TestParse_EnvelopeHashUsesInnerXML(t *testing.T) {
	inner := testutil.FacturaXML(testutil.FacturaOptions{})
	wrapped := Parse(testutil.Envelope(comprobante.EstadoAutorizado, inner), DefaultOptions())
	bare := Parse(inner, DefaultOptions())

	if !wrapped.Success || !bare.Success {
		t.Fatal("expected both parses to succeed")
	}
	if wrapped.Document.XMLHash != ComputeXMLHash(strings.TrimSpace(inner)) {
		t.Error("expected hash of the unwrapped comprobante")
	}
	if bare.Document.XMLHash != ComputeXMLHash(inner) {
		t.Error("expected hash of the bare input")
	}
}

func TestParse_WrappedEnvelope(t *testing.T) {
	inner := testutil.FacturaXML(testutil.FacturaOptions{})
	xml := `<RespuestaAutorizacionComprobante>
  <claveAccesoConsultada>` + testutil.ClaveFactura + `</claveAccesoConsultada>
  <numeroComprobantes>1</numeroComprobantes>
  <autorizaciones>
    <autorizacion>
      <estado>AUTORIZADO</estado>
      <numeroAutorizacion>` + testutil.ClaveFactura + `</numeroAutorizacion>
      <fechaAutorizacion>15/01/2024 10:30:00</fechaAutorizacion>
      <ambiente>PRODUCCIÓN</ambiente>
      <comprobante><![CDATA[` + inner + `]]></comprobante>
    </autorizacion>
  </autorizaciones>
</RespuestaAutorizacionComprobante>`

	result := Parse(xml, DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if result.Document.NumeroAutorizacion != testutil.ClaveFactura {
		t.Errorf("expected numeroAutorizacion from envelope, got %q", result.Document.NumeroAutorizacion)
	}
}

func TestParse_BareComprobanteUsesDefaultAuthorization(t *testing.T) {
	result := Parse(testutil.FacturaXML(testutil.FacturaOptions{}), DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if result.Document.Ambiente != comprobante.AmbienteProduccion {
		t.Errorf("expected default ambiente 2, got %q", result.Document.Ambiente)
	}
	if result.Document.NumeroAutorizacion != "" || result.Document.FechaAutorizacion != "" {
		t.Error("expected empty authorization number and date")
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		opts Options
		code string
	}{
		{"empty", "", DefaultOptions(), comprobante.CodeEmptyXML},
		{"whitespace", "  \n ", DefaultOptions(), comprobante.CodeEmptyXML},
		{"unclosed tag", "<factura><infoTributaria></factura>", DefaultOptions(), comprobante.CodeXMLSyntaxError},
		{"plain text", "no es xml", DefaultOptions(), comprobante.CodeXMLSyntaxError},
		{"second root before factura", "<otro/><factura><infoTributaria/><infoFactura/></factura>", DefaultOptions(), comprobante.CodeXMLSyntaxError},
		{"unclosed tag without validation", "<factura><infoTributaria></factura>", Options{}, comprobante.CodeXMLParseError},
		{"unknown root", "<proforma><numero>1</numero></proforma>", DefaultOptions(), comprobante.CodeUnknownDocumentType},
		{"factura without infoFactura", "<factura><infoTributaria><ruc>1790000000001</ruc></infoTributaria></factura>", DefaultOptions(), comprobante.CodeInvalidFacturaStructure},
		{"retencion without infoTributaria", "<comprobanteRetencion><infoCompRetencion/></comprobanteRetencion>", DefaultOptions(), comprobante.CodeInvalidRetencionStructure},
		{"nota credito without info", "<notaCredito><infoTributaria/></notaCredito>", DefaultOptions(), comprobante.CodeInvalidNotaCreditoStructure},
		{"nota debito without info", "<notaDebito><infoTributaria/></notaDebito>", DefaultOptions(), comprobante.CodeInvalidNotaDebitoStructure},
		{"guia without info", "<guiaRemision><infoTributaria/></guiaRemision>", DefaultOptions(), comprobante.CodeInvalidGuiaRemisionStructure},
		{"empty inner comprobante", "<autorizacion><estado>AUTORIZADO</estado><comprobante><![CDATA[ ]]></comprobante></autorizacion>", DefaultOptions(), comprobante.CodeComprobanteParseError},
		{"broken inner comprobante", "<autorizacion><estado>AUTORIZADO</estado><comprobante><![CDATA[<factura><x></factura>]]></comprobante></autorizacion>", DefaultOptions(), comprobante.CodeComprobanteParseError},
		{"missing emisor ruc", testutil.FacturaXML(testutil.FacturaOptions{RUC: " "}), DefaultOptions(), comprobante.CodeMissingEmisorRUC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, Parse(tt.xml, tt.opts), tt.code)
		})
	}
}

func TestParse_SyntaxErrorPosition(t *testing.T) {
	result := Parse("<factura>\n  <infoTributaria>\n</factura>", DefaultOptions())
	requireCode(t, result, comprobante.CodeXMLSyntaxError)

	if result.Errors[0].Line != 3 {
		t.Errorf("expected error on line 3, got %d", result.Errors[0].Line)
	}
	if result.Errors[0].Col == 0 {
		t.Error("expected a column")
	}
}

func TestParse_UnknownTypeListsRootKeys(t *testing.T) {
	result := Parse(`<?xml version="1.0"?><proforma/>`, DefaultOptions())
	requireCode(t, result, comprobante.CodeUnknownDocumentType)

	if result.Errors[0].Message != "Tipo de documento no reconocido. Elementos raíz: proforma" {
		t.Errorf("unexpected message %q", result.Errors[0].Message)
	}
}

func TestParse_MissingClaveAndRUC(t *testing.T) {
	xml := `<factura>
  <infoTributaria><razonSocial>SIN DATOS</razonSocial></infoTributaria>
  <infoFactura><fechaEmision>15/01/2024</fechaEmision></infoFactura>
</factura>`

	result := Parse(xml, DefaultOptions())
	if result.Success {
		t.Fatal("expected failure")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(result.Errors))
	}
	if result.Errors[0].Code != comprobante.CodeMissingClaveAcceso || result.Errors[1].Code != comprobante.CodeMissingEmisorRUC {
		t.Errorf("unexpected error codes %s, %s", result.Errors[0].Code, result.Errors[1].Code)
	}
}

func TestParse_Retencion(t *testing.T) {
	xml := testutil.RetencionXML(
		testutil.RetencionLine{Codigo: "1", BaseImponible: "50.00", ValorRetenido: "5.00"},
		testutil.RetencionLine{Codigo: "2", BaseImponible: "50.00", ValorRetenido: "3.00"},
	)

	result := Parse(xml, DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}

	doc := result.Document
	if doc.Retenciones == nil {
		t.Fatal("expected retenciones")
	}
	if doc.Retenciones.Renta != 500 {
		t.Errorf("expected renta 500, got %d", doc.Retenciones.Renta)
	}
	if doc.Retenciones.Iva != 300 {
		t.Errorf("expected iva 300, got %d", doc.Retenciones.Iva)
	}
	if doc.Valores.Total != 800 {
		t.Errorf("expected total 800, got %d", doc.Valores.Total)
	}
	if doc.Valores.Subtotal != 10000 {
		t.Errorf("expected subtotal 10000, got %d", doc.Valores.Subtotal)
	}
	if doc.Valores.Total != doc.Retenciones.Iva+doc.Retenciones.Renta {
		t.Error("expected total to equal the withheld amounts")
	}
	if doc.Emisor.RUC != testutil.RUCComprador {
		t.Errorf("expected withholding agent as emisor, got %s", doc.Emisor.RUC)
	}
	if doc.Receptor.Identificacion != testutil.RUCEmisor {
		t.Errorf("expected withheld party as receptor, got %s", doc.Receptor.Identificacion)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result.Warnings)
	}
}

func TestParse_RetencionIgnoresUnknownCodes(t *testing.T) {
	xml := testutil.RetencionXML(
		testutil.RetencionLine{Codigo: "1", BaseImponible: "50.00", ValorRetenido: "1.00"},
		testutil.RetencionLine{Codigo: "6", BaseImponible: "20.00", ValorRetenido: "9.99"},
	)

	result := Parse(xml, DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if result.Document.Valores.Total != 100 {
		t.Errorf("expected total 100, got %d", result.Document.Valores.Total)
	}
	if result.Document.Valores.Subtotal != 7000 {
		t.Errorf("expected every base summed (7000), got %d", result.Document.Valores.Subtotal)
	}
}

func TestParse_RetencionV2(t *testing.T) {
	xml := testutil.RetencionV2XML(
		testutil.RetencionLine{Codigo: "1", BaseImponible: "50.00", ValorRetenido: "5.00"},
		testutil.RetencionLine{Codigo: "2", BaseImponible: "50.00", ValorRetenido: "3.00"},
	)

	result := Parse(xml, DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if result.Document.Valores.Total != 800 {
		t.Errorf("expected total 800, got %d", result.Document.Valores.Total)
	}
}

func TestParse_RetencionWithoutLines(t *testing.T) {
	result := Parse(testutil.RetencionXML(), DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != comprobante.CodeNoRetentions {
		t.Errorf("expected NO_RETENTIONS warning, got %+v", result.Warnings)
	}
	if result.Document.Valores.Total != 0 {
		t.Errorf("expected total 0, got %d", result.Document.Valores.Total)
	}
}

func TestParse_NotaCredito(t *testing.T) {
	result := Parse(testutil.NotaCreditoXML("001-001-000000123"), DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}

	v := result.Document.Valores
	if v.Total != 2300 {
		t.Errorf("expected total from valorModificacion 2300, got %d", v.Total)
	}
	if v.Iva15 != 2000 || v.Iva != 300 {
		t.Errorf("expected iva15 2000 and iva 300, got %d and %d", v.Iva15, v.Iva)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result.Warnings)
	}
}

func TestParse_NotaCreditoWithoutReference(t *testing.T) {
	result := Parse(testutil.NotaCreditoXML(""), DefaultOptions())
	if !result.Success {
		t.Fatalf("expected warnings to be non fatal, got %+v", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != comprobante.CodeMissingDocModificado {
		t.Errorf("expected MISSING_DOC_MODIFICADO, got %+v", result.Warnings)
	}
}

func TestParse_NotaDebito(t *testing.T) {
	result := Parse(testutil.NotaDebitoXML("001-001-000000123"), DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}

	doc := result.Document
	if doc.Tipo != comprobante.TypeNotaDebito {
		t.Errorf("expected nota_debito, got %q", doc.Tipo)
	}
	if doc.Valores.Total != 1150 {
		t.Errorf("expected total 1150, got %d", doc.Valores.Total)
	}
	if doc.Valores.Iva != 150 || doc.Valores.Iva15 != 1000 {
		t.Errorf("expected iva 150 on base 1000, got %d on %d", doc.Valores.Iva, doc.Valores.Iva15)
	}
	if doc.FormaPago != "01" {
		t.Errorf("expected formaPago 01, got %q", doc.FormaPago)
	}

	missing := Parse(testutil.NotaDebitoXML(""), DefaultOptions())
	if len(missing.Warnings) != 1 || missing.Warnings[0].Code != comprobante.CodeMissingDocModificado {
		t.Errorf("expected MISSING_DOC_MODIFICADO, got %+v", missing.Warnings)
	}
}

func TestParse_GuiaRemision(t *testing.T) {
	result := Parse(testutil.GuiaRemisionXML("PBA-1234", 2), DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}

	doc := result.Document
	if doc.Valores != (comprobante.Valores{}) {
		t.Errorf("expected all amounts zero, got %+v", doc.Valores)
	}
	if doc.Receptor.Identificacion != "1791111111001" || doc.Receptor.RazonSocial != "TRANSPORTES SIERRA" {
		t.Errorf("expected transporter as receptor, got %+v", doc.Receptor)
	}
	if doc.Fecha != "2024-04-01" {
		t.Errorf("expected fechaIniTransporte as fecha, got %q", doc.Fecha)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result.Warnings)
	}
}

func TestParse_GuiaRemisionWarnings(t *testing.T) {
	result := Parse(testutil.GuiaRemisionXML("", 0), DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %+v", result.Warnings)
	}
	if result.Warnings[0].Code != comprobante.CodeNoDestinatarios || result.Warnings[1].Code != comprobante.CodeMissingPlaca {
		t.Errorf("unexpected warning codes %+v", result.Warnings)
	}
}

func TestParse_StrictMode(t *testing.T) {
	xml := testutil.GuiaRemisionXML("", 1)

	strict := DefaultOptions()
	strict.Strict = true

	result := Parse(xml, strict)
	requireCode(t, result, comprobante.CodeMissingPlaca)

	if !strings.HasPrefix(result.Errors[0].Message, "[Strict] ") {
		t.Errorf("expected [Strict] prefix, got %q", result.Errors[0].Message)
	}
	if len(result.Warnings) != 0 {
		t.Error("expected warnings to be promoted, not forwarded")
	}

	// Strict mode has no effect on a clean document.
	clean := Parse(testutil.GuiaRemisionXML("PBA-1234", 1), strict)
	if !clean.Success {
		t.Errorf("expected clean document to pass strict mode, got %+v", clean.Errors)
	}
}

func TestParse_IncludeWarningsDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeWarnings = false

	result := Parse(testutil.GuiaRemisionXML("", 0), opts)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if result.Warnings != nil {
		t.Errorf("expected warnings to be dropped, got %+v", result.Warnings)
	}
}

func TestParse_NamespacePrefixes(t *testing.T) {
	xml := `<ns:factura xmlns:ns="http://www.sri.gob.ec/factura">
  <ns:infoTributaria>
    <ns:razonSocial>DISTRIBUIDORA ANDINA S.A.</ns:razonSocial>
    <ns:ruc>1790000000001</ns:ruc>
    <ns:claveAcceso>` + testutil.ClaveFactura + `</ns:claveAcceso>
  </ns:infoTributaria>
  <ns:infoFactura>
    <ns:fechaEmision>15/01/2024</ns:fechaEmision>
    <ns:importeTotal>1.00</ns:importeTotal>
  </ns:infoFactura>
</ns:factura>`

	result := Parse(xml, DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if result.Document.Valores.Total != 100 {
		t.Errorf("expected total 100, got %d", result.Document.Valores.Total)
	}
}

func TestDetectDocumentType_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		roots    []string
		expected comprobante.DocumentType
	}{
		{"factura beats nota credito", []string{"notaCredito", "factura"}, comprobante.TypeFactura},
		{"retencion beats guia", []string{"guiaRemision", "comprobanteRetencion"}, comprobante.TypeRetencion},
		{"nota credito beats nota debito", []string{"notaDebito", "notaCredito"}, comprobante.TypeNotaCredito},
		{"nota debito beats guia", []string{"guiaRemision", "notaDebito"}, comprobante.TypeNotaDebito},
		{"single guia", []string{"guiaRemision"}, comprobante.TypeGuiaRemision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := etree.NewDocument()
			for _, root := range tt.roots {
				doc.CreateElement(root)
			}

			detection := DetectDocumentType(doc)
			if !detection.Detected {
				t.Fatalf("expected detection, got error %q", detection.Error)
			}
			if detection.Type != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, detection.Type)
			}
		})
	}
}

func TestDetectDocumentType_Empty(t *testing.T) {
	detection := DetectDocumentType(etree.NewDocument())
	if detection.Detected {
		t.Error("expected empty tree not to be detected")
	}
	if detection.Error == "" {
		t.Error("expected an error message")
	}
}

func TestDocumentTypeFromCodDoc(t *testing.T) {
	tipo, ok := DocumentTypeFromCodDoc(" 07 ")
	if !ok || tipo != comprobante.TypeRetencion {
		t.Errorf("expected retencion, got %q (%v)", tipo, ok)
	}
}

func TestIsValidSRIDocument(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		expected bool
	}{
		{"factura", testutil.FacturaXML(testutil.FacturaOptions{}), true},
		{"envelope", testutil.Envelope(comprobante.EstadoNoAutorizado, "<factura/>"), true},
		{"unknown root", "<proforma/>", false},
		{"malformed", "<factura>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSRIDocument(tt.xml); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestEnvelope_CDATAFlag(t *testing.T) {
	doc, err := parseTree(testutil.Envelope(comprobante.EstadoAutorizado, "<factura/>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	env, err := extractEnvelope(findEnvelope(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !env.CDATA {
		t.Error("expected CDATA comprobante to be flagged")
	}
	if env.Comprobante != "<factura/>" {
		t.Errorf("expected inner xml, got %q", env.Comprobante)
	}

	doc, err = parseTree(testutil.EscapedEnvelope("<factura/>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env, err = extractEnvelope(findEnvelope(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.CDATA {
		t.Error("expected escaped comprobante not to be flagged as CDATA")
	}
}

func TestEnvelope_EmbeddedElements(t *testing.T) {
	xml := `<autorizacion>
  <estado>AUTORIZADO</estado>
  <numeroAutorizacion>` + testutil.ClaveFactura + `</numeroAutorizacion>
  <comprobante>` + strings.TrimPrefix(testutil.FacturaXML(testutil.FacturaOptions{}), `<?xml version="1.0" encoding="UTF-8"?>`) + `</comprobante>
</autorizacion>`

	result := Parse(xml, DefaultOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Errors)
	}
	if result.Document.Valores.Total != 11200 {
		t.Errorf("expected total 11200, got %d", result.Document.Valores.Total)
	}
}
