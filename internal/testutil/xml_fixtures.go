package testutil

import (
	"fmt"
	"strings"
)

// Access keys with valid check digits used across tests.
const (
	ClaveFactura      = "1501202401179000000000120010010000001231234567811"
	ClaveFacturaB     = "2001202401179200000000120020030000007778765432113"
	ClaveRetencion    = "1501202407179000000000120010010000000451234567814"
	ClaveNotaCredito  = "1002202404179000000000120010010000000101111111119"
	ClaveNotaDebito   = "0503202405179000000000120010010000000202222222214"
	ClaveGuiaRemision = "0104202406179000000000120010010000000303333333312"

	RUCEmisor    = "1790000000001"
	RUCComprador = "0990000000001"
)

// FacturaOptions customizes FacturaXML.
type FacturaOptions struct {
	Clave          string
	RUC            string
	RazonSocial    string
	CompradorTipo  string
	CompradorID    string
	CompradorRazon string
	Fecha          string // DD/MM/YYYY
	Subtotal       string
	Impuestos      []Impuesto
	Total          string
	FormaPago      string
}

// Impuesto is one totalImpuesto line.
type Impuesto struct {
	Codigo           string
	CodigoPorcentaje string
	BaseImponible    string
	Valor            string
}

// FacturaXML renders a bare factura. Zero-valued options fall back to a
// $100.00 sale with 12% IVA ($112.00 total).
func FacturaXML(o FacturaOptions) string {
	if o.Clave == "" {
		o.Clave = ClaveFactura
	}
	if o.RUC == "" {
		o.RUC = RUCEmisor
	}
	if o.RazonSocial == "" {
		o.RazonSocial = "DISTRIBUIDORA ANDINA S.A."
	}
	if o.CompradorTipo == "" {
		o.CompradorTipo = "04"
	}
	if o.CompradorID == "" {
		o.CompradorID = RUCComprador
	}
	if o.CompradorRazon == "" {
		o.CompradorRazon = "COMERCIAL GUAYAS CIA. LTDA."
	}
	if o.Fecha == "" {
		o.Fecha = "15/01/2024"
	}
	if o.Subtotal == "" {
		o.Subtotal = "100.00"
	}
	if o.Impuestos == nil {
		o.Impuestos = []Impuesto{{Codigo: "2", CodigoPorcentaje: "2", BaseImponible: "100.00", Valor: "12.00"}}
	}
	if o.Total == "" {
		o.Total = "112.00"
	}
	if o.FormaPago == "" {
		o.FormaPago = "20"
	}

	var impuestos strings.Builder
	for _, imp := range o.Impuestos {
		fmt.Fprintf(&impuestos, `
      <totalImpuesto>
        <codigo>%s</codigo>
        <codigoPorcentaje>%s</codigoPorcentaje>
        <baseImponible>%s</baseImponible>
        <valor>%s</valor>
      </totalImpuesto>`, imp.Codigo, imp.CodigoPorcentaje, imp.BaseImponible, imp.Valor)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<factura id="comprobante" version="1.1.0">
  <infoTributaria>
    <ambiente>2</ambiente>
    <tipoEmision>1</tipoEmision>
    <razonSocial>%s</razonSocial>
    <nombreComercial>ANDINA</nombreComercial>
    <ruc>%s</ruc>
    <claveAcceso>%s</claveAcceso>
    <codDoc>01</codDoc>
    <estab>001</estab>
    <ptoEmi>001</ptoEmi>
    <secuencial>000000123</secuencial>
    <dirMatriz>Av. Amazonas N34-451</dirMatriz>
  </infoTributaria>
  <infoFactura>
    <fechaEmision>%s</fechaEmision>
    <tipoIdentificacionComprador>%s</tipoIdentificacionComprador>
    <razonSocialComprador>%s</razonSocialComprador>
    <identificacionComprador>%s</identificacionComprador>
    <totalSinImpuestos>%s</totalSinImpuestos>
    <totalDescuento>0.00</totalDescuento>
    <totalConImpuestos>%s
    </totalConImpuestos>
    <propina>0.00</propina>
    <importeTotal>%s</importeTotal>
    <moneda>DOLAR</moneda>
    <pagos>
      <pago>
        <formaPago>%s</formaPago>
        <total>%s</total>
      </pago>
    </pagos>
  </infoFactura>
</factura>`,
		o.RazonSocial, o.RUC, o.Clave,
		o.Fecha, o.CompradorTipo, o.CompradorRazon, o.CompradorID,
		o.Subtotal, impuestos.String(), o.Total, o.FormaPago, o.Total)
}

// Envelope wraps a comprobante in an SRI authorization response, with the
// comprobante inside a CDATA section.
func Envelope(estado, comprobante string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<autorizacion>
  <estado>%s</estado>
  <numeroAutorizacion>%s</numeroAutorizacion>
  <fechaAutorizacion>15/01/2024 10:30:00</fechaAutorizacion>
  <ambiente>PRODUCCIÓN</ambiente>
  <comprobante><![CDATA[%s]]></comprobante>
</autorizacion>`, estado, ClaveFactura, comprobante)
}

// EscapedEnvelope wraps a comprobante as escaped text instead of CDATA.
func EscapedEnvelope(comprobante string) string {
	escaped := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(comprobante)
	return fmt.Sprintf(`<autorizacion>
  <estado>AUTORIZADO</estado>
  <numeroAutorizacion>%s</numeroAutorizacion>
  <fechaAutorizacion>2024-01-15T10:30:00-05:00</fechaAutorizacion>
  <ambiente>PRUEBAS</ambiente>
  <comprobante>%s</comprobante>
</autorizacion>`, ClaveFactura, escaped)
}

// RetencionLine is one withheld tax line.
type RetencionLine struct {
	Codigo        string
	BaseImponible string
	ValorRetenido string
}

// RetencionXML renders a version 1.0.0 comprobante de retención issued by
// RUCComprador to RUCEmisor.
func RetencionXML(lines ...RetencionLine) string {
	var impuestos strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&impuestos, `
    <impuesto>
      <codigo>%s</codigo>
      <codigoRetencion>312</codigoRetencion>
      <baseImponible>%s</baseImponible>
      <porcentajeRetener>1.75</porcentajeRetener>
      <valorRetenido>%s</valorRetenido>
      <codDocSustento>01</codDocSustento>
      <numDocSustento>001001000000123</numDocSustento>
      <fechaEmisionDocSustento>15/01/2024</fechaEmisionDocSustento>
    </impuesto>`, line.Codigo, line.BaseImponible, line.ValorRetenido)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<comprobanteRetencion id="comprobante" version="1.0.0">
  <infoTributaria>
    <ambiente>2</ambiente>
    <tipoEmision>1</tipoEmision>
    <razonSocial>COMERCIAL GUAYAS CIA. LTDA.</razonSocial>
    <ruc>%s</ruc>
    <claveAcceso>%s</claveAcceso>
    <codDoc>07</codDoc>
    <estab>001</estab>
    <ptoEmi>001</ptoEmi>
    <secuencial>000000045</secuencial>
  </infoTributaria>
  <infoCompRetencion>
    <fechaEmision>16/01/2024</fechaEmision>
    <tipoIdentificacionSujetoRetenido>04</tipoIdentificacionSujetoRetenido>
    <razonSocialSujetoRetenido>DISTRIBUIDORA ANDINA S.A.</razonSocialSujetoRetenido>
    <identificacionSujetoRetenido>%s</identificacionSujetoRetenido>
    <periodoFiscal>01/2024</periodoFiscal>
  </infoCompRetencion>
  <impuestos>%s
  </impuestos>
</comprobanteRetencion>`, RUCComprador, ClaveRetencion, RUCEmisor, impuestos.String())
}

// RetencionV2XML renders a version 2.0.0 retención where the lines sit
// under docsSustento.
func RetencionV2XML(lines ...RetencionLine) string {
	var retenciones strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&retenciones, `
          <retencion>
            <codigo>%s</codigo>
            <codigoRetencion>312</codigoRetencion>
            <baseImponible>%s</baseImponible>
            <porcentajeRetener>1.75</porcentajeRetener>
            <valorRetenido>%s</valorRetenido>
          </retencion>`, line.Codigo, line.BaseImponible, line.ValorRetenido)
	}

	return fmt.Sprintf(`<comprobanteRetencion id="comprobante" version="2.0.0">
  <infoTributaria>
    <razonSocial>COMERCIAL GUAYAS CIA. LTDA.</razonSocial>
    <ruc>%s</ruc>
    <claveAcceso>%s</claveAcceso>
    <codDoc>07</codDoc>
  </infoTributaria>
  <infoCompRetencion>
    <fechaEmision>16/01/2024</fechaEmision>
    <tipoIdentificacionSujetoRetenido>04</tipoIdentificacionSujetoRetenido>
    <razonSocialSujetoRetenido>DISTRIBUIDORA ANDINA S.A.</razonSocialSujetoRetenido>
    <identificacionSujetoRetenido>%s</identificacionSujetoRetenido>
    <periodoFiscal>01/2024</periodoFiscal>
  </infoCompRetencion>
  <docsSustento>
    <docSustento>
      <codSustento>01</codSustento>
      <codDocSustento>01</codDocSustento>
      <retenciones>%s
      </retenciones>
    </docSustento>
  </docsSustento>
</comprobanteRetencion>`, RUCComprador, ClaveRetencion, RUCEmisor, retenciones.String())
}

// NotaCreditoXML renders a nota de crédito. An empty numDocModificado omits the element.
func NotaCreditoXML(numDocModificado string) string {
	modificado := ""
	if numDocModificado != "" {
		modificado = "<numDocModificado>" + numDocModificado + "</numDocModificado>"
	}

	return fmt.Sprintf(`<notaCredito id="comprobante" version="1.1.0">
  <infoTributaria>
    <razonSocial>DISTRIBUIDORA ANDINA S.A.</razonSocial>
    <ruc>%s</ruc>
    <claveAcceso>%s</claveAcceso>
    <codDoc>04</codDoc>
  </infoTributaria>
  <infoNotaCredito>
    <fechaEmision>10/02/2024</fechaEmision>
    <tipoIdentificacionComprador>04</tipoIdentificacionComprador>
    <razonSocialComprador>COMERCIAL GUAYAS CIA. LTDA.</razonSocialComprador>
    <identificacionComprador>%s</identificacionComprador>
    <codDocModificado>01</codDocModificado>
    %s
    <totalSinImpuestos>20.00</totalSinImpuestos>
    <valorModificacion>23.00</valorModificacion>
    <totalConImpuestos>
      <totalImpuesto>
        <codigo>2</codigo>
        <codigoPorcentaje>4</codigoPorcentaje>
        <baseImponible>20.00</baseImponible>
        <valor>3.00</valor>
      </totalImpuesto>
    </totalConImpuestos>
    <motivo>Devolución</motivo>
  </infoNotaCredito>
</notaCredito>`, RUCEmisor, ClaveNotaCredito, RUCComprador, modificado)
}

// NotaDebitoXML renders a nota de débito with taxes under impuestos/impuesto.
func NotaDebitoXML(numDocModificado string) string {
	modificado := ""
	if numDocModificado != "" {
		modificado = "<numDocModificado>" + numDocModificado + "</numDocModificado>"
	}

	return fmt.Sprintf(`<notaDebito id="comprobante" version="1.0.0">
  <infoTributaria>
    <razonSocial>DISTRIBUIDORA ANDINA S.A.</razonSocial>
    <ruc>%s</ruc>
    <claveAcceso>%s</claveAcceso>
    <codDoc>05</codDoc>
  </infoTributaria>
  <infoNotaDebito>
    <fechaEmision>05/03/2024</fechaEmision>
    <tipoIdentificacionComprador>04</tipoIdentificacionComprador>
    <razonSocialComprador>COMERCIAL GUAYAS CIA. LTDA.</razonSocialComprador>
    <identificacionComprador>%s</identificacionComprador>
    <codDocModificado>01</codDocModificado>
    %s
    <totalSinImpuestos>10.00</totalSinImpuestos>
    <impuestos>
      <impuesto>
        <codigo>2</codigo>
        <codigoPorcentaje>4</codigoPorcentaje>
        <tarifa>15</tarifa>
        <baseImponible>10.00</baseImponible>
        <valor>1.50</valor>
      </impuesto>
    </impuestos>
    <valorTotal>11.50</valorTotal>
    <pagos>
      <pago>
        <formaPago>01</formaPago>
        <total>11.50</total>
      </pago>
    </pagos>
  </infoNotaDebito>
</notaDebito>`, RUCEmisor, ClaveNotaDebito, RUCComprador, modificado)
}

// GuiaRemisionXML renders a guía de remisión.
func GuiaRemisionXML(placa string, destinatarios int) string {
	var dest strings.Builder
	for i := 0; i < destinatarios; i++ {
		fmt.Fprintf(&dest, `
    <destinatario>
      <identificacionDestinatario>%s</identificacionDestinatario>
      <razonSocialDestinatario>CLIENTE %d</razonSocialDestinatario>
      <dirDestinatario>Guayaquil</dirDestinatario>
      <motivoTraslado>Venta</motivoTraslado>
    </destinatario>`, RUCComprador, i+1)
	}

	return fmt.Sprintf(`<guiaRemision id="comprobante" version="1.1.0">
  <infoTributaria>
    <razonSocial>DISTRIBUIDORA ANDINA S.A.</razonSocial>
    <ruc>%s</ruc>
    <claveAcceso>%s</claveAcceso>
    <codDoc>06</codDoc>
  </infoTributaria>
  <infoGuiaRemision>
    <dirPartida>Quito</dirPartida>
    <razonSocialTransportista>TRANSPORTES SIERRA</razonSocialTransportista>
    <tipoIdentificacionTransportista>04</tipoIdentificacionTransportista>
    <rucTransportista>1791111111001</rucTransportista>
    <fechaIniTransporte>01/04/2024</fechaIniTransporte>
    <fechaFinTransporte>02/04/2024</fechaFinTransporte>
    <placa>%s</placa>
  </infoGuiaRemision>
  <destinatarios>%s
  </destinatarios>
</guiaRemision>`, RUCEmisor, ClaveGuiaRemision, placa, dest.String())
}
