package parser

import (
	"github.com/beevik/etree"

	"3tcapital/sriats/internal/core/comprobante"
)

// The *XML types below are the typed view of each SRI schema. The generic
// tree is only walked while decoding them; the per-type parsers never see it.

type infoTributariaXML struct {
	Ambiente        string
	TipoEmision     string
	RazonSocial     string
	NombreComercial string
	RUC             string
	ClaveAcceso     string
	CodDoc          string
	Estab           string
	PtoEmi          string
	Secuencial      string
}

type facturaXML struct {
	InfoTributaria              infoTributariaXML
	FechaEmision                string
	TipoIdentificacionComprador string
	RazonSocialComprador        string
	IdentificacionComprador     string
	TotalSinImpuestos           string
	TotalConImpuestos           []comprobante.TaxEntry
	Propina                     string
	ImporteTotal                string
	FormasPago                  []string
}

type impuestoRetenidoXML struct {
	Codigo            string
	CodigoRetencion   string
	BaseImponible     string
	PorcentajeRetener string
	ValorRetenido     string
}

type retencionXML struct {
	InfoTributaria                   infoTributariaXML
	FechaEmision                     string
	TipoIdentificacionSujetoRetenido string
	IdentificacionSujetoRetenido     string
	RazonSocialSujetoRetenido        string
	PeriodoFiscal                    string
	Impuestos                        []impuestoRetenidoXML
}

type notaCreditoXML struct {
	InfoTributaria              infoTributariaXML
	FechaEmision                string
	TipoIdentificacionComprador string
	RazonSocialComprador        string
	IdentificacionComprador     string
	CodDocModificado            string
	NumDocModificado            string
	TotalSinImpuestos           string
	ValorModificacion           string
	TotalConImpuestos           []comprobante.TaxEntry
}

type notaDebitoXML struct {
	InfoTributaria              infoTributariaXML
	FechaEmision                string
	TipoIdentificacionComprador string
	RazonSocialComprador        string
	IdentificacionComprador     string
	CodDocModificado            string
	NumDocModificado            string
	TotalSinImpuestos           string
	Impuestos                   []comprobante.TaxEntry
	ValorTotal                  string
	FormasPago                  []string
}

type guiaRemisionXML struct {
	InfoTributaria                  infoTributariaXML
	FechaIniTransporte              string
	TipoIdentificacionTransportista string
	RUCTransportista                string
	RazonSocialTransportista        string
	Placa                           string
	Destinatarios                   int
}

func decodeInfoTributaria(root *etree.Element) (infoTributariaXML, bool) {
	el := root.SelectElement("infoTributaria")
	if el == nil {
		return infoTributariaXML{}, false
	}

	return infoTributariaXML{
		Ambiente:        text(el, "ambiente"),
		TipoEmision:     text(el, "tipoEmision"),
		RazonSocial:     text(el, "razonSocial"),
		NombreComercial: text(el, "nombreComercial"),
		RUC:             text(el, "ruc"),
		ClaveAcceso:     text(el, "claveAcceso"),
		CodDoc:          text(el, "codDoc"),
		Estab:           text(el, "estab"),
		PtoEmi:          text(el, "ptoEmi"),
		Secuencial:      text(el, "secuencial"),
	}, true
}

func formasPago(info *etree.Element) []string {
	var out []string
	for _, pago := range children(info, "pagos", "pago") {
		if forma := text(pago, "formaPago"); forma != "" {
			out = append(out, forma)
		}
	}
	return out
}

func decodeFactura(root *etree.Element) (facturaXML, bool) {
	tributaria, ok := decodeInfoTributaria(root)
	info := root.SelectElement("infoFactura")
	if !ok || info == nil {
		return facturaXML{}, false
	}

	return facturaXML{
		InfoTributaria:              tributaria,
		FechaEmision:                text(info, "fechaEmision"),
		TipoIdentificacionComprador: text(info, "tipoIdentificacionComprador"),
		RazonSocialComprador:        text(info, "razonSocialComprador"),
		IdentificacionComprador:     text(info, "identificacionComprador"),
		TotalSinImpuestos:           text(info, "totalSinImpuestos"),
		TotalConImpuestos:           taxEntries(children(info, "totalConImpuestos", "totalImpuesto")),
		Propina:                     text(info, "propina"),
		ImporteTotal:                text(info, "importeTotal"),
		FormasPago:                  formasPago(info),
	}, true
}

func decodeRetencion(root *etree.Element) (retencionXML, bool) {
	tributaria, ok := decodeInfoTributaria(root)
	info := root.SelectElement("infoCompRetencion")
	if !ok || info == nil {
		return retencionXML{}, false
	}

	// Version 1.0.0 lists impuestos directly; version 2.0.0 nests them per
	// supporting document.
	lines := children(root, "impuestos", "impuesto")
	if len(lines) == 0 {
		for _, sustento := range children(root, "docsSustento", "docSustento") {
			lines = append(lines, children(sustento, "retenciones", "retencion")...)
		}
	}

	impuestos := make([]impuestoRetenidoXML, 0, len(lines))
	for _, line := range lines {
		impuestos = append(impuestos, impuestoRetenidoXML{
			Codigo:            text(line, "codigo"),
			CodigoRetencion:   text(line, "codigoRetencion"),
			BaseImponible:     text(line, "baseImponible"),
			PorcentajeRetener: text(line, "porcentajeRetener"),
			ValorRetenido:     text(line, "valorRetenido"),
		})
	}

	return retencionXML{
		InfoTributaria:                   tributaria,
		FechaEmision:                     text(info, "fechaEmision"),
		TipoIdentificacionSujetoRetenido: text(info, "tipoIdentificacionSujetoRetenido"),
		IdentificacionSujetoRetenido:     text(info, "identificacionSujetoRetenido"),
		RazonSocialSujetoRetenido:        text(info, "razonSocialSujetoRetenido"),
		PeriodoFiscal:                    text(info, "periodoFiscal"),
		Impuestos:                        impuestos,
	}, true
}

func decodeNotaCredito(root *etree.Element) (notaCreditoXML, bool) {
	tributaria, ok := decodeInfoTributaria(root)
	info := root.SelectElement("infoNotaCredito")
	if !ok || info == nil {
		return notaCreditoXML{}, false
	}

	return notaCreditoXML{
		InfoTributaria:              tributaria,
		FechaEmision:                text(info, "fechaEmision"),
		TipoIdentificacionComprador: text(info, "tipoIdentificacionComprador"),
		RazonSocialComprador:        text(info, "razonSocialComprador"),
		IdentificacionComprador:     text(info, "identificacionComprador"),
		CodDocModificado:            text(info, "codDocModificado"),
		NumDocModificado:            text(info, "numDocModificado"),
		TotalSinImpuestos:           text(info, "totalSinImpuestos"),
		ValorModificacion:           text(info, "valorModificacion"),
		TotalConImpuestos:           taxEntries(children(info, "totalConImpuestos", "totalImpuesto")),
	}, true
}

func decodeNotaDebito(root *etree.Element) (notaDebitoXML, bool) {
	tributaria, ok := decodeInfoTributaria(root)
	info := root.SelectElement("infoNotaDebito")
	if !ok || info == nil {
		return notaDebitoXML{}, false
	}

	impuestos := taxEntries(children(info, "impuestos", "impuesto"))
	if len(impuestos) == 0 {
		impuestos = taxEntries(children(info, "totalConImpuestos", "totalImpuesto"))
	}

	return notaDebitoXML{
		InfoTributaria:              tributaria,
		FechaEmision:                text(info, "fechaEmision"),
		TipoIdentificacionComprador: text(info, "tipoIdentificacionComprador"),
		RazonSocialComprador:        text(info, "razonSocialComprador"),
		IdentificacionComprador:     text(info, "identificacionComprador"),
		CodDocModificado:            text(info, "codDocModificado"),
		NumDocModificado:            text(info, "numDocModificado"),
		TotalSinImpuestos:           text(info, "totalSinImpuestos"),
		Impuestos:                   impuestos,
		ValorTotal:                  text(info, "valorTotal"),
		FormasPago:                  formasPago(info),
	}, true
}

func decodeGuiaRemision(root *etree.Element) (guiaRemisionXML, bool) {
	tributaria, ok := decodeInfoTributaria(root)
	info := root.SelectElement("infoGuiaRemision")
	if !ok || info == nil {
		return guiaRemisionXML{}, false
	}

	return guiaRemisionXML{
		InfoTributaria:                  tributaria,
		FechaIniTransporte:              text(info, "fechaIniTransporte"),
		TipoIdentificacionTransportista: text(info, "tipoIdentificacionTransportista"),
		RUCTransportista:                text(info, "rucTransportista"),
		RazonSocialTransportista:        text(info, "razonSocialTransportista"),
		Placa:                           text(info, "placa"),
		Destinatarios:                   len(children(root, "destinatarios", "destinatario")),
	}, true
}
