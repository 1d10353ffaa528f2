// Package ats holds the Anexo Transaccional Simplificado report model.
package ats

import (
	"errors"
	"time"

	"3tcapital/sriats/internal/core/comprobante"
)

// TransactionType tells whether a document is a purchase or a sale for the taxpayer.
type TransactionType string

const (
	Compra TransactionType = "compra"
	Venta  TransactionType = "venta"
)

// ReportType is the set of sections present in a report.
type ReportType string

const (
	ReportCompras  ReportType = "compras"
	ReportVentas   ReportType = "ventas"
	ReportCompleto ReportType = "completo"
)

// Label returns the display name of the report type.
func (r ReportType) Label() string {
	switch r {
	case ReportCompras:
		return "Compras"
	case ReportVentas:
		return "Ventas"
	default:
		return "Completo"
	}
}

// Format is an output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatZIP  Format = "zip"
)

// Section names a report section for single-section CSV export.
type Section string

const (
	SectionCompras Section = "compras"
	SectionVentas  Section = "ventas"
)

var (
	// ErrNoData is returned when a render would produce no rows at all.
	ErrNoData = errors.New("no hay datos para exportar")
	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = errors.New("formato no soportado")
)

// ClassifiedDocument pairs a document with its transaction type.
type ClassifiedDocument struct {
	Document        comprobante.Document `json:"document"`
	TransactionType TransactionType      `json:"transactionType"`
}

// RowBase carries the counterparty and document identity shared by both row shapes.
type RowBase struct {
	TipoIdentificacion string                   `json:"tipoIdentificacion"`
	Identificacion     string                   `json:"identificacion"`
	RazonSocial        string                   `json:"razonSocial"`
	TipoComprobante    comprobante.DocumentType `json:"tipoComprobante"`
	CodigoComprobante  string                   `json:"codigoComprobante"`
	FechaEmision       string                   `json:"fechaEmision"`
	Establecimiento    string                   `json:"establecimiento"`
	PuntoEmision       string                   `json:"puntoEmision"`
	Secuencial         string                   `json:"secuencial"`
	Autorizacion       string                   `json:"autorizacion"`
	ClaveAcceso        string                   `json:"claveAcceso"`
}

// NumeroDocumento formats the row's document number as EEE-PPP-SSSSSSSSS.
func (r RowBase) NumeroDocumento() string {
	return r.Establecimiento + "-" + r.PuntoEmision + "-" + r.Secuencial
}

// ComprasRow is one purchase. The counterparty is the document's emisor.
// Amounts are cents.
type ComprasRow struct {
	RowBase
	BaseIvaGravada  int64  `json:"baseIvaGravada"`
	BaseIva0        int64  `json:"baseIva0"`
	BaseNoObjetoIva int64  `json:"baseNoObjetoIva"`
	MontoIva        int64  `json:"montoIva"`
	MontoIce        int64  `json:"montoIce"`
	Total           int64  `json:"total"`
	RetencionIva    int64  `json:"retencionIva"`
	RetencionRenta  int64  `json:"retencionRenta"`
	FormaPago       string `json:"formaPago,omitempty"`
}

// VentasRow is one sale. The counterparty is the document's receptor.
type VentasRow struct {
	RowBase
	BaseIvaGravada  int64 `json:"baseIvaGravada"`
	BaseIva0        int64 `json:"baseIva0"`
	BaseNoObjetoIva int64 `json:"baseNoObjetoIva"`
	MontoIva        int64 `json:"montoIva"`
	MontoIce        int64 `json:"montoIce"`
	Total           int64 `json:"total"`
}

// Totals sums the monetary fields of compras rows.
type Totals struct {
	BaseIvaGravada  int64 `json:"baseIvaGravada"`
	BaseIva0        int64 `json:"baseIva0"`
	BaseNoObjetoIva int64 `json:"baseNoObjetoIva"`
	MontoIva        int64 `json:"montoIva"`
	MontoIce        int64 `json:"montoIce"`
	Total           int64 `json:"total"`
	RetencionIva    int64 `json:"retencionIva"`
	RetencionRenta  int64 `json:"retencionRenta"`
}

// AddRow adds a compras row field by field.
func (t *Totals) AddRow(row ComprasRow) {
	t.BaseIvaGravada += row.BaseIvaGravada
	t.BaseIva0 += row.BaseIva0
	t.BaseNoObjetoIva += row.BaseNoObjetoIva
	t.MontoIva += row.MontoIva
	t.MontoIce += row.MontoIce
	t.Total += row.Total
	t.RetencionIva += row.RetencionIva
	t.RetencionRenta += row.RetencionRenta
}

// Add merges other into t.
func (t *Totals) Add(other Totals) {
	t.BaseIvaGravada += other.BaseIvaGravada
	t.BaseIva0 += other.BaseIva0
	t.BaseNoObjetoIva += other.BaseNoObjetoIva
	t.MontoIva += other.MontoIva
	t.MontoIce += other.MontoIce
	t.Total += other.Total
	t.RetencionIva += other.RetencionIva
	t.RetencionRenta += other.RetencionRenta
}

// VentasTotals sums the monetary fields of ventas rows. Sales carry no retentions.
type VentasTotals struct {
	BaseIvaGravada  int64 `json:"baseIvaGravada"`
	BaseIva0        int64 `json:"baseIva0"`
	BaseNoObjetoIva int64 `json:"baseNoObjetoIva"`
	MontoIva        int64 `json:"montoIva"`
	MontoIce        int64 `json:"montoIce"`
	Total           int64 `json:"total"`
}

// AddRow adds a ventas row field by field.
func (t *VentasTotals) AddRow(row VentasRow) {
	t.BaseIvaGravada += row.BaseIvaGravada
	t.BaseIva0 += row.BaseIva0
	t.BaseNoObjetoIva += row.BaseNoObjetoIva
	t.MontoIva += row.MontoIva
	t.MontoIce += row.MontoIce
	t.Total += row.Total
}

// Add merges other into t.
func (t *VentasTotals) Add(other VentasTotals) {
	t.BaseIvaGravada += other.BaseIvaGravada
	t.BaseIva0 += other.BaseIva0
	t.BaseNoObjetoIva += other.BaseNoObjetoIva
	t.MontoIva += other.MontoIva
	t.MontoIce += other.MontoIce
	t.Total += other.Total
}

// Counterparty identifies a supplier or a client.
type Counterparty struct {
	TipoIdentificacion string `json:"tipoIdentificacion"`
	Identificacion     string `json:"identificacion"`
	RazonSocial        string `json:"razonSocial"`
}

// ProveedorAgregado groups the purchases from one supplier.
type ProveedorAgregado struct {
	Proveedor          Counterparty `json:"proveedor"`
	NumeroComprobantes int          `json:"numeroComprobantes"`
	Totales            Totals       `json:"totales"`
	Comprobantes       []ComprasRow `json:"comprobantes"`
}

// ClienteAgregado groups the sales to one client.
type ClienteAgregado struct {
	Cliente            Counterparty `json:"cliente"`
	NumeroComprobantes int          `json:"numeroComprobantes"`
	Totales            VentasTotals `json:"totales"`
	Comprobantes       []VentasRow  `json:"comprobantes"`
}

// Resumen summarizes the compras section.
type Resumen struct {
	TotalComprobantes int                              `json:"totalComprobantes"`
	PorTipo           map[comprobante.DocumentType]int `json:"porTipo"`
	Totales           Totals                           `json:"totales"`
}

// VentasResumen summarizes the ventas section.
type VentasResumen struct {
	TotalComprobantes int                              `json:"totalComprobantes"`
	PorTipo           map[comprobante.DocumentType]int `json:"porTipo"`
	Totales           VentasTotals                     `json:"totales"`
}

// ComprasSection is the purchases half of a report.
type ComprasSection struct {
	Resumen      Resumen             `json:"resumen"`
	PorProveedor []ProveedorAgregado `json:"porProveedor"`
	Filas        []ComprasRow        `json:"filas"`
}

// VentasSection is the sales half of a report.
type VentasSection struct {
	Resumen    VentasResumen     `json:"resumen"`
	PorCliente []ClienteAgregado `json:"porCliente"`
	Filas      []VentasRow       `json:"filas"`
}

// Report is a computed ATS report for one period. A nil section means the
// batch had no documents of that kind.
type Report struct {
	Periodo    string          `json:"periodo"`
	GeneradoEn time.Time       `json:"generadoEn"`
	Tipo       ReportType      `json:"tipo"`
	Compras    *ComprasSection `json:"compras,omitempty"`
	Ventas     *VentasSection  `json:"ventas,omitempty"`
}

// HasRows reports whether any section has at least one row.
func (r Report) HasRows() bool {
	return (r.Compras != nil && len(r.Compras.Filas) > 0) ||
		(r.Ventas != nil && len(r.Ventas.Filas) > 0)
}

// GeneratorOptions are the optional overrides for report generation.
type GeneratorOptions struct {
	ContribuyenteRUC string
	Periodo          string
}

// FileResult is a rendered report file.
type FileResult struct {
	Content  []byte
	Filename string
	MimeType string
}
