// Package csvreport writes ATS report sections as CSV files.
package csvreport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"3tcapital/sriats/internal/adapters/render"
	"3tcapital/sriats/internal/application/parser"
	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/infrastructure/security"
)

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

var comprasHeaders = []string{
	"RUC Proveedor",
	"Razón Social",
	"Tipo Documento",
	"Fecha Emisión",
	"Número Documento",
	"Autorización",
	"Base IVA Gravada",
	"Base IVA 0%",
	"Base No Objeto",
	"Monto IVA",
	"Monto ICE",
	"Total",
	"Retención IVA",
	"Retención Renta",
}

var ventasHeaders = []string{
	"Tipo ID",
	"Identificación",
	"Razón Social",
	"Tipo Documento",
	"Fecha Emisión",
	"Número Documento",
	"Autorización",
	"Base IVA Gravada",
	"Base IVA 0%",
	"Base No Objeto",
	"Monto IVA",
	"Monto ICE",
	"Total",
}

// Renderer renders one report section per CSV file.
type Renderer struct{}

// NewRenderer creates a CSV renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderSection writes the rows of section. A missing section yields a file
// with only the header row.
func (r *Renderer) RenderSection(ctx context.Context, report ats.Report, section ats.Section) (ats.FileResult, error) {
	if err := ctx.Err(); err != nil {
		return ats.FileResult{}, err
	}

	var records [][]string
	switch section {
	case ats.SectionCompras:
		records = append(records, comprasHeaders)
		if report.Compras != nil {
			for _, row := range report.Compras.Filas {
				records = append(records, comprasRecord(row))
			}
		}
	case ats.SectionVentas:
		records = append(records, ventasHeaders)
		if report.Ventas != nil {
			for _, row := range report.Ventas.Filas {
				records = append(records, ventasRecord(row))
			}
		}
	default:
		return ats.FileResult{}, fmt.Errorf("csv: sección %q: %w", section, ats.ErrUnsupportedFormat)
	}

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return ats.FileResult{}, fmt.Errorf("csv: escribir %s: %w", section, err)
	}

	return ats.FileResult{
		Content:  buf.Bytes(),
		Filename: render.Filename(report.Periodo, string(section), "csv"),
		MimeType: render.MimeCSV,
	}, nil
}

func comprasRecord(row ats.ComprasRow) []string {
	return []string{
		security.CellText(row.Identificacion),
		security.CellText(row.RazonSocial),
		render.DocumentLabel(row.RowBase),
		render.Date(row.FechaEmision),
		row.NumeroDocumento(),
		row.Autorizacion,
		parser.FormatCents(row.BaseIvaGravada),
		parser.FormatCents(row.BaseIva0),
		parser.FormatCents(row.BaseNoObjetoIva),
		parser.FormatCents(row.MontoIva),
		parser.FormatCents(row.MontoIce),
		parser.FormatCents(row.Total),
		parser.FormatCents(row.RetencionIva),
		parser.FormatCents(row.RetencionRenta),
	}
}

func ventasRecord(row ats.VentasRow) []string {
	return []string{
		row.TipoIdentificacion,
		security.CellText(row.Identificacion),
		security.CellText(row.RazonSocial),
		render.DocumentLabel(row.RowBase),
		render.Date(row.FechaEmision),
		row.NumeroDocumento(),
		row.Autorizacion,
		parser.FormatCents(row.BaseIvaGravada),
		parser.FormatCents(row.BaseIva0),
		parser.FormatCents(row.BaseNoObjetoIva),
		parser.FormatCents(row.MontoIva),
		parser.FormatCents(row.MontoIce),
		parser.FormatCents(row.Total),
	}
}
