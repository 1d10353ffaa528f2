// Package pdfreport writes a one-page ATS summary as PDF.
package pdfreport

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/go-pdf/fpdf"

	"3tcapital/sriats/internal/adapters/render"
	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/infrastructure/security"
)

// TopCounterparties is how many suppliers or clients are listed per section.
const TopCounterparties = 5

const maxNameRunes = 45

// Renderer renders the summary of a report. Individual rows are not listed.
type Renderer struct {
	creator string
}

// NewRenderer creates a PDF renderer. creator is stored in the document metadata.
func NewRenderer(creator string) *Renderer {
	return &Renderer{creator: creator}
}

type amountLine struct {
	label string
	cents int64
	bold  bool
}

type party struct {
	name  string
	id    string
	count int
	total int64
}

// Render builds the PDF in memory.
func (r *Renderer) Render(ctx context.Context, report ats.Report) (ats.FileResult, error) {
	if err := ctx.Err(); err != nil {
		return ats.FileResult{}, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCreator(r.creator, true)
	pdf.SetTitle(fmt.Sprintf("Reporte ATS %s", report.Periodo), true)
	pdf.SetCreationDate(report.GeneradoEn)
	pdf.AddPage()

	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	contentW := pageW - left - right

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(fmt.Sprintf("Reporte ATS - Período %s", report.Periodo)), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr("Generado: "+render.Timestamp(report.GeneradoEn)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Tipo: "+report.Tipo.Label()), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	labelW := contentW * 0.6
	valueW := contentW - labelW

	section := func(title string, count int, amounts []amountLine, heading string, parties []party) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(31, 78, 121)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(contentW, 7, tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(labelW, 5, tr("Total comprobantes:"), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 5, fmt.Sprintf("%d", count), "", 1, "R", false, 0, "")
		for _, a := range amounts {
			style := ""
			if a.bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 9)
			pdf.CellFormat(labelW, 5, tr(a.label), "", 0, "L", false, 0, "")
			pdf.CellFormat(valueW, 5, render.Currency(a.cents), "", 1, "R", false, 0, "")
		}

		if len(parties) > 0 {
			pdf.Ln(2)
			nameW := contentW * 0.45
			idW := contentW * 0.2
			countW := contentW * 0.1
			totalW := contentW - nameW - idW - countW

			pdf.SetFont("Helvetica", "B", 8)
			pdf.CellFormat(nameW, 5, tr(heading), "B", 0, "L", false, 0, "")
			pdf.CellFormat(idW, 5, tr("Identificación"), "B", 0, "L", false, 0, "")
			pdf.CellFormat(countW, 5, "Docs", "B", 0, "C", false, 0, "")
			pdf.CellFormat(totalW, 5, "Total", "B", 1, "R", false, 0, "")

			pdf.SetFont("Helvetica", "", 8)
			for _, p := range parties {
				pdf.CellFormat(nameW, 5, tr(truncate(p.name, maxNameRunes)), "", 0, "L", false, 0, "")
				pdf.CellFormat(idW, 5, tr(p.id), "", 0, "L", false, 0, "")
				pdf.CellFormat(countW, 5, fmt.Sprintf("%d", p.count), "", 0, "C", false, 0, "")
				pdf.CellFormat(totalW, 5, render.Currency(p.total), "", 1, "R", false, 0, "")
			}
		}
		pdf.Ln(5)
	}

	if report.Compras != nil {
		t := report.Compras.Resumen.Totales
		section("COMPRAS", report.Compras.Resumen.TotalComprobantes, []amountLine{
			{label: "Base IVA Gravada:", cents: t.BaseIvaGravada},
			{label: "Base IVA 0%:", cents: t.BaseIva0},
			{label: "Base No Objeto de IVA:", cents: t.BaseNoObjetoIva},
			{label: "Monto IVA:", cents: t.MontoIva},
			{label: "Monto ICE:", cents: t.MontoIce},
			{label: "Total:", cents: t.Total, bold: true},
			{label: "Retención IVA:", cents: t.RetencionIva},
			{label: "Retención Renta:", cents: t.RetencionRenta},
		}, "Principales proveedores", topProveedores(report.Compras.PorProveedor))
	}

	if report.Ventas != nil {
		t := report.Ventas.Resumen.Totales
		section("VENTAS", report.Ventas.Resumen.TotalComprobantes, []amountLine{
			{label: "Base IVA Gravada:", cents: t.BaseIvaGravada},
			{label: "Base IVA 0%:", cents: t.BaseIva0},
			{label: "Base No Objeto de IVA:", cents: t.BaseNoObjetoIva},
			{label: "Monto IVA:", cents: t.MontoIva},
			{label: "Monto ICE:", cents: t.MontoIce},
			{label: "Total:", cents: t.Total, bold: true},
		}, "Principales clientes", topClientes(report.Ventas.PorCliente))
	}

	if report.Compras == nil && report.Ventas == nil {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 5, tr("No hay comprobantes para el período."), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return ats.FileResult{}, fmt.Errorf("pdf: escribir documento: %w", err)
	}

	return ats.FileResult{
		Content:  buf.Bytes(),
		Filename: render.Filename(report.Periodo, "", "pdf"),
		MimeType: render.MimePDF,
	}, nil
}

func topProveedores(groups []ats.ProveedorAgregado) []party {
	parties := make([]party, 0, len(groups))
	for _, g := range groups {
		parties = append(parties, party{
			name:  security.SanitizeText(g.Proveedor.RazonSocial),
			id:    g.Proveedor.Identificacion,
			count: g.NumeroComprobantes,
			total: g.Totales.Total,
		})
	}
	return top(parties)
}

func topClientes(groups []ats.ClienteAgregado) []party {
	parties := make([]party, 0, len(groups))
	for _, g := range groups {
		parties = append(parties, party{
			name:  security.SanitizeText(g.Cliente.RazonSocial),
			id:    g.Cliente.Identificacion,
			count: g.NumeroComprobantes,
			total: g.Totales.Total,
		})
	}
	return top(parties)
}

// top orders by total descending, keeping input order on ties.
func top(parties []party) []party {
	slices.SortStableFunc(parties, func(a, b party) int {
		switch {
		case a.total > b.total:
			return -1
		case a.total < b.total:
			return 1
		default:
			return 0
		}
	})
	if len(parties) > TopCounterparties {
		parties = parties[:TopCounterparties]
	}
	return parties
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "..."
}
