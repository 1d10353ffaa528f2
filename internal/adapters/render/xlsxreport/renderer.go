// Package xlsxreport writes ATS reports as Excel workbooks.
package xlsxreport

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"3tcapital/sriats/internal/adapters/render"
	"3tcapital/sriats/internal/application/parser"
	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/infrastructure/security"
)

const (
	sheetResumen = "Resumen"
	sheetCompras = "Compras"
	sheetVentas  = "Ventas"

	currencyFormat = `"$"#,##0.00`
	headerFill     = "1F4E79"
	headerFont     = "FFFFFF"
)

type column struct {
	header string
	width  float64
	money  bool
}

var comprasColumns = []column{
	{"RUC Proveedor", 16, false},
	{"Razón Social", 35, false},
	{"Tipo Doc.", 12, false},
	{"Fecha Emisión", 14, false},
	{"Número Documento", 20, false},
	{"Autorización", 50, false},
	{"Base IVA Gravada", 16, true},
	{"Base IVA 0%", 14, true},
	{"Base No Objeto", 14, true},
	{"Monto IVA", 12, true},
	{"Monto ICE", 12, true},
	{"Total", 14, true},
	{"Ret. IVA", 12, true},
	{"Ret. Renta", 12, true},
}

var ventasColumns = []column{
	{"Tipo ID", 10, false},
	{"Identificación", 16, false},
	{"Razón Social", 35, false},
	{"Tipo Doc.", 12, false},
	{"Fecha Emisión", 14, false},
	{"Número Documento", 20, false},
	{"Autorización", 50, false},
	{"Base IVA Gravada", 16, true},
	{"Base IVA 0%", 14, true},
	{"Base No Objeto", 14, true},
	{"Monto IVA", 12, true},
	{"Monto ICE", 12, true},
	{"Total", 14, true},
}

// Renderer renders a report as one workbook with a summary sheet and one
// sheet per section that has rows.
type Renderer struct {
	creator string
}

// NewRenderer creates an XLSX renderer. creator is stored in the workbook
// properties.
func NewRenderer(creator string) *Renderer {
	return &Renderer{creator: creator}
}

// styles holds the style ids registered on one workbook.
type styles struct {
	header    int
	text      int
	money     int
	totalText int
	totalNum  int
	title     int
	bold      int
	section   int
	summary   int
	summaryB  int
}

// Render builds the workbook in memory.
func (r *Renderer) Render(ctx context.Context, report ats.Report) (ats.FileResult, error) {
	if err := ctx.Err(); err != nil {
		return ats.FileResult{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: r.creator,
		Created: report.GeneradoEn.UTC().Format("2006-01-02T15:04:05Z"),
		Title:   fmt.Sprintf("Reporte ATS %s", report.Periodo),
	}); err != nil {
		return ats.FileResult{}, fmt.Errorf("xlsx: propiedades: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return ats.FileResult{}, err
	}

	if err := f.SetSheetName("Sheet1", sheetResumen); err != nil {
		return ats.FileResult{}, fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	if err := writeResumen(f, st, report); err != nil {
		return ats.FileResult{}, err
	}

	if report.Compras != nil && len(report.Compras.Filas) > 0 {
		rows := make([][]interface{}, 0, len(report.Compras.Filas))
		for _, row := range report.Compras.Filas {
			rows = append(rows, comprasValues(row))
		}
		t := report.Compras.Resumen.Totales
		totals := []int64{t.BaseIvaGravada, t.BaseIva0, t.BaseNoObjetoIva, t.MontoIva, t.MontoIce, t.Total, t.RetencionIva, t.RetencionRenta}
		if err := writeTable(f, st, sheetCompras, comprasColumns, rows, totals); err != nil {
			return ats.FileResult{}, err
		}
	}

	if report.Ventas != nil && len(report.Ventas.Filas) > 0 {
		rows := make([][]interface{}, 0, len(report.Ventas.Filas))
		for _, row := range report.Ventas.Filas {
			rows = append(rows, ventasValues(row))
		}
		t := report.Ventas.Resumen.Totales
		totals := []int64{t.BaseIvaGravada, t.BaseIva0, t.BaseNoObjetoIva, t.MontoIva, t.MontoIce, t.Total}
		if err := writeTable(f, st, sheetVentas, ventasColumns, rows, totals); err != nil {
			return ats.FileResult{}, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ats.FileResult{}, fmt.Errorf("xlsx: escribir libro: %w", err)
	}

	return ats.FileResult{
		Content:  buf.Bytes(),
		Filename: render.Filename(report.Periodo, "", "xlsx"),
		MimeType: render.MimeXLSX,
	}, nil
}

func newStyles(f *excelize.File) (styles, error) {
	numFmt := currencyFormat
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var st styles
	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&st.header, &excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
			Font:      &excelize.Font{Bold: true, Color: headerFont, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    border,
		}},
		{&st.text, &excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "center"},
			Border:    border,
		}},
		{&st.money, &excelize.Style{
			CustomNumFmt: &numFmt,
			Alignment:    &excelize.Alignment{Vertical: "center"},
			Border:       border,
		}},
		{&st.totalText, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: border}},
		{&st.totalNum, &excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt, Border: border}},
		{&st.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 16},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&st.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&st.section, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&st.summary, &excelize.Style{CustomNumFmt: &numFmt}},
		{&st.summaryB, &excelize.Style{CustomNumFmt: &numFmt, Font: &excelize.Font{Bold: true}}},
	}

	for i, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return styles{}, fmt.Errorf("xlsx: estilo %d: %w", i, err)
		}
		*d.id = id
	}
	return st, nil
}

// summaryLine is one label/value pair of the Resumen sheet. Counts are
// written as integers, amounts as currency.
type summaryLine struct {
	label string
	count int
	cents int64
	money bool
	bold  bool
}

func writeResumen(f *excelize.File, st styles, report ats.Report) error {
	sheet := sheetResumen
	set := func(cell string, value interface{}, style int) error {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("xlsx: %s!%s: %w", sheet, cell, err)
		}
		if style != 0 {
			return f.SetCellStyle(sheet, cell, cell, style)
		}
		return nil
	}

	if err := f.MergeCell(sheet, "A1", "D1"); err != nil {
		return fmt.Errorf("xlsx: combinar título: %w", err)
	}
	if err := set("A1", fmt.Sprintf("Reporte ATS - Período %s", report.Periodo), st.title); err != nil {
		return err
	}
	if err := set("A3", "Generado:", st.bold); err != nil {
		return err
	}
	if err := set("B3", render.Timestamp(report.GeneradoEn), 0); err != nil {
		return err
	}
	if err := set("A4", "Tipo:", st.bold); err != nil {
		return err
	}
	if err := set("B4", report.Tipo.Label(), 0); err != nil {
		return err
	}

	row := 6
	writeBlock := func(title string, lines []summaryLine) error {
		if err := set(cellName(1, row), title, st.section); err != nil {
			return err
		}
		row++
		for _, l := range lines {
			if err := set(cellName(1, row), l.label, 0); err != nil {
				return err
			}
			if !l.money {
				if err := set(cellName(2, row), l.count, 0); err != nil {
					return err
				}
			} else {
				style := st.summary
				if l.bold {
					style = st.summaryB
				}
				if err := set(cellName(2, row), parser.CentsToDollars(l.cents).InexactFloat64(), style); err != nil {
					return err
				}
			}
			row++
		}
		row++
		return nil
	}

	if report.Compras != nil {
		t := report.Compras.Resumen.Totales
		if err := writeBlock("COMPRAS", []summaryLine{
			{label: "Total comprobantes:", count: report.Compras.Resumen.TotalComprobantes},
			{label: "Base IVA Gravada:", cents: t.BaseIvaGravada, money: true},
			{label: "Base IVA 0%:", cents: t.BaseIva0, money: true},
			{label: "Monto IVA:", cents: t.MontoIva, money: true},
			{label: "Total:", cents: t.Total, money: true, bold: true},
			{label: "Retención IVA:", cents: t.RetencionIva, money: true},
			{label: "Retención Renta:", cents: t.RetencionRenta, money: true},
		}); err != nil {
			return err
		}
	}

	if report.Ventas != nil {
		t := report.Ventas.Resumen.Totales
		if err := writeBlock("VENTAS", []summaryLine{
			{label: "Total comprobantes:", count: report.Ventas.Resumen.TotalComprobantes},
			{label: "Base IVA Gravada:", cents: t.BaseIvaGravada, money: true},
			{label: "Base IVA 0%:", cents: t.BaseIva0, money: true},
			{label: "Monto IVA:", cents: t.MontoIva, money: true},
			{label: "Total:", cents: t.Total, money: true, bold: true},
		}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 25)
}

// writeTable writes a header row, one row per record and a totals row.
// totals line up with the money columns, in order.
func writeTable(f *excelize.File, st styles, sheet string, columns []column, rows [][]interface{}, totals []int64) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx: crear hoja %s: %w", sheet, err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return fmt.Errorf("xlsx: ancho %s!%s: %w", sheet, name, err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: encabezado %s: %w", sheet, err)
	}
	if err := f.SetRowHeight(sheet, 1, 30); err != nil {
		return err
	}
	last := cellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, st.header); err != nil {
		return err
	}

	for i, values := range rows {
		r := i + 2
		if err := f.SetSheetRow(sheet, cellName(1, r), &values); err != nil {
			return fmt.Errorf("xlsx: fila %d de %s: %w", r, sheet, err)
		}
		for c, col := range columns {
			style := st.text
			if col.money {
				style = st.money
			}
			cell := cellName(c+1, r)
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}

	totalRow := len(rows) + 2
	if err := f.SetCellValue(sheet, cellName(1, totalRow), "TOTAL"); err != nil {
		return err
	}
	next := 0
	for c, col := range columns {
		cell := cellName(c+1, totalRow)
		style := st.totalText
		if col.money {
			style = st.totalNum
			if next < len(totals) {
				if err := f.SetCellValue(sheet, cell, parser.CentsToDollars(totals[next]).InexactFloat64()); err != nil {
					return err
				}
				next++
			}
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("xlsx: fijar encabezado %s: %w", sheet, err)
	}

	filterRange := fmt.Sprintf("A1:%s", cellName(len(columns), len(rows)+1))
	if err := f.AutoFilter(sheet, filterRange, nil); err != nil {
		return fmt.Errorf("xlsx: filtro %s: %w", sheet, err)
	}
	return nil
}

func comprasValues(row ats.ComprasRow) []interface{} {
	return []interface{}{
		security.CellText(row.Identificacion),
		security.CellText(row.RazonSocial),
		render.DocumentLabel(row.RowBase),
		render.Date(row.FechaEmision),
		row.NumeroDocumento(),
		row.Autorizacion,
		parser.CentsToDollars(row.BaseIvaGravada).InexactFloat64(),
		parser.CentsToDollars(row.BaseIva0).InexactFloat64(),
		parser.CentsToDollars(row.BaseNoObjetoIva).InexactFloat64(),
		parser.CentsToDollars(row.MontoIva).InexactFloat64(),
		parser.CentsToDollars(row.MontoIce).InexactFloat64(),
		parser.CentsToDollars(row.Total).InexactFloat64(),
		parser.CentsToDollars(row.RetencionIva).InexactFloat64(),
		parser.CentsToDollars(row.RetencionRenta).InexactFloat64(),
	}
}

func ventasValues(row ats.VentasRow) []interface{} {
	return []interface{}{
		row.TipoIdentificacion,
		security.CellText(row.Identificacion),
		security.CellText(row.RazonSocial),
		render.DocumentLabel(row.RowBase),
		render.Date(row.FechaEmision),
		row.NumeroDocumento(),
		row.Autorizacion,
		parser.CentsToDollars(row.BaseIvaGravada).InexactFloat64(),
		parser.CentsToDollars(row.BaseIva0).InexactFloat64(),
		parser.CentsToDollars(row.BaseNoObjetoIva).InexactFloat64(),
		parser.CentsToDollars(row.MontoIva).InexactFloat64(),
		parser.CentsToDollars(row.MontoIce).InexactFloat64(),
		parser.CentsToDollars(row.Total).InexactFloat64(),
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
