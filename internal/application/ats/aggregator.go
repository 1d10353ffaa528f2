// Package ats builds ATS reports from normalized documents and renders them.
package ats

import (
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/core/comprobante"
)

// Generator aggregates documents into reports. The clock stamps generadoEn
// and supplies the fallback period.
type Generator struct {
	clock clockwork.Clock
}

// NewGenerator creates a generator. A nil clock means the real clock.
func NewGenerator(clock clockwork.Clock) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{clock: clock}
}

// Now returns the time used to stamp generadoEn.
func (g *Generator) Now() time.Time {
	return g.clock.Now()
}

// CreateReport builds a report with the real clock.
func CreateReport(docs []comprobante.Document, opts ats.GeneratorOptions) ats.Report {
	return NewGenerator(nil).CreateReport(docs, opts)
}

// CreateReport classifies docs, builds one section per non-empty side and
// resolves the period. It has no failure path.
func (g *Generator) CreateReport(docs []comprobante.Document, opts ats.GeneratorOptions) ats.Report {
	ruc := opts.ContribuyenteRUC
	if ruc == "" {
		ruc, _ = InferContribuyenteRuc(docs)
	}

	compras, ventas := SeparateByTransactionType(ClassifyDocuments(docs, ruc))

	report := ats.Report{
		Periodo:    opts.Periodo,
		GeneradoEn: g.clock.Now(),
		Compras:    createComprasSection(compras),
		Ventas:     createVentasSection(ventas),
	}

	switch {
	case report.Compras != nil && report.Ventas == nil:
		report.Tipo = ats.ReportCompras
	case report.Compras == nil && report.Ventas != nil:
		report.Tipo = ats.ReportVentas
	default:
		report.Tipo = ats.ReportCompleto
	}

	if report.Periodo == "" {
		report.Periodo = g.InferPeriodo(docs)
	}

	return report
}

// InferPeriodo returns the most frequent YYYY-MM among the documents' dates,
// ties going to the one seen first. An empty batch yields the current month.
func (g *Generator) InferPeriodo(docs []comprobante.Document) string {
	if len(docs) == 0 {
		return g.clock.Now().Format("2006-01")
	}

	counts := make(map[string]int)
	var order []string
	for _, doc := range docs {
		periodo := doc.Periodo()
		if _, seen := counts[periodo]; !seen {
			order = append(order, periodo)
		}
		counts[periodo]++
	}

	best, bestCount := "", 0
	for _, periodo := range order {
		if counts[periodo] > bestCount {
			best, bestCount = periodo, counts[periodo]
		}
	}
	return best
}

func createComprasSection(docs []comprobante.Document) *ats.ComprasSection {
	if len(docs) == 0 {
		return nil
	}

	filas := make([]ats.ComprasRow, 0, len(docs))
	for _, doc := range docs {
		filas = append(filas, MapToComprasRow(doc))
	}

	resumen := ats.Resumen{
		TotalComprobantes: len(filas),
		PorTipo:           make(map[comprobante.DocumentType]int),
	}
	for _, row := range filas {
		resumen.Totales.AddRow(row)
		resumen.PorTipo[row.TipoComprobante]++
	}

	return &ats.ComprasSection{
		Resumen:      resumen,
		PorProveedor: aggregateByProveedor(filas),
		Filas:        filas,
	}
}

func aggregateByProveedor(filas []ats.ComprasRow) []ats.ProveedorAgregado {
	index := make(map[string]int)
	var groups []ats.ProveedorAgregado

	for _, row := range filas {
		i, ok := index[row.Identificacion]
		if !ok {
			i = len(groups)
			index[row.Identificacion] = i
			groups = append(groups, ats.ProveedorAgregado{
				Proveedor: ats.Counterparty{
					TipoIdentificacion: row.TipoIdentificacion,
					Identificacion:     row.Identificacion,
					RazonSocial:        row.RazonSocial,
				},
			})
		}

		groups[i].NumeroComprobantes++
		groups[i].Totales.AddRow(row)
		groups[i].Comprobantes = append(groups[i].Comprobantes, row)
	}

	byName := newNameOrder()
	sort.SliceStable(groups, func(a, b int) bool {
		return byName.less(groups[a].Proveedor.RazonSocial, groups[b].Proveedor.RazonSocial)
	})
	return groups
}

func createVentasSection(docs []comprobante.Document) *ats.VentasSection {
	if len(docs) == 0 {
		return nil
	}

	filas := make([]ats.VentasRow, 0, len(docs))
	for _, doc := range docs {
		filas = append(filas, MapToVentasRow(doc))
	}

	resumen := ats.VentasResumen{
		TotalComprobantes: len(filas),
		PorTipo:           make(map[comprobante.DocumentType]int),
	}
	for _, row := range filas {
		resumen.Totales.AddRow(row)
		resumen.PorTipo[row.TipoComprobante]++
	}

	return &ats.VentasSection{
		Resumen:    resumen,
		PorCliente: aggregateByCliente(filas),
		Filas:      filas,
	}
}

func aggregateByCliente(filas []ats.VentasRow) []ats.ClienteAgregado {
	index := make(map[string]int)
	var groups []ats.ClienteAgregado

	for _, row := range filas {
		i, ok := index[row.Identificacion]
		if !ok {
			i = len(groups)
			index[row.Identificacion] = i
			groups = append(groups, ats.ClienteAgregado{
				Cliente: ats.Counterparty{
					TipoIdentificacion: row.TipoIdentificacion,
					Identificacion:     row.Identificacion,
					RazonSocial:        row.RazonSocial,
				},
			})
		}

		groups[i].NumeroComprobantes++
		groups[i].Totales.AddRow(row)
		groups[i].Comprobantes = append(groups[i].Comprobantes, row)
	}

	byName := newNameOrder()
	sort.SliceStable(groups, func(a, b int) bool {
		return byName.less(groups[a].Cliente.RazonSocial, groups[b].Cliente.RazonSocial)
	})
	return groups
}

// nameOrder compares display names the way a Spanish reader expects, with
// case and accents ignored. A collator is not safe for concurrent use, so
// each sort gets its own.
type nameOrder struct {
	collator *collate.Collator
}

func newNameOrder() nameOrder {
	return nameOrder{collator: collate.New(language.Spanish, collate.Loose)}
}

func (n nameOrder) less(a, b string) bool {
	return n.collator.CompareString(a, b) < 0
}
