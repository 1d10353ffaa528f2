package ats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/core/batch"
	"3tcapital/sriats/internal/core/comprobante"
)

const ckBatchReport = "ats:batch:%s:ruc:%s:periodo:%s"

// Renderers groups the output encoders the service dispatches to.
type Renderers struct {
	XLSX    ats.Renderer
	PDF     ats.Renderer
	CSV     ats.SectionRenderer
	Bundler ats.Bundler
}

// GenerateRequest asks for a rendered report. Documents take precedence
// over BatchID when both are set.
type GenerateRequest struct {
	Documents        []comprobante.Document
	BatchID          uuid.UUID
	Format           ats.Format
	Periodo          string
	ContribuyenteRUC string
	CSVSection       ats.Section
}

// Service orchestrates ATS report generation.
type Service struct {
	generator   *Generator
	renderers   Renderers
	batchRepo   batch.Repository // Optional: nil when persistence is disabled
	reportCache *cache.Cache     // Optional: entries use the cache's default expiration
	log         *slog.Logger
}

// NewService creates an ATS service. batchRepo and reportCache may be nil.
func NewService(generator *Generator, renderers Renderers, batchRepo batch.Repository, reportCache *cache.Cache, log *slog.Logger) *Service {
	if generator == nil {
		generator = NewGenerator(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		generator:   generator,
		renderers:   renderers,
		batchRepo:   batchRepo,
		reportCache: reportCache,
		log:         log,
	}
}

// Generate builds the report for the request and renders it in the requested format.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (ats.FileResult, error) {
	report, err := s.Report(ctx, req)
	if err != nil {
		return ats.FileResult{}, err
	}

	s.log.Info("ATS report generated",
		"periodo", report.Periodo,
		"tipo", report.Tipo,
		"formato", req.Format,
		"compras", sectionRows(report.Compras != nil, func() int { return len(report.Compras.Filas) }),
		"ventas", sectionRows(report.Ventas != nil, func() int { return len(report.Ventas.Filas) }),
	)

	return s.Render(ctx, report, req.Format, req.CSVSection)
}

// Report builds the report from inline documents or from a persisted batch.
func (s *Service) Report(ctx context.Context, req GenerateRequest) (ats.Report, error) {
	opts := ats.GeneratorOptions{ContribuyenteRUC: req.ContribuyenteRUC, Periodo: req.Periodo}

	if len(req.Documents) > 0 {
		return s.generator.CreateReport(req.Documents, opts), nil
	}

	if req.BatchID == uuid.Nil {
		return ats.Report{}, fmt.Errorf("documents or batch id required: %w", ats.ErrNoData)
	}

	key := fmt.Sprintf(ckBatchReport, req.BatchID, req.ContribuyenteRUC, req.Periodo)
	if s.reportCache != nil {
		if cached, found := s.reportCache.Get(key); found {
			s.log.Debug("ATS report served from cache", "batch_id", req.BatchID)
			report := cached.(ats.Report)
			report.GeneradoEn = s.generator.Now()
			return report, nil
		}
	}

	docs, err := s.BatchDocuments(ctx, req.BatchID)
	if err != nil {
		return ats.Report{}, err
	}
	if len(docs) == 0 {
		return ats.Report{}, fmt.Errorf("batch %s has no documents: %w", req.BatchID, ats.ErrNoData)
	}

	report := s.generator.CreateReport(docs, opts)
	if s.reportCache != nil {
		s.reportCache.Set(key, report, cache.DefaultExpiration)
	}
	return report, nil
}

// BatchDocuments loads the normalized documents persisted for a batch. It
// returns batch.ErrBatchNotFound for an unknown id.
func (s *Service) BatchDocuments(ctx context.Context, batchID uuid.UUID) ([]comprobante.Document, error) {
	if s.batchRepo == nil {
		return nil, batch.ErrPersistenceDisabled
	}

	if _, err := s.batchRepo.FindBatch(ctx, batchID); err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}

	stored, err := s.batchRepo.FindDocuments(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("load batch documents: %w", err)
	}

	docs := make([]comprobante.Document, 0, len(stored))
	for _, sd := range stored {
		docs = append(docs, sd.Document)
	}
	return docs, nil
}

// Render encodes report. CSV with a section yields one file; CSV without a
// section yields a ZIP with one CSV per section that has rows.
func (s *Service) Render(ctx context.Context, report ats.Report, format ats.Format, section ats.Section) (ats.FileResult, error) {
	switch format {
	case ats.FormatXLSX:
		return s.renderWith(ctx, s.renderers.XLSX, report, format)
	case ats.FormatPDF:
		return s.renderWith(ctx, s.renderers.PDF, report, format)
	case ats.FormatCSV:
		if s.renderers.CSV == nil {
			return ats.FileResult{}, fmt.Errorf("renderer %s: %w", format, ats.ErrUnsupportedFormat)
		}
		if section != "" {
			return s.renderers.CSV.RenderSection(ctx, report, section)
		}
		return s.renderCSVBundle(ctx, report)
	default:
		return ats.FileResult{}, fmt.Errorf("%q: %w", format, ats.ErrUnsupportedFormat)
	}
}

func (s *Service) renderWith(ctx context.Context, r ats.Renderer, report ats.Report, format ats.Format) (ats.FileResult, error) {
	if r == nil {
		return ats.FileResult{}, fmt.Errorf("renderer %s: %w", format, ats.ErrUnsupportedFormat)
	}
	return r.Render(ctx, report)
}

// renderCSVBundle renders every section that has rows concurrently and
// zips them. Empty sections are left out of the bundle.
func (s *Service) renderCSVBundle(ctx context.Context, report ats.Report) (ats.FileResult, error) {
	var sections []ats.Section
	if report.Compras != nil && len(report.Compras.Filas) > 0 {
		sections = append(sections, ats.SectionCompras)
	}
	if report.Ventas != nil && len(report.Ventas.Filas) > 0 {
		sections = append(sections, ats.SectionVentas)
	}
	if len(sections) == 0 {
		return ats.FileResult{}, ats.ErrNoData
	}
	if s.renderers.Bundler == nil {
		return ats.FileResult{}, errors.New("csv bundler not configured")
	}

	files := make([]ats.FileResult, len(sections))
	g, gctx := errgroup.WithContext(ctx)
	for i, section := range sections {
		g.Go(func() error {
			file, err := s.renderers.CSV.RenderSection(gctx, report, section)
			if err != nil {
				return fmt.Errorf("render %s: %w", section, err)
			}
			files[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ats.FileResult{}, err
	}

	return s.renderers.Bundler.Bundle(files, fmt.Sprintf("ATS_%s.zip", report.Periodo))
}

func sectionRows(present bool, count func() int) int {
	if !present {
		return 0
	}
	return count()
}
