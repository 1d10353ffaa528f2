package ats

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/patrickmn/go-cache"

	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/core/batch"
	"3tcapital/sriats/internal/core/comprobante"
	"3tcapital/sriats/internal/testutil"
)

func newTestService(repo batch.Repository, reportCache *cache.Cache) (*Service, *testutil.MockRenderer) {
	renderer := &testutil.MockRenderer{}
	return NewService(newTestGenerator(), Renderers{
		XLSX:    renderer,
		PDF:     renderer,
		CSV:     renderer,
		Bundler: &testutil.MockBundler{},
	}, repo, reportCache, testutil.NewNullLogger()), renderer
}

func comprasOnlyDocs() []comprobante.Document {
	return []comprobante.Document{
		testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "1790000000001"}),
		testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: "0990000000001"}),
	}
}

func TestService_CSVBundleOmitsEmptySections(t *testing.T) {
	service, _ := newTestService(nil, nil)

	file, err := service.Generate(context.Background(), GenerateRequest{
		Documents:        comprasOnlyDocs(),
		Format:           ats.FormatCSV,
		ContribuyenteRUC: testutil.RUCComprador,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if file.Filename != "ATS_2024-01.zip" {
		t.Errorf("expected ATS_2024-01.zip, got %q", file.Filename)
	}
	content := string(file.Content)
	if !strings.Contains(content, "ATS_2024-01_compras.csv") {
		t.Errorf("expected compras csv in bundle, got %q", content)
	}
	if strings.Contains(content, "ventas") {
		t.Errorf("expected no ventas csv in bundle, got %q", content)
	}
}

func TestService_CSVBundleBothSectionsInOrder(t *testing.T) {
	service, _ := newTestService(nil, nil)

	docs := append(comprasOnlyDocs(), testutil.NewDocument(testutil.DocumentOptions{EmisorRUC: testutil.RUCComprador, ReceptorID: otroRUC}))

	var bundled []string
	service.renderers.Bundler = &testutil.MockBundler{
		BundleFunc: func(files []ats.FileResult, name string) (ats.FileResult, error) {
			for _, f := range files {
				bundled = append(bundled, f.Filename)
			}
			return ats.FileResult{Filename: name}, nil
		},
	}

	if _, err := service.Generate(context.Background(), GenerateRequest{
		Documents:        docs,
		Format:           ats.FormatCSV,
		ContribuyenteRUC: testutil.RUCComprador,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bundled) != 2 || bundled[0] != "ATS_2024-01_compras.csv" || bundled[1] != "ATS_2024-01_ventas.csv" {
		t.Errorf("expected compras then ventas, got %v", bundled)
	}
}

func TestService_CSVSingleSection(t *testing.T) {
	service, _ := newTestService(nil, nil)

	file, err := service.Generate(context.Background(), GenerateRequest{
		Documents:  comprasOnlyDocs(),
		Format:     ats.FormatCSV,
		CSVSection: ats.SectionVentas,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Filename != "ATS_2024-01_ventas.csv" {
		t.Errorf("expected the requested section, got %q", file.Filename)
	}
}

func TestService_CSVBundleWithoutRows(t *testing.T) {
	service, _ := newTestService(nil, nil)

	_, err := service.Render(context.Background(), ats.Report{Periodo: "2024-01", Tipo: ats.ReportCompleto}, ats.FormatCSV, "")
	if !errors.Is(err, ats.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestService_RenderDispatch(t *testing.T) {
	service, renderer := newTestService(nil, nil)

	var calls []string
	renderer.RenderFunc = func(ctx context.Context, report ats.Report) (ats.FileResult, error) {
		calls = append(calls, report.Periodo)
		return ats.FileResult{Filename: "ok"}, nil
	}

	for _, format := range []ats.Format{ats.FormatXLSX, ats.FormatPDF} {
		if _, err := service.Render(context.Background(), ats.Report{Periodo: string(format)}, format, ""); err != nil {
			t.Errorf("%s: unexpected error: %v", format, err)
		}
	}
	if len(calls) != 2 {
		t.Errorf("expected 2 render calls, got %d", len(calls))
	}

	if _, err := service.Render(context.Background(), ats.Report{}, ats.Format("docx"), ""); !errors.Is(err, ats.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestService_RenderErrorPropagates(t *testing.T) {
	service, renderer := newTestService(nil, nil)
	renderer.RenderSectionFunc = func(ctx context.Context, report ats.Report, section ats.Section) (ats.FileResult, error) {
		return ats.FileResult{}, errors.New("disk full")
	}

	_, err := service.Generate(context.Background(), GenerateRequest{Documents: comprasOnlyDocs(), Format: ats.FormatCSV})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected render error, got %v", err)
	}
}

func TestService_BatchWithoutPersistence(t *testing.T) {
	service, _ := newTestService(nil, nil)

	_, err := service.Generate(context.Background(), GenerateRequest{BatchID: uuid.New(), Format: ats.FormatXLSX})
	if !errors.Is(err, batch.ErrPersistenceDisabled) {
		t.Errorf("expected ErrPersistenceDisabled, got %v", err)
	}
}

func TestService_BatchNotFound(t *testing.T) {
	repo := &testutil.MockBatchRepository{
		FindDocumentsFunc: func(ctx context.Context, batchID uuid.UUID) ([]batch.StoredDocument, error) {
			return nil, batch.ErrBatchNotFound
		},
	}
	service, _ := newTestService(repo, nil)

	_, err := service.Generate(context.Background(), GenerateRequest{BatchID: uuid.New(), Format: ats.FormatXLSX})
	if !errors.Is(err, batch.ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound, got %v", err)
	}
}

func TestService_NoSource(t *testing.T) {
	service, _ := newTestService(nil, nil)

	_, err := service.Generate(context.Background(), GenerateRequest{Format: ats.FormatXLSX})
	if !errors.Is(err, ats.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestService_BatchReportIsCached(t *testing.T) {
	batchID := uuid.New()

	var mu sync.Mutex
	loads := 0
	repo := &testutil.MockBatchRepository{
		FindDocumentsFunc: func(ctx context.Context, id uuid.UUID) ([]batch.StoredDocument, error) {
			mu.Lock()
			loads++
			mu.Unlock()
			if id != batchID {
				t.Errorf("expected batch %s, got %s", batchID, id)
			}
			var stored []batch.StoredDocument
			for _, doc := range comprasOnlyDocs() {
				stored = append(stored, batch.StoredDocument{BatchID: id, Document: doc})
			}
			return stored, nil
		},
	}

	clock := clockwork.NewFakeClockAt(fixedNow)
	reportCache := cache.New(time.Hour, 0)
	service := NewService(NewGenerator(clock), Renderers{
		XLSX:    &testutil.MockRenderer{},
		PDF:     &testutil.MockRenderer{},
		CSV:     &testutil.MockRenderer{},
		Bundler: &testutil.MockBundler{},
	}, repo, reportCache, testutil.NewNullLogger())

	req := GenerateRequest{BatchID: batchID, Format: ats.FormatXLSX}
	first, err := service.Report(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.GeneradoEn.Equal(fixedNow) {
		t.Errorf("expected generadoEn %v, got %v", fixedNow, first.GeneradoEn)
	}

	for _, item := range reportCache.Items() {
		if remaining := time.Until(time.Unix(0, item.Expiration)); remaining < 59*time.Minute {
			t.Errorf("expected the cache default expiration of 1h, entry expires in %v", remaining)
		}
	}

	clock.Advance(10 * time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := service.Generate(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	cached, err := service.Report(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loads != 1 {
		t.Errorf("expected 1 repository load, got %d", loads)
	}
	if expected := fixedNow.Add(10 * time.Minute); !cached.GeneradoEn.Equal(expected) {
		t.Errorf("expected cached report stamped at %v, got %v", expected, cached.GeneradoEn)
	}
	if cached.Periodo != first.Periodo {
		t.Errorf("expected periodo %s, got %s", first.Periodo, cached.Periodo)
	}

	req.Periodo = "2024-02"
	if _, err := service.Generate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loads != 2 {
		t.Errorf("expected different options to miss the cache, got %d loads", loads)
	}
}

func TestService_EmptyBatch(t *testing.T) {
	service, _ := newTestService(&testutil.MockBatchRepository{}, nil)

	_, err := service.Generate(context.Background(), GenerateRequest{BatchID: uuid.New(), Format: ats.FormatXLSX})
	if !errors.Is(err, ats.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestService_BatchDocumentsUnknownBatch(t *testing.T) {
	repo := &testutil.MockBatchRepository{
		FindBatchFunc: func(ctx context.Context, id uuid.UUID) (batch.Batch, error) {
			return batch.Batch{}, batch.ErrBatchNotFound
		},
		FindDocumentsFunc: func(ctx context.Context, id uuid.UUID) ([]batch.StoredDocument, error) {
			t.Error("documents should not be loaded for an unknown batch")
			return nil, nil
		},
	}
	service, _ := newTestService(repo, nil)

	_, err := service.BatchDocuments(context.Background(), uuid.New())
	if !errors.Is(err, batch.ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound, got %v", err)
	}
}
