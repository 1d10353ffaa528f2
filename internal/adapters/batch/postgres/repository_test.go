package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"3tcapital/sriats/internal/core/batch"
	"3tcapital/sriats/internal/core/comprobante"
	"3tcapital/sriats/internal/infrastructure/database"
	"3tcapital/sriats/internal/testutil"
)

func TestRepositoryImplementsInterface(t *testing.T) {
	var _ batch.Repository = (*Repository)(nil)
}

func TestNullable(t *testing.T) {
	if got := nullable(""); got != nil {
		t.Errorf("expected nil for empty string, got %q", *got)
	}
	if got := nullable("fallo"); got == nil || *got != "fallo" {
		t.Errorf("expected pointer to %q, got %v", "fallo", got)
	}
}

// Integration tests need a disposable PostgreSQL database in
// SRIATS_TEST_DATABASE_URL.
func newIntegrationRepository(t *testing.T) *Repository {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	dsn := os.Getenv("SRIATS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SRIATS_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.RunMigrations(ctx, pool, testutil.NewTestLogger()); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return NewRepository(pool, testutil.NewTestLogger()).(*Repository)
}

func TestRepositoryIntegration(t *testing.T) {
	repo := newIntegrationRepository(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	b := batch.Batch{
		ID:               uuid.New(),
		OriginalFilename: "enero.zip",
		FileSize:         2048,
		Status:           batch.StatusProcessing,
		TotalFiles:       2,
		UploadedAt:       now,
	}
	if err := repo.SaveBatch(ctx, b); err != nil {
		t.Fatalf("save batch: %v", err)
	}

	factura := testutil.NewDocument(testutil.DocumentOptions{
		Valores: comprobante.Valores{Subtotal: 10000, Iva: 1500, Total: 11500},
	})
	duplicate := factura
	docs := []batch.StoredDocument{
		{ID: uuid.New(), Filename: "factura.xml", Document: factura, CreatedAt: now},
		{ID: uuid.New(), Filename: "copia.xml", Document: duplicate, CreatedAt: now},
	}
	inserted, err := repo.SaveDocuments(ctx, b.ID, docs)
	if err != nil {
		t.Fatalf("save documents: %v", err)
	}
	if inserted != 1 {
		t.Errorf("expected 1 inserted document, got %d", inserted)
	}

	b.Status = batch.StatusCompleted
	b.ProcessedFiles = 1
	b.ProcessedAt = &now
	if err := repo.UpdateBatch(ctx, b); err != nil {
		t.Fatalf("update batch: %v", err)
	}

	found, err := repo.FindBatch(ctx, b.ID)
	if err != nil {
		t.Fatalf("find batch: %v", err)
	}
	if found.Status != batch.StatusCompleted || found.ProcessedFiles != 1 {
		t.Errorf("expected completed batch with 1 processed file, got %s/%d", found.Status, found.ProcessedFiles)
	}
	if found.ErrorMessage != "" {
		t.Errorf("expected no error message, got %q", found.ErrorMessage)
	}

	stored, err := repo.FindDocuments(ctx, b.ID)
	if err != nil {
		t.Fatalf("find documents: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored document, got %d", len(stored))
	}
	if stored[0].Document.ClaveAcceso != factura.ClaveAcceso {
		t.Errorf("expected clave %s, got %s", factura.ClaveAcceso, stored[0].Document.ClaveAcceso)
	}
	if stored[0].Document.Valores.Total != factura.Valores.Total {
		t.Errorf("expected total %d, got %d", factura.Valores.Total, stored[0].Document.Valores.Total)
	}

	if _, err := repo.FindBatch(ctx, uuid.New()); !errors.Is(err, batch.ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound, got %v", err)
	}
	if err := repo.UpdateBatch(ctx, batch.Batch{ID: uuid.New(), Status: batch.StatusFailed}); !errors.Is(err, batch.ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound on update, got %v", err)
	}
}
