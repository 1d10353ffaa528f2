package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"3tcapital/sriats/internal/core/batch"
)

// Repository implements the batch.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a new PostgreSQL batch repository.
func NewRepository(pool *pgxpool.Pool, log *slog.Logger) batch.Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{pool: pool, log: log}
}

// SaveBatch inserts a new upload batch.
func (r *Repository) SaveBatch(ctx context.Context, b batch.Batch) error {
	query := `
		INSERT INTO upload_batches (
			id, original_filename, file_size, status, total_files,
			processed_files, failed_files, error_message, uploaded_at, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		b.ID,
		b.OriginalFilename,
		b.FileSize,
		string(b.Status),
		b.TotalFiles,
		b.ProcessedFiles,
		b.FailedFiles,
		nullable(b.ErrorMessage),
		b.UploadedAt,
		b.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	r.log.Debug("Batch saved", "batch_id", b.ID, "filename", b.OriginalFilename)
	return nil
}

// UpdateBatch stores the counters, status and completion time of a batch.
func (r *Repository) UpdateBatch(ctx context.Context, b batch.Batch) error {
	query := `
		UPDATE upload_batches
		SET status = $2, total_files = $3, processed_files = $4, failed_files = $5,
		    error_message = $6, processed_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		b.ID,
		string(b.Status),
		b.TotalFiles,
		b.ProcessedFiles,
		b.FailedFiles,
		nullable(b.ErrorMessage),
		b.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch %s: %w", b.ID, batch.ErrBatchNotFound)
	}
	return nil
}

// SaveDocuments inserts docs in one transaction. A document whose xml hash
// is already stored for the batch is skipped.
func (r *Repository) SaveDocuments(ctx context.Context, batchID uuid.UUID, docs []batch.StoredDocument) (int, error) {
	query := `
		INSERT INTO documents (
			id, batch_id, filename, tipo, clave_acceso, emisor_ruc,
			receptor_identificacion, fecha, periodo, total_cents, xml_hash, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (batch_id, xml_hash) DO NOTHING
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, sd := range docs {
		payload, err := json.Marshal(sd.Document)
		if err != nil {
			return 0, fmt.Errorf("marshal document %s: %w", sd.Filename, err)
		}

		id := sd.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		createdAt := sd.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		doc := sd.Document
		tag, err := tx.Exec(ctx, query,
			id,
			batchID,
			sd.Filename,
			string(doc.Tipo),
			doc.ClaveAcceso,
			doc.Emisor.RUC,
			doc.Receptor.Identificacion,
			doc.Fecha,
			doc.Periodo(),
			doc.Valores.Total,
			doc.XMLHash,
			payload,
			createdAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert document %s: %w", sd.Filename, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit documents: %w", err)
	}

	r.log.Debug("Batch documents saved",
		"batch_id", batchID,
		"received", len(docs),
		"inserted", inserted,
	)
	return inserted, nil
}

// FindBatch retrieves a batch by id.
func (r *Repository) FindBatch(ctx context.Context, id uuid.UUID) (batch.Batch, error) {
	query := `
		SELECT id, original_filename, file_size, status, total_files,
		       processed_files, failed_files, error_message, uploaded_at, processed_at
		FROM upload_batches
		WHERE id = $1
	`

	var b batch.Batch
	var status string
	var errorMessage *string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.OriginalFilename,
		&b.FileSize,
		&status,
		&b.TotalFiles,
		&b.ProcessedFiles,
		&b.FailedFiles,
		&errorMessage,
		&b.UploadedAt,
		&b.ProcessedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return batch.Batch{}, batch.ErrBatchNotFound
	}
	if err != nil {
		return batch.Batch{}, fmt.Errorf("query batch: %w", err)
	}

	b.Status = batch.Status(status)
	if errorMessage != nil {
		b.ErrorMessage = *errorMessage
	}
	return b, nil
}

// FindDocuments retrieves the documents of a batch in insertion order.
func (r *Repository) FindDocuments(ctx context.Context, batchID uuid.UUID) ([]batch.StoredDocument, error) {
	query := `
		SELECT id, batch_id, filename, payload, created_at
		FROM documents
		WHERE batch_id = $1
		ORDER BY seq
	`

	rows, err := r.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []batch.StoredDocument{}
	for rows.Next() {
		var sd batch.StoredDocument
		var payload []byte

		if err := rows.Scan(&sd.ID, &sd.BatchID, &sd.Filename, &payload, &sd.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if err := json.Unmarshal(payload, &sd.Document); err != nil {
			return nil, fmt.Errorf("unmarshal document %s: %w", sd.ID, err)
		}
		docs = append(docs, sd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return docs, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
