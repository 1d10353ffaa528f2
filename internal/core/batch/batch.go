// Package batch models uploaded ZIP batches and the documents they produced.
package batch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"3tcapital/sriats/internal/core/comprobante"
)

// Status is the processing state of an upload batch.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Error codes exposed to API clients.
const (
	CodeInvalidBatchID      = "INVALID_BATCH_ID"
	CodeBatchNotFound       = "BATCH_NOT_FOUND"
	CodePersistenceDisabled = "PERSISTENCE_DISABLED"
)

var (
	// ErrBatchNotFound is returned when no batch has the requested id.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrPersistenceDisabled is returned when the service runs without a database.
	ErrPersistenceDisabled = errors.New("persistence is disabled")
)

// Batch is one uploaded ZIP file.
type Batch struct {
	ID               uuid.UUID
	OriginalFilename string
	FileSize         int64
	Status           Status
	TotalFiles       int
	ProcessedFiles   int
	FailedFiles      int
	ErrorMessage     string
	UploadedAt       time.Time
	ProcessedAt      *time.Time
}

// StoredDocument is a normalized document persisted under a batch.
type StoredDocument struct {
	ID        uuid.UUID
	BatchID   uuid.UUID
	Filename  string
	Document  comprobante.Document
	CreatedAt time.Time
}

// Repository defines the contract for persisting batches and their documents.
type Repository interface {
	// SaveBatch inserts a new batch.
	SaveBatch(ctx context.Context, b Batch) error

	// UpdateBatch stores the final counters and status of a batch.
	UpdateBatch(ctx context.Context, b Batch) error

	// SaveDocuments stores documents in one transaction. Documents whose
	// xml hash already exists in the batch are skipped. It returns how many
	// were inserted.
	SaveDocuments(ctx context.Context, batchID uuid.UUID, docs []StoredDocument) (int, error)

	// FindBatch returns ErrBatchNotFound when id is unknown.
	FindBatch(ctx context.Context, id uuid.UUID) (Batch, error)

	// FindDocuments returns the documents of a batch in insertion order.
	FindDocuments(ctx context.Context, batchID uuid.UUID) ([]StoredDocument, error)
}
