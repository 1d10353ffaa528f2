package testutil

import (
	"context"

	"github.com/google/uuid"

	"3tcapital/sriats/internal/core/batch"
)

// MockBatchRepository is a mock implementation of batch.Repository for testing.
type MockBatchRepository struct {
	SaveBatchFunc     func(ctx context.Context, b batch.Batch) error
	UpdateBatchFunc   func(ctx context.Context, b batch.Batch) error
	SaveDocumentsFunc func(ctx context.Context, batchID uuid.UUID, docs []batch.StoredDocument) (int, error)
	FindBatchFunc     func(ctx context.Context, id uuid.UUID) (batch.Batch, error)
	FindDocumentsFunc func(ctx context.Context, batchID uuid.UUID) ([]batch.StoredDocument, error)
}

// SaveBatch calls the mock function if set, otherwise returns nil.
func (m *MockBatchRepository) SaveBatch(ctx context.Context, b batch.Batch) error {
	if m.SaveBatchFunc != nil {
		return m.SaveBatchFunc(ctx, b)
	}
	return nil
}

// UpdateBatch calls the mock function if set, otherwise returns nil.
func (m *MockBatchRepository) UpdateBatch(ctx context.Context, b batch.Batch) error {
	if m.UpdateBatchFunc != nil {
		return m.UpdateBatchFunc(ctx, b)
	}
	return nil
}

// SaveDocuments calls the mock function if set, otherwise reports every document as inserted.
func (m *MockBatchRepository) SaveDocuments(ctx context.Context, batchID uuid.UUID, docs []batch.StoredDocument) (int, error) {
	if m.SaveDocumentsFunc != nil {
		return m.SaveDocumentsFunc(ctx, batchID, docs)
	}
	return len(docs), nil
}

// FindBatch calls the mock function if set, otherwise returns a completed batch with the requested id.
func (m *MockBatchRepository) FindBatch(ctx context.Context, id uuid.UUID) (batch.Batch, error) {
	if m.FindBatchFunc != nil {
		return m.FindBatchFunc(ctx, id)
	}
	return batch.Batch{ID: id, Status: batch.StatusCompleted}, nil
}

// FindDocuments calls the mock function if set, otherwise returns an empty slice.
func (m *MockBatchRepository) FindDocuments(ctx context.Context, batchID uuid.UUID) ([]batch.StoredDocument, error) {
	if m.FindDocumentsFunc != nil {
		return m.FindDocumentsFunc(ctx, batchID)
	}
	return []batch.StoredDocument{}, nil
}
