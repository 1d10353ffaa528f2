// Package upload turns an uploaded ZIP archive into parsed documents.
package upload

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/semaphore"

	"3tcapital/sriats/internal/application/parser"
	"3tcapital/sriats/internal/core/batch"
	"3tcapital/sriats/internal/core/upload"
)

const defaultMaxConcurrentUploads = 4

// FileProcessResult pairs an archive entry with its parse outcome.
type FileProcessResult struct {
	Filename string        `json:"filename"`
	Result   parser.Result `json:"result"`
}

// Stats summarizes how the batch parse went.
type Stats struct {
	DurationMs  int64          `json:"durationMs"`
	Throughput  float64        `json:"throughput"`
	SuccessRate float64        `json:"successRate"`
	Warnings    int            `json:"warnings"`
	ByType      map[string]int `json:"byType"`
}

// BatchProcessResult is the outcome of processing one archive.
// TotalFiles counts XML entries plus skipped entries.
type BatchProcessResult struct {
	BatchID    string              `json:"batchId,omitempty"`
	TotalFiles int                 `json:"totalFiles"`
	XMLFiles   int                 `json:"xmlFiles"`
	Processed  int                 `json:"processed"`
	Failed     int                 `json:"failed"`
	Skipped    []string            `json:"skipped"`
	Results    []FileProcessResult `json:"results"`
	Errors     []upload.FileError  `json:"errors"`
	Stats      *Stats              `json:"stats,omitempty"`
}

// AllFailed reports whether there were XML entries and none parsed.
func (r BatchProcessResult) AllFailed() bool {
	return r.Processed == 0 && r.Failed > 0
}

// Request describes one uploaded archive.
type Request struct {
	Data     []byte
	Filename string
	Options  parser.Options
}

// Service extracts, parses and optionally persists uploaded archives.
type Service struct {
	extractor upload.Extractor
	parser    *parser.Service
	batchRepo batch.Repository // Optional: nil when persistence is disabled
	slots     *semaphore.Weighted
	clock     clockwork.Clock
	log       *slog.Logger
}

// NewService creates an upload service. batchRepo may be nil. maxConcurrent
// bounds how many archives are processed at once and defaults to 4.
func NewService(extractor upload.Extractor, parserService *parser.Service, batchRepo batch.Repository, maxConcurrent int, clock clockwork.Clock, log *slog.Logger) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentUploads
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		extractor: extractor,
		parser:    parserService,
		batchRepo: batchRepo,
		slots:     semaphore.NewWeighted(int64(maxConcurrent)),
		clock:     clock,
		log:       log,
	}
}

// ProcessZip extracts every XML entry of the archive and parses them in one
// batch. Extraction and parse problems are reported in the result; the error
// is non-nil only when ctx ends before a processing slot frees up.
func (s *Service) ProcessZip(ctx context.Context, req Request) (BatchProcessResult, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return BatchProcessResult{}, fmt.Errorf("wait for upload slot: %w", err)
	}
	defer s.slots.Release(1)

	extraction := s.extractor.Extract(req.Data)
	if !extraction.Success {
		s.log.Info("ZIP extraction failed",
			"filename", req.Filename,
			"size", len(req.Data),
			"code", firstCode(extraction.Errors),
		)
		return BatchProcessResult{
			TotalFiles: len(extraction.Files) + len(extraction.Skipped),
			XMLFiles:   len(extraction.Files),
			Skipped:    extraction.Skipped,
			Results:    []FileProcessResult{},
			Errors:     extraction.Errors,
		}, nil
	}

	inputs := make([]parser.Input, len(extraction.Files))
	for i, f := range extraction.Files {
		inputs[i] = parser.Input{Filename: f.Filename, Content: f.Content}
	}

	results, stats := s.parser.ParseBatch(ctx, inputs, req.Options)

	out := BatchProcessResult{
		TotalFiles: len(extraction.Files) + len(extraction.Skipped),
		XMLFiles:   len(extraction.Files),
		Processed:  stats.ProcessedCount,
		Failed:     stats.FailedCount,
		Skipped:    extraction.Skipped,
		Results:    make([]FileProcessResult, len(results)),
		Errors:     append([]upload.FileError{}, extraction.Errors...),
		Stats: &Stats{
			DurationMs:  stats.Duration.Milliseconds(),
			Throughput:  stats.Throughput,
			SuccessRate: stats.SuccessRate,
			Warnings:    stats.WarningCount,
			ByType:      stats.ByType,
		},
	}

	now := s.clock.Now()
	for i, r := range results {
		filename := extraction.Files[i].Filename
		out.Results[i] = FileProcessResult{Filename: filename, Result: r}

		if !r.Success {
			for _, e := range r.Errors {
				out.Errors = append(out.Errors, upload.FileError{
					Code:     upload.CodeExtractionFailed,
					Message:  fmt.Sprintf("Error al procesar %s: %s", filename, e.Message),
					Filename: filename,
				})
			}
			continue
		}

		for _, finding := range parser.AuditDocument(*r.Document, now) {
			s.log.Debug("Document audit finding",
				"filename", filename,
				"code", finding.Code,
				"field", finding.Field,
				"message", finding.Message,
			)
		}
	}

	s.log.Info("ZIP processed",
		"filename", req.Filename,
		"total_files", out.TotalFiles,
		"xml_files", out.XMLFiles,
		"processed", out.Processed,
		"failed", out.Failed,
		"skipped", len(out.Skipped),
	)

	if s.batchRepo != nil {
		if id, ok := s.persist(ctx, req, out); ok {
			out.BatchID = id.String()
		}
	}

	return out, nil
}

// persist stores the batch and its parsed documents. Failures are logged
// and leave the upload result without a batch id.
func (s *Service) persist(ctx context.Context, req Request, out BatchProcessResult) (uuid.UUID, bool) {
	b := batch.Batch{
		ID:               uuid.New(),
		OriginalFilename: req.Filename,
		FileSize:         int64(len(req.Data)),
		Status:           batch.StatusProcessing,
		TotalFiles:       out.TotalFiles,
		UploadedAt:       s.clock.Now(),
	}
	if err := s.batchRepo.SaveBatch(ctx, b); err != nil {
		s.log.Error("Failed to save batch", "error", err, "filename", req.Filename)
		return uuid.Nil, false
	}

	var docs []batch.StoredDocument
	for _, fr := range out.Results {
		if !fr.Result.Success || fr.Result.Document == nil {
			continue
		}
		docs = append(docs, batch.StoredDocument{
			ID:        uuid.New(),
			BatchID:   b.ID,
			Filename:  fr.Filename,
			Document:  *fr.Result.Document,
			CreatedAt: s.clock.Now(),
		})
	}

	ok := true
	b.Status = batch.StatusCompleted
	b.ProcessedFiles = out.Processed
	b.FailedFiles = out.Failed

	if len(docs) > 0 {
		inserted, err := s.batchRepo.SaveDocuments(ctx, b.ID, docs)
		if err != nil {
			s.log.Error("Failed to save batch documents", "error", err, "batch_id", b.ID)
			b.Status = batch.StatusFailed
			b.ErrorMessage = err.Error()
			ok = false
		} else if inserted < len(docs) {
			s.log.Info("Duplicate documents skipped", "batch_id", b.ID, "duplicates", len(docs)-inserted)
		}
	}
	if out.AllFailed() {
		b.Status = batch.StatusFailed
		b.ErrorMessage = firstMessage(out.Errors)
	}

	processedAt := s.clock.Now()
	b.ProcessedAt = &processedAt
	if err := s.batchRepo.UpdateBatch(ctx, b); err != nil {
		s.log.Error("Failed to update batch", "error", err, "batch_id", b.ID)
		return uuid.Nil, false
	}

	return b.ID, ok
}

func firstCode(errs []upload.FileError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Code
}

func firstMessage(errs []upload.FileError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message
}
