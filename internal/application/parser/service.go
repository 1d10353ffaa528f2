package parser

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"3tcapital/sriats/internal/core/comprobante"
)

const defaultWorkerPoolSize = 10

// Service parses batches of XML documents concurrently.
type Service struct {
	workerPoolSize int
	clock          clockwork.Clock
	log            *slog.Logger
}

// NewService creates a parser service. workerPoolSize defaults to 10 when not positive.
func NewService(workerPoolSize int, log *slog.Logger) *Service {
	return NewServiceWithClock(workerPoolSize, clockwork.NewRealClock(), log)
}

// NewServiceWithClock creates a parser service with an injected clock for stats.
func NewServiceWithClock(workerPoolSize int, clock clockwork.Clock, log *slog.Logger) *Service {
	if workerPoolSize <= 0 {
		workerPoolSize = defaultWorkerPoolSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		workerPoolSize: workerPoolSize,
		clock:          clock,
		log:            log,
	}
}

// Parse parses a single document.
func (s *Service) Parse(xmlString string, opts Options) Result {
	return Parse(xmlString, opts)
}

// ParseBatch parses every input independently. Results keep input order and
// one failing document never affects another.
func (s *Service) ParseBatch(ctx context.Context, inputs []Input, opts Options) ([]Result, ProcessingStats) {
	aggregator := NewResultAggregator(len(inputs), s.clock)
	if len(inputs) == 0 {
		return []Result{}, aggregator.GetStats()
	}

	workers := s.workerPoolSize
	if workers > len(inputs) {
		workers = len(inputs)
	}

	s.log.Debug("Starting batch parse",
		"documents", len(inputs),
		"workers", workers,
		"strict", opts.Strict,
	)

	pool := NewParseWorkerPool(ctx, workers, opts)
	results := pool.ProcessInputs(ctx, inputs, aggregator)
	stats := aggregator.GetStats()

	for i, r := range results {
		if !r.Success && len(r.Errors) > 0 {
			s.log.Debug("Document failed to parse",
				"filename", inputs[i].Filename,
				"code", r.Errors[0].Code,
				"message", r.Errors[0].Message,
			)
		}
	}

	s.log.Info("Batch parse finished",
		"documents", stats.TotalDocuments,
		"processed", stats.ProcessedCount,
		"failed", stats.FailedCount,
		"warnings", stats.WarningCount,
		"duration_ms", stats.Duration.Milliseconds(),
	)

	return results, stats
}

func cancelledResult(err error) Result {
	message := "Procesamiento cancelado"
	if err != nil {
		message += ": " + err.Error()
	}
	return failure(comprobante.CodeCancelled, message)
}
