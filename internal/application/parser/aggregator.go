package parser

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ResultAggregator collects parse outcomes from concurrent workers
type ResultAggregator struct {
	mu             sync.Mutex
	clock          clockwork.Clock
	startTime      time.Time
	totalDocuments int
	processedCount int
	failedCount    int
	warningCount   int
	byType         map[string]int
}

// NewResultAggregator creates a new result aggregator
func NewResultAggregator(totalDocuments int, clock clockwork.Clock) *ResultAggregator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ResultAggregator{
		clock:          clock,
		startTime:      clock.Now(),
		totalDocuments: totalDocuments,
		byType:         make(map[string]int),
	}
}

// Add records a single parse outcome.
func (a *ResultAggregator) Add(r ParseResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !r.Result.Success {
		a.failedCount++
		return
	}

	a.processedCount++
	a.warningCount += len(r.Result.Warnings)
	if r.Result.Document != nil {
		a.byType[string(r.Result.Document.Tipo)]++
	}
}

// GetStats returns processing statistics
func (a *ResultAggregator) GetStats() ProcessingStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	duration := a.clock.Since(a.startTime)
	var throughput float64
	if duration.Seconds() > 0 {
		throughput = float64(a.processedCount) / duration.Seconds()
	}

	var successRate float64
	if a.totalDocuments > 0 {
		successRate = float64(a.processedCount) / float64(a.totalDocuments) * 100
	}

	byType := make(map[string]int, len(a.byType))
	for k, v := range a.byType {
		byType[k] = v
	}

	return ProcessingStats{
		TotalDocuments: a.totalDocuments,
		ProcessedCount: a.processedCount,
		FailedCount:    a.failedCount,
		WarningCount:   a.warningCount,
		ByType:         byType,
		Duration:       duration,
		Throughput:     throughput,
		SuccessRate:    successRate,
	}
}

// ProcessingStats contains processing statistics
type ProcessingStats struct {
	TotalDocuments int
	ProcessedCount int
	FailedCount    int
	WarningCount   int
	ByType         map[string]int
	Duration       time.Duration
	Throughput     float64 // Documents per second
	SuccessRate    float64 // Percentage
}
