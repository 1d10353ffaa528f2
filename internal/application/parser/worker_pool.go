package parser

import (
	"context"
	"sync"
)

// Input is one XML file handed to the batch parser.
type Input struct {
	Filename string
	Content  string
}

// ParseJob represents a job to be processed by a worker
type ParseJob struct {
	Input Input
	Index int
}

// ParseResult represents the result of parsing one input
type ParseResult struct {
	Filename string
	Result   Result
	Index    int
}

// ParseWorkerPool parses documents concurrently. Workers share nothing but
// the read-only lookup tables, so results only need reassembling by Index.
type ParseWorkerPool struct {
	workerCount int
	opts        Options
	jobChan     chan ParseJob
	resultChan  chan ParseResult
	wg          sync.WaitGroup
	closeOnce   sync.Once
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewParseWorkerPool creates a new worker pool for XML parsing
func NewParseWorkerPool(ctx context.Context, workerCount int, opts Options) *ParseWorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	poolCtx, cancel := context.WithCancel(ctx)

	return &ParseWorkerPool{
		workerCount: workerCount,
		opts:        opts,
		jobChan:     make(chan ParseJob, workerCount*2),
		resultChan:  make(chan ParseResult, workerCount*2),
		ctx:         poolCtx,
		cancel:      cancel,
	}
}

// Start starts the worker pool with the specified number of workers
func (p *ParseWorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop stops the worker pool gracefully
func (p *ParseWorkerPool) Stop() {
	p.closeJobs()
	p.cancel()
	p.wg.Wait()
	close(p.resultChan)
}

func (p *ParseWorkerPool) closeJobs() {
	p.closeOnce.Do(func() { close(p.jobChan) })
}

// Submit submits a job to the worker pool
func (p *ParseWorkerPool) Submit(job ParseJob) error {
	select {
	case p.jobChan <- job:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Results returns the channel for receiving results
func (p *ParseWorkerPool) Results() <-chan ParseResult {
	return p.resultChan
}

func (p *ParseWorkerPool) worker() {
	defer p.wg.Done()

	for job := range p.jobChan {
		result := ParseResult{
			Filename: job.Input.Filename,
			Result:   Parse(job.Input.Content, p.opts),
			Index:    job.Index,
		}

		select {
		case p.resultChan <- result:
		case <-p.ctx.Done():
			return
		}
	}
}

// ProcessInputs parses every input and returns the results in input order.
// Jobs are submitted from a separate goroutine so a full result buffer never
// blocks submission. Inputs left unparsed when ctx ends get a CANCELLED result.
func (p *ParseWorkerPool) ProcessInputs(ctx context.Context, inputs []Input, aggregator *ResultAggregator) []Result {
	results := make([]Result, len(inputs))
	done := make([]bool, len(inputs))

	p.Start()

	var submitWG sync.WaitGroup
	submitWG.Add(1)
	go func() {
		defer submitWG.Done()
		defer p.closeJobs()
		for i, input := range inputs {
			if err := p.Submit(ParseJob{Input: input, Index: i}); err != nil {
				return
			}
		}
	}()

	received := 0
collect:
	for received < len(inputs) {
		select {
		case r, ok := <-p.Results():
			if !ok {
				break collect
			}
			received++
			results[r.Index] = r.Result
			done[r.Index] = true
			if aggregator != nil {
				aggregator.Add(r)
			}
		case <-ctx.Done():
			break collect
		}
	}

	p.cancel()
	submitWG.Wait()
	p.Stop()

	for i := range results {
		if !done[i] {
			results[i] = cancelledResult(ctx.Err())
			if aggregator != nil {
				aggregator.Add(ParseResult{Filename: inputs[i].Filename, Result: results[i], Index: i})
			}
		}
	}

	return results
}
