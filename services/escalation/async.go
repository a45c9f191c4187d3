package escalation

import (
	"context"
	"sync"
	"time"

	"listapresentes/productworker/internal/extractor"
	"listapresentes/productworker/logger"
)

const defaultJobTimeout = 30 * time.Second

type job struct {
	kind string
	url  string
	run  func(ctx context.Context) (*TicketRef, error)
}

// AsyncReporter runs a Reporter on detached workers. It implements
// extractor.Notifier: submissions never block and never fail.
type AsyncReporter struct {
	reporter   Reporter
	jobs       chan job
	jobTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ extractor.Notifier = (*AsyncReporter)(nil)

// NewAsyncReporter creates an async reporter and starts its workers
func NewAsyncReporter(reporter Reporter, queueSize, workers int, jobTimeout time.Duration) *AsyncReporter {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}

	a := &AsyncReporter{
		reporter:   reporter,
		jobs:       make(chan job, queueSize),
		jobTimeout: jobTimeout,
	}

	a.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go a.work()
	}
	return a
}

// NotifyParsingFailure queues a parsing failure report
func (a *AsyncReporter) NotifyParsingFailure(url string, partial extractor.Product) {
	a.submit(job{
		kind: "parsing",
		url:  url,
		run: func(ctx context.Context) (*TicketRef, error) {
			return a.reporter.ReportParsingFailure(ctx, url, partial)
		},
	})
}

// NotifyGenericExtractor queues a generic extractor report
func (a *AsyncReporter) NotifyGenericExtractor(url, domain string, extracted extractor.Product) {
	a.submit(job{
		kind: "generic",
		url:  url,
		run: func(ctx context.Context) (*TicketRef, error) {
			return a.reporter.ReportGenericExtractorUsed(ctx, url, domain, extracted)
		},
	})
}

// Close stops accepting reports and waits for queued ones to finish
func (a *AsyncReporter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.jobs)
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *AsyncReporter) submit(j job) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	log := logger.ForReporter()
	if a.closed {
		log.Warn().Str("kind", j.kind).Str("url", j.url).Msg("Reporter closed, dropping report")
		return
	}

	select {
	case a.jobs <- j:
	default:
		log.Warn().Str("kind", j.kind).Str("url", j.url).Msg("Report queue full, dropping report")
	}
}

func (a *AsyncReporter) work() {
	defer a.wg.Done()
	for j := range a.jobs {
		a.process(j)
	}
}

func (a *AsyncReporter) process(j job) {
	log := logger.ForReporter()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("kind", j.kind).Str("url", j.url).Msgf("Reporter panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), a.jobTimeout)
	defer cancel()

	ref, err := j.run(ctx)
	switch {
	case err != nil:
		log.Error().Err(err).Str("kind", j.kind).Str("url", j.url).Msg("Failed to file report")
	case ref != nil:
		log.Info().Str("kind", j.kind).Int("number", ref.Number).Str("ticket", ref.URL).Msg("Report filed")
	}
}
