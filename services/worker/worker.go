package worker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"listapresentes/productworker/internal/extractor"
	"listapresentes/productworker/logger"
	"listapresentes/productworker/services/cache"
	"listapresentes/productworker/services/publisher"
)

const (
	resultKeyPrefix  = "result"
	messageKeyPrefix = "product"
	trimTimeout      = 5 * time.Second
)

// Extractor runs a single classified extraction
type Extractor interface {
	ExtractProductInfo(ctx context.Context, url string) extractor.Outcome
}

// ImageFetcher downloads an image and returns its bytes and content type
type ImageFetcher func(ctx context.Context, url string) ([]byte, string, error)

// RefreshedProduct is the message published for every refreshed URL
type RefreshedProduct struct {
	RunID       string            `json:"run_id"`
	URL         string            `json:"url"`
	RefreshedAt time.Time         `json:"refreshed_at"`
	Result      extractor.Outcome `json:"result"`
	ImageBase64 string            `json:"image_base64,omitempty"`
	ImageType   string            `json:"image_type,omitempty"`
}

// Options controls sweep scheduling
type Options struct {
	Interval      time.Duration
	SweepTimeout  time.Duration
	ResultTTL     time.Duration
	Concurrency   int
	RatePerSecond float64
	RateBurst     int
}

// SweepStats summarizes one sweep
type SweepStats struct {
	RunID     string
	Total     int
	Skipped   int64
	Succeeded int64
	Failed    int64
	Published int64
}

// Worker periodically re-extracts a list of product URLs and publishes the results
type Worker struct {
	extractor Extractor
	publisher publisher.Publisher
	cache     cache.CacheService
	source    URLSource
	images    ImageFetcher
	opts      Options
	limiter   *rate.Limiter
}

// NewWorker creates a new worker. cacheSvc and images may be nil; a nil
// images fetcher disables image embedding.
func NewWorker(
	ext Extractor,
	pub publisher.Publisher,
	cacheSvc cache.CacheService,
	source URLSource,
	images ImageFetcher,
	opts Options,
) *Worker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.RateBurst < 1 {
		opts.RateBurst = 1
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	return &Worker{
		extractor: ext,
		publisher: pub,
		cache:     cacheSvc,
		source:    source,
		images:    images,
		opts:      opts,
		limiter:   rate.NewLimiter(limit, opts.RateBurst),
	}
}

// Start runs sweeps until ctx is cancelled
func (w *Worker) Start(ctx context.Context) error {
	log := logger.ForWorker()
	for {
		start := time.Now()
		stats, err := w.RunSweep(ctx)
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("run_id", stats.RunID).Msg("Sweep failed")
		}
		log.Info().
			Str("run_id", stats.RunID).
			Int("total", stats.Total).
			Int64("skipped", stats.Skipped).
			Int64("succeeded", stats.Succeeded).
			Int64("failed", stats.Failed).
			Int64("published", stats.Published).
			Dur("elapsed", time.Since(start)).
			Msg("Sweep finished")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.opts.Interval):
		}
	}
}

// RunSweep refreshes every URL from the source once. Fetch starts are bounded
// by the concurrency limit, paced by the rate limiter and stop when the sweep
// deadline passes or ctx is cancelled.
func (w *Worker) RunSweep(ctx context.Context) (SweepStats, error) {
	stats := SweepStats{RunID: uuid.NewString()}
	log := logger.ForWorker().WithField("run_id", stats.RunID)

	urls, err := w.source.URLs(ctx)
	if err != nil {
		return stats, err
	}
	stats.Total = len(urls)

	sweepCtx := ctx
	if w.opts.SweepTimeout > 0 {
		var cancel context.CancelFunc
		sweepCtx, cancel = context.WithTimeout(ctx, w.opts.SweepTimeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(sweepCtx)
	g.SetLimit(w.opts.Concurrency)

	for _, url := range urls {
		if gctx.Err() != nil {
			break
		}
		if w.cachedSuccess(url) {
			atomic.AddInt64(&stats.Skipped, 1)
			continue
		}
		if err := w.limiter.Wait(gctx); err != nil {
			break
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			// In-flight refreshes run to completion, bounded by the fetch timeouts
			w.refresh(context.WithoutCancel(gctx), stats.RunID, url, &stats)
			return nil
		})
	}
	g.Wait()

	if errors.Is(sweepCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		log.Warn().Dur("timeout", w.opts.SweepTimeout).Msg("Sweep deadline reached, remaining URLs skipped")
	}

	trimCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), trimTimeout)
	defer cancel()
	if err := w.publisher.TrimStreams(trimCtx); err != nil {
		logger.LogError("worker", err, "Stream trimming failed")
	}

	return stats, ctx.Err()
}

// refresh extracts one URL and publishes the result
func (w *Worker) refresh(ctx context.Context, runID, url string, stats *SweepStats) {
	log := logger.ForWorker().WithField("run_id", runID)

	outcome := w.extractor.ExtractProductInfo(ctx, url)
	if outcome.Success {
		atomic.AddInt64(&stats.Succeeded, 1)
	} else {
		atomic.AddInt64(&stats.Failed, 1)
	}

	msg := RefreshedProduct{
		RunID:       runID,
		URL:         url,
		RefreshedAt: time.Now().UTC(),
		Result:      outcome,
	}
	if outcome.Success && outcome.Product.ImageURL != "" && w.images != nil {
		w.embedImage(ctx, &msg, outcome.Product.ImageURL)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logger.LogError("worker", err, "Failed to encode result for %s", url)
		return
	}

	if err := w.publisher.Publish(ctx, cache.Key(messageKeyPrefix, url), data); err != nil {
		logger.LogError("worker", err, "Failed to publish result for %s", url)
		return
	}
	atomic.AddInt64(&stats.Published, 1)

	if outcome.Success && w.cache != nil && w.opts.ResultTTL > 0 {
		if err := w.cache.Set(cache.Key(resultKeyPrefix, url), data, w.opts.ResultTTL); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to cache result")
		}
	}
}

func (w *Worker) embedImage(ctx context.Context, msg *RefreshedProduct, imageURL string) {
	data, contentType, err := w.images(ctx, imageURL)
	if err != nil {
		logger.ForWorker().Warn().Err(err).Str("image_url", imageURL).Msg("Failed to download image")
		return
	}
	msg.ImageBase64 = base64.StdEncoding.EncodeToString(data)
	msg.ImageType = contentType
}

func (w *Worker) cachedSuccess(url string) bool {
	if w.cache == nil || w.opts.ResultTTL <= 0 {
		return false
	}
	_, err := w.cache.Get(cache.Key(resultKeyPrefix, url))
	return err == nil
}
