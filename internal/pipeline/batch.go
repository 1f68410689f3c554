package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/siteaudit/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of targets scanned at once.
const DefaultConcurrency = 10

// BatchItem is the outcome of scanning one target in a batch.
type BatchItem struct {
	Target model.Target
	Result *model.ScanResult
	Err    error
}

// BatchProcessor scans multiple targets concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// scanner runs each individual scan.
	scanner Scanner

	// concurrency is the maximum number of concurrent scans.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scans.
// Default is DefaultConcurrency if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(scanner Scanner, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		scanner:     scanner,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scans targets concurrently and returns one item per target,
// in input order. A failed scan is recorded in its item and does not stop
// the others. The returned error is non-nil only when ctx was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []model.Target) ([]BatchItem, error) {
	bp.logger.Info("starting batch processing",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate to keep input order.
	items := make([]BatchItem, len(targets))
	var mu sync.Mutex

	err := bp.run(ctx, targets, func(item BatchItem, index int) {
		mu.Lock()
		items[index] = item
		mu.Unlock()
	})

	bp.logger.Info("batch processing complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)

	return items, err
}

// ProcessBatchWithCallback scans targets and calls callback for each
// completed scan. The callback is called from the goroutine that completed
// the scan, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []model.Target,
	callback func(item BatchItem, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, targets, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, targets []model.Target, callback func(BatchItem, int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				callback(BatchItem{Target: target, Err: ctx.Err()}, i)
				return ctx.Err()
			default:
			}

			bp.logger.Info("scanning target",
				"target", target.URL,
				"index", i+1,
				"total", len(targets),
			)

			result, err := bp.scanner.Scan(ctx, target)
			if err != nil {
				// Recorded in the item; other scans continue.
				bp.logger.Warn("scan failed",
					"target", target.URL,
					"error", err,
				)
			}
			callback(BatchItem{Target: target, Result: result, Err: err}, i)
			return nil
		})
	}

	return g.Wait()
}
