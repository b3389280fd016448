package navigator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/fragnav/internal/model"
)

// DefaultBatchConcurrency is the number of fragments resolved at once when
// WithConcurrency is not given.
const DefaultBatchConcurrency = 4

// BatchResolver resolves many fragments concurrently, each in a fresh window.
// It is used to check links and route tables without a browser.
//
// Design decision: each fragment gets its own Navigator rather than sharing
// one, so navigations never reuse a page instance across fragments and the
// result of one fragment does not depend on the order of the batch.
type BatchResolver struct {
	app *Application

	// concurrency is the maximum number of windows navigating at once.
	concurrency int

	// windowOpts are applied to every window.
	windowOpts []Option

	logger *slog.Logger
}

// BatchOption configures a BatchResolver.
type BatchOption func(*BatchResolver)

// WithConcurrency sets the maximum number of concurrent resolutions.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchResolver) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch resolution.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchResolver) {
		b.logger = logger
	}
}

// WithWindowOptions applies opts to every window the resolver opens.
func WithWindowOptions(opts ...Option) BatchOption {
	return func(b *BatchResolver) {
		b.windowOpts = append(b.windowOpts, opts...)
	}
}

// NewBatchResolver creates a BatchResolver over app.
func NewBatchResolver(app *Application, opts ...BatchOption) *BatchResolver {
	b := &BatchResolver{
		app:         app,
		concurrency: DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = app.logger
	}

	return b
}

// Resolve resolves every fragment and returns the results in input order.
// A failed navigation is recorded in its Resolution and does not stop the
// others; the error reports cancellation only.
func (b *BatchResolver) Resolve(ctx context.Context, fragments []string) ([]*model.Resolution, error) {
	b.logger.Info("starting batch resolution",
		"total_fragments", len(fragments),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()
	results := make([]*model.Resolution, len(fragments))

	err := b.ResolveWithCallback(ctx, fragments, func(res *model.Resolution, index int) {
		// Each index is written by exactly one goroutine.
		results[index] = res
	})

	b.logger.Info("batch resolution complete",
		"total_fragments", len(fragments),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ResolveWithCallback resolves every fragment and calls callback with each
// result and the index of its fragment as soon as it is known. callback is
// called from several goroutines.
func (b *BatchResolver) ResolveWithCallback(
	ctx context.Context,
	fragments []string,
	callback func(res *model.Resolution, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, raw := range fragments {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			callback(b.resolveOne(ctx, raw), i)
			return nil
		})
	}

	return g.Wait()
}

// resolveOne opens a window on raw and describes what it shows.
func (b *BatchResolver) resolveOne(ctx context.Context, raw string) *model.Resolution {
	n := b.app.NewNavigator(b.windowOpts...)
	res := &model.Resolution{Fragment: raw}

	inv, err := n.Init(ctx, raw)
	if err != nil {
		b.logger.Warn("resolution failed",
			"fragment", raw,
			"error", err,
		)
		res.Error = err.Error()
	}
	if inv != nil {
		res.State = inv.State().String()
		if res.Error == "" && inv.Err() != nil {
			res.Error = inv.Err().Error()
		}
		if inv.Placed() {
			res.PageID = inv.Event().PageID
			res.Params = inv.Event().Params.String()
		}
	}
	for _, p := range n.Problems() {
		res.Problems = append(res.Problems, p.String())
	}
	res.URI = n.URI()
	res.Content = n.Render()

	return res
}
