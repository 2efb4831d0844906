package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/jonesrussell/newsintel/internal/logger"
)

// Handler consumes one batch read from a drop file.
type Handler func(ctx context.Context, batch *Batch) error

// Watcher picks up new JSON drops in a directory and feeds them to a
// handler one at a time. A rate limiter keeps a flood of drops from
// turning into back-to-back runs.
type Watcher struct {
	dir     string
	handler Handler
	limiter *rate.Limiter
	logger  logger.Logger
}

// NewWatcher builds a watcher over dir. maxRunsPerMinute bounds how often
// the handler fires; zero or negative means one run per second.
func NewWatcher(dir string, maxRunsPerMinute int, handler Handler, log logger.Logger) *Watcher {
	limit := rate.Limit(1)
	if maxRunsPerMinute > 0 {
		limit = rate.Limit(float64(maxRunsPerMinute) / 60.0)
	}
	return &Watcher{
		dir:     dir,
		handler: handler,
		limiter: rate.NewLimiter(limit, 1),
		logger:  log,
	}
}

// Run watches until the context is canceled. Drops are processed
// sequentially in arrival order; a handler failure is logged and does not
// stop the watch loop.
//
// Fetchers are expected to write drops atomically (temp name, then rename
// into the directory) so the Create event sees a complete file. A fetcher
// that writes in place instead may surface a parse error on the Create
// event for a half-written file; that error is logged and the file is
// picked up again on the Write event that follows.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.logger.Info("watching drop directory", logger.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isDropEvent(event) {
				continue
			}
			if err := w.process(ctx, event.Name); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error("drop processing failed",
					logger.String("path", event.Name),
					logger.Error(err),
				)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fs watcher error", logger.Error(err))
		}
	}
}

func (w *Watcher) process(ctx context.Context, path string) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	batch, err := ReadBatch(path, w.logger)
	if err != nil {
		return err
	}
	if len(batch.Items) == 0 {
		w.logger.Warn("empty drop file", logger.String("path", path))
		return nil
	}

	w.logger.Info("processing drop",
		logger.String("path", path),
		logger.Int("items", len(batch.Items)),
	)
	return w.handler(ctx, batch)
}

// isDropEvent accepts create and rename-into-place writes of .json files.
// Create covers the atomic temp-then-rename path; Write covers in-place
// writers, whose possibly-incomplete Create read gets retried here.
func isDropEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".json")
}
