package warmer

import (
	"context"
	"time"

	"consolenav/internal/domain/workspace"
	"consolenav/internal/metrics"
	"consolenav/internal/services/data"

	"github.com/rs/zerolog/log"
)

// WorkspaceLister lists the workspaces to warm.
type WorkspaceLister interface {
	ListActive(ctx context.Context) ([]*workspace.Workspace, error)
}

// Worker keeps the first navigation page of every workspace in the page
// cache, so the first "load more" of a freshly opened view is a cache hit.
type Worker struct {
	workspaces WorkspaceLister
	data       *data.Service
	every      time.Duration
	pageLimit  int
}

// NewWorker creates a new cache warm worker
func NewWorker(workspaces WorkspaceLister, dataService *data.Service, every time.Duration, pageLimit int) *Worker {
	if every == 0 {
		every = time.Minute
	}
	if pageLimit == 0 {
		pageLimit = 30
	}
	return &Worker{
		workspaces: workspaces,
		data:       dataService,
		every:      every,
		pageLimit:  pageLimit,
	}
}

// Run warms once immediately, then on every tick until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log.Info().
		Dur("every", w.every).
		Int("page_limit", w.pageLimit).
		Msg("cache warm worker started")

	ticker := time.NewTicker(w.every)
	defer ticker.Stop()

	w.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("cache warm worker stopping")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	if err := w.WarmAll(ctx); err != nil {
		metrics.WarmRunsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("error warming page cache")
		return
	}
	metrics.WarmRunsTotal.WithLabelValues("ok").Inc()
}

// WarmAll renders page 1 of apps and datasets for every active workspace.
// A failure on one workspace does not stop the others.
func (w *Worker) WarmAll(ctx context.Context) error {
	list, err := w.workspaces.ListActive(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	for _, ws := range list {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.warmWorkspace(ctx, ws.ID)
	}

	log.Debug().
		Int("workspaces", len(list)).
		Dur("duration", time.Since(start)).
		Msg("page cache warmed")
	return nil
}

func (w *Worker) warmWorkspace(ctx context.Context, workspaceID int64) {
	req := data.ListRequest{Page: 1, Limit: w.pageLimit}

	if _, err := w.data.ListApps(ctx, workspaceID, req); err != nil {
		log.Error().Err(err).Int64("workspace_id", workspaceID).Str("resource", data.ResourceApps).Msg("failed to warm page")
	}
	if _, err := w.data.ListDatasets(ctx, workspaceID, req); err != nil {
		log.Error().Err(err).Int64("workspace_id", workspaceID).Str("resource", data.ResourceDatasets).Msg("failed to warm page")
	}
}
