package data

import (
	"context"
	"time"

	"consolenav/internal/domain/app"
	"consolenav/internal/domain/dataset"
	"consolenav/internal/metrics"
	"consolenav/internal/store/rediscache"
	"consolenav/internal/store/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PageCache is the optional rendered-page cache.
type PageCache interface {
	Get(ctx context.Context, key rediscache.PageKey, dst any) (int64, bool, error)
	Set(ctx context.Context, key rediscache.PageKey, gen int64, v any) error
	Invalidate(ctx context.Context, workspaceID int64, resource string) error
}

// Service handles app and dataset listing and creation
type Service struct {
	appRepo     repositories.AppRepository
	datasetRepo repositories.DatasetRepository
	cache       PageCache
}

// NewService creates a new data service. cache may be nil.
func NewService(appRepo repositories.AppRepository, datasetRepo repositories.DatasetRepository, cache PageCache) *Service {
	return &Service{
		appRepo:     appRepo,
		datasetRepo: datasetRepo,
		cache:       cache,
	}
}

// ListApps returns one page of a workspace's apps, newest first.
func (s *Service) ListApps(ctx context.Context, workspaceID int64, req ListRequest) (*ListResponse[*app.App], error) {
	return listPage(ctx, s, ResourceApps, workspaceID, req,
		func(ctx context.Context, limit, offset int) ([]*app.App, error) {
			return s.appRepo.ListByWorkspace(ctx, workspaceID, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.appRepo.CountByWorkspace(ctx, workspaceID)
		},
	)
}

// ListDatasets returns one page of a workspace's datasets, newest first.
func (s *Service) ListDatasets(ctx context.Context, workspaceID int64, req ListRequest) (*ListResponse[*dataset.Dataset], error) {
	return listPage(ctx, s, ResourceDatasets, workspaceID, req,
		func(ctx context.Context, limit, offset int) ([]*dataset.Dataset, error) {
			return s.datasetRepo.ListByWorkspace(ctx, workspaceID, limit, offset)
		},
		func(ctx context.Context) (int, error) {
			return s.datasetRepo.CountByWorkspace(ctx, workspaceID)
		},
	)
}

// listPage reads limit+1 rows so has_more needs no second query.
func listPage[T any](
	ctx context.Context,
	s *Service,
	resource string,
	workspaceID int64,
	req ListRequest,
	list func(ctx context.Context, limit, offset int) ([]T, error),
	count func(ctx context.Context) (int, error),
) (*ListResponse[T], error) {
	req.Validate()
	start := time.Now()
	defer func() {
		metrics.ListRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	}()

	key := rediscache.PageKey{WorkspaceID: workspaceID, Resource: resource, Page: req.Page, Limit: req.Limit}
	var gen int64
	if s.cache != nil {
		var cached ListResponse[T]
		g, hit, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.PageCacheTotal.WithLabelValues(resource, "error").Inc()
			log.Warn().Err(err).Str("resource", resource).Int64("workspace_id", workspaceID).Msg("page cache lookup failed")
		case hit:
			metrics.PageCacheTotal.WithLabelValues(resource, "hit").Inc()
			metrics.ListRequestsTotal.WithLabelValues(resource, "ok").Inc()
			return &cached, nil
		default:
			metrics.PageCacheTotal.WithLabelValues(resource, "miss").Inc()
		}
		gen = g
	}

	rows, err := list(ctx, req.Limit+1, req.Offset())
	if err != nil {
		metrics.ListRequestsTotal.WithLabelValues(resource, "error").Inc()
		return nil, &ServiceError{Op: "list_" + resource, Err: err}
	}
	hasMore := len(rows) > req.Limit
	if hasMore {
		rows = rows[:req.Limit]
	}
	if rows == nil {
		rows = []T{}
	}

	total, err := count(ctx)
	if err != nil {
		metrics.ListRequestsTotal.WithLabelValues(resource, "error").Inc()
		return nil, &ServiceError{Op: "count_" + resource, Err: err}
	}

	resp := &ListResponse[T]{
		Data:    rows,
		HasMore: hasMore,
		Limit:   req.Limit,
		Page:    req.Page,
		Total:   total,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, gen, resp); err != nil {
			log.Warn().Err(err).Str("resource", resource).Int64("workspace_id", workspaceID).Msg("page cache store failed")
		}
	}
	metrics.ListRequestsTotal.WithLabelValues(resource, "ok").Inc()
	return resp, nil
}

// GetApp returns one app of the workspace.
func (s *Service) GetApp(ctx context.Context, workspaceID int64, id string) (*app.App, error) {
	if !validID(id) {
		return nil, &ServiceError{Op: "get_app", Err: repositories.ErrNotFound}
	}
	a, err := s.appRepo.FindByID(ctx, workspaceID, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_app", Err: err}
	}
	return a, nil
}

// GetDataset returns one dataset of the workspace.
func (s *Service) GetDataset(ctx context.Context, workspaceID int64, id string) (*dataset.Dataset, error) {
	if !validID(id) {
		return nil, &ServiceError{Op: "get_dataset", Err: repositories.ErrNotFound}
	}
	d, err := s.datasetRepo.FindByID(ctx, workspaceID, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_dataset", Err: err}
	}
	return d, nil
}

// validID reports whether id is a canonical UUID, the only form items are
// stored under. The uuid column rejects other strings with a query error.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// CreateApp stores a new app and invalidates the workspace's cached app pages.
func (s *Service) CreateApp(ctx context.Context, workspaceID int64, req CreateAppRequest) (*app.App, error) {
	a, err := app.NewApp(workspaceID, req.Name, app.Mode(req.Mode), req.Icon, req.IconBackground)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := s.appRepo.Save(ctx, a); err != nil {
		return nil, &ServiceError{Op: "create_app", Err: err}
	}
	s.invalidate(ctx, workspaceID, ResourceApps)

	log.Info().Int64("workspace_id", workspaceID).Str("app_id", a.ID).Str("mode", string(a.Mode)).Msg("app created")
	return a, nil
}

// CreateDataset stores a new dataset and invalidates cached dataset pages.
func (s *Service) CreateDataset(ctx context.Context, workspaceID int64, req CreateDatasetRequest) (*dataset.Dataset, error) {
	d, err := dataset.NewDataset(workspaceID, req.Name, req.Description, req.Icon, req.IconBackground)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := s.datasetRepo.Save(ctx, d); err != nil {
		return nil, &ServiceError{Op: "create_dataset", Err: err}
	}
	s.invalidate(ctx, workspaceID, ResourceDatasets)

	log.Info().Int64("workspace_id", workspaceID).Str("dataset_id", d.ID).Msg("dataset created")
	return d, nil
}

func (s *Service) invalidate(ctx context.Context, workspaceID int64, resource string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, workspaceID, resource); err != nil {
		// pages age out with the cache TTL
		log.Error().Err(err).Int64("workspace_id", workspaceID).Str("resource", resource).Msg("page cache invalidation failed")
	}
}
