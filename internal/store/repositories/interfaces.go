package repositories

import (
	"context"
	"errors"

	"consolenav/internal/domain/app"
	"consolenav/internal/domain/dataset"
	"consolenav/internal/domain/workspace"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// AppRepository defines the contract for app data access
type AppRepository interface {
	Save(ctx context.Context, a *app.App) error
	FindByID(ctx context.Context, workspaceID int64, id string) (*app.App, error)
	ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int) ([]*app.App, error)
	CountByWorkspace(ctx context.Context, workspaceID int64) (int, error)
}

// DatasetRepository defines the contract for dataset data access
type DatasetRepository interface {
	Save(ctx context.Context, d *dataset.Dataset) error
	FindByID(ctx context.Context, workspaceID int64, id string) (*dataset.Dataset, error)
	ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int) ([]*dataset.Dataset, error)
	CountByWorkspace(ctx context.Context, workspaceID int64) (int, error)
}

// WorkspaceRepository defines the contract for workspace data access
type WorkspaceRepository interface {
	Save(ctx context.Context, w *workspace.Workspace) error
	FindByID(ctx context.Context, id int64) (*workspace.Workspace, error)
	FindByAPIKeyHash(ctx context.Context, keyHash string) (*workspace.Workspace, error)
	ListActive(ctx context.Context) ([]*workspace.Workspace, error)
	SaveAPIKey(ctx context.Context, apiKey *workspace.APIKey) error
}
