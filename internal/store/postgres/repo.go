package postgres

import (
	"consolenav/internal/store/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo bundles the pgx-backed repositories over one pool.
type Repo struct {
	db         *pgxpool.Pool
	apps       *appRepository
	datasets   *datasetRepository
	workspaces *workspaceRepository
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db:         db,
		apps:       NewAppRepository(db),
		datasets:   NewDatasetRepository(db),
		workspaces: NewWorkspaceRepository(db),
	}
}

// Expose the underlying pool for health checks.
func (r *Repo) DB() *pgxpool.Pool { return r.db }

func (r *Repo) Apps() repositories.AppRepository             { return r.apps }
func (r *Repo) Datasets() repositories.DatasetRepository     { return r.datasets }
func (r *Repo) Workspaces() repositories.WorkspaceRepository { return r.workspaces }
