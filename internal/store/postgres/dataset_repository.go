package postgres

import (
	"context"

	"consolenav/internal/domain/dataset"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type datasetRepository struct {
	db *pgxpool.Pool
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *pgxpool.Pool) *datasetRepository {
	return &datasetRepository{db: db}
}

func (r *datasetRepository) Save(ctx context.Context, d *dataset.Dataset) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO datasets (id, workspace_id, name, description, icon, icon_background)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		  SET name = EXCLUDED.name,
		      description = EXCLUDED.description,
		      icon = EXCLUDED.icon,
		      icon_background = EXCLUDED.icon_background
		RETURNING document_count, created_at`,
		d.ID, d.WorkspaceID, d.Name, d.Description, d.Icon, d.IconBackground,
	).Scan(&d.DocumentCount, &d.CreatedAt)
}

func (r *datasetRepository) FindByID(ctx context.Context, workspaceID int64, id string) (*dataset.Dataset, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, workspace_id, name, description, icon, icon_background, document_count, created_at
		  FROM datasets
		 WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	return scanDataset(row)
}

func (r *datasetRepository) ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int) ([]*dataset.Dataset, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, workspace_id, name, description, icon, icon_background, document_count, created_at
		  FROM datasets
		 WHERE workspace_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		workspaceID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*dataset.Dataset, 0, limit)
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *datasetRepository) CountByWorkspace(ctx context.Context, workspaceID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM datasets WHERE workspace_id = $1`, workspaceID).Scan(&n)
	return n, err
}

func scanDataset(row pgx.Row) (*dataset.Dataset, error) {
	var d dataset.Dataset
	err := row.Scan(&d.ID, &d.WorkspaceID, &d.Name, &d.Description, &d.Icon, &d.IconBackground, &d.DocumentCount, &d.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}
