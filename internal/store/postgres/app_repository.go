package postgres

import (
	"context"

	"consolenav/internal/domain/app"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type appRepository struct {
	db *pgxpool.Pool
}

// NewAppRepository creates a new app repository
func NewAppRepository(db *pgxpool.Pool) *appRepository {
	return &appRepository{db: db}
}

// Save inserts a new app; CreatedAt is filled from the database.
func (r *appRepository) Save(ctx context.Context, a *app.App) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO apps (id, workspace_id, name, mode, icon, icon_background)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		  SET name = EXCLUDED.name,
		      mode = EXCLUDED.mode,
		      icon = EXCLUDED.icon,
		      icon_background = EXCLUDED.icon_background
		RETURNING created_at`,
		a.ID, a.WorkspaceID, a.Name, string(a.Mode), a.Icon, a.IconBackground,
	).Scan(&a.CreatedAt)
}

func (r *appRepository) FindByID(ctx context.Context, workspaceID int64, id string) (*app.App, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, workspace_id, name, mode, icon, icon_background, created_at
		  FROM apps
		 WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	return scanApp(row)
}

// ListByWorkspace returns apps newest first. Ties on created_at are broken by
// id so offsets stay stable between pages.
func (r *appRepository) ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int) ([]*app.App, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, workspace_id, name, mode, icon, icon_background, created_at
		  FROM apps
		 WHERE workspace_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		workspaceID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*app.App, 0, limit)
	for rows.Next() {
		a, err := scanApp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *appRepository) CountByWorkspace(ctx context.Context, workspaceID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM apps WHERE workspace_id = $1`, workspaceID).Scan(&n)
	return n, err
}

func scanApp(row pgx.Row) (*app.App, error) {
	var a app.App
	var mode string
	if err := row.Scan(&a.ID, &a.WorkspaceID, &a.Name, &mode, &a.Icon, &a.IconBackground, &a.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	a.Mode = app.Mode(mode)
	return &a, nil
}
