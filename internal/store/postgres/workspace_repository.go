package postgres

import (
	"context"

	"consolenav/internal/domain/workspace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// workspaceRepository implements WorkspaceRepository over pgx
type workspaceRepository struct {
	db *pgxpool.Pool
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *pgxpool.Pool) *workspaceRepository {
	return &workspaceRepository{db: db}
}

// Save saves a workspace (insert or update)
func (r *workspaceRepository) Save(ctx context.Context, w *workspace.Workspace) error {
	if w.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO workspaces (name, status)
			VALUES ($1, $2)
			RETURNING id`,
			w.Name, string(w.Status)).Scan(&w.ID)
	}
	_, err := r.db.Exec(ctx, `
		UPDATE workspaces
		SET name = $1, status = $2
		WHERE id = $3`,
		w.Name, string(w.Status), w.ID)
	return err
}

// FindByID finds a workspace by ID
func (r *workspaceRepository) FindByID(ctx context.Context, id int64) (*workspace.Workspace, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, status
		FROM workspaces
		WHERE id = $1`, id)
	return scanWorkspace(row)
}

// FindByAPIKeyHash resolves the workspace owning an active key
func (r *workspaceRepository) FindByAPIKeyHash(ctx context.Context, keyHash string) (*workspace.Workspace, error) {
	row := r.db.QueryRow(ctx, `
		SELECT w.id, w.name, w.status
		FROM workspaces w
		JOIN workspace_api_keys k ON w.id = k.workspace_id
		WHERE k.key_hash = $1 AND k.is_active AND w.status = 'normal'`, keyHash)
	return scanWorkspace(row)
}

// ListActive returns every workspace in normal status
func (r *workspaceRepository) ListActive(ctx context.Context) ([]*workspace.Workspace, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, status
		FROM workspaces
		WHERE status = 'normal'
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*workspace.Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// SaveAPIKey inserts a new key or updates name/active flag of an existing one
func (r *workspaceRepository) SaveAPIKey(ctx context.Context, apiKey *workspace.APIKey) error {
	if apiKey.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO workspace_api_keys (workspace_id, name, key_hash, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			apiKey.WorkspaceID, apiKey.Name, apiKey.KeyHash, apiKey.IsActive).Scan(&apiKey.ID)
	}
	_, err := r.db.Exec(ctx, `
		UPDATE workspace_api_keys
		SET name = $1, is_active = $2
		WHERE id = $3`,
		apiKey.Name, apiKey.IsActive, apiKey.ID)
	return err
}

func scanWorkspace(row pgx.Row) (*workspace.Workspace, error) {
	var w workspace.Workspace
	var status string
	if err := row.Scan(&w.ID, &w.Name, &status); err != nil {
		return nil, notFound(err)
	}
	w.Status = workspace.Status(status)
	return &w, nil
}
