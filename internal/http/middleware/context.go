package middlewarex

import (
	"context"

	"consolenav/internal/domain/workspace"

	"github.com/rs/zerolog"
)

type workspaceKey struct{}

// WithWorkspace stores the authenticated workspace in ctx and tags the
// request logger with it, so every later log line of the request names the
// workspace.
func WithWorkspace(ctx context.Context, ws *workspace.Workspace) context.Context {
	zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Int64("workspace_id", ws.ID)
	})
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// Workspace returns the workspace resolved by APIKeyAuth.
func Workspace(ctx context.Context) (*workspace.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey{}).(*workspace.Workspace)
	return ws, ok && ws != nil
}

// WorkspaceID is Workspace for handlers that only scope queries.
func WorkspaceID(ctx context.Context) (int64, bool) {
	ws, ok := Workspace(ctx)
	if !ok {
		return 0, false
	}
	return ws.ID, true
}
