package workspace

import (
	"fmt"
	"strings"
)

// Workspace owns apps and datasets. API keys are scoped to one workspace.
type Workspace struct {
	ID     int64
	Name   string
	Status Status
}

// Status represents workspace status
type Status string

const (
	StatusNormal   Status = "normal"
	StatusArchived Status = "archive"
)

// APIKey is a hashed console API key.
type APIKey struct {
	ID          int64
	WorkspaceID int64
	Name        string
	KeyHash     string
	IsActive    bool
}

// NewWorkspace creates a new workspace with validation
func NewWorkspace(name string) (*Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("workspace name is required")
	}
	if len(name) > 255 {
		return nil, fmt.Errorf("workspace name must be at most 255 characters")
	}

	return &Workspace{
		Name:   name,
		Status: StatusNormal,
	}, nil
}

// NewAPIKey creates a new API key with validation
func NewAPIKey(workspaceID int64, name, keyHash string) (*APIKey, error) {
	if workspaceID <= 0 {
		return nil, fmt.Errorf("invalid workspace ID: %d", workspaceID)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}

	if keyHash == "" {
		return nil, fmt.Errorf("key hash is required")
	}

	return &APIKey{
		WorkspaceID: workspaceID,
		Name:        name,
		KeyHash:     keyHash,
		IsActive:    true,
	}, nil
}

// IsActive reports whether the workspace can serve console requests.
func (w *Workspace) IsActive() bool {
	return w.Status == StatusNormal
}

// Archive archives the workspace
func (w *Workspace) Archive() {
	w.Status = StatusArchived
}

// IsValidForWorkspace checks the key belongs to workspaceID and is active.
func (a *APIKey) IsValidForWorkspace(workspaceID int64) bool {
	return a.WorkspaceID == workspaceID && a.IsActive
}
