package workspace

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"consolenav/internal/domain/workspace"
	"consolenav/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

const apiKeyPrefix = "csk_"

// OnboardingRequest represents workspace onboarding data
type OnboardingRequest struct {
	Name       string `json:"name"`
	APIKeyName string `json:"api_key_name,omitempty"`
}

// OnboardingResponse carries the plaintext key; it is never shown again.
type OnboardingResponse struct {
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
	APIKey      string `json:"api_key"`
	APIKeyName  string `json:"api_key_name"`
}

// Service handles workspace management
type Service struct {
	repo repositories.WorkspaceRepository
}

// NewService creates a new workspace service
func NewService(repo repositories.WorkspaceRepository) *Service {
	return &Service{repo: repo}
}

// Onboard creates a workspace and its first API key.
func (s *Service) Onboard(ctx context.Context, req OnboardingRequest) (*OnboardingResponse, error) {
	ws, err := workspace.NewWorkspace(req.Name)
	if err != nil {
		return nil, &ValidationError{Field: "name", Message: err.Error()}
	}
	if err := s.repo.Save(ctx, ws); err != nil {
		return nil, &ServiceError{Op: "save_workspace", Err: err}
	}

	apiKey, keyName, err := s.IssueAPIKey(ctx, ws.ID, req.APIKeyName)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("workspace_id", ws.ID).Str("api_key_name", keyName).Msg("workspace onboarded")
	return &OnboardingResponse{
		WorkspaceID: ws.ID,
		Name:        ws.Name,
		APIKey:      apiKey,
		APIKeyName:  keyName,
	}, nil
}

// IssueAPIKey generates and stores a new API key for the workspace.
func (s *Service) IssueAPIKey(ctx context.Context, workspaceID int64, keyName string) (string, string, error) {
	keyBytes := make([]byte, 24)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", "", &ServiceError{Op: "generate_api_key", Err: err}
	}
	apiKey := apiKeyPrefix + hex.EncodeToString(keyBytes)

	key, err := workspace.NewAPIKey(workspaceID, keyName, HashAPIKey(apiKey))
	if err != nil {
		return "", "", &ValidationError{Field: "api_key_name", Message: err.Error()}
	}
	if err := s.repo.SaveAPIKey(ctx, key); err != nil {
		return "", "", &ServiceError{Op: "save_api_key", Err: err}
	}
	return apiKey, key.Name, nil
}

// Authenticate resolves the workspace owning apiKey.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*workspace.Workspace, error) {
	apiKey = strings.TrimSpace(apiKey)
	if !strings.HasPrefix(apiKey, apiKeyPrefix) {
		return nil, &ValidationError{Field: "api_key", Message: "malformed api key"}
	}
	ws, err := s.repo.FindByAPIKeyHash(ctx, HashAPIKey(apiKey))
	if err != nil {
		return nil, &ServiceError{Op: "authenticate", Err: err}
	}
	return ws, nil
}

// ListActive returns workspaces that can serve requests.
func (s *Service) ListActive(ctx context.Context) ([]*workspace.Workspace, error) {
	out, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "list_active", Err: err}
	}
	return out, nil
}

// HashAPIKey returns the hex SHA-256 of a key, the form stored at rest.
func HashAPIKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:])
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("workspace service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
