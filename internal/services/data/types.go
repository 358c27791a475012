package data

import "fmt"

const (
	ResourceApps     = "apps"
	ResourceDatasets = "datasets"

	DefaultLimit = 20
	MaxLimit     = 100
)

// ListRequest is a 1-based page request.
type ListRequest struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// ListResponse is one page of a collection.
type ListResponse[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
	Limit   int  `json:"limit"`
	Page    int  `json:"page"`
	Total   int  `json:"total"`
}

// Validate validates and normalizes list request parameters
func (req *ListRequest) Validate() {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}
}

// Offset is the row offset of the first item on the page.
func (req ListRequest) Offset() int {
	return (req.Page - 1) * req.Limit
}

// CreateAppRequest is the payload for a new app.
type CreateAppRequest struct {
	Name           string `json:"name"`
	Mode           string `json:"mode"`
	Icon           string `json:"icon"`
	IconBackground string `json:"icon_background"`
}

// CreateDatasetRequest is the payload for a new dataset.
type CreateDatasetRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Icon           string `json:"icon"`
	IconBackground string `json:"icon_background"`
}

// ValidationError represents a rejected create payload
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ServiceError represents a data service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "data service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
