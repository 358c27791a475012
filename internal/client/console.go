package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"consolenav/internal/domain/app"
	"consolenav/internal/domain/dataset"
	"consolenav/internal/pager"
)

// listEnvelope is the wire shape of a list page. Pointer fields tell an
// absent key apart from a zero value.
type listEnvelope[T any] struct {
	Data    *[]T  `json:"data"`
	HasMore *bool `json:"has_more"`
}

// ListFetcher reads pages of one collection: GET <resource>?page=&limit=.
type ListFetcher[T any] struct {
	http *HTTPClient
}

// NewListFetcher returns a fetcher over c.
func NewListFetcher[T any](c *HTTPClient) *ListFetcher[T] {
	return &ListFetcher[T]{http: c}
}

// FetchPage implements pager.Fetcher. A body missing data or has_more is
// read as an empty, final page so a broken server cannot cause a fetch loop.
func (f *ListFetcher[T]) FetchPage(ctx context.Context, req pager.Request) (pager.Page[T], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(req.PageNumber()))
	q.Set("limit", strconv.Itoa(req.PageSize))

	resp, err := f.http.Get(ctx, "/"+req.Resource+"?"+q.Encode())
	if err != nil {
		return pager.Page[T]{}, err
	}

	var env listEnvelope[T]
	if err := resp.UnmarshalJSON(&env); err != nil {
		return pager.Page[T]{}, fmt.Errorf("decode %s page %d: %w", req.Resource, req.PageNumber(), err)
	}

	page := pager.Page[T]{}
	if env.Data != nil {
		page.Items = *env.Data
	}
	if env.HasMore != nil && env.Data != nil {
		page.HasMore = *env.HasMore
	}
	return page, nil
}

// Console is a typed client for the console API.
type Console struct {
	http *HTTPClient
}

// ConsoleOptions configures NewConsole.
type ConsoleOptions struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

func NewConsole(opts ConsoleOptions) *Console {
	c := NewHTTPClient("navctl", opts.Timeout)
	c.SetBaseURL(opts.BaseURL)
	c.SetAPIKey(opts.APIKey)
	policy := DefaultRetryPolicy()
	policy.MaxRetries = opts.MaxRetries
	c.SetRetryPolicy(policy)
	return &Console{http: c}
}

// Apps returns a page fetcher for the apps collection.
func (c *Console) Apps() *ListFetcher[app.App] {
	return NewListFetcher[app.App](c.http)
}

// Datasets returns a page fetcher for the datasets collection.
func (c *Console) Datasets() *ListFetcher[dataset.Dataset] {
	return NewListFetcher[dataset.Dataset](c.http)
}

// CreateApp creates an app; it backs the apps navigation "create" action.
func (c *Console) CreateApp(ctx context.Context, name string, mode app.Mode) (*app.App, error) {
	resp, err := c.http.PostJSON(ctx, "/apps", map[string]string{
		"name": name,
		"mode": string(mode),
	})
	if err != nil {
		return nil, err
	}
	var out app.App
	if err := resp.UnmarshalJSON(&out); err != nil {
		return nil, fmt.Errorf("decode app: %w", err)
	}
	return &out, nil
}

// CreateDataset creates a dataset; it backs the datasets navigation "create" action.
func (c *Console) CreateDataset(ctx context.Context, name, description string) (*dataset.Dataset, error) {
	resp, err := c.http.PostJSON(ctx, "/datasets", map[string]string{
		"name":        name,
		"description": description,
	})
	if err != nil {
		return nil, err
	}
	var out dataset.Dataset
	if err := resp.UnmarshalJSON(&out); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &out, nil
}
