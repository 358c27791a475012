// Package pager accumulates pages of a remote collection behind a single
// "load more" action.
package pager

import "context"

// DefaultPageSize matches the page size the console navigation requests.
const DefaultPageSize = 30

// Request identifies one page of a named collection.
type Request struct {
	Resource  string
	PageIndex int
	PageSize  int
}

// PageNumber is the 1-based page number used on the wire.
func (r Request) PageNumber() int { return r.PageIndex + 1 }

// Page is one batch of items plus the continuation flag.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

// Item is anything with a stable identity key.
type Item interface {
	ItemID() string
}

// Fetcher performs the remote read for one page. Retries, if any, belong to
// the implementation.
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, req Request) (Page[T], error)
}

// FetchFunc adapts a plain function to Fetcher.
type FetchFunc[T any] func(ctx context.Context, req Request) (Page[T], error)

func (f FetchFunc[T]) FetchPage(ctx context.Context, req Request) (Page[T], error) {
	return f(ctx, req)
}

// KeyFor returns the request for pageIndex, or false when nothing should be
// fetched: the trigger is empty, or the previous page said there is no more.
// Page 0 never consults prev.
func KeyFor[T any](resource, trigger string, pageSize, pageIndex int, prev *Page[T]) (Request, bool) {
	if trigger == "" || pageIndex < 0 {
		return Request{}, false
	}
	if pageIndex > 0 && (prev == nil || !prev.HasMore) {
		return Request{}, false
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Request{Resource: resource, PageIndex: pageIndex, PageSize: pageSize}, true
}
