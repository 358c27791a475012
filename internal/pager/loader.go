package pager

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	pageSize int
	dedupe   bool
	onChange func()
	logger   zerolog.Logger
}

// Option configures a Loader.
type Option func(*options)

// WithPageSize sets the page size sent with every request.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithDedupeByID drops items whose id already appeared on an earlier page.
// Off by default: pages are concatenated exactly as the source returned them.
func WithDedupeByID() Option {
	return func(o *options) { o.dedupe = true }
}

// WithOnChange registers a callback fired after every settled fetch.
func WithOnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

// WithLogger overrides the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Snapshot is what a view renders from.
type Snapshot[T any] struct {
	Items              []T
	IsLoading          bool
	HasMore            bool
	Pages              int
	RequestedPageCount int
	Err                error
}

// Loader holds the accumulated list state for one collection and one trigger
// identifier. At most one page fetch is in flight at a time.
type Loader[T Item] struct {
	resource string
	trigger  string
	fetcher  Fetcher[T]
	opts     options

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	pages     []Page[T]
	requested int
	loading   bool
	settled   chan struct{}
	err       error
	closed    bool
}

// New creates a loader for resource. An empty trigger yields a loader that
// never fetches. Nothing is fetched until RequestNextPage is called.
func New[T Item](parent context.Context, resource, trigger string, fetcher Fetcher[T], opts ...Option) *Loader[T] {
	o := options{pageSize: DefaultPageSize, logger: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(parent)
	return &Loader[T]{
		resource: resource,
		trigger:  trigger,
		fetcher:  fetcher,
		opts:     o,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Resource returns the collection name.
func (l *Loader[T]) Resource() string { return l.resource }

// Trigger returns the identifier that gates fetching.
func (l *Loader[T]) Trigger() string { return l.trigger }

// KeyFor returns the request for pageIndex given the previous page.
func (l *Loader[T]) KeyFor(pageIndex int, prev *Page[T]) (Request, bool) {
	return KeyFor(l.resource, l.trigger, l.opts.pageSize, pageIndex, prev)
}

// RequestNextPage starts fetching the next not-yet-fetched page. It returns
// false without side effects while a fetch is in flight, after Close, or when
// KeyFor yields nothing.
func (l *Loader[T]) RequestNextPage() bool {
	l.mu.Lock()
	if l.closed || l.loading {
		l.mu.Unlock()
		return false
	}

	next := len(l.pages)
	var prev *Page[T]
	if next > 0 {
		prev = &l.pages[next-1]
	}
	req, ok := l.KeyFor(next, prev)
	if !ok {
		l.mu.Unlock()
		l.opts.logger.Debug().
			Str("resource", l.resource).
			Bool("has_trigger", l.trigger != "").
			Int("page_index", next).
			Msg("no page to request")
		return false
	}

	l.requested++
	l.loading = true
	l.err = nil
	done := make(chan struct{})
	l.settled = done
	l.mu.Unlock()

	go l.fetch(req, done)
	return true
}

func (l *Loader[T]) fetch(req Request, done chan struct{}) {
	defer close(done)

	l.opts.logger.Debug().
		Str("resource", req.Resource).
		Int("page", req.PageNumber()).
		Int("limit", req.PageSize).
		Msg("fetching page")

	page, err := l.fetcher.FetchPage(l.ctx, req)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.loading = false
	if err != nil {
		l.err = err
		// the failed page is requested again on the next call
		l.requested = len(l.pages)
	} else {
		l.pages = append(l.pages, page)
	}
	onChange := l.opts.onChange
	l.mu.Unlock()

	if err != nil {
		l.opts.logger.Warn().
			Err(err).
			Str("resource", req.Resource).
			Int("page", req.PageNumber()).
			Msg("page fetch failed")
	} else {
		l.opts.logger.Debug().
			Str("resource", req.Resource).
			Int("page", req.PageNumber()).
			Int("items", len(page.Items)).
			Bool("has_more", page.HasMore).
			Msg("page fetched")
	}

	if onChange != nil {
		onChange()
	}
}

// Wait blocks until no fetch is in flight or ctx is done.
func (l *Loader[T]) Wait(ctx context.Context) error {
	l.mu.Lock()
	ch, loading := l.settled, l.loading
	l.mu.Unlock()
	if !loading || ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoadNext requests the next page and waits for it. It reports whether a
// fetch was issued and returns the fetch error, if any.
func (l *Loader[T]) LoadNext(ctx context.Context) (bool, error) {
	if !l.RequestNextPage() {
		return false, nil
	}
	if err := l.Wait(ctx); err != nil {
		return true, err
	}
	return true, l.Err()
}

// Items returns every fetched item in page order.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.itemsLocked()
}

func (l *Loader[T]) itemsLocked() []T {
	n := 0
	for _, p := range l.pages {
		n += len(p.Items)
	}
	out := make([]T, 0, n)
	var seen map[string]struct{}
	if l.opts.dedupe {
		seen = make(map[string]struct{}, n)
	}
	for _, p := range l.pages {
		for _, it := range p.Items {
			if seen != nil {
				id := it.ItemID()
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
			}
			out = append(out, it)
		}
	}
	return out
}

// CurrentItem returns the first fetched item whose id equals id.
func (l *Loader[T]) CurrentItem(id string) (T, bool) {
	for _, it := range l.Items() {
		if it.ItemID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// IsLoading reports whether a fetch is in flight.
func (l *Loader[T]) IsLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// HasMore reports whether another page may exist. A loader without a
// trigger never has more.
func (l *Loader[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMoreLocked()
}

func (l *Loader[T]) hasMoreLocked() bool {
	if l.trigger == "" {
		return false
	}
	if len(l.pages) == 0 {
		return true
	}
	return l.pages[len(l.pages)-1].HasMore
}

// RequestedPageCount is the number of pages asked for so far.
func (l *Loader[T]) RequestedPageCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requested
}

// Err returns the error of the most recent fetch, cleared when a new one starts.
func (l *Loader[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Snapshot returns a consistent view of the current state.
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot[T]{
		Items:              l.itemsLocked(),
		IsLoading:          l.loading,
		HasMore:            l.hasMoreLocked(),
		Pages:              len(l.pages),
		RequestedPageCount: l.requested,
		Err:                l.err,
	}
}

// Close discards the loader. A fetch still in flight is cancelled and its
// result is dropped.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	l.closed = true
	l.loading = false
	l.mu.Unlock()
	l.cancel()
}
