package pager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	ID   string
	Name string
}

func (i testItem) ItemID() string { return i.ID }

// fakeSource serves canned pages by index and records every request.
type fakeSource struct {
	mu       sync.Mutex
	pages    []Page[testItem]
	errs     map[int]error
	gate     chan struct{}
	requests []Request
}

func (f *fakeSource) FetchPage(ctx context.Context, req Request) (Page[testItem], error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Page[testItem]{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[req.PageIndex]; ok {
		delete(f.errs, req.PageIndex)
		return Page[testItem]{}, err
	}
	if req.PageIndex >= len(f.pages) {
		return Page[testItem]{}, nil
	}
	return f.pages[req.PageIndex], nil
}

func (f *fakeSource) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func items(ids ...string) []testItem {
	out := make([]testItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, testItem{ID: id, Name: "item " + id})
	}
	return out
}

func ids(in []testItem) []string {
	out := make([]string, 0, len(in))
	for _, it := range in {
		out = append(out, it.ID)
	}
	return out
}

func twoPageSource() *fakeSource {
	return &fakeSource{pages: []Page[testItem]{
		{Items: items("a", "b"), HasMore: true},
		{Items: items("c"), HasMore: false},
	}}
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestKeyFor(t *testing.T) {
	more := &Page[testItem]{HasMore: true}
	done := &Page[testItem]{HasMore: false}

	t.Run("first page ignores previous", func(t *testing.T) {
		req, ok := KeyFor[testItem]("apps", "X", 30, 0, done)
		require.True(t, ok)
		assert.Equal(t, Request{Resource: "apps", PageIndex: 0, PageSize: 30}, req)
		assert.Equal(t, 1, req.PageNumber())
	})

	t.Run("continues while has more", func(t *testing.T) {
		req, ok := KeyFor("datasets", "X", 30, 3, more)
		require.True(t, ok)
		assert.Equal(t, 4, req.PageNumber())
	})

	t.Run("stops when previous has no more", func(t *testing.T) {
		_, ok := KeyFor("apps", "X", 30, 1, done)
		assert.False(t, ok)
	})

	t.Run("stops without previous page", func(t *testing.T) {
		_, ok := KeyFor[testItem]("apps", "X", 30, 2, nil)
		assert.False(t, ok)
	})

	t.Run("absent trigger never fetches", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, ok := KeyFor("apps", "", 30, i, more)
			assert.False(t, ok, "page index %d", i)
		}
	})

	t.Run("non-positive page size falls back to default", func(t *testing.T) {
		req, ok := KeyFor[testItem]("apps", "X", 0, 0, nil)
		require.True(t, ok)
		assert.Equal(t, DefaultPageSize, req.PageSize)
	})
}

func TestLoaderLoadsPagesInOrder(t *testing.T) {
	ctx := waitCtx(t)
	src := twoPageSource()
	l := New[testItem](context.Background(), "apps", "X", src)
	defer l.Close()

	issued, err := l.LoadNext(ctx)
	require.True(t, issued)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(l.Items()))

	issued, err = l.LoadNext(ctx)
	require.True(t, issued)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(l.Items()))

	// page 1 said no more
	assert.False(t, l.RequestNextPage())
	assert.False(t, l.HasMore())
	assert.Equal(t, 2, src.requestCount())
	assert.Equal(t, 2, l.RequestedPageCount())

	src.mu.Lock()
	defer src.mu.Unlock()
	require.Len(t, src.requests, 2)
	assert.Equal(t, Request{Resource: "apps", PageIndex: 0, PageSize: 30}, src.requests[0])
	assert.Equal(t, Request{Resource: "apps", PageIndex: 1, PageSize: 30}, src.requests[1])
}

func TestLoaderIgnoresRequestsWhileLoading(t *testing.T) {
	ctx := waitCtx(t)
	src := twoPageSource()
	src.gate = make(chan struct{})
	l := New[testItem](context.Background(), "apps", "X", src)
	defer l.Close()

	require.True(t, l.RequestNextPage())
	assert.True(t, l.IsLoading())
	for i := 0; i < 5; i++ {
		assert.False(t, l.RequestNextPage())
	}
	assert.Equal(t, 1, l.RequestedPageCount())

	close(src.gate)
	require.NoError(t, l.Wait(ctx))

	assert.False(t, l.IsLoading())
	assert.Equal(t, 1, src.requestCount())
	assert.Equal(t, []string{"a", "b"}, ids(l.Items()))
}

func TestLoaderWithoutTriggerNeverFetches(t *testing.T) {
	src := twoPageSource()
	l := New[testItem](context.Background(), "datasets", "", src)
	defer l.Close()

	for i := 0; i < 5; i++ {
		assert.False(t, l.RequestNextPage())
	}
	assert.Zero(t, src.requestCount())
	assert.Empty(t, l.Items())
	assert.False(t, l.HasMore())
	assert.Zero(t, l.RequestedPageCount())
}

func TestLoaderCurrentItem(t *testing.T) {
	ctx := waitCtx(t)
	l := New[testItem](context.Background(), "apps", "X", twoPageSource())
	defer l.Close()

	_, err := l.LoadNext(ctx)
	require.NoError(t, err)

	got, ok := l.CurrentItem("b")
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	_, ok = l.CurrentItem("z")
	assert.False(t, ok)
}

func TestLoaderRetriesFailedPage(t *testing.T) {
	ctx := waitCtx(t)
	src := twoPageSource()
	boom := errors.New("boom")
	src.errs = map[int]error{1: boom}
	l := New[testItem](context.Background(), "apps", "X", src)
	defer l.Close()

	_, err := l.LoadNext(ctx)
	require.NoError(t, err)

	issued, err := l.LoadNext(ctx)
	assert.True(t, issued)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, l.RequestedPageCount())
	assert.Equal(t, []string{"a", "b"}, ids(l.Items()))

	issued, err = l.LoadNext(ctx)
	assert.True(t, issued)
	require.NoError(t, err)
	assert.Nil(t, l.Err())
	assert.Equal(t, []string{"a", "b", "c"}, ids(l.Items()))

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, 1, src.requests[1].PageIndex)
	assert.Equal(t, 1, src.requests[2].PageIndex)
}

func TestLoaderConcatenatesWithoutDedupe(t *testing.T) {
	ctx := waitCtx(t)
	src := &fakeSource{pages: []Page[testItem]{
		{Items: items("a", "b"), HasMore: true},
		{Items: items("b", "c"), HasMore: false},
	}}

	plain := New[testItem](context.Background(), "apps", "X", src)
	defer plain.Close()
	for plain.HasMore() {
		_, err := plain.LoadNext(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "b", "c"}, ids(plain.Items()))

	deduped := New[testItem](context.Background(), "apps", "X", src, WithDedupeByID())
	defer deduped.Close()
	for deduped.HasMore() {
		_, err := deduped.LoadNext(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(deduped.Items()))
}

func TestLoaderOnChangeAndSnapshot(t *testing.T) {
	ctx := waitCtx(t)
	var calls int
	var mu sync.Mutex
	l := New[testItem](context.Background(), "apps", "X", twoPageSource(),
		WithPageSize(2),
		WithOnChange(func() {
			mu.Lock()
			calls++
			mu.Unlock()
		}),
	)
	defer l.Close()

	_, err := l.LoadNext(ctx)
	require.NoError(t, err)

	snap := l.Snapshot()
	assert.Equal(t, []string{"a", "b"}, ids(snap.Items))
	assert.False(t, snap.IsLoading)
	assert.True(t, snap.HasMore)
	assert.Equal(t, 1, snap.Pages)
	assert.Equal(t, 1, snap.RequestedPageCount)

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestLoaderCloseDropsInFlightResult(t *testing.T) {
	src := twoPageSource()
	src.gate = make(chan struct{})
	l := New[testItem](context.Background(), "apps", "X", src)

	require.True(t, l.RequestNextPage())
	l.Close()
	close(src.gate)

	assert.Eventually(t, func() bool { return src.requestCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Empty(t, l.Items())
	assert.False(t, l.RequestNextPage())
}
