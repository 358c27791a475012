package data

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"consolenav/internal/domain/app"
	"consolenav/internal/domain/dataset"
	"consolenav/internal/store/rediscache"
	"consolenav/internal/store/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memApps is an in-memory AppRepository ordered newest first.
type memApps struct {
	mu    sync.Mutex
	rows  []*app.App
	lists int
	err   error
}

func (m *memApps) Save(ctx context.Context, a *app.App) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.CreatedAt = time.Now()
	m.rows = append([]*app.App{a}, m.rows...)
	return nil
}

func (m *memApps) FindByID(ctx context.Context, workspaceID int64, id string) (*app.App, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.WorkspaceID == workspaceID && a.ID == id {
			return a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memApps) ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int) ([]*app.App, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.err != nil {
		return nil, m.err
	}
	var out []*app.App
	for _, a := range m.rows {
		if a.WorkspaceID == workspaceID {
			out = append(out, a)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memApps) CountByWorkspace(ctx context.Context, workspaceID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.rows {
		if a.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

type memDatasets struct {
	mu   sync.Mutex
	rows []*dataset.Dataset
}

func (m *memDatasets) Save(ctx context.Context, d *dataset.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, d)
	sort.SliceStable(m.rows, func(i, j int) bool { return m.rows[i].Name < m.rows[j].Name })
	return nil
}

func (m *memDatasets) FindByID(ctx context.Context, workspaceID int64, id string) (*dataset.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.rows {
		if d.WorkspaceID == workspaceID && d.ID == id {
			return d, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memDatasets) ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int) ([]*dataset.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*dataset.Dataset
	for _, d := range m.rows {
		if d.WorkspaceID == workspaceID {
			out = append(out, d)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memDatasets) CountByWorkspace(ctx context.Context, workspaceID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, d := range m.rows {
		if d.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

func seedApps(t *testing.T, svc *Service, workspaceID int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.CreateApp(context.Background(), workspaceID, CreateAppRequest{Name: fmt.Sprintf("app-%02d", i)})
		require.NoError(t, err)
	}
}

func newCache(t *testing.T) *rediscache.PageCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return rediscache.New(client, time.Minute)
}

func TestListRequestValidate(t *testing.T) {
	req := ListRequest{}
	req.Validate()
	assert.Equal(t, ListRequest{Page: 1, Limit: DefaultLimit}, req)

	req = ListRequest{Page: 3, Limit: 500}
	req.Validate()
	assert.Equal(t, MaxLimit, req.Limit)
	assert.Equal(t, 200, req.Offset())
}

func TestListAppsPaginatesWithHasMore(t *testing.T) {
	ctx := context.Background()
	apps := &memApps{}
	svc := NewService(apps, &memDatasets{}, nil)
	seedApps(t, svc, 1, 5)
	seedApps(t, svc, 2, 1)

	first, err := svc.ListApps(ctx, 1, ListRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first.Data, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, 5, first.Total)
	assert.Equal(t, "app-04", first.Data[0].Name)

	last, err := svc.ListApps(ctx, 1, ListRequest{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, last.Data, 1)
	assert.False(t, last.HasMore)

	beyond, err := svc.ListApps(ctx, 1, ListRequest{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.NotNil(t, beyond.Data)
	assert.Empty(t, beyond.Data)
	assert.False(t, beyond.HasMore)
}

func TestListAppsExactMultipleHasNoMore(t *testing.T) {
	svc := NewService(&memApps{}, &memDatasets{}, nil)
	seedApps(t, svc, 1, 4)

	page, err := svc.ListApps(context.Background(), 1, ListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.False(t, page.HasMore)
}

func TestListAppsUsesCacheUntilCreate(t *testing.T) {
	ctx := context.Background()
	apps := &memApps{}
	svc := NewService(apps, &memDatasets{}, newCache(t))
	seedApps(t, svc, 1, 3)

	first, err := svc.ListApps(ctx, 1, ListRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	second, err := svc.ListApps(ctx, 1, ListRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, apps.lists, "second read is served from cache")
	assert.Equal(t, len(first.Data), len(second.Data))

	_, err = svc.CreateApp(ctx, 1, CreateAppRequest{Name: "fresh"})
	require.NoError(t, err)

	third, err := svc.ListApps(ctx, 1, ListRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, apps.lists)
	assert.Len(t, third.Data, 4)
	assert.Equal(t, "fresh", third.Data[0].Name)
}

func TestListAppsWrapsRepositoryErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(&memApps{err: boom}, &memDatasets{}, nil)

	_, err := svc.ListApps(context.Background(), 1, ListRequest{})
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "list_apps", svcErr.Op)
	assert.ErrorIs(t, err, boom)
}

func TestCreateAndGetDataset(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memApps{}, &memDatasets{}, nil)

	d, err := svc.CreateDataset(ctx, 3, CreateDatasetRequest{Name: " Handbook ", Description: "docs"})
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "Handbook", d.Name)
	assert.Equal(t, dataset.DefaultIcon, d.Icon)

	got, err := svc.GetDataset(ctx, 3, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	_, err = svc.GetDataset(ctx, 4, d.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	page, err := svc.ListDatasets(ctx, 3, ListRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.False(t, page.HasMore)
}

// countingApps records lookups so tests can assert the store was not queried.
type countingApps struct {
	memApps
	finds int
}

func (c *countingApps) FindByID(ctx context.Context, workspaceID int64, id string) (*app.App, error) {
	c.finds++
	return c.memApps.FindByID(ctx, workspaceID, id)
}

func TestGetMalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	apps := &countingApps{}
	svc := NewService(apps, &memDatasets{}, nil)

	for _, id := range []string{"not-a-uuid", "", "123", "00000000-0000-0000-0000-00000000000z", "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8"} {
		_, err := svc.GetApp(ctx, 1, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound, id)

		_, err = svc.GetDataset(ctx, 1, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound, id)
	}
	assert.Zero(t, apps.finds)

	a, err := svc.CreateApp(ctx, 1, CreateAppRequest{Name: "bot"})
	require.NoError(t, err)
	got, err := svc.GetApp(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, 1, apps.finds)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(&memApps{}, &memDatasets{}, nil)

	_, err := svc.CreateApp(context.Background(), 1, CreateAppRequest{Name: "  "})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.CreateApp(context.Background(), 1, CreateAppRequest{Name: "x", Mode: "workflow"})
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.CreateDataset(context.Background(), 1, CreateDatasetRequest{})
	assert.ErrorAs(t, err, &vErr)
}
