// Package memory is an in-process store for local runs and tests. Lists are
// ordered newest first like the postgres store.
package memory

import (
	"context"
	"sync"
	"time"

	"consolenav/internal/domain/app"
	"consolenav/internal/domain/dataset"
	"consolenav/internal/domain/workspace"
	"consolenav/internal/store/repositories"
)

// Store holds every collection behind one lock.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	workspaces []*workspace.Workspace
	keys       []*workspace.APIKey
	apps       []*app.App
	datasets   []*dataset.Dataset
}

func New() *Store {
	return &Store{now: time.Now}
}

func (s *Store) Apps() repositories.AppRepository             { return appRepo{s} }
func (s *Store) Datasets() repositories.DatasetRepository     { return datasetRepo{s} }
func (s *Store) Workspaces() repositories.WorkspaceRepository { return workspaceRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// page slices rows[offset:offset+limit] of the items matching keep, walking
// from the newest end.
func page[T any](rows []T, keep func(T) bool, limit, offset int) []T {
	out := make([]T, 0, limit)
	skipped := 0
	for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
		if !keep(rows[i]) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, rows[i])
	}
	return out
}

type appRepo struct{ s *Store }

func (r appRepo) Save(ctx context.Context, a *app.App) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.apps {
		if existing.ID == a.ID {
			a.CreatedAt = existing.CreatedAt
			cp := *a
			r.s.apps[i] = &cp
			return nil
		}
	}
	a.CreatedAt = r.s.now()
	cp := *a
	r.s.apps = append(r.s.apps, &cp)
	return nil
}

func (r appRepo) FindByID(ctx context.Context, workspaceID int64, id string) (*app.App, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.apps {
		if a.WorkspaceID == workspaceID && a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r appRepo) ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int) ([]*app.App, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := page(r.s.apps, func(a *app.App) bool { return a.WorkspaceID == workspaceID }, limit, offset)
	for i, a := range rows {
		cp := *a
		rows[i] = &cp
	}
	return rows, nil
}

func (r appRepo) CountByWorkspace(ctx context.Context, workspaceID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, a := range r.s.apps {
		if a.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

type datasetRepo struct{ s *Store }

func (r datasetRepo) Save(ctx context.Context, d *dataset.Dataset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.datasets {
		if existing.ID == d.ID {
			d.CreatedAt = existing.CreatedAt
			cp := *d
			r.s.datasets[i] = &cp
			return nil
		}
	}
	d.CreatedAt = r.s.now()
	cp := *d
	r.s.datasets = append(r.s.datasets, &cp)
	return nil
}

func (r datasetRepo) FindByID(ctx context.Context, workspaceID int64, id string) (*dataset.Dataset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.datasets {
		if d.WorkspaceID == workspaceID && d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r datasetRepo) ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int) ([]*dataset.Dataset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := page(r.s.datasets, func(d *dataset.Dataset) bool { return d.WorkspaceID == workspaceID }, limit, offset)
	for i, d := range rows {
		cp := *d
		rows[i] = &cp
	}
	return rows, nil
}

func (r datasetRepo) CountByWorkspace(ctx context.Context, workspaceID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, d := range r.s.datasets {
		if d.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

type workspaceRepo struct{ s *Store }

func (r workspaceRepo) Save(ctx context.Context, w *workspace.Workspace) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w.ID == 0 {
		w.ID = int64(len(r.s.workspaces) + 1)
		cp := *w
		r.s.workspaces = append(r.s.workspaces, &cp)
		return nil
	}
	for i, existing := range r.s.workspaces {
		if existing.ID == w.ID {
			cp := *w
			r.s.workspaces[i] = &cp
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r workspaceRepo) FindByID(ctx context.Context, id int64) (*workspace.Workspace, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.findLocked(id)
}

func (r workspaceRepo) findLocked(id int64) (*workspace.Workspace, error) {
	for _, w := range r.s.workspaces {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r workspaceRepo) FindByAPIKeyHash(ctx context.Context, keyHash string) (*workspace.Workspace, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, k := range r.s.keys {
		if k.KeyHash != keyHash || !k.IsActive {
			continue
		}
		w, err := r.findLocked(k.WorkspaceID)
		if err != nil || !w.IsActive() {
			return nil, repositories.ErrNotFound
		}
		return w, nil
	}
	return nil, repositories.ErrNotFound
}

func (r workspaceRepo) ListActive(ctx context.Context) ([]*workspace.Workspace, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*workspace.Workspace
	for _, w := range r.s.workspaces {
		if w.IsActive() {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r workspaceRepo) SaveAPIKey(ctx context.Context, k *workspace.APIKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if k.ID == 0 {
		k.ID = int64(len(r.s.keys) + 1)
		cp := *k
		r.s.keys = append(r.s.keys, &cp)
		return nil
	}
	for i, existing := range r.s.keys {
		if existing.ID == k.ID {
			cp := *k
			r.s.keys[i] = &cp
			return nil
		}
	}
	return repositories.ErrNotFound
}
