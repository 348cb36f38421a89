// Package memory is an in-process implementation of the domain repositories,
// used for dev mode and tests. All methods copy records on the way in and
// out so callers never alias store-owned state.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workboards/workboards/internal/domain"
)

type Store struct {
	mu         sync.RWMutex
	workspaces map[uuid.UUID]*domain.Workspace
	boards     map[uuid.UUID]*domain.Board
	groups     map[uuid.UUID]*domain.Group
	items      map[uuid.UUID]*domain.Item
}

func New() *Store {
	return &Store{
		workspaces: make(map[uuid.UUID]*domain.Workspace),
		boards:     make(map[uuid.UUID]*domain.Board),
		groups:     make(map[uuid.UUID]*domain.Group),
		items:      make(map[uuid.UUID]*domain.Item),
	}
}

func (s *Store) Workspaces() domain.WorkspaceRepository { return (*workspaceRepo)(s) }
func (s *Store) Boards() domain.BoardRepository         { return (*boardRepo)(s) }
func (s *Store) Groups() domain.GroupRepository         { return (*groupRepo)(s) }
func (s *Store) Items() domain.ItemRepository           { return (*itemRepo)(s) }

// ---------------------------------------------------------------------------
// Workspaces
// ---------------------------------------------------------------------------

type workspaceRepo Store

func (r *workspaceRepo) Create(_ context.Context, w *domain.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *w
	r.workspaces[w.ID] = &cp
	return nil
}

func (r *workspaceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("memory.workspaceRepo.GetByID: %w", domain.ErrNotFound)
	}
	cp := *w
	return &cp, nil
}

// ---------------------------------------------------------------------------
// Boards
// ---------------------------------------------------------------------------

type boardRepo Store

func (r *boardRepo) Create(_ context.Context, b *domain.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *b
	r.boards[b.ID] = &cp
	return nil
}

func (r *boardRepo) GetByID(_ context.Context, workspaceID, id uuid.UUID) (*domain.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.boards[id]
	if !ok || b.WorkspaceID != workspaceID {
		return nil, fmt.Errorf("memory.boardRepo.GetByID: %w", domain.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r *boardRepo) List(_ context.Context, workspaceID uuid.UUID) ([]*domain.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var boards []*domain.Board
	for _, b := range r.boards {
		if b.WorkspaceID == workspaceID {
			cp := *b
			boards = append(boards, &cp)
		}
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].CreatedAt.Before(boards[j].CreatedAt) })

	return boards, nil
}

// ---------------------------------------------------------------------------
// Groups
// ---------------------------------------------------------------------------

type groupRepo Store

func (r *groupRepo) Create(_ context.Context, g *domain.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *g
	r.groups[g.ID] = &cp
	return nil
}

func (r *groupRepo) GetByID(_ context.Context, boardID, id uuid.UUID) (*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[id]
	if !ok || g.BoardID != boardID {
		return nil, fmt.Errorf("memory.groupRepo.GetByID: %w", domain.ErrNotFound)
	}
	cp := *g
	return &cp, nil
}

func (r *groupRepo) ListByBoard(_ context.Context, boardID uuid.UUID) ([]*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var groups []*domain.Group
	for _, g := range r.groups {
		if g.BoardID == boardID {
			cp := *g
			groups = append(groups, &cp)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Order < groups[j].Order })

	return groups, nil
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

type itemRepo Store

func (r *itemRepo) Create(_ context.Context, it *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("memory.itemRepo.GetByID: %w", domain.ErrNotFound)
	}
	cp := *it
	return &cp, nil
}

func (r *itemRepo) ListByBoard(_ context.Context, boardID uuid.UUID) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*domain.Item
	for _, it := range r.items {
		if it.BoardID == boardID {
			cp := *it
			items = append(items, &cp)
		}
	}
	sortByOrder(items)

	return items, nil
}

func (r *itemRepo) ListLane(_ context.Context, lane domain.Lane) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*domain.Item
	for _, it := range r.items {
		if !it.Deleted && it.Lane() == lane {
			cp := *it
			items = append(items, &cp)
		}
	}
	sortByOrder(items)

	return items, nil
}

func (r *itemRepo) Update(_ context.Context, it *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[it.ID]; !ok {
		return fmt.Errorf("memory.itemRepo.Update: %w", domain.ErrNotFound)
	}
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *itemRepo) UpdateOrder(_ context.Context, id uuid.UUID, key float64, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok {
		return fmt.Errorf("memory.itemRepo.UpdateOrder: %w", domain.ErrNotFound)
	}
	it.Order = key
	it.UpdatedAt = updatedAt
	return nil
}

func sortByOrder(items []*domain.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
}
