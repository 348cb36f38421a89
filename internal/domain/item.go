package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the closed set of kanban columns an active item can be in.
type ItemStatus string

const (
	ItemStatusTodo  ItemStatus = "Todo"
	ItemStatusDoing ItemStatus = "Doing"
	ItemStatusDone  ItemStatus = "Done"
)

// Valid reports whether s is a member of the closed status set.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusTodo, ItemStatusDoing, ItemStatusDone:
		return true
	default:
		return false
	}
}

// ParseItemStatus title-case-normalizes raw into the closed status set.
// An empty input defaults to Todo; anything outside the set is a
// validation error.
func ParseItemStatus(raw string) (ItemStatus, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ItemStatusTodo, nil
	}
	switch strings.ToLower(trimmed) {
	case "todo":
		return ItemStatusTodo, nil
	case "doing":
		return ItemStatusDoing, nil
	case "done":
		return ItemStatusDone, nil
	default:
		return "", fmt.Errorf("status %q is not one of Todo, Doing, Done: %w", raw, ErrValidation)
	}
}

// Lane is the unit of ordering: all non-deleted items sharing a
// (board, group, status) triple form one ordered card sequence.
type Lane struct {
	BoardID uuid.UUID
	GroupID uuid.UUID
	Status  ItemStatus
}

// ItemLifecycle is the explicit Active|Deleted variant behind the flat
// deleted/deletedAt fields items are persisted with.
type ItemLifecycle int

const (
	LifecycleActive ItemLifecycle = iota
	LifecycleDeleted
)

type Item struct {
	ID         uuid.UUID  `json:"id"`
	BoardID    uuid.UUID  `json:"boardId"`
	GroupID    uuid.UUID  `json:"groupId"`
	Name       string     `json:"name"`
	Order      float64    `json:"order"`
	Status     ItemStatus `json:"status"`
	AssigneeID string     `json:"assigneeId,omitempty"`
	CreatedBy  string     `json:"createdBy,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	Deleted    bool       `json:"deleted"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Lane returns the lane the item currently belongs to.
func (i *Item) Lane() Lane {
	return Lane{BoardID: i.BoardID, GroupID: i.GroupID, Status: i.Status}
}

// Lifecycle returns the item's current Active|Deleted state.
func (i *Item) Lifecycle() ItemLifecycle {
	if i.Deleted {
		return LifecycleDeleted
	}
	return LifecycleActive
}

// SoftDelete marks the item deleted, stamping DeletedAt only on the
// Active -> Deleted transition. Re-deleting an already-deleted item keeps
// the original timestamp.
func (i *Item) SoftDelete(now time.Time) {
	if !i.Deleted {
		i.Deleted = true
		i.DeletedAt = &now
	}
}

// Restore returns the item to the Active state and clears DeletedAt.
func (i *Item) Restore() {
	i.Deleted = false
	i.DeletedAt = nil
}

// ItemPatch carries partial-update fields. Nil means "leave untouched",
// never "clear". The Deleted pointer doubles as the delete/restore trigger:
// its presence, not a value change, selects the emitted event type.
type ItemPatch struct {
	Name       *string
	GroupID    *uuid.UUID
	Status     *ItemStatus
	Order      *float64
	AssigneeID *string
	DueDate    *time.Time
	Deleted    *bool
}

// Empty reports whether the patch carries no fields at all.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.GroupID == nil && p.Status == nil &&
		p.Order == nil && p.AssigneeID == nil && p.DueDate == nil &&
		p.Deleted == nil
}

type ItemRepository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// ListByBoard returns all items of a board, deleted included,
	// ordered by order key.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Item, error)
	// ListLane returns the non-deleted items of one lane ordered by
	// order key ascending.
	ListLane(ctx context.Context, lane Lane) ([]*Item, error)
	Update(ctx context.Context, it *Item) error
	// UpdateOrder rewrites a single item's order key, refreshing its
	// updated timestamp.
	UpdateOrder(ctx context.Context, id uuid.UUID, key float64, updatedAt time.Time) error
}
