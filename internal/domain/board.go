package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewBoard creates a Board with validated required fields.
func NewBoard(workspaceID uuid.UUID, name, description string) (*Board, error) {
	if workspaceID == uuid.Nil {
		return nil, errors.New("board: workspace ID is required")
	}
	if name == "" {
		name = "Untitled"
	}
	return &Board{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Group is a lane container on a board. Its Order float controls lane
// display order only and is unrelated to item order keys.
type Group struct {
	ID      uuid.UUID `json:"id"`
	BoardID uuid.UUID `json:"boardId"`
	Name    string    `json:"name"`
	Order   float64   `json:"order"`
}

// NewGroup creates a Group with validated required fields.
func NewGroup(boardID uuid.UUID, name string, order float64) (*Group, error) {
	if boardID == uuid.Nil {
		return nil, errors.New("group: board ID is required")
	}
	if name == "" {
		name = "Group"
	}
	return &Group{
		ID:      uuid.New(),
		BoardID: boardID,
		Name:    name,
		Order:   order,
	}, nil
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*Board, error)
	List(ctx context.Context, workspaceID uuid.UUID) ([]*Board, error)
}

type GroupRepository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, boardID, id uuid.UUID) (*Group, error)
	// ListByBoard returns groups ordered by their display order.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Group, error)
}
