package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"` // default "free"
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewWorkspace creates a Workspace with defaults applied. The caller supplies
// the ID because workspaces are provisioned under a client-chosen identity.
func NewWorkspace(id uuid.UUID, name, ownerID string) *Workspace {
	if name == "" {
		name = "Workspace"
	}
	return &Workspace{
		ID:        id,
		Name:      name,
		Plan:      "free",
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
}

type WorkspaceRepository interface {
	Create(ctx context.Context, w *Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
}
