package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/workboards/workboards/internal/domain"
	"github.com/workboards/workboards/internal/pipeline"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store and *memory.Store satisfy this interface.
type DataStore interface {
	Workspaces() domain.WorkspaceRepository
	Boards() domain.BoardRepository
	Groups() domain.GroupRepository
	Items() domain.ItemRepository
}

// Mutator abstracts the mutation pipeline for handler testing.
// *pipeline.Pipeline satisfies this interface.
type Mutator interface {
	Create(ctx context.Context, params pipeline.CreateItemParams) (*domain.Item, error)
	Update(ctx context.Context, itemID uuid.UUID, patch domain.ItemPatch) (*domain.Item, error)
	CompactLane(ctx context.Context, lane domain.Lane) (int, error)
	Import(ctx context.Context, boardID uuid.UUID, createdBy string, rows []pipeline.ImportRow) (*pipeline.ImportResult, error)
}
