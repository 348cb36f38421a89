package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workboards/workboards/internal/domain"
	"github.com/workboards/workboards/internal/store/memory"
)

func seedItem(boardID, groupID uuid.UUID, name string, key float64) *domain.Item {
	now := time.Now().UTC()
	return &domain.Item{
		ID:        uuid.New(),
		BoardID:   boardID,
		GroupID:   groupID,
		Name:      name,
		Order:     key,
		Status:    domain.ItemStatusTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStore_NotFoundMapping(t *testing.T) {
	t.Parallel()

	s := memory.New()
	ctx := context.Background()

	_, err := s.Workspaces().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Boards().GetByID(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Groups().GetByID(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Items().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.Items().Update(ctx, seedItem(uuid.New(), uuid.New(), "ghost", 1000.0))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.Items().UpdateOrder(ctx, uuid.New(), 1000.0, time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_BoardScopedLookups(t *testing.T) {
	t.Parallel()

	s := memory.New()
	ctx := context.Background()

	wsA, wsB := uuid.New(), uuid.New()
	board, err := domain.NewBoard(wsA, "b", "")
	require.NoError(t, err)
	require.NoError(t, s.Boards().Create(ctx, board))

	// The right workspace sees the board, any other does not.
	got, err := s.Boards().GetByID(ctx, wsA, board.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, got.ID)

	_, err = s.Boards().GetByID(ctx, wsB, board.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	group, err := domain.NewGroup(board.ID, "g", 1)
	require.NoError(t, err)
	require.NoError(t, s.Groups().Create(ctx, group))

	_, err = s.Groups().GetByID(ctx, uuid.New(), group.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "group lookups are board scoped")
}

func TestStore_ListLane(t *testing.T) {
	t.Parallel()

	s := memory.New()
	ctx := context.Background()

	boardID, groupID := uuid.New(), uuid.New()
	lane := domain.Lane{BoardID: boardID, GroupID: groupID, Status: domain.ItemStatusTodo}

	// Inserted out of order; one deleted; one in a different status column.
	b := seedItem(boardID, groupID, "B", 2000.0)
	a := seedItem(boardID, groupID, "A", 1000.0)
	gone := seedItem(boardID, groupID, "gone", 1500.0)
	gone.SoftDelete(time.Now().UTC())
	other := seedItem(boardID, groupID, "doing", 500.0)
	other.Status = domain.ItemStatusDoing

	for _, it := range []*domain.Item{b, a, gone, other} {
		require.NoError(t, s.Items().Create(ctx, it))
	}

	items, err := s.Items().ListLane(ctx, lane)
	require.NoError(t, err)
	require.Len(t, items, 2, "deleted items and other lanes are excluded")
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, b.ID, items[1].ID)
}

func TestStore_ListByBoardIncludesDeleted(t *testing.T) {
	t.Parallel()

	s := memory.New()
	ctx := context.Background()

	boardID, groupID := uuid.New(), uuid.New()
	live := seedItem(boardID, groupID, "live", 1000.0)
	dead := seedItem(boardID, groupID, "dead", 2000.0)
	dead.SoftDelete(time.Now().UTC())

	require.NoError(t, s.Items().Create(ctx, live))
	require.NoError(t, s.Items().Create(ctx, dead))

	items, err := s.Items().ListByBoard(ctx, boardID)
	require.NoError(t, err)
	assert.Len(t, items, 2, "board listings keep soft-deleted items so clients can restore them")
}

// Records handed out by the store are copies; mutating them must not leak
// back into store state without an explicit Update.
func TestStore_CopySemantics(t *testing.T) {
	t.Parallel()

	s := memory.New()
	ctx := context.Background()

	it := seedItem(uuid.New(), uuid.New(), "original", 1000.0)
	require.NoError(t, s.Items().Create(ctx, it))

	// Mutating the caller's struct after Create does not touch the store.
	it.Name = "mutated after create"

	got, err := s.Items().GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Name)

	// Mutating a read result does not touch the store either.
	got.Name = "mutated after read"
	again, err := s.Items().GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Name)
}

func TestStore_UpdateOrder(t *testing.T) {
	t.Parallel()

	s := memory.New()
	ctx := context.Background()

	it := seedItem(uuid.New(), uuid.New(), "x", 1500.0)
	require.NoError(t, s.Items().Create(ctx, it))

	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Items().UpdateOrder(ctx, it.ID, 2000.0, stamp))

	got, err := s.Items().GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.Order)
	assert.Equal(t, stamp, got.UpdatedAt)
	assert.Equal(t, "x", got.Name, "UpdateOrder touches nothing else")
}
