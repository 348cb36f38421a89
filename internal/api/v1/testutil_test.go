package v1_test

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	v1 "github.com/workboards/workboards/internal/api/v1"
	"github.com/workboards/workboards/internal/domain"
	"github.com/workboards/workboards/internal/pipeline"
	"github.com/workboards/workboards/internal/server/middleware"
	"github.com/workboards/workboards/internal/store/memory"
)

// testEnv backs the handlers with the real memory store and pipeline so
// tests assert end-to-end API behavior, not mock plumbing.
type testEnv struct {
	api    humatest.TestAPI
	store  *memory.Store
	events chan domain.Event
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	_, api := humatest.New(t)

	store := memory.New()
	events := make(chan domain.Event, 64)
	pl := pipeline.New(store, events)

	v1.RegisterBoardRoutes(api, store)
	v1.RegisterItemRoutes(api, store, pl)

	return &testEnv{api: api, store: store, events: events}
}

// workspaceCtx fakes what the tenancy middleware puts on the request
// context; humatest bypasses the chi middleware chain.
func workspaceCtx(workspaceID uuid.UUID, userID string) context.Context {
	ctx := context.WithValue(context.Background(), middleware.ContextKeyWorkspaceID, workspaceID)
	return context.WithValue(ctx, middleware.ContextKeyUserID, userID)
}

// seedBoard provisions a workspace, a board, and one group directly in the
// store.
func (e *testEnv) seedBoard(t *testing.T, workspaceID uuid.UUID) (*domain.Board, *domain.Group) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, e.store.Workspaces().Create(ctx, domain.NewWorkspace(workspaceID, "Test", "tester")))

	board, err := domain.NewBoard(workspaceID, "Board", "")
	require.NoError(t, err)
	require.NoError(t, e.store.Boards().Create(ctx, board))

	group, err := domain.NewGroup(board.ID, "Backlog", 1)
	require.NoError(t, err)
	require.NoError(t, e.store.Groups().Create(ctx, group))

	return board, group
}
