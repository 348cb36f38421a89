package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/workboards/workboards/internal/domain"
	"github.com/workboards/workboards/internal/order"
	"github.com/workboards/workboards/internal/server/middleware"
)

type BootstrapOutput struct {
	Body struct {
		WorkspaceID uuid.UUID        `json:"workspaceId"`
		Boards      []BoardWithLanes `json:"boards"`
	}
}

type BoardWithLanes struct {
	*domain.Board
	Groups []*domain.Group `json:"groups"`
}

type CreateBoardInput struct {
	Body struct {
		Name        string `json:"name,omitempty" maxLength:"200" doc:"Board name"`
		Description string `json:"description,omitempty" doc:"Board description"`
	}
}

type CreateBoardOutput struct {
	Body *domain.Board
}

type ListBoardsOutput struct {
	Body []*domain.Board
}

type CreateGroupInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	Body    struct {
		Name  string  `json:"name,omitempty" maxLength:"200" doc:"Group name"`
		Order float64 `json:"order,omitempty" doc:"Lane display order"`
	}
}

type CreateGroupOutput struct {
	Body *domain.Group
}

type ListGroupsInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
}

type ListGroupsOutput struct {
	Body []*domain.Group
}

// RegisterBoardRoutes wires bootstrap, board, and group operations.
func RegisterBoardRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "bootstrap",
		Method:      http.MethodGet,
		Path:        "/bootstrap",
		Summary:     "Ensure the workspace exists and return its boards",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*BootstrapOutput, error) {
		workspaceID, userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if err := ensureWorkspace(ctx, store, workspaceID, userID); err != nil {
			return nil, huma.Error500InternalServerError("failed to provision workspace", err)
		}

		boards, err := store.Boards().List(ctx, workspaceID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list boards", err)
		}

		out := &BootstrapOutput{}
		out.Body.WorkspaceID = workspaceID
		out.Body.Boards = make([]BoardWithLanes, 0, len(boards))
		for _, b := range boards {
			groups, err := store.Groups().ListByBoard(ctx, b.ID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to list groups", err)
			}
			if groups == nil {
				groups = []*domain.Group{}
			}
			out.Body.Boards = append(out.Body.Boards, BoardWithLanes{Board: b, Groups: groups})
		}

		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-board",
		Method:      http.MethodPost,
		Path:        "/boards",
		Summary:     "Create a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		workspaceID, _, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		b, err := domain.NewBoard(workspaceID, input.Body.Name, input.Body.Description)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		if err := store.Boards().Create(ctx, b); err != nil {
			return nil, huma.Error500InternalServerError("failed to create board", err)
		}

		return &CreateBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards in the workspace",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*ListBoardsOutput, error) {
		workspaceID, _, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		boards, err := store.Boards().List(ctx, workspaceID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list boards", err)
		}

		return &ListBoardsOutput{Body: boards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-group",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/groups",
		Summary:     "Create a group (lane container) on a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateGroupInput) (*CreateGroupOutput, error) {
		workspaceID, _, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := store.Boards().GetByID(ctx, workspaceID, input.BoardID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate board", err)
		}

		g, err := domain.NewGroup(input.BoardID, input.Body.Name, input.Body.Order)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		if err := store.Groups().Create(ctx, g); err != nil {
			return nil, huma.Error500InternalServerError("failed to create group", err)
		}

		return &CreateGroupOutput{Body: g}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-groups",
		Method:      http.MethodGet,
		Path:        "/boards/{boardID}/groups",
		Summary:     "List a board's groups in display order",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *ListGroupsInput) (*ListGroupsOutput, error) {
		workspaceID, _, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := store.Boards().GetByID(ctx, workspaceID, input.BoardID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate board", err)
		}

		groups, err := store.Groups().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list groups", err)
		}

		return &ListGroupsOutput{Body: groups}, nil
	})
}

// identity pulls the workspace and user identity the middleware stored.
func identity(ctx context.Context) (uuid.UUID, string, error) {
	workspaceID, ok := middleware.WorkspaceIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", huma.Error401Unauthorized("missing workspace context")
	}
	userID, _ := middleware.UserIDFromContext(ctx)
	return workspaceID, userID, nil
}

// ensureWorkspace auto-provisions a demo workspace for quick start: a
// sample board with Backlog / In Progress / Done lanes and six seeded
// Todo items. Seeding bypasses the pipeline on purpose; nobody can be
// subscribed to a board that does not exist yet.
func ensureWorkspace(ctx context.Context, store DataStore, workspaceID uuid.UUID, userID string) error {
	_, err := store.Workspaces().GetByID(ctx, workspaceID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	ws := domain.NewWorkspace(workspaceID, "Demo Workspace", userID)
	if err := store.Workspaces().Create(ctx, ws); err != nil {
		return err
	}

	board, err := domain.NewBoard(ws.ID, "Projects", "Sample board")
	if err != nil {
		return err
	}
	if err := store.Boards().Create(ctx, board); err != nil {
		return err
	}

	var backlog *domain.Group
	for i, name := range []string{"Backlog", "In Progress", "Done"} {
		g, err := domain.NewGroup(board.ID, name, float64(i+1))
		if err != nil {
			return err
		}
		if err := store.Groups().Create(ctx, g); err != nil {
			return err
		}
		if backlog == nil {
			backlog = g
		}
	}

	now := time.Now().UTC()
	for i := 1; i <= 6; i++ {
		it := &domain.Item{
			ID:        uuid.New(),
			BoardID:   board.ID,
			GroupID:   backlog.ID,
			Name:      fmt.Sprintf("Task %d", i),
			Order:     order.BaseSpacing * float64(i),
			Status:    domain.ItemStatusTodo,
			CreatedBy: userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.Items().Create(ctx, it); err != nil {
			return err
		}
	}

	return nil
}
