package v1

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/workboards/workboards/internal/domain"
	"github.com/workboards/workboards/internal/pipeline"
)

type CreateItemInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	Body    struct {
		GroupID    uuid.UUID  `json:"groupId" doc:"Target group (lane container)"`
		Name       string     `json:"name" minLength:"1" maxLength:"500" doc:"Item name"`
		Status     string     `json:"status,omitempty" doc:"Todo, Doing or Done (default Todo)"`
		AssigneeID string     `json:"assigneeId,omitempty" doc:"Assignee identity"`
		DueDate    *time.Time `json:"dueDate,omitempty" doc:"Due date"`
		Order      *float64   `json:"order,omitempty" doc:"Explicit order key; omit to append at the lane tail"`
	}
}

type CreateItemOutput struct {
	Body *domain.Item
}

type ListItemsInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
}

type ListItemsOutput struct {
	Body []*domain.Item
}

type UpdateItemInput struct {
	ID   uuid.UUID `path:"id" doc:"Item ID"`
	Body struct {
		Name       *string    `json:"name,omitempty" doc:"Item name"`
		GroupID    *uuid.UUID `json:"groupId,omitempty" doc:"Move to another group"`
		Status     *string    `json:"status,omitempty" doc:"Todo, Doing or Done"`
		AssigneeID *string    `json:"assigneeId,omitempty" doc:"Assignee identity"`
		DueDate    *time.Time `json:"dueDate,omitempty" doc:"Due date"`
		Order      *float64   `json:"order,omitempty" doc:"New order key"`
		Deleted    *bool      `json:"deleted,omitempty" doc:"Soft-delete (true) or restore (false)"`
	}
}

type UpdateItemOutput struct {
	Body *domain.Item
}

type CompactLaneInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	Body    struct {
		GroupID uuid.UUID `json:"groupId" doc:"Group (lane container)"`
		Status  string    `json:"status" minLength:"1" doc:"Lane status column"`
	}
}

type CompactLaneOutput struct {
	Body struct {
		Changed int `json:"changed" doc:"Number of items whose order key was rewritten"`
	}
}

type ImportItemsInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	RawBody []byte    `doc:"CSV with a header row: name, group, status, assignee, dueDate"`
}

type ImportItemsOutput struct {
	Body *pipeline.ImportResult
}

// RegisterItemRoutes wires item CRUD, lane compaction, and CSV import.
func RegisterItemRoutes(api huma.API, store DataStore, mutator Mutator) {
	huma.Register(api, huma.Operation{
		OperationID: "create-item",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/items",
		Summary:     "Create an item at the tail of its lane",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *CreateItemInput) (*CreateItemOutput, error) {
		workspaceID, userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := store.Boards().GetByID(ctx, workspaceID, input.BoardID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate board", err)
		}

		status, err := domain.ParseItemStatus(input.Body.Status)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		it, err := mutator.Create(ctx, pipeline.CreateItemParams{
			BoardID:    input.BoardID,
			GroupID:    input.Body.GroupID,
			Name:       input.Body.Name,
			Status:     status,
			AssigneeID: input.Body.AssigneeID,
			CreatedBy:  userID,
			DueDate:    input.Body.DueDate,
			Order:      input.Body.Order,
		})
		if err != nil {
			return nil, mapPipelineError("failed to create item", err)
		}

		return &CreateItemOutput{Body: it}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/boards/{boardID}/items",
		Summary:     "List a board's items ordered by key",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
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

		items, err := store.Items().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list items", err)
		}

		return &ListItemsOutput{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-item",
		Method:      http.MethodPatch,
		Path:        "/items/{id}",
		Summary:     "Apply a partial update to an item",
		Description: "Absent fields are left untouched. Sending the deleted field soft-deletes or restores the item and changes the emitted event type accordingly.",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *UpdateItemInput) (*UpdateItemOutput, error) {
		if _, _, err := identity(ctx); err != nil {
			return nil, err
		}

		patch := domain.ItemPatch{
			Name:       input.Body.Name,
			GroupID:    input.Body.GroupID,
			AssigneeID: input.Body.AssigneeID,
			DueDate:    input.Body.DueDate,
			Order:      input.Body.Order,
			Deleted:    input.Body.Deleted,
		}
		if input.Body.Status != nil {
			status, err := domain.ParseItemStatus(*input.Body.Status)
			if err != nil {
				return nil, huma.Error422UnprocessableEntity(err.Error())
			}
			patch.Status = &status
		}

		it, err := mutator.Update(ctx, input.ID, patch)
		if err != nil {
			return nil, mapPipelineError("failed to update item", err)
		}

		return &UpdateItemOutput{Body: it}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "compact-lane",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/lanes/compact",
		Summary:     "Renormalize one lane's order keys",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *CompactLaneInput) (*CompactLaneOutput, error) {
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

		status, err := domain.ParseItemStatus(input.Body.Status)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		changed, err := mutator.CompactLane(ctx, domain.Lane{
			BoardID: input.BoardID,
			GroupID: input.Body.GroupID,
			Status:  status,
		})
		if err != nil {
			return nil, mapPipelineError("failed to compact lane", err)
		}

		out := &CompactLaneOutput{}
		out.Body.Changed = changed
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "import-items",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/import",
		Summary:     "Bulk-import items from CSV",
		Description: "Rows that fail validation become row-scoped errors; valid rows are committed regardless. Each lane touched by the batch is compacted once afterwards.",
		Tags:        []string{"Items"},
	}, func(ctx context.Context, input *ImportItemsInput) (*ImportItemsOutput, error) {
		workspaceID, userID, err := identity(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := store.Boards().GetByID(ctx, workspaceID, input.BoardID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate board", err)
		}

		rows, err := parseCSVRows(input.RawBody)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		result, err := mutator.Import(ctx, input.BoardID, userID, rows)
		if err != nil {
			return nil, mapPipelineError("import failed", err)
		}

		return &ImportItemsOutput{Body: result}, nil
	})
}

// parseCSVRows decodes a CSV payload with a header row into import rows.
// Column matching is case-insensitive; unknown columns are ignored.
func parseCSVRows(raw []byte) ([]pipeline.ImportRow, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("malformed CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, errors.New("CSV header must include a name column")
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []pipeline.ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed CSV row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, pipeline.ImportRow{
			Name:     field(record, "name"),
			Group:    field(record, "group"),
			Status:   field(record, "status"),
			Assignee: field(record, "assignee"),
			DueDate:  field(record, "duedate"),
		})
	}

	return rows, nil
}

// mapPipelineError translates domain sentinels into HTTP problem responses.
func mapPipelineError(msg string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, domain.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, domain.ErrCapacityExceeded):
		return huma.NewError(http.StatusRequestEntityTooLarge, err.Error())
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
