package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workboards/workboards/internal/domain"
)

// ImportRow is one parsed bulk-import row. Parsing the source format (CSV,
// table paste) is the caller's job; the pipeline owns row correctness.
type ImportRow struct {
	Name     string
	Group    string
	Status   string
	Assignee string
	DueDate  string // YYYY-MM-DD
}

// RowError is a row-scoped import failure. Rows are numbered from 1.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult reports what a batch actually did: rows that became items,
// rows that errored, and how many keys the post-batch compaction rewrote.
type ImportResult struct {
	Created   int        `json:"created"`
	Errors    []RowError `json:"errors,omitempty"`
	Compacted int        `json:"compacted"`
}

// Import creates one item per valid row at the tail of its resolved lane.
// Invalid rows become RowError entries and never abort the batch; items
// already created by earlier rows stay committed. Lanes are matched by
// case-insensitive group name, auto-creating a missing group at the end of
// the board. After the batch, each distinct lane touched by a successful
// row is compacted exactly once.
func (p *Pipeline) Import(ctx context.Context, boardID uuid.UUID, createdBy string, rows []ImportRow) (*ImportResult, error) {
	groups, err := p.store.Groups().ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("pipeline.Import: list groups: %w", err)
	}

	byName := make(map[string]*domain.Group, len(groups))
	maxOrder := 0.0
	for _, g := range groups {
		byName[strings.ToLower(g.Name)] = g
		if g.Order > maxOrder {
			maxOrder = g.Order
		}
	}

	result := &ImportResult{}

	// Capacity ceiling: accept the first maxImportRows rows and report the
	// truncation as an explicit error entry at the first dropped row.
	if len(rows) > p.maxImportRows {
		result.Errors = append(result.Errors, RowError{
			Row:    p.maxImportRows + 1,
			Reason: fmt.Sprintf("batch exceeds %d rows, remaining input truncated: %s", p.maxImportRows, domain.ErrCapacityExceeded),
		})
		rows = rows[:p.maxImportRows]
	}

	touched := make(map[domain.Lane]struct{})

	for i, row := range rows {
		rowNum := i + 1

		if strings.TrimSpace(row.Name) == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: "name is required"})
			continue
		}
		if strings.TrimSpace(row.Group) == "" {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: "group is required"})
			continue
		}

		status, err := domain.ParseItemStatus(row.Status)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		var due *time.Time
		if strings.TrimSpace(row.DueDate) != "" {
			d, err := time.Parse("2006-01-02", strings.TrimSpace(row.DueDate))
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: fmt.Sprintf("due date %q is not YYYY-MM-DD", row.DueDate)})
				continue
			}
			due = &d
		}

		group, ok := byName[strings.ToLower(strings.TrimSpace(row.Group))]
		if !ok {
			maxOrder++
			group, err = domain.NewGroup(boardID, strings.TrimSpace(row.Group), maxOrder)
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: err.Error()})
				continue
			}
			if err := p.store.Groups().Create(ctx, group); err != nil {
				return result, fmt.Errorf("pipeline.Import: create group %q: %w", group.Name, err)
			}
			byName[strings.ToLower(group.Name)] = group
		}

		it, err := p.Create(ctx, CreateItemParams{
			BoardID:    boardID,
			GroupID:    group.ID,
			Name:       strings.TrimSpace(row.Name),
			Status:     status,
			AssigneeID: strings.TrimSpace(row.Assignee),
			CreatedBy:  createdBy,
			DueDate:    due,
		})
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		result.Created++
		touched[it.Lane()] = struct{}{}
	}

	// One renormalization pass per distinct lane, not per row.
	for lane := range touched {
		n, err := p.CompactLane(ctx, lane)
		result.Compacted += n
		if err != nil {
			return result, fmt.Errorf("pipeline.Import: %w", err)
		}
	}

	return result, nil
}
