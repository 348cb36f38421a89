package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workboards/workboards/internal/domain"
)

const itemColumns = `id, board_id, group_id, name, sort_order, status, assignee_id,
	        created_by, due_date, deleted, deleted_at, created_at, updated_at`

type ItemRepo struct {
	pool *pgxpool.Pool
}

func NewItemRepo(pool *pgxpool.Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

func (r *ItemRepo) Create(ctx context.Context, it *domain.Item) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO items (id, board_id, group_id, name, sort_order, status, assignee_id, created_by, due_date, deleted, deleted_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		it.ID, it.BoardID, it.GroupID, it.Name, it.Order, it.Status,
		it.AssigneeID, it.CreatedBy, it.DueDate, it.Deleted, it.DeletedAt,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("itemRepo.Create: %w", err)
	}

	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+`
		 FROM items WHERE id = $1`,
		id,
	)

	it, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("itemRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("itemRepo.GetByID: %w", err)
	}

	return it, nil
}

func (r *ItemRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+itemColumns+`
		 FROM items WHERE board_id = $1
		 ORDER BY sort_order
		 LIMIT 1000`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("itemRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	return collectItems(rows, "itemRepo.ListByBoard")
}

func (r *ItemRepo) ListLane(ctx context.Context, lane domain.Lane) ([]*domain.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+itemColumns+`
		 FROM items
		 WHERE board_id = $1 AND group_id = $2 AND status = $3 AND NOT deleted
		 ORDER BY sort_order
		 LIMIT 1000`,
		lane.BoardID, lane.GroupID, lane.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("itemRepo.ListLane: %w", err)
	}
	defer rows.Close()

	return collectItems(rows, "itemRepo.ListLane")
}

func (r *ItemRepo) Update(ctx context.Context, it *domain.Item) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET group_id = $1, name = $2, sort_order = $3, status = $4,
		        assignee_id = $5, due_date = $6, deleted = $7, deleted_at = $8, updated_at = $9
		 WHERE id = $10`,
		it.GroupID, it.Name, it.Order, it.Status,
		it.AssigneeID, it.DueDate, it.Deleted, it.DeletedAt, it.UpdatedAt,
		it.ID,
	)
	if err != nil {
		return fmt.Errorf("itemRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itemRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ItemRepo) UpdateOrder(ctx context.Context, id uuid.UUID, key float64, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET sort_order = $1, updated_at = $2 WHERE id = $3`,
		key, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("itemRepo.UpdateOrder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itemRepo.UpdateOrder: %w", domain.ErrNotFound)
	}

	return nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID, &it.BoardID, &it.GroupID, &it.Name, &it.Order, &it.Status,
		&it.AssigneeID, &it.CreatedBy, &it.DueDate, &it.Deleted, &it.DeletedAt,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func collectItems(rows pgx.Rows, op string) ([]*domain.Item, error) {
	var items []*domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}
