package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workboards/workboards/internal/domain"
)

type GroupRepo struct {
	pool *pgxpool.Pool
}

func NewGroupRepo(pool *pgxpool.Pool) *GroupRepo {
	return &GroupRepo{pool: pool}
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO board_groups (id, board_id, name, sort_order)
		 VALUES ($1, $2, $3, $4)`,
		g.ID, g.BoardID, g.Name, g.Order,
	)
	if err != nil {
		return fmt.Errorf("groupRepo.Create: %w", err)
	}

	return nil
}

func (r *GroupRepo) GetByID(ctx context.Context, boardID, id uuid.UUID) (*domain.Group, error) {
	var g domain.Group

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, name, sort_order
		 FROM board_groups WHERE board_id = $1 AND id = $2`,
		boardID, id,
	).Scan(&g.ID, &g.BoardID, &g.Name, &g.Order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("groupRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("groupRepo.GetByID: %w", err)
	}

	return &g, nil
}

func (r *GroupRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Group, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, name, sort_order
		 FROM board_groups WHERE board_id = $1
		 ORDER BY sort_order
		 LIMIT 200`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.BoardID, &g.Name, &g.Order); err != nil {
			return nil, fmt.Errorf("groupRepo.ListByBoard: scan: %w", err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("groupRepo.ListByBoard: %w", err)
	}

	return groups, nil
}
