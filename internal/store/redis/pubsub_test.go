package redis_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/workboards/workboards/internal/store/redis"
)

func TestBoardChannel(t *testing.T) {
	t.Parallel()

	boardID := uuid.MustParse("b6a3f6f0-8d2a-4a63-9a1e-3a8a4d2e1c55")
	assert.Equal(t, "board:b6a3f6f0-8d2a-4a63-9a1e-3a8a4d2e1c55", redis.BoardChannel(boardID))
}

func TestWorkspaceChannel(t *testing.T) {
	t.Parallel()

	workspaceID := uuid.MustParse("0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0")
	assert.Equal(t, "workspace:0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0", redis.WorkspaceChannel(workspaceID))
}

func TestChannelNamesAreDisjoint(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	assert.NotEqual(t, redis.BoardChannel(id), redis.WorkspaceChannel(id))
}
