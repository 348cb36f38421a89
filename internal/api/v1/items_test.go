package v1_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workboards/workboards/internal/domain"
	"github.com/workboards/workboards/internal/pipeline"
)

func TestCreateItem(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	workspaceID := uuid.New()
	board, group := env.seedBoard(t, workspaceID)
	ctx := workspaceCtx(workspaceID, "alex")

	resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/items", map[string]any{
		"groupId": group.ID,
		"name":    "Write release notes",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var created domain.Item
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "Write release notes", created.Name)
	assert.Equal(t, domain.ItemStatusTodo, created.Status)
	assert.Equal(t, 1000.0, created.Order)
	assert.Equal(t, "alex", created.CreatedBy, "creator identity comes from the request headers")

	resp = env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/items", map[string]any{
		"groupId": group.ID,
		"name":    "Second",
		"status":  "doing",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, domain.ItemStatusDoing, created.Status, "status strings are normalized")
	assert.Equal(t, 1000.0, created.Order, "a fresh lane starts its own key space")
}

func TestCreateItem_Rejections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	workspaceID := uuid.New()
	board, group := env.seedBoard(t, workspaceID)
	ctx := workspaceCtx(workspaceID, "alex")

	t.Run("unknown board", func(t *testing.T) {
		resp := env.api.PostCtx(ctx, "/boards/"+uuid.New().String()+"/items", map[string]any{
			"groupId": group.ID, "name": "x",
		})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("unknown group", func(t *testing.T) {
		resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/items", map[string]any{
			"groupId": uuid.New(), "name": "x",
		})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("bad status", func(t *testing.T) {
		resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/items", map[string]any{
			"groupId": group.ID, "name": "x", "status": "Blocked",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("missing identity", func(t *testing.T) {
		resp := env.api.Post("/boards/"+board.ID.String()+"/items", map[string]any{
			"groupId": group.ID, "name": "x",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestListItems_OrderedByKey(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	workspaceID := uuid.New()
	board, group := env.seedBoard(t, workspaceID)
	ctx := workspaceCtx(workspaceID, "alex")

	for _, name := range []string{"A", "B", "C"} {
		resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/items", map[string]any{
			"groupId": group.ID, "name": name,
		})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := env.api.GetCtx(ctx, "/boards/"+board.ID.String()+"/items")
	require.Equal(t, http.StatusOK, resp.Code)

	var items []*domain.Item
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{items[0].Name, items[1].Name, items[2].Name})
}

func TestUpdateItem(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	workspaceID := uuid.New()
	board, group := env.seedBoard(t, workspaceID)
	ctx := workspaceCtx(workspaceID, "alex")

	resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/items", map[string]any{
		"groupId": group.ID, "name": "original",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var it domain.Item
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &it))

	resp = env.api.PatchCtx(ctx, "/items/"+it.ID.String(), map[string]any{
		"name": "renamed",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var updated domain.Item
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, it.Order, updated.Order, "absent fields stay untouched")
	assert.Equal(t, it.Status, updated.Status)
}

func TestUpdateItem_DeleteAndRestore(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	workspaceID := uuid.New()
	board, group := env.seedBoard(t, workspaceID)
	ctx := workspaceCtx(workspaceID, "alex")

	resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/items", map[string]any{
		"groupId": group.ID, "name": "doomed",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var it domain.Item
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &it))

	resp = env.api.PatchCtx(ctx, "/items/"+it.ID.String(), map[string]any{"deleted": true})
	require.Equal(t, http.StatusOK, resp.Code)

	var deleted domain.Item
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &deleted))
	assert.True(t, deleted.Deleted)
	assert.NotNil(t, deleted.DeletedAt)

	resp = env.api.PatchCtx(ctx, "/items/"+it.ID.String(), map[string]any{"deleted": false})
	require.Equal(t, http.StatusOK, resp.Code)

	var restored domain.Item
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &restored))
	assert.False(t, restored.Deleted)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, it.Order, restored.Order)
}

func TestUpdateItem_Rejections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	workspaceID := uuid.New()
	board, group := env.seedBoard(t, workspaceID)
	ctx := workspaceCtx(workspaceID, "alex")

	t.Run("unknown item", func(t *testing.T) {
		resp := env.api.PatchCtx(ctx, "/items/"+uuid.New().String(), map[string]any{"name": "x"})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("bad status", func(t *testing.T) {
		resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/items", map[string]any{
			"groupId": group.ID, "name": "x",
		})
		require.Equal(t, http.StatusOK, resp.Code)
		var it domain.Item
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &it))

		resp = env.api.PatchCtx(ctx, "/items/"+it.ID.String(), map[string]any{"status": "Archived"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestCompactLane(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	workspaceID := uuid.New()
	board, group := env.seedBoard(t, workspaceID)
	ctx := workspaceCtx(workspaceID, "alex")

	for _, body := range []map[string]any{
		{"groupId": group.ID, "name": "A"},
		{"groupId": group.ID, "name": "B"},
		{"groupId": group.ID, "name": "C", "order": 1500.0},
	} {
		resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/items", body)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/lanes/compact", map[string]any{
		"groupId": group.ID,
		"status":  "Todo",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var out struct {
		Changed int `json:"changed"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Changed)
}

func TestImportItems_CSV(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	workspaceID := uuid.New()
	board, _ := env.seedBoard(t, workspaceID)
	ctx := workspaceCtx(workspaceID, "alex")

	csvBody := strings.NewReader(strings.Join([]string{
		"name,group,status,assignee,dueDate",
		"Ship login,Backlog,doing,sam,2025-04-01",
		"Fix flaky test,Backlog,Blocked,,",
		"Plan launch,Marketing,todo,,",
	}, "\n"))

	resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/import", csvBody)
	require.Equal(t, http.StatusOK, resp.Code)

	var result pipeline.ImportResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))

	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row, "the bad status row is reported by its 1-based position")

	resp = env.api.GetCtx(ctx, "/boards/"+board.ID.String()+"/groups")
	require.Equal(t, http.StatusOK, resp.Code)
	var groups []*domain.Group
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &groups))
	require.Len(t, groups, 2, "the Marketing group is auto-created")
	assert.Equal(t, "Marketing", groups[1].Name)
}

func TestImportItems_BadCSV(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	workspaceID := uuid.New()
	board, _ := env.seedBoard(t, workspaceID)
	ctx := workspaceCtx(workspaceID, "alex")

	resp := env.api.PostCtx(ctx, "/boards/"+board.ID.String()+"/import",
		strings.NewReader("group,status\nBacklog,todo\n"))
	assert.Equal(t, http.StatusBadRequest, resp.Code, "a header without a name column is rejected outright")
}
