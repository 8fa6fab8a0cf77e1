package conductor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackboard.db")
	store, err := OpenStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateTask_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.CreateTask(ctx, "task1", "unit1"))
	require.NoError(t, store.CreateTask(ctx, "task1", "unit1"))

	state, found, err := store.GetTaskState(ctx, "task1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, StatePending, state)
}

func TestUpdateTaskState_TransitionsAndPersistsPayload(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.CreateTask(ctx, "task1", "unit1"))

	require.NoError(t, store.UpdateTaskState(ctx, "task1", StateCompleted, "fn foo() {}", ""))

	state, found, err := store.GetTaskState(ctx, "task1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, StateCompleted, state)
}

func TestGetTaskState_UnknownTaskNotFound(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, found, err := store.GetTaskState(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestShouldSkip_TerminalStatesSkippedUnlessForced(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.CreateTask(ctx, "task1", "unit1"))
	require.NoError(t, store.UpdateTaskState(ctx, "task1", StateFailed, "", "boom"))

	skip, err := store.ShouldSkip(ctx, "task1", false)
	require.NoError(t, err)
	assert.True(t, skip)

	skip, err = store.ShouldSkip(ctx, "task1", true)
	require.NoError(t, err)
	assert.False(t, skip)
}

func TestShouldSkip_InProgressIsNotSkipped(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.CreateTask(ctx, "task1", "unit1"))
	require.NoError(t, store.UpdateTaskState(ctx, "task1", StateInProgress, "", ""))

	skip, err := store.ShouldSkip(ctx, "task1", false)
	require.NoError(t, err)
	assert.False(t, skip)
}

func TestShouldSkip_MissingTaskIsNotSkipped(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	skip, err := store.ShouldSkip(ctx, "ghost", false)
	require.NoError(t, err)
	assert.False(t, skip)
}
