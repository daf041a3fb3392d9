package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

func TestReorder(t *testing.T) {
	ctx := context.Background()

	t.Run("applies stage and order per column position", func(t *testing.T) {
		f := newTaskFixture(t)
		pid := f.project.ID.Hex()

		a, err := f.tasks.AddTask(ctx, pid, "task a", "desc")
		require.NoError(t, err)
		b, err := f.tasks.AddTask(ctx, pid, "task b", "desc")
		require.NoError(t, err)
		c, err := f.tasks.AddTask(ctx, pid, "task c", "desc")
		require.NoError(t, err)

		placements, err := f.tasks.Reorder(ctx, pid, map[string][]string{
			"In Progress": {b.ID.Hex(), a.ID.Hex()},
			"Done":        {c.ID.Hex()},
		})
		require.NoError(t, err)
		assert.Len(t, placements, 3)

		gotB, err := f.tasks.GetTask(ctx, pid, b.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, domain.StageInProgress, gotB.Stage)
		assert.Equal(t, 0, gotB.Order)

		gotA, err := f.tasks.GetTask(ctx, pid, a.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, domain.StageInProgress, gotA.Stage)
		assert.Equal(t, 1, gotA.Order)

		gotC, err := f.tasks.GetTask(ctx, pid, c.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, domain.StageDone, gotC.Stage)
		assert.Equal(t, 0, gotC.Order)
	})

	t.Run("tasks not mentioned stay put", func(t *testing.T) {
		f := newTaskFixture(t)
		pid := f.project.ID.Hex()

		a, err := f.tasks.AddTask(ctx, pid, "task a", "desc")
		require.NoError(t, err)
		b, err := f.tasks.AddTask(ctx, pid, "task b", "desc")
		require.NoError(t, err)

		_, err = f.tasks.Reorder(ctx, pid, map[string][]string{
			"Done": {a.ID.Hex()},
		})
		require.NoError(t, err)

		gotB, err := f.tasks.GetTask(ctx, pid, b.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, domain.StageRequested, gotB.Stage)
	})

	t.Run("unknown stage rejected before any write", func(t *testing.T) {
		f := newTaskFixture(t)
		pid := f.project.ID.Hex()

		a, err := f.tasks.AddTask(ctx, pid, "task a", "desc")
		require.NoError(t, err)

		_, err = f.tasks.Reorder(ctx, pid, map[string][]string{
			"Backlog": {a.ID.Hex()},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := f.tasks.GetTask(ctx, pid, a.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, domain.StageRequested, got.Stage)
	})

	t.Run("vanished task reports zero modified", func(t *testing.T) {
		f := newTaskFixture(t)
		pid := f.project.ID.Hex()

		placements, err := f.tasks.Reorder(ctx, pid, map[string][]string{
			"Done": {"ffffffffffffffffffffffff"},
		})
		require.NoError(t, err)
		require.Len(t, placements, 1)
		assert.Equal(t, int64(0), placements[0].Modified)
	})

	t.Run("unknown project", func(t *testing.T) {
		f := newTaskFixture(t)
		_, err := f.tasks.Reorder(ctx, "ffffffffffffffffffffffff", map[string][]string{})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}
