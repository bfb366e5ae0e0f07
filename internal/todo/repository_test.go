package todo_test

import (
	"context"
	"testing"

	"cantinho/common/metrics"
	"cantinho/internal/todo"
	"cantinho/testing/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)
	pgContainer.RunMigrations(t, (*todo.Reminder)(nil))

	repo := todo.NewRepository(pgContainer.DB, metrics.NewMock())
	ctx := context.Background()

	t.Run("EmptyTable", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "reminders")

		items, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("SaveKeepsOrder", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "reminders")
		first := todo.Reminder{ID: uuid.New(), Text: "first"}
		second := todo.Reminder{ID: uuid.New(), Text: "second", Done: true}

		require.NoError(t, repo.Save(ctx, []todo.Reminder{second, first}))

		items, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, second.ID, items[0].ID)
		assert.True(t, items[0].Done)
		assert.Equal(t, first.ID, items[1].ID)
	})

	t.Run("SaveReplacesPreviousList", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "reminders")
		kept := todo.Reminder{ID: uuid.New(), Text: "kept"}
		require.NoError(t, repo.Save(ctx, []todo.Reminder{{ID: uuid.New(), Text: "dropped"}, kept}))

		require.NoError(t, repo.Save(ctx, []todo.Reminder{kept}))

		items, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "kept", items[0].Text)
	})

	t.Run("SaveEmptyClearsTable", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, nil))

		items, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
