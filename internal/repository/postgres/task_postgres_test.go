package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"taskapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "title", "description", "completed", "created_at", "updated_at"}

func newMock(t *testing.T) (*TaskPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTaskPostgres(db), mock
}

func TestTaskPostgres_Create(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO tasks").
		WithArgs("Write report", "quarterly numbers").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(7), "Write report", "quarterly numbers", false, now, now))

	task, err := repo.Create(context.Background(), model.TaskInput{Title: "Write report", Description: "quarterly numbers"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.False(t, task.Completed)
	assert.Equal(t, now, task.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_FindByID(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tasks WHERE id = ?").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(1), "a", "", true, time.Now(), time.Now()))

		task, err := repo.FindByID(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), task.ID)
		assert.True(t, task.Completed)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tasks WHERE id = ?").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(columns))

		task, err := repo.FindByID(ctx, 99)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, task)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_List(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM tasks ORDER BY created_at DESC").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(2), "second", "", false, now, now).
				AddRow(int64(1), "first", "", false, now.Add(-time.Minute), now))

		items, err := repo.List(ctx)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(2), items[0].ID)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tasks ORDER BY").
			WillReturnRows(sqlmock.NewRows(columns))

		items, err := repo.List(ctx)

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tasks ORDER BY").
			WillReturnError(errors.New("connection reset"))

		items, err := repo.List(ctx)

		assert.EqualError(t, err, "connection reset")
		assert.Nil(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_Update(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()
	in := model.TaskInput{Title: "renamed", Description: "new", Completed: true}

	t.Run("updated", func(t *testing.T) {
		created := time.Now().Add(-time.Hour)
		mock.ExpectQuery("UPDATE tasks SET title = \\$1, description = \\$2, completed = \\$3, updated_at = now\\(\\)").
			WithArgs("renamed", "new", true, int64(3)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(3), "renamed", "new", true, created, time.Now()))

		task, err := repo.Update(ctx, 3, in)

		require.NoError(t, err)
		assert.Equal(t, "renamed", task.Title)
		assert.True(t, task.Completed)
		assert.True(t, task.UpdatedAt.After(task.CreatedAt))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery("UPDATE tasks").
			WithArgs("renamed", "new", true, int64(404)).
			WillReturnRows(sqlmock.NewRows(columns))

		task, err := repo.Update(ctx, 404, in)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, task)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_Delete(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery("DELETE FROM tasks WHERE id = \\$1 RETURNING").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(5), "gone", "", false, time.Now(), time.Now()))
	mock.ExpectQuery("DELETE FROM tasks WHERE id = \\$1 RETURNING").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns))

	task, err := repo.Delete(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "gone", task.Title)

	task, err = repo.Delete(ctx, 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, task)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_SchemaCheckGatesQueries(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	calls := 0
	repo.WithSchema(func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
		}
		return nil
	})

	tasks, err := repo.List(ctx)
	assert.ErrorContains(t, err, "connection refused")
	assert.Nil(t, tasks)

	mock.ExpectQuery("SELECT (.+) FROM tasks ORDER BY").
		WillReturnRows(sqlmock.NewRows(columns))

	tasks, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
