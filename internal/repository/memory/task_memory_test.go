package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStore_List(t *testing.T) {
	store := NewTaskStore()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "limit two", limit: 2, want: 2},
		{name: "default on zero", limit: 0, want: DefaultLimit},
		{name: "default on negative", limit: -3, want: DefaultLimit},
		{name: "capped at seed size", limit: 100, want: len(seed)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.List(tt.limit)
			assert.Len(t, got, tt.want)
			assert.Equal(t, int64(1), got[0].ID)
		})
	}
}

func TestTaskStore_ListIsImmutable(t *testing.T) {
	store := NewTaskStore()

	first := store.List(2)
	first[0].Title = "mutated"

	assert.NotEqual(t, "mutated", store.List(2)[0].Title)
}

func TestTaskStore_Get(t *testing.T) {
	store := NewTaskStore()

	t.Run("seeded id", func(t *testing.T) {
		got := store.Get(2)
		assert.Equal(t, store.List(2)[1], got)
	})

	t.Run("unknown id is synthesized", func(t *testing.T) {
		got := store.Get(42)
		assert.Equal(t, int64(42), got.ID)
		assert.Equal(t, "Task 42", got.Title)
		assert.False(t, got.Completed)
	})
}
