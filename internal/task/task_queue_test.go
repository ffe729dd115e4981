package task

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQueue(t *testing.T) {
	t.Parallel()

	t.Run("fifo order", func(t *testing.T) {
		t.Parallel()
		q := NewTaskQueue(CategoryOCR, setupTestLogger())
		q.Enqueue("a")
		q.Enqueue("b")
		q.Enqueue("c")

		for _, want := range []string{"a", "b", "c"} {
			got, ok := q.TryDequeue()
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
		_, ok := q.TryDequeue()
		assert.False(t, ok)
	})

	t.Run("remove by id", func(t *testing.T) {
		t.Parallel()
		q := NewTaskQueue(CategoryTranslation, setupTestLogger())
		q.Enqueue("a")
		q.Enqueue("b")
		q.Enqueue("c")

		assert.True(t, q.RemoveByID("b"))
		assert.False(t, q.RemoveByID("b"))
		assert.False(t, q.RemoveByID("missing"))
		assert.Equal(t, 2, q.Len())

		first, _ := q.TryDequeue()
		second, _ := q.TryDequeue()
		assert.Equal(t, "a", first)
		assert.Equal(t, "c", second)
	})

	t.Run("drain", func(t *testing.T) {
		t.Parallel()
		q := NewTaskQueue(CategoryOCR, setupTestLogger())
		q.Enqueue("a")
		q.Enqueue("b")

		assert.Equal(t, []string{"a", "b"}, q.Drain())
		assert.Equal(t, 0, q.Len())
		assert.Empty(t, q.Drain())
	})

	t.Run("concurrent enqueue keeps every id", func(t *testing.T) {
		t.Parallel()
		q := NewTaskQueue(CategoryOCR, setupTestLogger())

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				q.Enqueue(fmt.Sprintf("task-%d", i))
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 20, q.Len())
	})
}
