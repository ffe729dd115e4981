package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queuedRecord(id string, createdAt int64, seq uint64) Record {
	return Record{
		ID:        id,
		Category:  CategoryOCR,
		Status:    TaskStatusQueued,
		CreatedAt: createdAt,
		seq:       seq,
	}
}

func TestTaskStore_PutGet(t *testing.T) {
	t.Parallel()

	store := NewTaskStore(0)
	src := "ja"
	rec := queuedRecord("t1", 10, 1)
	rec.Parameters.SourceLang = &src

	_, err := store.Put(rec)
	require.NoError(t, err)

	got, ok := store.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "t1", got.ID)

	// returned records are copies
	*got.Parameters.SourceLang = "ko"
	again, _ := store.Get("t1")
	assert.Equal(t, "ja", *again.Parameters.SourceLang)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestTaskStore_Update(t *testing.T) {
	t.Parallel()

	store := NewTaskStore(0)
	_, err := store.Put(queuedRecord("t1", 10, 1))
	require.NoError(t, err)

	rec, ok := store.Update("t1", func(r *Record) bool { return r.start(20) })
	require.True(t, ok)
	assert.Equal(t, TaskStatusProcessing, rec.Status)
	require.NotNil(t, rec.StartedAt)
	assert.Equal(t, int64(20), *rec.StartedAt)

	// declined mutation reports false and returns the current state
	rec, ok = store.Update("t1", func(r *Record) bool { return r.start(30) })
	assert.False(t, ok)
	assert.Equal(t, int64(20), *rec.StartedAt)

	_, ok = store.Update("missing", func(*Record) bool { return true })
	assert.False(t, ok)
}

func TestTaskStore_Listing(t *testing.T) {
	t.Parallel()

	store := NewTaskStore(0)
	for _, rec := range []Record{
		queuedRecord("c", 20, 3),
		queuedRecord("a", 10, 1),
		queuedRecord("b", 10, 2),
	} {
		_, err := store.Put(rec)
		require.NoError(t, err)
	}
	store.Update("b", func(r *Record) bool { return r.cancel(30) })

	var ids []string
	for _, rec := range store.ListAll() {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	ids = ids[:0]
	for _, rec := range store.ListActiveOrQueued() {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Equal(t, 3, store.Len())
}

func TestTaskStore_Capacity(t *testing.T) {
	t.Parallel()

	store := NewTaskStore(2)
	_, err := store.Put(queuedRecord("a", 1, 1))
	require.NoError(t, err)
	_, err = store.Put(queuedRecord("b", 2, 2))
	require.NoError(t, err)

	_, err = store.Put(queuedRecord("c", 3, 3))
	assert.ErrorIs(t, err, ErrStoreFull)

	store.Update("b", func(r *Record) bool { return r.cancel(5) })
	store.Update("a", func(r *Record) bool { return r.cancel(9) })

	evicted, err := store.Put(queuedRecord("c", 3, 3))
	require.NoError(t, err)
	assert.Equal(t, "b", evicted)
	assert.Equal(t, 2, store.Len())
}

func TestTaskStore_Prune(t *testing.T) {
	t.Parallel()

	store := NewTaskStore(0)
	for i, id := range []string{"old", "recent", "live"} {
		_, err := store.Put(queuedRecord(id, int64(i), uint64(i)))
		require.NoError(t, err)
	}
	store.Update("old", func(r *Record) bool { return r.cancel(100) })
	store.Update("recent", func(r *Record) bool { return r.cancel(500) })

	removed := store.Prune(200)
	assert.Equal(t, []string{"old"}, removed)

	_, ok := store.Get("recent")
	assert.True(t, ok)
	_, ok = store.Get("live")
	assert.True(t, ok)
}
