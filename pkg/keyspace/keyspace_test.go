package keyspace

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/nobletooth/dlist/pkg/config"
	"github.com/nobletooth/dlist/pkg/list"
	"github.com/nobletooth/dlist/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeyspace() *Keyspace {
	return NewWith(4, utils.Natural[string]())
}

func TestKeyspace_New(t *testing.T) {
	t.Run("numeric", func(t *testing.T) {
		config.SetTestFlag(t, "sorted_order", "numeric")
		config.SetTestFlag(t, "keyspace_shard_count", "3")
		ks, err := New()
		require.NoError(t, err)
		assert.Len(t, ks.shards, 3)
		_, err = ks.Insert("scores", "10", "9", "100")
		require.NoError(t, err)
		assert.Equal(t, []string{"9", "10", "100"}, ks.Items("scores"))
	})

	t.Run("lexical", func(t *testing.T) {
		config.SetTestFlag(t, "sorted_order", "lexical")
		ks, err := New()
		require.NoError(t, err)
		_, err = ks.Insert("scores", "10", "9", "100")
		require.NoError(t, err)
		assert.Equal(t, []string{"10", "100", "9"}, ks.Items("scores"))
	})

	t.Run("unknown_order", func(t *testing.T) {
		config.SetTestFlag(t, "sorted_order", "random")
		_, err := New()
		assert.Error(t, err)
	})

	t.Run("non_positive_shards", func(t *testing.T) {
		ks := NewWith(0, utils.Natural[string]())
		assert.Len(t, ks.shards, 1)
	})
}

func TestKeyspace_Push(t *testing.T) {
	ks := newTestKeyspace()
	length, err := ks.PushBack("queue", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, 2, length)
	length, err = ks.PushFront("queue", "a", "z")
	require.NoError(t, err)
	assert.Equal(t, 4, length)
	assert.Equal(t, []string{"z", "a", "b", "c"}, ks.Items("queue"))
	assert.Equal(t, KindBasic, ks.Kind("queue"))

	// Pushing nothing doesn't create a key.
	length, err = ks.PushBack("nothing")
	require.NoError(t, err)
	assert.Zero(t, length)
	assert.Equal(t, KindNone, ks.Kind("nothing"))
}

func TestKeyspace_Insert(t *testing.T) {
	ks := newTestKeyspace()
	length, err := ks.Insert("names", "carol", "alice", "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, length)
	assert.Equal(t, []string{"alice", "alice", "bob", "carol"}, ks.Items("names"))
	assert.Equal(t, KindSorted, ks.Kind("names"))
	assert.Equal(t, "sortedlist", ks.Kind("names").String())
}

func TestKeyspace_KindMismatch(t *testing.T) {
	ks := newTestKeyspace()
	_, err := ks.Insert("sorted", "m")
	require.NoError(t, err)
	_, err = ks.PushBack("basic", "m")
	require.NoError(t, err)

	// Positional inserts are never accepted by sorted lists, whatever they hold.
	_, err = ks.PushFront("sorted", "a")
	assert.ErrorIs(t, err, list.ErrUnsupportedOperation)
	_, err = ks.PushBack("sorted", "z")
	assert.ErrorIs(t, err, list.ErrUnsupportedOperation)
	assert.Equal(t, []string{"m"}, ks.Items("sorted"))

	_, err = ks.Insert("basic", "a")
	assert.ErrorIs(t, err, ErrWrongKind)
	assert.Equal(t, []string{"m"}, ks.Items("basic"))
}

func TestKeyspace_PopAndPeek(t *testing.T) {
	ks := newTestKeyspace()
	_, err := ks.PopFront("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = ks.First("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = ks.PushBack("list", "1", "2", "3")
	require.NoError(t, err)
	first, err := ks.First("list")
	require.NoError(t, err)
	assert.Equal(t, "1", first)
	last, err := ks.Last("list")
	require.NoError(t, err)
	assert.Equal(t, "3", last)

	value, err := ks.PopBack("list")
	require.NoError(t, err)
	assert.Equal(t, "3", value)
	value, err = ks.PopFront("list")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
	value, err = ks.PopFront("list")
	require.NoError(t, err)
	assert.Equal(t, "2", value)

	// The emptied list took its key with it.
	assert.Equal(t, KindNone, ks.Kind("list"))
	_, err = ks.Last("list")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Zero(t, ks.Len("list"))
}

func TestKeyspace_Remove(t *testing.T) {
	ks := newTestKeyspace()
	_, err := ks.PushBack("list", "x", "y", "x")
	require.NoError(t, err)
	assert.True(t, ks.Remove("list", "x"))
	assert.Equal(t, []string{"y", "x"}, ks.Items("list"))
	assert.False(t, ks.Remove("list", "nope"))
	assert.False(t, ks.Remove("missing", "x"))
	assert.True(t, ks.Remove("list", "y"))
	assert.True(t, ks.Remove("list", "x"))
	assert.Equal(t, KindNone, ks.Kind("list"))
	assert.Equal(t, []string{}, ks.Items("list"))
}

func TestKeyspace_ReverseItems(t *testing.T) {
	ks := newTestKeyspace()
	_, err := ks.Insert("sorted", "b", "c", "a")
	require.NoError(t, err)
	reversed, err := ks.ReverseItems("sorted")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, reversed)

	reversed, err = ks.ReverseItems("missing")
	require.NoError(t, err)
	assert.Empty(t, reversed)
}

func TestKeyspace_KeysAndDelete(t *testing.T) {
	ks := newTestKeyspace()
	for _, key := range []string{"user:1", "user:2", "order:1"} {
		_, err := ks.PushBack(key, "v")
		require.NoError(t, err)
	}
	keys, err := ks.Keys("user:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"user:1", "user:2"}, keys)
	keys, err = ks.Keys("*")
	require.NoError(t, err)
	assert.Equal(t, []string{"order:1", "user:1", "user:2"}, keys)
	_, err = ks.Keys("")
	assert.Error(t, err)

	assert.Equal(t, 2, ks.Delete("user:1", "order:1", "missing"))
	keys, err = ks.Keys("*")
	require.NoError(t, err)
	assert.Equal(t, []string{"user:2"}, keys)
}

func TestKeyspace_Concurrent(t *testing.T) {
	ks := newTestKeyspace()
	const workers, perWorker = 8, 200
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				value := fmt.Sprintf("%03d", i)
				if w%2 == 0 {
					_, err := ks.PushBack(fmt.Sprintf("basic:%d", w%4), value)
					assert.NoError(t, err)
				} else {
					_, err := ks.Insert(fmt.Sprintf("sorted:%d", w%4), value)
					assert.NoError(t, err)
				}
			}
		}()
	}
	wg.Wait()

	for _, key := range []string{"basic:0", "basic:2", "sorted:1", "sorted:3"} {
		assert.Equalf(t, 2*perWorker, ks.Len(key), "Unexpected length of %s", key)
	}
	for _, key := range []string{"sorted:1", "sorted:3"} {
		assert.True(t, slices.IsSorted(ks.Items(key)))
	}
}
