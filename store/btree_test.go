package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBTreeCacheGetSet(t *testing.T) {
	base := MemStore()

	k, v := []byte("french"), []byte("fry")
	assertMissing(t, base, k)
	require.NoError(t, base.Set(k, v))
	assertValue(t, base, k, v)

	// layered cache sees the base data
	cache := base.CacheWrap()
	assertValue(t, cache, k, v)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	assertValue(t, cache, k2, v2)
	assertMissing(t, base, k2)

	require.NoError(t, cache.Write())
	assertValue(t, base, k, v)
	assertValue(t, base, k2, v2)

	// a discarded cache leaves no trace
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	assertMissing(t, base, k3)

	// deletes are propagated on write
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	assertMissing(t, c3, k)
	assertValue(t, base, k, v)
	require.NoError(t, c3.Write())
	assertMissing(t, base, k)
	assertValue(t, base, k2, v2)
}

func TestBTreeCacheIterators(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("bb"), []byte("cache-bb")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Delete([]byte("d")))
	require.NoError(t, cache.Delete([]byte("a")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full ascending range": {
			want: []Model{
				{Key: []byte("b"), Value: []byte("base-b")},
				{Key: []byte("bb"), Value: []byte("cache-bb")},
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("e"), Value: []byte("base-e")},
			},
		},
		"bounded ascending range": {
			start: []byte("b"),
			end:   []byte("d"),
			want: []Model{
				{Key: []byte("b"), Value: []byte("base-b")},
				{Key: []byte("bb"), Value: []byte("cache-bb")},
				{Key: []byte("c"), Value: []byte("cache-c")},
			},
		},
		"full descending range": {
			reverse: true,
			want: []Model{
				{Key: []byte("e"), Value: []byte("base-e")},
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("bb"), Value: []byte("cache-bb")},
				{Key: []byte("b"), Value: []byte("base-b")},
			},
		},
		"bounded descending range": {
			start:   []byte("bb"),
			end:     []byte("e"),
			reverse: true,
			want: []Model{
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("bb"), Value: []byte("cache-bb")},
			},
		},
		"range with only deleted entries": {
			start: []byte("d"),
			end:   []byte("e"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, readAll(t, it))
		})
	}
}

func TestCacheWrapHelper(t *testing.T) {
	kv, ops := LogableStore()

	// a plain store gets a btree cache layer
	cache := CacheWrap(nonCacheable{kv})
	require.NoError(t, cache.Set([]byte("k"), []byte("v")))
	assertMissing(t, kv, []byte("k"))
	require.NoError(t, cache.Write())
	assertValue(t, kv, []byte("k"), []byte("v"))
	assert.Len(t, ops.ShowOps(), 1)
}

type nonCacheable struct {
	KVStore
}

func readAll(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Close()

	var res []Model
	for it.Valid() {
		res = append(res, Model{Key: it.Key(), Value: it.Value()})
		require.NoError(t, it.Next())
	}
	return res
}

func assertValue(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	require.NoError(t, err)
	assert.True(t, has)
}

func assertMissing(t testing.TB, kv ReadOnlyKVStore, key []byte) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)
	has, err := kv.Has(key)
	require.NoError(t, err)
	assert.False(t, has)
}
