package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertGetHas(t testing.TB, kv store.ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

func TestCacheGetSet(t *testing.T) {
	base := MemCommitStore().Adapter()

	k, v := []byte("french"), []byte("fry")
	assertGetHas(t, base, k, nil, false)

	cache := base.CacheWrap()
	require.NoError(t, cache.Set(k, v))
	assertGetHas(t, cache, k, v, true)
	assertGetHas(t, base, k, nil, false)

	require.NoError(t, cache.Write())
	assertGetHas(t, base, k, v, true)

	c2 := base.CacheWrap()
	require.NoError(t, c2.Delete(k))
	c2.Discard()
	assertGetHas(t, base, k, v, true)
}

func TestCommitPersistsVersions(t *testing.T) {
	dir, err := ioutil.TempDir("", "iavl-adapter-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	commit := NewCommitStore(dir, "custody")
	require.NoError(t, commit.LoadLatestVersion())

	k, v := []byte("balance"), []byte("100")
	cache := commit.CacheWrap()
	require.NoError(t, cache.Set(k, v))
	require.NoError(t, cache.Write())

	// not visible as committed state until Commit
	got, err := commit.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = commit.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	latest, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)
}

func TestAdapterIterators(t *testing.T) {
	base := MemCommitStore().Adapter()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, base.Set([]byte(k), []byte(k)))
	}

	it, err := base.Iterator([]byte("a"), []byte("c"))
	require.NoError(t, err)
	var keys []string
	for ; it.Valid(); require.NoError(t, it.Next()) {
		keys = append(keys, string(it.Key()))
	}
	it.Close()
	assert.Equal(t, []string{"a", "b"}, keys)

	it, err = base.ReverseIterator(nil, nil)
	require.NoError(t, err)
	keys = nil
	for ; it.Valid(); require.NoError(t, it.Next()) {
		keys = append(keys, string(it.Key()))
	}
	it.Close()
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}
