package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/custody/errors"
)

// DefaultFreeListSize is the size we hold for free node in btree
const DefaultFreeListSize = btree.DefaultFreeListSize

// MemStore returns a simple in-memory implementation without any
// persistence. Useful for tests.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// ShowOpser returns an ordered list of all operations performed
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in-memory store along with insight into all
// write operations that were run on it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// CacheWrap returns a scratch-pad over the given store. Stores that know how
// to cache themselves are asked to do so, any other store is layered with a
// btree cache.
func CacheWrap(kv KVStore) KVCacheWrap {
	if c, ok := kv.(CacheableKVStore); ok {
		return c.CacheWrap()
	}
	return NewBTreeCacheWrap(kv, kv.NewBatch(), nil)
}

// BTreeCacheWrap places a btree cache over a KVStore. All reads consult the
// btree first and fall back to the backing store. All writes are kept in the
// btree and recorded in the batch, to be applied on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTree to cache around this kv store. Use
// ReadOnlyKVStore to emphasize that all writes must go through the Batch.
//
// free may be nil, but set to an existing list to reuse it
// for memory savings
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another BTree on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a non-atomic batch that eventually may write to
// our cachewrap
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all cached operations into the underlying store and clears
// the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached data.
func (b BTreeCacheWrap) Discard() {
	b.bt.Clear(true)
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, deleted: true})
	return b.batch.Delete(key)
}

// Get reads from btree if there, else backing store
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if item, ok := b.cached(key); ok {
		if item.deleted {
			return nil, nil
		}
		return item.value, nil
	}
	return b.back.Get(key)
}

// Has reads from btree if there, else backing store
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if item, ok := b.cached(key); ok {
		return !item.deleted, nil
	}
	return b.back.Has(key)
}

func (b BTreeCacheWrap) cached(key []byte) (cacheItem, bool) {
	if key == nil {
		panic(errors.Wrap(errors.ErrHuman, "nil key"))
	}
	res := b.bt.Get(cacheItem{key: key})
	if res == nil {
		return cacheItem{}, false
	}
	return res.(cacheItem), true
}

// Iterator over a domain of keys in ascending order.
// Combines results from btree and backing store
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(b.ascend(start, end), parent, true)
}

// ReverseIterator over a domain of keys in descending order.
// Combines results from btree and backing store
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(b.descend(start, end), parent, false)
}

// ascend returns a snapshot of all cached items in [start, end), in
// ascending key order. A nil bound is unlimited.
func (b BTreeCacheWrap) ascend(start, end []byte) []cacheItem {
	var items []cacheItem
	collect := func(i btree.Item) bool {
		items = append(items, i.(cacheItem))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(collect)
	case start == nil:
		b.bt.AscendLessThan(cacheItem{key: end}, collect)
	case end == nil:
		b.bt.AscendGreaterOrEqual(cacheItem{key: start}, collect)
	default:
		b.bt.AscendRange(cacheItem{key: start}, cacheItem{key: end}, collect)
	}
	return items
}

// descend returns a snapshot of all cached items in [start, end), in
// descending key order.
func (b BTreeCacheWrap) descend(start, end []byte) []cacheItem {
	items := b.ascend(start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// cacheItem is a single btree entry. A deleted item shadows any value the
// backing store might hold for the same key.
type cacheItem struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cacheItem{}

func (c cacheItem) Less(other btree.Item) bool {
	return bytes.Compare(c.key, other.(cacheItem).key) < 0
}
