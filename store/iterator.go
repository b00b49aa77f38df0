package store

import (
	"bytes"

	"github.com/iov-one/custody/errors"
)

// mergedIterator combines a snapshot of cached items with the iterator of
// the backing store. Cached values take precedence over the backing store
// and cached deletes hide the backing store entries.
type mergedIterator struct {
	items     []cacheItem
	parent    Iterator
	ascending bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(items []cacheItem, parent Iterator, ascending bool) (*mergedIterator, error) {
	it := &mergedIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// source marks where the current item comes from
type source int

const (
	none source = iota
	cache
	parent
	both
)

func (it *mergedIterator) Valid() bool {
	return it.current() != none
}

func (it *mergedIterator) Next() error {
	switch it.current() {
	case cache:
		it.items = it.items[1:]
	case parent:
		if err := it.parent.Next(); err != nil {
			return err
		}
	case both:
		it.items = it.items[1:]
		if err := it.parent.Next(); err != nil {
			return err
		}
	default:
		return errors.Wrap(errors.ErrHuman, "iterator advanced past the end")
	}
	return it.skipDeleted()
}

func (it *mergedIterator) Key() []byte {
	switch it.current() {
	case cache, both:
		return it.items[0].key
	case parent:
		return it.parent.Key()
	default:
		panic("iterator advanced past the end")
	}
}

func (it *mergedIterator) Value() []byte {
	switch it.current() {
	case cache, both:
		return it.items[0].value
	case parent:
		return it.parent.Value()
	default:
		panic("iterator advanced past the end")
	}
}

func (it *mergedIterator) Close() {
	it.parent.Close()
	it.items = nil
}

// skipDeleted moves past all cached deletes at the head of the iterator,
// together with the backing store entries they shadow.
func (it *mergedIterator) skipDeleted() error {
	for {
		src := it.current()
		if src != cache && src != both {
			return nil
		}
		if !it.items[0].deleted {
			return nil
		}
		it.items = it.items[1:]
		if src == both {
			if err := it.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// current selects the source holding the next key in iteration order.
func (it *mergedIterator) current() source {
	parentValid := it.parent != nil && it.parent.Valid()
	cacheValid := len(it.items) > 0
	switch {
	case !parentValid && !cacheValid:
		return none
	case !parentValid:
		return cache
	case !cacheValid:
		return parent
	}

	cmp := bytes.Compare(it.parent.Key(), it.items[0].key)
	if !it.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return cache
	default:
		return both
	}
}
