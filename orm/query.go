package orm

import (
	"github.com/iov-one/custody"
)

// prefixRange turns a prefix into a (start, end) range. The end is the
// smallest key greater than all keys with given prefix, or nil if no such
// key exists.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}

func consumeIterator(it custody.Iterator) ([]custody.Model, error) {
	defer it.Close()

	var res []custody.Model
	for it.Valid() {
		res = append(res, custody.Pair(it.Key(), it.Value()))
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}
