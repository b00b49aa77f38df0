package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	custody.Persistent
	Validate() error
}

// ModelBucket stores models of a single type under a common key prefix.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary key. Result is loaded into given destination model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db custody.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given key exists, ErrNotFound
	// otherwise.
	Has(db custody.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. If key is nil, a new one is
	// generated from the bucket sequence. The used key is returned.
	Put(db custody.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db custody.KVStore, key []byte) error

	// PrefixScan returns an iterator over all models which key starts
	// with given prefix. A nil prefix iterates over the whole bucket.
	PrefixScan(db custody.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error)

	// Register exposes this bucket's content under /<name> using the
	// query router.
	Register(name string, r custody.QueryRouter)
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// NewModelBucket returns a ModelBucket that operates directly on the
// KVStore. Entities are stored under <name>:<key>.
func NewModelBucket(name string, example Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %q", name))
	}
	return &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		example: example,
		ids:     NewSequence(name, "id"),
	}
}

type modelBucket struct {
	name    string
	prefix  []byte
	example Model
	ids     Sequence
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey copies into a new slice so consecutive calls never share the
// backing array of the prefix.
func (mb *modelBucket) dbKey(key []byte) []byte {
	res := make([]byte, len(mb.prefix)+len(key))
	copy(res, mb.prefix)
	copy(res[len(mb.prefix):], key)
	return res
}

func (mb *modelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal into %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db custody.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", mb.example)
	}
	return nil
}

func (mb *modelBucket) Put(db custody.KVStore, key []byte, m Model) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}
	if key == nil {
		next, err := mb.ids.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "cannot acquire key")
		}
		key = next
	}
	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db custody.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

func (mb *modelBucket) PrefixScan(db custody.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error) {
	start, end := prefixRange(mb.dbKey(prefix))
	var (
		it  custody.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return &modelIterator{it: it, prefix: mb.prefix}, nil
}

func (mb *modelBucket) Register(name string, r custody.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	r.Register("/"+name, mb)
}

// Query handles queries from the QueryRouter. Returned keys are the full
// database keys.
func (mb *modelBucket) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		key := mb.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(key, value)}, nil
	case custody.PrefixQueryMod:
		start, end := prefixRange(mb.dbKey(data))
		it, err := db.Iterator(start, end)
		if err != nil {
			return nil, err
		}
		return consumeIterator(it)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %q", mod)
	}
}

// ModelIterator loads models one by one.
type ModelIterator interface {
	// LoadNext loads the current model into given destination, returns
	// its key (without the bucket prefix) and moves to the next entry.
	// ErrIteratorDone is returned when there are no more entries.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the iterator.
	Release()
}

type modelIterator struct {
	it     custody.Iterator
	prefix []byte
}

func (i *modelIterator) LoadNext(dest Model) ([]byte, error) {
	if !i.it.Valid() {
		return nil, errors.ErrIteratorDone
	}
	key := i.it.Key()[len(i.prefix):]
	if err := dest.Unmarshal(i.it.Value()); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal into %T: %s", dest, err)
	}
	if err := i.it.Next(); err != nil {
		return nil, err
	}
	return key, nil
}

func (i *modelIterator) Release() {
	i.it.Close()
}
