package custody

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iov-one/custody/errors"
)

// Query modifiers, given after a "?" in the query path.
const (
	// KeyQueryMod loads the single model stored under the key.
	KeyQueryMod = ""
	// PrefixQueryMod loads every model whose key starts with the data.
	PrefixQueryMod = "prefix"
)

// Model is a key-value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers the queries of a single path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query handlers of an extension to the router.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths such as "/communities" to their handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without any path.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll registers a number of QueryRegister at once
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds the handler for the path. Registering a path twice is a
// programming error and panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for the path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths returns all registered paths in order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Query runs a full query path, for example "/communitybalances?prefix",
// against the store.
func (r QueryRouter) Query(db ReadOnlyKVStore, path string, data []byte) ([]Model, error) {
	path, mod := SplitQueryPath(path)
	switch mod {
	case KeyQueryMod, PrefixQueryMod:
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}
	h := r.Handler(path)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "query path %q, known paths %s",
			path, strings.Join(r.Paths(), ", "))
	}
	return h.Query(db, mod, data)
}

// SplitQueryPath separates the path from the modifier given after "?".
func SplitQueryPath(full string) (path, mod string) {
	chunks := strings.SplitN(full, "?", 2)
	if len(chunks) == 2 {
		return chunks[0], chunks[1]
	}
	return full, ""
}
