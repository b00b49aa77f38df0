package community

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x/acl"
	"github.com/iov-one/custody/x/token"
)

const optKey = "community"

// GenesisCommunity declares a community in the genesis file. Communities get
// their IDs in the order of declaration, starting with 1. Registry is the
// sequence number of the access control registry.
type GenesisCommunity struct {
	Name        string          `json:"name"`
	Owner       custody.Address `json:"owner"`
	Admins      Admins          `json:"admins"`
	Percentages Percentages     `json:"percentages"`
	Registry    int64           `json:"registry"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis creates all declared communities.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var communities []GenesisCommunity
	if err := opts.ReadOptions(optKey, &communities); err != nil {
		return err
	}
	ctrl := NewController(token.NewController(), acl.NewController())
	for i, c := range communities {
		if c.Registry < 1 {
			return errors.Wrapf(errors.ErrInput, "community %d: registry %d", i, c.Registry)
		}
		_, err := ctrl.Create(context.Background(), kv, c.Name, c.Owner, c.Admins, c.Percentages, orm.EncodeSequence(c.Registry))
		if err != nil {
			return errors.Wrapf(err, "community %d", i)
		}
	}
	return nil
}
