package acl

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const optKey = "acl"

// GenesisRegistry declares a registry in the genesis file. Registries get
// their IDs in the order of declaration, starting with 1.
type GenesisRegistry struct {
	// Admins are granted the DefaultAdminRole. The first one is the creator.
	Admins []custody.Address `json:"admins"`
	Roles  []GenesisRole     `json:"roles"`
}

// GenesisRole lists the initial members of a role.
type GenesisRole struct {
	Role    Role              `json:"role"`
	Admin   Role              `json:"admin,omitempty"`
	Members []custody.Address `json:"members"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis creates all declared registries.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var registries []GenesisRegistry
	if err := opts.ReadOptions(optKey, &registries); err != nil {
		return err
	}
	ctrl := NewController()
	for i, r := range registries {
		if len(r.Admins) == 0 {
			return errors.Wrapf(errors.ErrEmpty, "registry %d: admins", i)
		}
		creator := r.Admins[0]
		id, err := ctrl.Create(kv, creator)
		if err != nil {
			return errors.Wrapf(err, "registry %d", i)
		}
		for _, a := range r.Admins[1:] {
			if err := ctrl.GrantRole(kv, id, creator, DefaultAdminRole, a); err != nil {
				return errors.Wrapf(err, "registry %d", i)
			}
		}
		for _, role := range r.Roles {
			if len(role.Admin) != 0 {
				if err := ctrl.SetRoleAdmin(kv, id, creator, role.Role, role.Admin); err != nil {
					return errors.Wrapf(err, "registry %d", i)
				}
			}
			for _, m := range role.Members {
				if err := ctrl.forceGrant(kv, id, role.Role, m); err != nil {
					return errors.Wrapf(err, "registry %d", i)
				}
			}
		}
	}
	return nil
}
