package acl

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Controller manages registries and their role memberships.
type Controller struct {
	registries orm.ModelBucket
	roles      orm.ModelBucket
}

// NewController returns a controller using the default buckets.
func NewController() Controller {
	return Controller{
		registries: NewRegistryBucket(),
		roles:      NewRoleBucket(),
	}
}

// Create stores a new registry and grants the DefaultAdminRole to the
// creator. The new registry ID is returned.
func (c Controller) Create(db custody.KVStore, creator custody.Address) ([]byte, error) {
	id, err := c.registries.Put(db, nil, &Registry{Creator: creator})
	if err != nil {
		return nil, errors.Wrap(err, "create registry")
	}
	role := RoleData{Members: []custody.Address{creator}}
	if err := c.saveRole(db, id, DefaultAdminRole, &role); err != nil {
		return nil, err
	}
	return id, nil
}

// Get returns the registry header.
func (c Controller) Get(db custody.ReadOnlyKVStore, registry []byte) (*Registry, error) {
	var r Registry
	if err := c.registries.One(db, registry, &r); err != nil {
		return nil, errors.Wrapf(err, "registry %X", registry)
	}
	return &r, nil
}

// role loads the role data of an existing registry. A role that was never
// used is returned empty.
func (c Controller) role(db custody.ReadOnlyKVStore, registry []byte, role Role) (*RoleData, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if err := c.registries.Has(db, registry); err != nil {
		return nil, errors.Wrapf(err, "registry %X", registry)
	}
	var data RoleData
	switch err := c.roles.One(db, roleKey(registry, role), &data); {
	case err == nil:
		return &data, nil
	case errors.ErrNotFound.Is(err):
		return &RoleData{}, nil
	default:
		return nil, err
	}
}

func (c Controller) saveRole(db custody.KVStore, registry []byte, role Role, data *RoleData) error {
	key := roleKey(registry, role)
	if data.isEmpty() {
		if err := c.roles.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	_, err := c.roles.Put(db, key, data)
	return err
}

// HasRole returns true if account is a member of the role.
func (c Controller) HasRole(db custody.ReadOnlyKVStore, registry []byte, role Role, account custody.Address) (bool, error) {
	data, err := c.role(db, registry, role)
	if err != nil {
		return false, err
	}
	return data.HasMember(account), nil
}

// RoleAdmin returns the role that administers the given one.
func (c Controller) RoleAdmin(db custody.ReadOnlyKVStore, registry []byte, role Role) (Role, error) {
	data, err := c.role(db, registry, role)
	if err != nil {
		return nil, err
	}
	return data.AdminRole(), nil
}

// Members returns the members of the role in the order they were granted.
func (c Controller) Members(db custody.ReadOnlyKVStore, registry []byte, role Role) ([]custody.Address, error) {
	data, err := c.role(db, registry, role)
	if err != nil {
		return nil, err
	}
	return data.Members, nil
}

// MemberCount returns the number of members of the role.
func (c Controller) MemberCount(db custody.ReadOnlyKVStore, registry []byte, role Role) (int, error) {
	members, err := c.Members(db, registry, role)
	return len(members), err
}

// requireAdmin fails with ErrUnauthorized unless the caller is a member of
// the admin role of the given role.
func (c Controller) requireAdmin(db custody.ReadOnlyKVStore, registry []byte, data *RoleData, caller custody.Address) error {
	admin := data.AdminRole()
	ok, err := c.HasRole(db, registry, admin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is missing role %s", caller, admin)
	}
	return nil
}

// GrantRole adds the account to the role. The caller must hold the admin
// role. Granting a role to a member is a no-op.
func (c Controller) GrantRole(db custody.KVStore, registry []byte, caller custody.Address, role Role, account custody.Address) error {
	if err := account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	data, err := c.role(db, registry, role)
	if err != nil {
		return err
	}
	if err := c.requireAdmin(db, registry, data, caller); err != nil {
		return err
	}
	if !data.add(account) {
		return nil
	}
	return c.saveRole(db, registry, role, data)
}

// forceGrant adds the account to the role without any authorization.
// Only genesis uses it.
func (c Controller) forceGrant(db custody.KVStore, registry []byte, role Role, account custody.Address) error {
	if err := account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	data, err := c.role(db, registry, role)
	if err != nil {
		return err
	}
	if !data.add(account) {
		return nil
	}
	return c.saveRole(db, registry, role, data)
}

// RevokeRole removes the account from the role. The caller must hold the
// admin role. Revoking a role from a non member is a no-op.
func (c Controller) RevokeRole(db custody.KVStore, registry []byte, caller custody.Address, role Role, account custody.Address) error {
	data, err := c.role(db, registry, role)
	if err != nil {
		return err
	}
	if err := c.requireAdmin(db, registry, data, caller); err != nil {
		return err
	}
	if !data.remove(account) {
		return nil
	}
	return c.saveRole(db, registry, role, data)
}

// RenounceRole removes the caller from the role. Renouncing a role the caller
// does not hold is a no-op.
func (c Controller) RenounceRole(db custody.KVStore, registry []byte, caller custody.Address, role Role) error {
	data, err := c.role(db, registry, role)
	if err != nil {
		return err
	}
	if !data.remove(caller) {
		return nil
	}
	return c.saveRole(db, registry, role, data)
}

// SetRoleAdmin changes the role administering the given one. The caller must
// hold the DefaultAdminRole.
func (c Controller) SetRoleAdmin(db custody.KVStore, registry []byte, caller custody.Address, role, admin Role) error {
	if err := admin.Validate(); err != nil {
		return errors.Wrap(err, "admin role")
	}
	ok, err := c.HasRole(db, registry, DefaultAdminRole, caller)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not a default admin", caller)
	}
	data, err := c.role(db, registry, role)
	if err != nil {
		return err
	}
	if admin.Equals(DefaultAdminRole) {
		data.Admin = nil
	} else {
		data.Admin = admin
	}
	return c.saveRole(db, registry, role, data)
}
