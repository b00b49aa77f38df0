package acl

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	pathCreateRegistryMsg = "acl/create"
	pathGrantRoleMsg      = "acl/grant"
	pathRevokeRoleMsg     = "acl/revoke"
	pathRenounceRoleMsg   = "acl/renounce"
	pathSetRoleAdminMsg   = "acl/set_admin"

	aclTxCost int64 = 50
)

// CreateRegistryMsg creates a new registry owned by the main signer.
type CreateRegistryMsg struct{}

var _ custody.Msg = (*CreateRegistryMsg)(nil)

func (CreateRegistryMsg) Path() string {
	return pathCreateRegistryMsg
}

func (*CreateRegistryMsg) Validate() error {
	return nil
}

// GrantRoleMsg adds an account to a role.
type GrantRoleMsg struct {
	RegistryID []byte          `json:"registry_id"`
	Role       Role            `json:"role"`
	Account    custody.Address `json:"account"`
}

var _ custody.Msg = (*GrantRoleMsg)(nil)

func (GrantRoleMsg) Path() string {
	return pathGrantRoleMsg
}

func (m *GrantRoleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "RegistryID", validateID(m.RegistryID))
	errs = errors.AppendField(errs, "Role", m.Role.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	return errs
}

// RevokeRoleMsg removes an account from a role.
type RevokeRoleMsg struct {
	RegistryID []byte          `json:"registry_id"`
	Role       Role            `json:"role"`
	Account    custody.Address `json:"account"`
}

var _ custody.Msg = (*RevokeRoleMsg)(nil)

func (RevokeRoleMsg) Path() string {
	return pathRevokeRoleMsg
}

func (m *RevokeRoleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "RegistryID", validateID(m.RegistryID))
	errs = errors.AppendField(errs, "Role", m.Role.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	return errs
}

// RenounceRoleMsg removes the main signer from a role.
type RenounceRoleMsg struct {
	RegistryID []byte `json:"registry_id"`
	Role       Role   `json:"role"`
}

var _ custody.Msg = (*RenounceRoleMsg)(nil)

func (RenounceRoleMsg) Path() string {
	return pathRenounceRoleMsg
}

func (m *RenounceRoleMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "RegistryID", validateID(m.RegistryID))
	errs = errors.AppendField(errs, "Role", m.Role.Validate())
	return errs
}

// SetRoleAdminMsg changes the role administering another role.
type SetRoleAdminMsg struct {
	RegistryID []byte `json:"registry_id"`
	Role       Role   `json:"role"`
	AdminRole  Role   `json:"admin_role"`
}

var _ custody.Msg = (*SetRoleAdminMsg)(nil)

func (SetRoleAdminMsg) Path() string {
	return pathSetRoleAdminMsg
}

func (m *SetRoleAdminMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "RegistryID", validateID(m.RegistryID))
	errs = errors.AppendField(errs, "Role", m.Role.Validate())
	errs = errors.AppendField(errs, "AdminRole", m.AdminRole.Validate())
	return errs
}

// validateID checks the registry ID is a sequence value.
func validateID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "id must be 8 bytes, got %d", len(id))
	}
	return nil
}
