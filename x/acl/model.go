package acl

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// RoleLength is the size of every role tag.
const RoleLength = 32

// Role is an opaque tag naming a set of accounts.
type Role []byte

// DefaultAdminRole administers every role that has no other admin role set,
// including itself.
var DefaultAdminRole = Role(make([]byte, RoleLength))

// RoleID derives the role tag from a readable name.
func RoleID(name string) Role {
	h := sha256.Sum256([]byte(name))
	return Role(h[:])
}

func (r Role) Validate() error {
	if len(r) != RoleLength {
		return errors.Wrapf(errors.ErrInput, "role must be %d bytes, got %d", RoleLength, len(r))
	}
	return nil
}

func (r Role) Equals(o Role) bool {
	return bytes.Equal(r, o)
}

func (r Role) String() string {
	return hex.EncodeToString(r)
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the hex encoded tag or, prefixed with "name:", the
// readable name of the role.
func (r *Role) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrapf(errors.ErrInput, "role: %s", err)
	}
	if len(s) > 5 && s[:5] == "name:" {
		*r = RoleID(s[5:])
		return nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "role: %s", err)
	}
	*r = b
	return r.Validate()
}

// Registry is the header of a single access control registry.
type Registry struct {
	Creator custody.Address `json:"creator"`
}

var _ orm.Model = (*Registry)(nil)

func (r *Registry) Marshal() ([]byte, error) {
	return codec.Marshal(r)
}

func (r *Registry) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, r)
}

func (r *Registry) Validate() error {
	return errors.Field("Creator", r.Creator.Validate(), "")
}

// RoleData keeps the admin role and the members of a single role within a
// registry. Members are kept in the order they were granted.
type RoleData struct {
	// Admin is empty when the role is administered by the DefaultAdminRole.
	Admin   Role              `json:"admin,omitempty"`
	Members []custody.Address `json:"members"`
}

var _ orm.Model = (*RoleData)(nil)

func (r *RoleData) Marshal() ([]byte, error) {
	return codec.Marshal(r)
}

func (r *RoleData) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, r)
}

func (r *RoleData) Validate() error {
	var errs error
	if len(r.Admin) != 0 {
		errs = errors.AppendField(errs, "Admin", r.Admin.Validate())
	}
	for i, m := range r.Members {
		if err := m.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Members", err, "member %d", i))
		}
	}
	return errs
}

// AdminRole returns the role administering this one.
func (r *RoleData) AdminRole() Role {
	if len(r.Admin) == 0 {
		return DefaultAdminRole
	}
	return r.Admin
}

func (r *RoleData) index(account custody.Address) int {
	for i, m := range r.Members {
		if m.Equals(account) {
			return i
		}
	}
	return -1
}

// HasMember returns true if account is in this role.
func (r *RoleData) HasMember(account custody.Address) bool {
	return r.index(account) >= 0
}

// add returns false if the account is already a member.
func (r *RoleData) add(account custody.Address) bool {
	if r.HasMember(account) {
		return false
	}
	r.Members = append(r.Members, account)
	return true
}

// remove returns false if the account is not a member.
func (r *RoleData) remove(account custody.Address) bool {
	i := r.index(account)
	if i < 0 {
		return false
	}
	r.Members = append(r.Members[:i], r.Members[i+1:]...)
	return true
}

// isEmpty is true when the role holds nothing worth storing.
func (r *RoleData) isEmpty() bool {
	return len(r.Members) == 0 && len(r.Admin) == 0
}

const (
	// RegistryBucketName is where registries are stored by sequence ID.
	RegistryBucketName = "registries"
	// RoleBucketName is where roles are stored by registry ID and role.
	RoleBucketName = "roles"
)

// NewRegistryBucket returns the bucket of registry headers.
func NewRegistryBucket() orm.ModelBucket {
	return orm.NewModelBucket(RegistryBucketName, &Registry{})
}

// NewRoleBucket returns the bucket of role data.
func NewRoleBucket() orm.ModelBucket {
	return orm.NewModelBucket(RoleBucketName, &RoleData{})
}

// roleKey is registry ID | role. Registry IDs are fixed size sequences.
func roleKey(registry []byte, role Role) []byte {
	key := make([]byte, 0, len(registry)+len(role))
	key = append(key, registry...)
	return append(key, role...)
}
