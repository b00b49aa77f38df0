package acl

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registry is a minimal custody.Registry
type registry map[string]custody.Handler

func (r registry) Handle(path string, h custody.Handler) {
	r[path] = h
}

func TestHandlers(t *testing.T) {
	admin := custodytest.NewCondition()
	member := custodytest.NewCondition()
	minter := RoleID("MINTER")

	auth := &custodytest.CtxAuth{Key: "auth"}
	routes := registry{}
	RegisterRoutes(routes, auth)

	db := store.MemStore()
	bg := context.Background()
	asAdmin := auth.SetConditions(bg, admin)
	asMember := auth.SetConditions(bg, member)

	deliver := func(ctx custody.Context, msg custody.Msg) (*custody.DeliverResult, error) {
		h := routes[msg.Path()]
		require.NotNil(t, h, msg.Path())
		tx := &custodytest.Tx{Msg: msg}
		if _, err := h.Check(ctx, db, tx); err != nil {
			return nil, err
		}
		return h.Deliver(ctx, db, tx)
	}

	_, err := deliver(bg, &CreateRegistryMsg{})
	assert.True(t, errors.ErrUnauthorized.Is(err), "signature is required")

	res, err := deliver(asAdmin, &CreateRegistryMsg{})
	require.NoError(t, err)
	id := res.Data
	require.Len(t, id, 8)

	_, err = deliver(asMember, &GrantRoleMsg{RegistryID: id, Role: minter, Account: member.Address()})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = deliver(asAdmin, &GrantRoleMsg{RegistryID: id, Role: minter, Account: member.Address()})
	require.NoError(t, err)

	ctrl := NewController()
	ok, err := ctrl.HasRole(db, id, minter, member.Address())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = deliver(asMember, &RenounceRoleMsg{RegistryID: id, Role: minter})
	require.NoError(t, err)
	ok, err = ctrl.HasRole(db, id, minter, member.Address())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = deliver(asAdmin, &GrantRoleMsg{RegistryID: id, Role: minter, Account: member.Address()})
	require.NoError(t, err)
	_, err = deliver(asAdmin, &RevokeRoleMsg{RegistryID: id, Role: minter, Account: member.Address()})
	require.NoError(t, err)
	ok, err = ctrl.HasRole(db, id, minter, member.Address())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = deliver(asMember, &SetRoleAdminMsg{RegistryID: id, Role: minter, AdminRole: RoleID("MANAGER")})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = deliver(asAdmin, &SetRoleAdminMsg{RegistryID: id, Role: minter, AdminRole: RoleID("MANAGER")})
	require.NoError(t, err)

	_, err = deliver(asAdmin, &GrantRoleMsg{RegistryID: []byte("bad"), Role: minter, Account: member.Address()})
	assert.True(t, errors.ErrInput.Is(err))
}
