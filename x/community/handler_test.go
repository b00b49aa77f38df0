package community

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/acl"
	"github.com/iov-one/custody/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registry is a minimal custody.Registry
type registry map[string]custody.Handler

func (r registry) Handle(path string, h custody.Handler) {
	r[path] = h
}

func TestHandlers(t *testing.T) {
	owner := custodytest.NewCondition()
	manager := custodytest.NewCondition()
	depositor := custodytest.NewCondition()
	treasury := custodytest.NewCondition()
	stranger := custodytest.NewCondition()

	admins := newAdmins()
	admins.Treasury = treasury.Address()

	db := store.MemStore()
	tokens := token.NewController()
	access := acl.NewController()
	ctrl := NewController(tokens, access)

	auth := &custodytest.CtxAuth{Key: "auth"}
	routes := registry{}
	RegisterRoutes(routes, auth, ctrl)

	bg := context.Background()
	as := func(c custody.Condition) custody.Context {
		return auth.SetConditions(bg, c)
	}
	deliver := func(ctx custody.Context, msg custody.Msg) (*custody.DeliverResult, error) {
		h, ok := routes[msg.Path()]
		require.True(t, ok, msg.Path())
		tx := &custodytest.Tx{Msg: msg}
		if _, err := h.Check(ctx, db, tx); err != nil {
			return nil, err
		}
		return h.Deliver(ctx, db, tx)
	}

	regID, err := access.Create(db, manager.Address())
	require.NoError(t, err)
	require.NoError(t, tokens.Issue(db, depositor.Address(), iov(1000)))

	create := &CreateMsg{
		Name:        "oxford",
		Owner:       owner.Address(),
		Admins:      admins,
		Percentages: Percentages{Rewards: 40, Treasury: 30, Validations: 20, Foundation: 10},
		RegistryID:  regID,
	}
	_, err = deliver(as(stranger), create)
	require.True(t, errors.ErrUnauthorized.Is(err), "owner must sign: %+v", err)

	res, err := deliver(as(owner), create)
	require.NoError(t, err)
	id := res.Data
	require.Len(t, id, 8)

	require.NoError(t, tokens.Approve(db, depositor.Address(), CustodyAddress(id), iov(1000)))

	cases := map[string]struct {
		ctx     custody.Context
		msg     custody.Msg
		wantErr *errors.Error
	}{
		"deposit requires the source signature": {
			ctx:     as(stranger),
			msg:     &DepositMsg{CommunityID: id, Source: depositor.Address(), Amount: iov(100)},
			wantErr: errors.ErrUnauthorized,
		},
		"deposit": {
			ctx: as(depositor),
			msg: &DepositMsg{CommunityID: id, Source: depositor.Address(), Amount: iov(100)},
		},
		"validations deposit": {
			ctx: as(depositor),
			msg: &ValidationsDepositMsg{CommunityID: id, Source: depositor.Address(), Amount: iov(5)},
		},
		"zero deposit": {
			ctx:     as(depositor),
			msg:     &DepositMsg{CommunityID: id, Source: depositor.Address(), Amount: iov(0)},
			wantErr: errors.ErrAmount,
		},
		"withdraw requires the admin signature": {
			ctx:     as(stranger),
			msg:     &WithdrawMsg{CommunityID: id, Admin: treasury.Address(), Amount: iov(1)},
			wantErr: errors.ErrUnauthorized,
		},
		"percentages must add up to 100": {
			ctx:     as(manager),
			msg:     &SetPercentagesMsg{CommunityID: id, Percentages: Percentages{Rewards: 99}},
			wantErr: ErrPercentage,
		},
		"percentages require the default admin": {
			ctx:     as(owner),
			msg:     &SetPercentagesMsg{CommunityID: id, Percentages: Percentages{Rewards: 100}},
			wantErr: errors.ErrUnauthorized,
		},
		"admins require a signature": {
			ctx:     bg,
			msg:     &SetAdminsMsg{CommunityID: id, Admins: newAdmins()},
			wantErr: errors.ErrUnauthorized,
		},
		"registry requires the owner": {
			ctx:     as(manager),
			msg:     &SetAccessControlMsg{CommunityID: id, RegistryID: regID},
			wantErr: errors.ErrUnauthorized,
		},
		"registry set by the owner": {
			ctx: as(owner),
			msg: &SetAccessControlMsg{CommunityID: id, RegistryID: regID},
		},
		"ownership requires the owner": {
			ctx:     as(stranger),
			msg:     &TransferOwnershipMsg{CommunityID: id, NewOwner: stranger.Address()},
			wantErr: errors.ErrUnauthorized,
		},
		"default admin co-signing as second signer": {
			ctx: auth.SetConditions(bg, stranger, manager),
			msg: &SetPercentagesMsg{CommunityID: id, Percentages: Percentages{Treasury: 100}},
		},
		"owner co-signing as second signer": {
			ctx: auth.SetConditions(bg, stranger, owner),
			msg: &TransferOwnershipMsg{CommunityID: id, NewOwner: stranger.Address()},
		},
		"no signer is a default admin": {
			ctx:     auth.SetConditions(bg, stranger, owner),
			msg:     &SetAdminsMsg{CommunityID: id, Admins: newAdmins()},
			wantErr: errors.ErrUnauthorized,
		},
		"unknown community": {
			ctx:     as(depositor),
			msg:     &DepositMsg{CommunityID: []byte("missing!"), Source: depositor.Address(), Amount: iov(1)},
			wantErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cache := db.CacheWrap()
			defer cache.Discard()
			h := routes[tc.msg.Path()]
			tx := &custodytest.Tx{Msg: tc.msg}
			_, err := h.Check(tc.ctx, cache, tx)
			if err == nil {
				_, err = h.Deliver(tc.ctx, cache, tx)
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}

	// a full round trip on the shared store
	_, err = deliver(as(depositor), &DepositMsg{CommunityID: id, Source: depositor.Address(), Amount: iov(200)})
	require.NoError(t, err)

	shares := []struct {
		admin custody.Address
		want  int64
	}{
		{admins.Rewards, 80},
		{admins.Treasury, 60},
		{admins.Validations, 40},
		{admins.Foundation, 20},
	}
	for _, sh := range shares {
		b, err := ctrl.Balance(db, id, sh.admin, "IOV")
		require.NoError(t, err)
		assert.Equal(t, sh.want, b.Amount, sh.admin.String())
	}

	res, err = deliver(as(treasury), &TransferMsg{
		CommunityID: id,
		Admin:       treasury.Address(),
		Destination: stranger.Address(),
		Amount:      iov(60),
	})
	require.NoError(t, err)

	var event TransferEvent
	require.NoError(t, event.Unmarshal(res.Data))
	assert.Equal(t, CustodyAddress(id), event.From)
	assert.Equal(t, stranger.Address(), event.To)
	assert.Equal(t, iov(60), event.Amount)

	tags := make(map[string]string)
	for _, kv := range res.Tags {
		tags[string(kv.Key)] = string(kv.Value)
	}
	assert.Equal(t, map[string]string{
		TagFrom:   CustodyAddress(id).String(),
		TagTo:     stranger.Address().String(),
		TagTicker: "IOV",
		TagAmount: "60",
	}, tags)

	_, err = deliver(as(treasury), &WithdrawMsg{CommunityID: id, Admin: treasury.Address(), Amount: iov(1)})
	assert.True(t, errors.ErrInsufficientBalance.Is(err), "%+v", err)

	_, err = deliver(as(manager), &SetPercentagesMsg{CommunityID: id, Percentages: Percentages{Rewards: 100}})
	require.NoError(t, err)
	_, err = deliver(as(owner), &TransferOwnershipMsg{CommunityID: id, NewOwner: stranger.Address()})
	require.NoError(t, err)

	c, err := ctrl.Get(db, id)
	require.NoError(t, err)
	assert.Equal(t, stranger.Address(), c.Owner)
	assert.Equal(t, int64(100), c.Percentages.Rewards)
}
