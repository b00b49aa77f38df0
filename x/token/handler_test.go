package token

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHandler(t *testing.T) {
	alice := custodytest.NewCondition()
	bob := custodytest.NewCondition()

	cases := map[string]struct {
		signer       custody.Condition
		msg          custody.Msg
		wantCheckErr *errors.Error
		wantErr      *errors.Error
		wantAlice    int64
		wantBob      int64
	}{
		"owner can send": {
			signer:    alice,
			msg:       &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: coin.NewCoin(30, "IOV")},
			wantAlice: 70,
			wantBob:   30,
		},
		"missing signature": {
			signer:       bob,
			msg:          &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: coin.NewCoin(30, "IOV")},
			wantCheckErr: errors.ErrUnauthorized,
			wantErr:      errors.ErrUnauthorized,
			wantAlice:    100,
		},
		"insufficient funds": {
			signer:    alice,
			msg:       &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: coin.NewCoin(300, "IOV")},
			wantErr:   errors.ErrInsufficientBalance,
			wantAlice: 100,
		},
		"invalid message": {
			signer:       alice,
			msg:          &SendMsg{Source: alice.Address(), Amount: coin.NewCoin(3, "IOV")},
			wantCheckErr: errors.ErrInput,
			wantErr:      errors.ErrInput,
			wantAlice:    100,
		},
		"wrong message type": {
			signer:       alice,
			msg:          &ApproveMsg{Owner: alice.Address(), Spender: bob.Address(), Amount: coin.NewCoin(3, "IOV")},
			wantCheckErr: errors.ErrType,
			wantErr:      errors.ErrType,
			wantAlice:    100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			control := NewController()
			require.NoError(t, control.Issue(db, alice.Address(), coin.NewCoin(100, "IOV")))

			auth := &custodytest.Auth{Signer: tc.signer}
			h := NewSendHandler(auth, control)
			tx := &custodytest.Tx{Msg: tc.msg}
			ctx := context.Background()

			_, err := h.Check(ctx, db, tx)
			require.True(t, tc.wantCheckErr.Is(err), "check: %+v", err)
			_, err = h.Deliver(ctx, db, tx)
			require.True(t, tc.wantErr.Is(err), "deliver: %+v", err)

			got, err := control.Balance(db, alice.Address(), "IOV")
			require.NoError(t, err)
			assert.Equal(t, tc.wantAlice, got.Amount)
			got, err = control.Balance(db, bob.Address(), "IOV")
			require.NoError(t, err)
			assert.Equal(t, tc.wantBob, got.Amount)
		})
	}
}

func TestApproveHandler(t *testing.T) {
	owner := custodytest.NewCondition()
	spender := custodytest.NewCondition()
	db := store.MemStore()
	control := NewController()

	r := registry{}
	RegisterRoutes(r, &custodytest.Auth{Signer: owner}, control)
	h := r[pathApproveMsg]
	require.NotNil(t, h)

	tx := &custodytest.Tx{Msg: &ApproveMsg{Owner: owner.Address(), Spender: spender.Address(), Amount: coin.NewCoin(15, "IOV")}}
	_, err := h.Deliver(context.Background(), db, tx)
	require.NoError(t, err)

	allowed, err := control.Allowance(db, owner.Address(), spender.Address(), "IOV")
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(15, "IOV"), allowed)

	// only the owner can approve
	tx = &custodytest.Tx{Msg: &ApproveMsg{Owner: spender.Address(), Spender: owner.Address(), Amount: coin.NewCoin(15, "IOV")}}
	_, err = h.Deliver(context.Background(), db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

// registry is a minimal custody.Registry
type registry map[string]custody.Handler

func (r registry) Handle(path string, h custody.Handler) {
	r[path] = h
}
