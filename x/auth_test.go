package x

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	a := custodytest.NewCondition()
	b := custodytest.NewCondition()
	c := custodytest.NewCondition()

	ctx1 := &custodytest.CtxAuth{Key: "foo"}
	ctx2 := &custodytest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          custody.Context
		auth         Authenticator
		mainSigner   custody.Condition
		wantInCtx    custody.Condition
		wantNotInCtx custody.Condition
		wantAll      []custody.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &custodytest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &custodytest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []custody.Condition{a},
		},
		"chained signers keep the order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&custodytest.Auth{Signer: b},
				&custodytest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    a,
			wantNotInCtx: c,
			wantAll:      []custody.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []custody.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil {
				assert.True(t, tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()))
			}
			assert.False(t, tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()))

			all := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, len(tc.wantAll), len(all))
			for i, want := range tc.wantAll {
				assert.True(t, want.Equals(all[i]))
			}

			addrs := GetAddresses(tc.ctx, tc.auth)
			assert.True(t, HasAllAddresses(tc.ctx, tc.auth, addrs))
		})
	}
}

func TestMainSignerAddress(t *testing.T) {
	a := custodytest.NewCondition()
	ctx := context.Background()

	assert.Nil(t, MainSignerAddress(ctx, &custodytest.Auth{}))
	assert.Equal(t, a.Address(), MainSignerAddress(ctx, &custodytest.Auth{Signer: a}))
}
