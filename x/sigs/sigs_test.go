package sigs

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

type signedTx struct {
	custodytest.Tx
	data []byte
	sigs []*StdSignature
}

func (tx *signedTx) GetSignBytes() ([]byte, error)  { return tx.data, nil }
func (tx *signedTx) GetSignatures() []*StdSignature { return tx.sigs }

// signerHandler records the signers it sees in the context.
type signerHandler struct {
	custodytest.Handler
	seen []custody.Condition
}

func (h *signerHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	h.seen = Authenticate{}.GetConditions(ctx)
	return &custody.DeliverResult{}, nil
}

const chainID = "custody-test"

func TestDecoratorVerifiesSignatures(t *testing.T) {
	key := custodytest.NewKey()
	other := custodytest.NewKey()

	db := store.MemStore()
	ctx := custody.WithChainID(context.Background(), chainID)

	newTx := func(data string) *signedTx {
		return &signedTx{data: []byte(data)}
	}
	sign := func(tx *signedTx, seq int64) {
		sig, err := SignTx(key, tx, chainID, seq)
		require.NoError(t, err)
		tx.sigs = append(tx.sigs, sig)
	}

	h := &signerHandler{}
	dec := custodytest.Decorate(h, NewDecorator())

	// first signature must use sequence zero
	tx := newTx("first")
	sign(tx, 0)
	_, err := dec.Deliver(ctx, db, tx)
	require.NoError(t, err)
	require.Len(t, h.seen, 1)
	assert.True(t, key.PublicKey().Condition().Equals(h.seen[0]))

	// replay is rejected
	_, err = dec.Deliver(ctx, db, tx)
	assert.True(t, ErrInvalidSequence.Is(err))

	tx = newTx("second")
	sign(tx, 1)
	_, err = dec.Deliver(ctx, db, tx)
	require.NoError(t, err)

	user, err := NewBucket().GetOrCreate(db, key.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.Sequence)

	// signature over different data
	tx = newTx("third")
	sign(tx, 2)
	tx.data = []byte("tampered")
	_, err = dec.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// signature claiming another public key
	tx = newTx("fourth")
	sign(tx, 2)
	tx.sigs[0].Pubkey = other.PublicKey()
	_, err = dec.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestDecoratorMissingSignatures(t *testing.T) {
	db := store.MemStore()
	ctx := custody.WithChainID(context.Background(), chainID)
	h := &custodytest.Handler{}

	unsigned := &signedTx{data: []byte("data")}
	_, err := custodytest.Decorate(h, NewDecorator()).Check(ctx, db, unsigned)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = custodytest.Decorate(h, NewDecorator()).Check(ctx, db, &custodytest.Tx{})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = custodytest.Decorate(h, NewDecorator().AllowMissingSigs()).Check(ctx, db, unsigned)
	assert.NoError(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
}

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("data"), chainID, 1)
	require.NoError(t, err)
	b, err := BuildSignBytes([]byte("data"), chainID, 2)
	require.NoError(t, err)
	c, err := BuildSignBytes([]byte("data"), "other-chain", 1)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = BuildSignBytes([]byte("data"), chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes([]byte("data"), "no", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestUserSequenceOverflow(t *testing.T) {
	u := UserData{Pubkey: custodytest.NewKey().PublicKey(), Sequence: (1 << 53) - 1}
	err := u.CheckAndIncrementSequence((1 << 53) - 1)
	assert.True(t, errors.ErrOverflow.Is(err))
}
