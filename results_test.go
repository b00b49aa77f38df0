package custody

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func TestDeliverOrError(t *testing.T) {
	res := &DeliverResult{
		Data: []byte("id"),
		Tags: []common.KVPair{{Key: []byte("transfer.from"), Value: []byte("AB")}},
	}
	abciRes := DeliverOrError(res, nil, false)
	assert.Equal(t, uint32(errors.SuccessABCICode), abciRes.Code)
	assert.Equal(t, []byte("id"), abciRes.Data)

	back, err := ParseDeliverOrError(abciRes)
	require.NoError(t, err)
	assert.Equal(t, res.Tags, back.Tags)

	failed := DeliverOrError(nil, errors.Wrap(errors.ErrInsufficientBalance, "withdraw"), false)
	assert.Equal(t, errors.ErrInsufficientBalance.ABCICode(), failed.Code)
	assert.Equal(t, "cannot deliver tx: withdraw: insufficient balance", failed.Log)

	_, err = ParseDeliverOrError(failed)
	assert.True(t, errors.ErrInsufficientBalance.Is(err))
}

func TestCheckOrError(t *testing.T) {
	ok := CheckOrError(&CheckResult{GasAllocated: 5, Log: "fine"}, nil, false)
	assert.Equal(t, int64(5), ok.GasWanted)
	assert.Equal(t, "fine", ok.Log)

	failed := CheckOrError(nil, errors.ErrUnauthorized, false)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), failed.Code)
}
