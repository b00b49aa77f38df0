package app

import (
	"context"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	counter := &custodytest.Handler{}
	failing := &custodytest.Handler{
		DeliverErr: errors.Wrap(errors.ErrState, "failing"),
	}
	r.Handle("community/deposit", counter)
	r.Handle("acl/grant", failing)

	assert.Panics(t, func() { r.Handle("community/deposit", counter) })
	assert.Panics(t, func() { r.Handle("l:7", counter) })

	bg := context.Background()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "community/deposit"}}

	_, err := r.Check(bg, nil, tx)
	require.NoError(t, err)
	_, err = r.Deliver(bg, nil, tx)
	require.NoError(t, err)
	assert.Equal(t, 2, counter.CallCount())

	tx = &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "acl/grant"}}
	_, err = r.Deliver(bg, nil, tx)
	assert.True(t, errors.ErrState.Is(err))
	assert.False(t, errors.ErrNotFound.Is(err))

	tx = &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "missing"}}
	_, err = r.Deliver(bg, nil, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(bg, nil, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, counter.CallCount())

	tx = &custodytest.Tx{Err: errors.ErrInput}
	_, err = r.Check(bg, nil, tx)
	assert.True(t, errors.ErrInput.Is(err))
}
