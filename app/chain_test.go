package app

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/utils"
	"github.com/stretchr/testify/assert"
)

// panicAtHeight panics when the context height is at least the given one.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	if h, _ := custody.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	if h, _ := custody.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}

func TestChain(t *testing.T) {
	c1 := &custodytest.Decorator{}
	c2 := &custodytest.Decorator{}
	c3 := &custodytest.Decorator{}
	h := &custodytest.Handler{}

	var nilDecorator *custodytest.Decorator
	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		nilDecorator,
		c2,
		panicAtHeight(6),
		nil,
		c3,
	).WithHandler(h)

	bg := context.Background()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test"}}

	_, err := stack.Check(custody.WithHeight(bg, 3), nil, tx)
	assert.NoError(t, err)
	_, err = stack.Deliver(custody.WithHeight(bg, 4), nil, tx)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a panic is converted into an error by the recovery decorator
	ctx := custody.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, tx)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	// the panic happens before reaching c3 and the handler
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainExtension(t *testing.T) {
	c1 := &custodytest.Decorator{}
	c2 := &custodytest.Decorator{DeliverErr: errors.ErrUnauthorized}
	h := &custodytest.Handler{}

	base := ChainDecorators(c1)
	extended := base.Chain(c2)

	bg := context.Background()
	_, err := base.WithHandler(h).Deliver(bg, nil, nil)
	assert.NoError(t, err)
	_, err = extended.WithHandler(h).Deliver(bg, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 1, c2.CallCount())
	assert.Equal(t, 1, h.CallCount())
}
