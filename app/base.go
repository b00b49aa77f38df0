package app

import (
	"fmt"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

// BaseApp runs CheckTx and DeliverTx through a handler on top of the
// storage and queries of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder custody.TxDecoder
	handler custody.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application decoding every transaction with the
// decoder and passing it to the handler. In debug mode error logs carry
// the stack trace.
func NewBaseApp(store *StoreApp, decoder custody.TxDecoder, handler custody.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx executes the transaction against the block state.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.prepare("deliver_tx", txBytes)
	if err != nil {
		return custody.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	if err != nil {
		custody.GetLogger(ctx).Debug("transaction failed", "err", err)
	}
	return custody.DeliverOrError(res, err, b.debug)
}

// CheckTx validates the transaction against the mempool state.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.prepare("check_tx", txBytes)
	if err != nil {
		return custody.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return custody.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and returns the block context with the
// call, transaction hash and message path attached to its logger.
func (b BaseApp) prepare(call string, txBytes []byte) (custody.Context, custody.Tx, error) {
	if len(txBytes) == 0 {
		return nil, nil, errors.Wrap(errors.ErrInput, "empty transaction")
	}
	tx, err := b.decode(txBytes)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decode transaction")
	}
	ctx := custody.WithLogInfo(b.BlockContext(),
		"call", call,
		"tx", fmt.Sprintf("%X", tmhash.Sum(txBytes)),
		"path", custody.GetPath(tx))
	return ctx, tx, nil
}

// decode runs the decoder, turning a panic into ErrPanic.
func (b BaseApp) decode(txBytes []byte) (tx custody.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
