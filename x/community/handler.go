package community

import (
	"strconv"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
	"github.com/tendermint/tendermint/libs/common"
)

// Tag keys of a transfer out of the custody account.
const (
	TagFrom   = "transfer.from"
	TagTo     = "transfer.to"
	TagTicker = "transfer.ticker"
	TagAmount = "transfer.amount"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(pathCreateMsg, createHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathDepositMsg, depositHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathValidationsDepositMsg, validationsDepositHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathWithdrawMsg, withdrawHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathTransferMsg, transferHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathSetAdminsMsg, setAdminsHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathSetPercentagesMsg, setPercentagesHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathSetAccessControlMsg, setAccessControlHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathTransferOwnershipMsg, transferOwnershipHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery will register communities as "/communities" and admin
// balances as "/communitybalances"
func RegisterQuery(qr custody.QueryRouter) {
	NewCommunityBucket().Register(CommunityBucketName, qr)
	NewBalanceBucket().Register(BalanceBucketName, qr)
}

// requireSigner fails unless the address signed the transaction.
func requireSigner(ctx custody.Context, auth x.Authenticator, addr custody.Address) error {
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "signature of %s missing", addr)
	}
	return nil
}

// actingSigner returns the first signer accepted by allowed. When no signer
// is accepted the main signer is returned and the controller refuses it.
func actingSigner(ctx custody.Context, auth x.Authenticator, allowed func(custody.Address) bool) (custody.Address, error) {
	signers := x.GetAddresses(ctx, auth)
	if len(signers) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature missing")
	}
	for _, addr := range signers {
		if allowed(addr) {
			return addr, nil
		}
	}
	return signers[0], nil
}

// transferResult publishes the event as both data and tags.
func transferResult(e *TransferEvent) (*custody.DeliverResult, error) {
	raw, err := e.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal event")
	}
	return &custody.DeliverResult{
		Data: raw,
		Tags: []common.KVPair{
			{Key: []byte(TagFrom), Value: []byte(e.From.String())},
			{Key: []byte(TagTo), Value: []byte(e.To.String())},
			{Key: []byte(TagTicker), Value: []byte(e.Amount.Ticker)},
			{Key: []byte(TagAmount), Value: []byte(strconv.FormatInt(e.Amount.Amount, 10))},
		},
	}, nil
}

type createHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = createHandler{}

func (h createHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: createCost}, nil
}

// Deliver returns the ID of the new community as data.
func (h createHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	id, err := h.ctrl.Create(ctx, db, msg.Name, msg.Owner, msg.Admins, msg.Percentages, msg.RegistryID)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: id}, nil
}

func (h createHandler) validate(ctx custody.Context, tx custody.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Owner); err != nil {
		return nil, err
	}
	return &msg, nil
}

type depositHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = depositHandler{}

func (h depositHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: depositCost}, nil
}

func (h depositHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Deposit(db, msg.CommunityID, msg.Source, msg.Amount); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h depositHandler) validate(ctx custody.Context, tx custody.Tx) (*DepositMsg, error) {
	var msg DepositMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Source); err != nil {
		return nil, err
	}
	return &msg, nil
}

type validationsDepositHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = validationsDepositHandler{}

func (h validationsDepositHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: depositCost}, nil
}

func (h validationsDepositHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.ValidationsDeposit(db, msg.CommunityID, msg.Source, msg.Amount); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h validationsDepositHandler) validate(ctx custody.Context, tx custody.Tx) (*ValidationsDepositMsg, error) {
	var msg ValidationsDepositMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Source); err != nil {
		return nil, err
	}
	return &msg, nil
}

type withdrawHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = withdrawHandler{}

func (h withdrawHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: withdrawCost}, nil
}

func (h withdrawHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	event, err := h.ctrl.Withdraw(db, msg.CommunityID, msg.Admin, msg.Amount)
	if err != nil {
		return nil, err
	}
	return transferResult(event)
}

func (h withdrawHandler) validate(ctx custody.Context, tx custody.Tx) (*WithdrawMsg, error) {
	var msg WithdrawMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Admin); err != nil {
		return nil, err
	}
	return &msg, nil
}

type transferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = transferHandler{}

func (h transferHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: withdrawCost}, nil
}

func (h transferHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	event, err := h.ctrl.Transfer(db, msg.CommunityID, msg.Admin, msg.Destination, msg.Amount)
	if err != nil {
		return nil, err
	}
	return transferResult(event)
}

func (h transferHandler) validate(ctx custody.Context, tx custody.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireSigner(ctx, h.auth, msg.Admin); err != nil {
		return nil, err
	}
	return &msg, nil
}

type setAdminsHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = setAdminsHandler{}

func (h setAdminsHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: configCost}, nil
}

func (h setAdminsHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.SetAdmins(db, msg.CommunityID, caller, msg.Admins); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h setAdminsHandler) validate(ctx custody.Context, db custody.ReadOnlyKVStore, tx custody.Tx) (*SetAdminsMsg, custody.Address, error) {
	var msg SetAdminsMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := actingSigner(ctx, h.auth, func(a custody.Address) bool {
		return h.ctrl.isDefaultAdmin(db, msg.CommunityID, a)
	})
	if err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}

type setPercentagesHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = setPercentagesHandler{}

func (h setPercentagesHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: configCost}, nil
}

func (h setPercentagesHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.SetPercentages(db, msg.CommunityID, caller, msg.Percentages); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h setPercentagesHandler) validate(ctx custody.Context, db custody.ReadOnlyKVStore, tx custody.Tx) (*SetPercentagesMsg, custody.Address, error) {
	var msg SetPercentagesMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := actingSigner(ctx, h.auth, func(a custody.Address) bool {
		return h.ctrl.isDefaultAdmin(db, msg.CommunityID, a)
	})
	if err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}

type setAccessControlHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = setAccessControlHandler{}

func (h setAccessControlHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: configCost}, nil
}

func (h setAccessControlHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.SetAccessControl(db, msg.CommunityID, caller, msg.RegistryID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h setAccessControlHandler) validate(ctx custody.Context, db custody.ReadOnlyKVStore, tx custody.Tx) (*SetAccessControlMsg, custody.Address, error) {
	var msg SetAccessControlMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := actingSigner(ctx, h.auth, func(a custody.Address) bool {
		return h.ctrl.isOwner(db, msg.CommunityID, a)
	})
	if err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}

type transferOwnershipHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = transferOwnershipHandler{}

func (h transferOwnershipHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: configCost}, nil
}

func (h transferOwnershipHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.TransferOwnership(db, msg.CommunityID, caller, msg.NewOwner); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h transferOwnershipHandler) validate(ctx custody.Context, db custody.ReadOnlyKVStore, tx custody.Tx) (*TransferOwnershipMsg, custody.Address, error) {
	var msg TransferOwnershipMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := actingSigner(ctx, h.auth, func(a custody.Address) bool {
		return h.ctrl.isOwner(db, msg.CommunityID, a)
	})
	if err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}
