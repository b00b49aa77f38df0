package acl

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator) {
	base := roleHandler{auth: auth, ctrl: NewController()}
	r.Handle(pathCreateRegistryMsg, createRegistryHandler{base})
	r.Handle(pathGrantRoleMsg, grantRoleHandler{base})
	r.Handle(pathRevokeRoleMsg, revokeRoleHandler{base})
	r.Handle(pathRenounceRoleMsg, renounceRoleHandler{base})
	r.Handle(pathSetRoleAdminMsg, setRoleAdminHandler{base})
}

// RegisterQuery will register registries as "/registries" and roles as
// "/roles"
func RegisterQuery(qr custody.QueryRouter) {
	NewRegistryBucket().Register(RegistryBucketName, qr)
	NewRoleBucket().Register(RoleBucketName, qr)
}

// roleHandler holds what every handler of this package needs.
type roleHandler struct {
	auth x.Authenticator
	ctrl Controller
}

// caller returns the main signer of the transaction.
func (h roleHandler) caller(ctx custody.Context) (custody.Address, error) {
	addr := x.MainSignerAddress(ctx, h.auth)
	if addr == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature missing")
	}
	return addr, nil
}

func (h roleHandler) check(ctx custody.Context, tx custody.Tx, msg custody.Msg) (*custody.CheckResult, error) {
	if err := custody.LoadMsg(tx, msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.caller(ctx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: aclTxCost}, nil
}

type createRegistryHandler struct {
	roleHandler
}

func (h createRegistryHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return h.check(ctx, tx, &CreateRegistryMsg{})
}

func (h createRegistryHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg CreateRegistryMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := h.ctrl.Create(db, caller)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: id}, nil
}

type grantRoleHandler struct {
	roleHandler
}

func (h grantRoleHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return h.check(ctx, tx, &GrantRoleMsg{})
}

func (h grantRoleHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg GrantRoleMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.GrantRole(db, msg.RegistryID, caller, msg.Role, msg.Account); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type revokeRoleHandler struct {
	roleHandler
}

func (h revokeRoleHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return h.check(ctx, tx, &RevokeRoleMsg{})
}

func (h revokeRoleHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg RevokeRoleMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.RevokeRole(db, msg.RegistryID, caller, msg.Role, msg.Account); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type renounceRoleHandler struct {
	roleHandler
}

func (h renounceRoleHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return h.check(ctx, tx, &RenounceRoleMsg{})
}

func (h renounceRoleHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg RenounceRoleMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.RenounceRole(db, msg.RegistryID, caller, msg.Role); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

type setRoleAdminHandler struct {
	roleHandler
}

func (h setRoleAdminHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return h.check(ctx, tx, &SetRoleAdminMsg{})
}

func (h setRoleAdminHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg SetRoleAdminMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.SetRoleAdmin(db, msg.RegistryID, caller, msg.Role, msg.AdminRole); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}
