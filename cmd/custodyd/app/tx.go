package custodyd

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/acl"
	"github.com/iov-one/custody/x/community"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/token"
)

func init() {
	codec.RegisterInterface((*custody.Msg)(nil))

	codec.RegisterConcrete(&token.SendMsg{}, "token/SendMsg")
	codec.RegisterConcrete(&token.ApproveMsg{}, "token/ApproveMsg")

	codec.RegisterConcrete(&acl.CreateRegistryMsg{}, "acl/CreateRegistryMsg")
	codec.RegisterConcrete(&acl.GrantRoleMsg{}, "acl/GrantRoleMsg")
	codec.RegisterConcrete(&acl.RevokeRoleMsg{}, "acl/RevokeRoleMsg")
	codec.RegisterConcrete(&acl.RenounceRoleMsg{}, "acl/RenounceRoleMsg")
	codec.RegisterConcrete(&acl.SetRoleAdminMsg{}, "acl/SetRoleAdminMsg")

	codec.RegisterConcrete(&community.CreateMsg{}, "community/CreateMsg")
	codec.RegisterConcrete(&community.DepositMsg{}, "community/DepositMsg")
	codec.RegisterConcrete(&community.ValidationsDepositMsg{}, "community/ValidationsDepositMsg")
	codec.RegisterConcrete(&community.WithdrawMsg{}, "community/WithdrawMsg")
	codec.RegisterConcrete(&community.TransferMsg{}, "community/TransferMsg")
	codec.RegisterConcrete(&community.SetAdminsMsg{}, "community/SetAdminsMsg")
	codec.RegisterConcrete(&community.SetPercentagesMsg{}, "community/SetPercentagesMsg")
	codec.RegisterConcrete(&community.SetAccessControlMsg{}, "community/SetAccessControlMsg")
	codec.RegisterConcrete(&community.TransferOwnershipMsg{}, "community/TransferOwnershipMsg")
}

// Tx is the envelope of every message sent to custodyd.
type Tx struct {
	Msg        custody.Msg          `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

// make sure tx fulfills all interfaces
var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "empty transaction")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes come from the message only, never from the signatures
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	return codec.Marshal(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, tx)
}
