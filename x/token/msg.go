package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

const (
	pathSendMsg    = "token/send"
	pathApproveMsg = "token/approve"

	sendTxCost    int64 = 100
	approveTxCost int64 = 50

	maxMemoSize int = 128
)

// SendMsg moves tokens from the source wallet to the destination.
type SendMsg struct {
	Source      custody.Address `json:"source"`
	Destination custody.Address `json:"destination"`
	Amount      coin.Coin       `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

var _ custody.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return pathSendMsg
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.ErrInput)
	}
	return errs
}

// ApproveMsg allows the spender to move up to the given amount out of the
// owner's wallet. A zero amount removes the approval.
type ApproveMsg struct {
	Owner   custody.Address `json:"owner"`
	Spender custody.Address `json:"spender"`
	Amount  coin.Coin       `json:"amount"`
}

var _ custody.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string {
	return pathApproveMsg
}

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	return errs
}
