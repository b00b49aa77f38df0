package community

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

const (
	pathCreateMsg             = "community/create"
	pathDepositMsg            = "community/deposit"
	pathValidationsDepositMsg = "community/validations_deposit"
	pathWithdrawMsg           = "community/withdraw"
	pathTransferMsg           = "community/transfer"
	pathSetAdminsMsg          = "community/set_admins"
	pathSetPercentagesMsg     = "community/set_percentages"
	pathSetAccessControlMsg   = "community/set_access_control"
	pathTransferOwnershipMsg  = "community/transfer_ownership"

	createCost   int64 = 200
	depositCost  int64 = 100
	withdrawCost int64 = 100
	configCost   int64 = 50
)

// CreateMsg creates a new community. The owner must sign it.
type CreateMsg struct {
	Name        string          `json:"name"`
	Owner       custody.Address `json:"owner"`
	Admins      Admins          `json:"admins"`
	Percentages Percentages     `json:"percentages"`
	RegistryID  []byte          `json:"registry_id"`
}

var _ custody.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	var errs error
	if m.Name == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	} else if len(m.Name) > maxNameLength {
		errs = errors.AppendField(errs, "Name", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Admins", m.Admins.Validate())
	errs = errors.AppendField(errs, "Percentages", m.Percentages.Validate())
	errs = errors.AppendField(errs, "RegistryID", validateID(m.RegistryID))
	return errs
}

// DepositMsg splits the amount between the admins of the community. The
// source must sign it and must have approved the custody account.
type DepositMsg struct {
	CommunityID []byte          `json:"community_id"`
	Source      custody.Address `json:"source"`
	Amount      coin.Coin       `json:"amount"`
}

var _ custody.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CommunityID", validateID(m.CommunityID))
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// ValidationsDepositMsg credits the whole amount to the validations admin.
type ValidationsDepositMsg struct {
	CommunityID []byte          `json:"community_id"`
	Source      custody.Address `json:"source"`
	Amount      coin.Coin       `json:"amount"`
}

var _ custody.Msg = (*ValidationsDepositMsg)(nil)

func (ValidationsDepositMsg) Path() string {
	return pathValidationsDepositMsg
}

func (m *ValidationsDepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CommunityID", validateID(m.CommunityID))
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// WithdrawMsg pays out of the admin's balance to the admin.
type WithdrawMsg struct {
	CommunityID []byte          `json:"community_id"`
	Admin       custody.Address `json:"admin"`
	Amount      coin.Coin       `json:"amount"`
}

var _ custody.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (m *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CommunityID", validateID(m.CommunityID))
	errs = errors.AppendField(errs, "Admin", m.Admin.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// TransferMsg pays out of the admin's balance to the destination.
type TransferMsg struct {
	CommunityID []byte          `json:"community_id"`
	Admin       custody.Address `json:"admin"`
	Destination custody.Address `json:"destination"`
	Amount      coin.Coin       `json:"amount"`
}

var _ custody.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CommunityID", validateID(m.CommunityID))
	errs = errors.AppendField(errs, "Admin", m.Admin.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// SetAdminsMsg replaces all four admins at once.
type SetAdminsMsg struct {
	CommunityID []byte `json:"community_id"`
	Admins      Admins `json:"admins"`
}

var _ custody.Msg = (*SetAdminsMsg)(nil)

func (SetAdminsMsg) Path() string {
	return pathSetAdminsMsg
}

func (m *SetAdminsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CommunityID", validateID(m.CommunityID))
	errs = errors.AppendField(errs, "Admins", m.Admins.Validate())
	return errs
}

// SetPercentagesMsg replaces the split of future deposits.
type SetPercentagesMsg struct {
	CommunityID []byte      `json:"community_id"`
	Percentages Percentages `json:"percentages"`
}

var _ custody.Msg = (*SetPercentagesMsg)(nil)

func (SetPercentagesMsg) Path() string {
	return pathSetPercentagesMsg
}

func (m *SetPercentagesMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CommunityID", validateID(m.CommunityID))
	errs = errors.AppendField(errs, "Percentages", m.Percentages.ValidateSum())
	return errs
}

// SetAccessControlMsg points the community to another registry.
type SetAccessControlMsg struct {
	CommunityID []byte `json:"community_id"`
	RegistryID  []byte `json:"registry_id"`
}

var _ custody.Msg = (*SetAccessControlMsg)(nil)

func (SetAccessControlMsg) Path() string {
	return pathSetAccessControlMsg
}

func (m *SetAccessControlMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CommunityID", validateID(m.CommunityID))
	errs = errors.AppendField(errs, "RegistryID", validateID(m.RegistryID))
	return errs
}

// TransferOwnershipMsg hands the community over to a new owner.
type TransferOwnershipMsg struct {
	CommunityID []byte          `json:"community_id"`
	NewOwner    custody.Address `json:"new_owner"`
}

var _ custody.Msg = (*TransferOwnershipMsg)(nil)

func (TransferOwnershipMsg) Path() string {
	return pathTransferOwnershipMsg
}

func (m *TransferOwnershipMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "CommunityID", validateID(m.CommunityID))
	errs = errors.AppendField(errs, "NewOwner", m.NewOwner.Validate())
	return errs
}
