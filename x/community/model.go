package community

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const maxNameLength = 128

// Admins are the four accounts the community funds are split between.
type Admins struct {
	Rewards     custody.Address `json:"rewards"`
	Treasury    custody.Address `json:"treasury"`
	Validations custody.Address `json:"validations"`
	Foundation  custody.Address `json:"foundation"`
}

func (a Admins) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rewards", a.Rewards.Validate())
	errs = errors.AppendField(errs, "Treasury", a.Treasury.Validate())
	errs = errors.AppendField(errs, "Validations", a.Validations.Validate())
	errs = errors.AppendField(errs, "Foundation", a.Foundation.Validate())
	return errs
}

// Percentages of every deposit each admin is credited with.
type Percentages struct {
	Rewards     int64 `json:"rewards"`
	Treasury    int64 `json:"treasury"`
	Validations int64 `json:"validations"`
	Foundation  int64 `json:"foundation"`
}

// Validate checks every value is within 0 and 100. The sum is not checked,
// see ValidateSum.
func (p Percentages) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Rewards", validatePercent(p.Rewards))
	errs = errors.AppendField(errs, "Treasury", validatePercent(p.Treasury))
	errs = errors.AppendField(errs, "Validations", validatePercent(p.Validations))
	errs = errors.AppendField(errs, "Foundation", validatePercent(p.Foundation))
	return errs
}

// Sum of all four percentages.
func (p Percentages) Sum() int64 {
	return p.Rewards + p.Treasury + p.Validations + p.Foundation
}

// ValidateSum returns ErrPercentage unless the percentages add up to 100.
func (p Percentages) ValidateSum() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if s := p.Sum(); s != 100 {
		return errors.Wrapf(ErrPercentage, "sum is %d", s)
	}
	return nil
}

func validatePercent(v int64) error {
	if v < 0 || v > 100 {
		return errors.Wrapf(errors.ErrInput, "%d is not within 0 and 100", v)
	}
	return nil
}

// Community is the configuration of a single community fund.
type Community struct {
	Name        string          `json:"name"`
	Owner       custody.Address `json:"owner"`
	Admins      Admins          `json:"admins"`
	Percentages Percentages     `json:"percentages"`
	// Registry is the ID of the access control registry consulted for
	// the default admin role.
	Registry []byte `json:"registry"`
	// Address is the custody account holding the tokens of the community.
	Address custody.Address `json:"address"`
}

var _ orm.Model = (*Community)(nil)

func (c *Community) Marshal() ([]byte, error) {
	return codec.Marshal(c)
}

func (c *Community) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, c)
}

func (c *Community) Validate() error {
	var errs error
	if c.Name == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	} else if len(c.Name) > maxNameLength {
		errs = errors.AppendField(errs, "Name", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "Admins", c.Admins.Validate())
	errs = errors.AppendField(errs, "Percentages", c.Percentages.Validate())
	errs = errors.AppendField(errs, "Registry", validateID(c.Registry))
	errs = errors.AppendField(errs, "Address", c.Address.Validate())
	return errs
}

// CustodyAddress returns the address of the account holding the tokens of
// the community with the given ID.
func CustodyAddress(id []byte) custody.Address {
	return custody.NewCondition("community", "custody", id).Address()
}

// Balance is the amount of a single token an admin may withdraw.
type Balance struct {
	Amount coin.Coin `json:"amount"`
}

var _ orm.Model = (*Balance)(nil)

func (b *Balance) Marshal() ([]byte, error) {
	return codec.Marshal(b)
}

func (b *Balance) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, b)
}

func (b *Balance) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return errors.Field("Amount", err, "")
	}
	if !b.Amount.IsPositive() {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

// TransferEvent describes the tokens that left the custody account.
type TransferEvent struct {
	From   custody.Address `json:"from"`
	To     custody.Address `json:"to"`
	Amount coin.Coin       `json:"amount"`
}

func (e *TransferEvent) Marshal() ([]byte, error) {
	return codec.Marshal(e)
}

func (e *TransferEvent) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, e)
}

const (
	// CommunityBucketName is where communities are stored by sequence ID.
	CommunityBucketName = "communities"
	// BalanceBucketName is where admin balances are stored by community
	// ID, admin address and ticker.
	BalanceBucketName = "communitybalances"
)

// NewCommunityBucket returns the bucket of communities.
func NewCommunityBucket() orm.ModelBucket {
	return orm.NewModelBucket(CommunityBucketName, &Community{})
}

// NewBalanceBucket returns the bucket of admin balances.
func NewBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket(BalanceBucketName, &Balance{})
}

// balanceKey is community ID | admin | ticker. Both the ID and the address
// have a fixed size so a prefix scan lists the balances of one admin.
func balanceKey(id []byte, admin custody.Address, ticker string) []byte {
	key := make([]byte, 0, len(id)+len(admin)+len(ticker))
	key = append(key, id...)
	key = append(key, admin...)
	return append(key, ticker...)
}

// validateID checks the ID is a sequence value.
func validateID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "id must be 8 bytes, got %d", len(id))
	}
	return nil
}
