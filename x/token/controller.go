package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// ErrAllowance is returned when a spender moves more tokens than the owner
// approved.
var ErrAllowance = errors.Register(200, "allowance exceeded")

// Controller is the functionality needed by other extensions to move tokens.
// Failed calls may leave partial writes behind, callers are expected to run
// inside a savepoint or a cache wrap.
type Controller interface {
	// Balance returns the amount of the token held by the owner.
	Balance(db custody.ReadOnlyKVStore, owner custody.Address, ticker string) (coin.Coin, error)
	// Transfer moves tokens between two wallets.
	Transfer(db custody.KVStore, from, to custody.Address, amount coin.Coin) error
	// Approve sets the amount the spender may move on behalf of the owner.
	Approve(db custody.KVStore, owner, spender custody.Address, amount coin.Coin) error
	// Allowance returns the amount the spender may still move.
	Allowance(db custody.ReadOnlyKVStore, owner, spender custody.Address, ticker string) (coin.Coin, error)
	// TransferFrom moves tokens from the owner's wallet on behalf of the
	// spender, consuming the allowance.
	TransferFrom(db custody.KVStore, spender, from, to custody.Address, amount coin.Coin) error
}

// BaseController is the wallet backed implementation of Controller.
type BaseController struct {
	wallets    orm.ModelBucket
	allowances orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default buckets.
func NewController() BaseController {
	return BaseController{
		wallets:    NewWalletBucket(),
		allowances: NewAllowanceBucket(),
	}
}

func (c BaseController) wallet(db custody.ReadOnlyKVStore, owner custody.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.wallets.One(db, owner, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// saveWallet stores the wallet, or removes it once it is empty.
func (c BaseController) saveWallet(db custody.KVStore, owner custody.Address, w *Wallet) error {
	if len(w.Coins) == 0 {
		err := c.wallets.Delete(db, owner)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	_, err := c.wallets.Put(db, owner, w)
	return err
}

func (c BaseController) Balance(db custody.ReadOnlyKVStore, owner custody.Address, ticker string) (coin.Coin, error) {
	w, err := c.wallet(db, owner)
	if err != nil {
		return coin.Coin{}, err
	}
	return w.Balance(ticker), nil
}

func (c BaseController) Transfer(db custody.KVStore, from, to custody.Address, amount coin.Coin) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if err := from.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.wallet(db, from)
	if err != nil {
		return err
	}
	if err := sender.Add(amount.Negative()); err != nil {
		return err
	}
	if from.Equals(to) {
		return nil
	}
	if err := c.saveWallet(db, from, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	return c.Issue(db, to, amount)
}

// Issue adds the amount to the wallet of the destination. Only the genesis
// initializer creates tokens, every other change must balance.
func (c BaseController) Issue(db custody.KVStore, to custody.Address, amount coin.Coin) error {
	recipient, err := c.wallet(db, to)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	if err := c.saveWallet(db, to, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) Approve(db custody.KVStore, owner, spender custody.Address, amount coin.Coin) error {
	a := Allowance{Owner: owner, Spender: spender, Amount: amount}
	if err := a.Validate(); err != nil {
		return err
	}
	key := allowanceKey(owner, spender, amount.Ticker)
	if amount.IsZero() {
		if err := c.allowances.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	_, err := c.allowances.Put(db, key, &a)
	return err
}

func (c BaseController) Allowance(db custody.ReadOnlyKVStore, owner, spender custody.Address, ticker string) (coin.Coin, error) {
	var a Allowance
	switch err := c.allowances.One(db, allowanceKey(owner, spender, ticker), &a); {
	case err == nil:
		return a.Amount, nil
	case errors.ErrNotFound.Is(err):
		return coin.NewCoin(0, ticker), nil
	default:
		return coin.Coin{}, err
	}
}

func (c BaseController) TransferFrom(db custody.KVStore, spender, from, to custody.Address, amount coin.Coin) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	allowed, err := c.Allowance(db, from, spender, amount.Ticker)
	if err != nil {
		return err
	}
	if !allowed.IsGTE(amount) {
		return errors.Wrapf(ErrAllowance, "approved %s, requested %s", allowed, amount)
	}
	if err := c.Transfer(db, from, to, amount); err != nil {
		return err
	}
	left, err := allowed.Subtract(amount)
	if err != nil {
		return err
	}
	if err := c.Approve(db, from, spender, left); err != nil {
		return errors.Wrap(err, "update allowance")
	}
	return nil
}

func validateAmount(amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	return nil
}
