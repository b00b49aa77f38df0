package token

import (
	"sort"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Wallet holds the coins owned by a single address. Coins are sorted by
// ticker and zero amounts are never stored.
type Wallet struct {
	Coins []coin.Coin `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return codec.Marshal(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, w)
}

func (w *Wallet) Validate() error {
	for i, c := range w.Coins {
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "coin %d", i)
		}
		if !c.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "coin %d: zero amount", i)
		}
		if i > 0 && w.Coins[i-1].Ticker >= c.Ticker {
			return errors.Wrapf(errors.ErrState, "coin %d: unsorted or duplicated ticker", i)
		}
	}
	return nil
}

// Balance returns the amount of the given token, zero if not present.
func (w *Wallet) Balance(ticker string) coin.Coin {
	for _, c := range w.Coins {
		if c.Ticker == ticker {
			return c
		}
	}
	return coin.NewCoin(0, ticker)
}

// Add changes the balance of the token by the given amount, that may also be
// negative. A balance cannot go below zero.
func (w *Wallet) Add(amount coin.Coin) error {
	total, err := w.Balance(amount.Ticker).Add(amount)
	if err != nil {
		return err
	}
	if total.Amount < 0 {
		return errors.Wrapf(errors.ErrInsufficientBalance, "missing %d %s", -total.Amount, total.Ticker)
	}

	coins := make([]coin.Coin, 0, len(w.Coins)+1)
	for _, c := range w.Coins {
		if c.Ticker != amount.Ticker {
			coins = append(coins, c)
		}
	}
	if !total.IsZero() {
		coins = append(coins, total)
	}
	sort.Slice(coins, func(i, j int) bool { return coins[i].Ticker < coins[j].Ticker })
	w.Coins = coins
	return nil
}

// Allowance is the amount of a token a spender may move out of the owner's
// wallet.
type Allowance struct {
	Owner   custody.Address `json:"owner"`
	Spender custody.Address `json:"spender"`
	Amount  coin.Coin       `json:"amount"`
}

var _ orm.Model = (*Allowance)(nil)

func (a *Allowance) Marshal() ([]byte, error) {
	return codec.Marshal(a)
}

func (a *Allowance) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, a)
}

func (a *Allowance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	errs = errors.AppendField(errs, "Spender", a.Spender.Validate())
	errs = errors.AppendField(errs, "Amount", a.Amount.Validate())
	return errs
}

// allowanceKey is owner | spender | ticker. Addresses have a fixed length.
func allowanceKey(owner, spender custody.Address, ticker string) []byte {
	key := make([]byte, 0, len(owner)+len(spender)+len(ticker))
	key = append(key, owner...)
	key = append(key, spender...)
	return append(key, ticker...)
}

const (
	// WalletBucketName is where wallets are stored, keyed by address.
	WalletBucketName = "wallets"
	// AllowanceBucketName is where approvals are stored.
	AllowanceBucketName = "allowances"
)

// NewWalletBucket returns a bucket storing wallets by owner address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket(WalletBucketName, &Wallet{})
}

// NewAllowanceBucket returns a bucket storing allowances by owner, spender
// and ticker.
func NewAllowanceBucket() orm.ModelBucket {
	return orm.NewModelBucket(AllowanceBucketName, &Allowance{})
}
