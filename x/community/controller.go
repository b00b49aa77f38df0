package community

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/acl"
)

// TokenController moves tokens in and out of the custody account.
type TokenController interface {
	Transfer(db custody.KVStore, from, to custody.Address, amount coin.Coin) error
	TransferFrom(db custody.KVStore, spender, from, to custody.Address, amount coin.Coin) error
}

// AccessControl answers whether an account holds a role in a registry.
type AccessControl interface {
	HasRole(db custody.ReadOnlyKVStore, registry []byte, role acl.Role, account custody.Address) (bool, error)
}

// Controller implements the community ledger. Every mutating method either
// applies all of its changes or none of them.
type Controller struct {
	communities orm.ModelBucket
	balances    orm.ModelBucket
	tokens      TokenController
	access      AccessControl
}

// NewController returns a controller using the default buckets.
func NewController(tokens TokenController, access AccessControl) Controller {
	return Controller{
		communities: NewCommunityBucket(),
		balances:    NewBalanceBucket(),
		tokens:      tokens,
		access:      access,
	}
}

// atomic runs fn over a cache of db and writes the changes only if fn
// succeeds.
func atomic(db custody.KVStore, fn func(custody.KVStore) error) error {
	cache := store.CacheWrap(db)
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}

// Create stores a new community and returns its ID. The percentages are
// not required to add up to 100, but a warning is logged if they do not.
func (c Controller) Create(ctx custody.Context, db custody.KVStore, name string, owner custody.Address, admins Admins, percentages Percentages, registry []byte) ([]byte, error) {
	var id []byte
	err := atomic(db, func(db custody.KVStore) error {
		// Same counter the bucket uses for keyless inserts.
		key, err := orm.NewSequence(CommunityBucketName, "id").NextVal(db)
		if err != nil {
			return errors.Wrap(err, "sequence")
		}
		community := Community{
			Name:        name,
			Owner:       owner,
			Admins:      admins,
			Percentages: percentages,
			Registry:    registry,
			Address:     CustodyAddress(key),
		}
		if _, err := c.communities.Put(db, key, &community); err != nil {
			return errors.Wrap(err, "create community")
		}
		id = key
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s := percentages.Sum(); s != 100 {
		custody.GetLogger(ctx).Info("community percentages do not add up to 100",
			"community", id, "name", name, "sum", s)
	}
	return id, nil
}

// Get returns the community with the given ID.
func (c Controller) Get(db custody.ReadOnlyKVStore, id []byte) (*Community, error) {
	var community Community
	if err := c.communities.One(db, id, &community); err != nil {
		return nil, errors.Wrapf(err, "community %X", id)
	}
	return &community, nil
}

// Balance returns the amount of the token the admin may withdraw.
func (c Controller) Balance(db custody.ReadOnlyKVStore, id []byte, admin custody.Address, ticker string) (coin.Coin, error) {
	var b Balance
	switch err := c.balances.One(db, balanceKey(id, admin, ticker), &b); {
	case err == nil:
		return b.Amount, nil
	case errors.ErrNotFound.Is(err):
		return coin.NewCoin(0, ticker), nil
	default:
		return coin.Coin{}, err
	}
}

// credit changes the balance of the admin by the given amount, that may be
// negative. A zero balance is removed.
func (c Controller) credit(db custody.KVStore, id []byte, admin custody.Address, amount coin.Coin) error {
	current, err := c.Balance(db, id, admin, amount.Ticker)
	if err != nil {
		return err
	}
	total, err := current.Add(amount)
	if err != nil {
		return err
	}
	if total.Amount < 0 {
		return errors.Wrapf(errors.ErrInsufficientBalance, "balance %s, requested %s", current, amount.Negative())
	}
	key := balanceKey(id, admin, amount.Ticker)
	if total.IsZero() {
		if err := c.balances.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	_, err = c.balances.Put(db, key, &Balance{Amount: total})
	return err
}

// Deposit splits the amount between the admins and moves it from the
// caller to the custody account. The caller must have approved the custody
// account to spend the amount.
func (c Controller) Deposit(db custody.KVStore, id []byte, caller custody.Address, amount coin.Coin) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return atomic(db, func(db custody.KVStore) error {
		community, err := c.Get(db, id)
		if err != nil {
			return err
		}
		p := community.Percentages
		if s := p.Sum(); s > 100 {
			return errors.Wrapf(errors.ErrState, "percentages allocate %d%%", s)
		}

		shares := []struct {
			admin custody.Address
			pct   int64
		}{
			{community.Admins.Treasury, p.Treasury},
			{community.Admins.Validations, p.Validations},
			{community.Admins.Foundation, p.Foundation},
			{community.Admins.Rewards, p.Rewards},
		}
		dust := amount
		for i, s := range shares {
			share, err := amount.Percent(s.pct)
			if err != nil {
				return err
			}
			if dust, err = dust.Subtract(share); err != nil {
				return err
			}
			// Rewards are credited last and receive the rounding leftovers.
			if i == len(shares)-1 {
				if share, err = share.Add(dust); err != nil {
					return err
				}
			}
			if share.IsZero() {
				continue
			}
			if err := c.credit(db, id, s.admin, share); err != nil {
				return errors.Wrapf(err, "credit %s", s.admin)
			}
		}
		return c.pull(db, community, caller, amount)
	})
}

// ValidationsDeposit credits the whole amount to the validations admin and
// moves it from the caller to the custody account.
func (c Controller) ValidationsDeposit(db custody.KVStore, id []byte, caller custody.Address, amount coin.Coin) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return atomic(db, func(db custody.KVStore) error {
		community, err := c.Get(db, id)
		if err != nil {
			return err
		}
		if err := c.credit(db, id, community.Admins.Validations, amount); err != nil {
			return errors.Wrap(err, "credit validations")
		}
		return c.pull(db, community, caller, amount)
	})
}

func (c Controller) pull(db custody.KVStore, community *Community, from custody.Address, amount coin.Coin) error {
	if err := c.tokens.TransferFrom(db, community.Address, from, community.Address, amount); err != nil {
		return errors.Append(errors.Wrapf(ErrTransfer, "pull %s from %s", amount, from), err)
	}
	return nil
}

// Withdraw pays the amount out of the caller's balance to the caller.
func (c Controller) Withdraw(db custody.KVStore, id []byte, caller custody.Address, amount coin.Coin) (*TransferEvent, error) {
	return c.Transfer(db, id, caller, caller, amount)
}

// Transfer pays the amount out of the caller's balance to the recipient.
func (c Controller) Transfer(db custody.KVStore, id []byte, caller, to custody.Address, amount coin.Coin) (*TransferEvent, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, errors.Wrap(err, "recipient")
	}
	var event *TransferEvent
	err := atomic(db, func(db custody.KVStore) error {
		community, err := c.Get(db, id)
		if err != nil {
			return err
		}
		if err := c.credit(db, id, caller, amount.Negative()); err != nil {
			return err
		}
		if err := c.tokens.Transfer(db, community.Address, to, amount); err != nil {
			return errors.Append(errors.Wrapf(ErrTransfer, "pay %s to %s", amount, to), err)
		}
		event = &TransferEvent{From: community.Address, To: to, Amount: amount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// requireDefaultAdmin fails with ErrUnauthorized unless the caller holds the
// default admin role in the registry of the community. A registry that does
// not exist grants nothing.
func (c Controller) requireDefaultAdmin(db custody.ReadOnlyKVStore, community *Community, caller custody.Address) error {
	ok, err := c.access.HasRole(db, community.Registry, acl.DefaultAdminRole, caller)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrUnauthorized, "registry %X not found", community.Registry)
	case err != nil:
		return errors.Wrap(err, "access control")
	case !ok:
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not a default admin", caller)
	}
	return nil
}

// requireOwner fails with ErrUnauthorized unless the caller owns the
// community.
func requireOwner(community *Community, caller custody.Address) error {
	if !community.Owner.Equals(caller) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the owner", caller)
	}
	return nil
}

// isDefaultAdmin reports whether the account may change the admins and the
// percentages of the community.
func (c Controller) isDefaultAdmin(db custody.ReadOnlyKVStore, id []byte, account custody.Address) bool {
	community, err := c.Get(db, id)
	if err != nil {
		return false
	}
	return c.requireDefaultAdmin(db, community, account) == nil
}

// isOwner reports whether the account owns the community.
func (c Controller) isOwner(db custody.ReadOnlyKVStore, id []byte, account custody.Address) bool {
	community, err := c.Get(db, id)
	if err != nil {
		return false
	}
	return requireOwner(community, account) == nil
}

// update loads the community, applies fn and saves the result.
func (c Controller) update(db custody.KVStore, id []byte, fn func(*Community) error) error {
	return atomic(db, func(db custody.KVStore) error {
		community, err := c.Get(db, id)
		if err != nil {
			return err
		}
		if err := fn(community); err != nil {
			return err
		}
		_, err = c.communities.Put(db, id, community)
		return err
	})
}

// SetAdmins replaces all four admins. The caller must be a default admin.
// Balances stay with the accounts that earned them.
func (c Controller) SetAdmins(db custody.KVStore, id []byte, caller custody.Address, admins Admins) error {
	if err := admins.Validate(); err != nil {
		return err
	}
	return c.update(db, id, func(community *Community) error {
		if err := c.requireDefaultAdmin(db, community, caller); err != nil {
			return err
		}
		community.Admins = admins
		return nil
	})
}

// SetPercentages replaces the split of future deposits. The caller must be
// a default admin and the percentages must add up to 100.
func (c Controller) SetPercentages(db custody.KVStore, id []byte, caller custody.Address, percentages Percentages) error {
	if err := percentages.ValidateSum(); err != nil {
		return err
	}
	return c.update(db, id, func(community *Community) error {
		if err := c.requireDefaultAdmin(db, community, caller); err != nil {
			return err
		}
		community.Percentages = percentages
		return nil
	})
}

// SetAccessControl points the community to another registry. Only the
// owner may do so. The registry is not required to exist.
func (c Controller) SetAccessControl(db custody.KVStore, id []byte, caller custody.Address, registry []byte) error {
	return c.update(db, id, func(community *Community) error {
		if err := requireOwner(community, caller); err != nil {
			return err
		}
		community.Registry = registry
		return nil
	})
}

// TransferOwnership hands the community over to a new owner.
func (c Controller) TransferOwnership(db custody.KVStore, id []byte, caller, owner custody.Address) error {
	return c.update(db, id, func(community *Community) error {
		if err := requireOwner(community, caller); err != nil {
			return err
		}
		community.Owner = owner
		return nil
	})
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
