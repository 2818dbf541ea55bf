package domain

import (
	"slices"
)

// Account is the balance state of one client.
type Account struct {
	ClientID  ClientID
	Available Money
	Held      Money
	Locked    bool
}

// NewAccount returns an empty, unlocked account.
func NewAccount(id ClientID) Account {
	return Account{ClientID: id}
}

// Total is always derived from available and held funds.
func (a Account) Total() (Money, error) {
	return a.Available.Add(a.Held)
}

// CanWithdraw checks whether amount can leave the available funds.
func (a Account) CanWithdraw(amount Money) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.Available.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// Lock freezes the account. There is no unlock.
func (a *Account) Lock() {
	a.Locked = true
}

// Snapshot is the final state of every account keyed by client.
type Snapshot map[ClientID]Account

// Sorted returns the accounts in ascending client id order.
func (s Snapshot) Sorted() []Account {
	accounts := make([]Account, 0, len(s))
	for _, acc := range s {
		accounts = append(accounts, acc)
	}

	slices.SortFunc(accounts, func(a, b Account) int {
		return int(a.ClientID) - int(b.ClientID)
	})

	return accounts
}

// LockedCount returns how many accounts are locked.
func (s Snapshot) LockedCount() int {
	n := 0
	for _, acc := range s {
		if acc.Locked {
			n++
		}
	}
	return n
}
