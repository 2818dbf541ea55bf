package usecase

import (
	"fmt"

	"github.com/iho/txledger/internal/domain"
)

// Effect is the set of mutations a record causes. Deltas are added to the
// account balances; Status is empty when no referenced entry changes.
type Effect struct {
	AvailableDelta domain.Money
	HeldDelta      domain.Money
	Lock           bool
	NewEntry       *domain.LedgerEntry
	Status         domain.EntryStatus
}

// Dispatch decides what rec does to acc. entry is the ledger entry rec
// references, nil if there is none. A semantic error means rec must be ignored.
func Dispatch(rec domain.Record, acc domain.Account, entry *domain.LedgerEntry) (Effect, error) {
	switch rec.Kind {
	case domain.KindDeposit:
		return deposit(rec)
	case domain.KindWithdrawal:
		return withdrawal(rec, acc)
	case domain.KindDispute:
		return dispute(rec, entry)
	case domain.KindResolve:
		return resolve(rec, entry)
	case domain.KindChargeback:
		return chargeback(rec, entry)
	default:
		return Effect{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, rec.Kind)
	}
}

func deposit(rec domain.Record) (Effect, error) {
	if !rec.Amount.IsPositive() {
		return Effect{}, domain.ErrInvalidAmount
	}

	entry, _ := domain.NewLedgerEntry(rec)
	return Effect{AvailableDelta: rec.Amount, NewEntry: &entry}, nil
}

func withdrawal(rec domain.Record, acc domain.Account) (Effect, error) {
	if !rec.Amount.IsPositive() {
		return Effect{}, domain.ErrInvalidAmount
	}

	if err := acc.CanWithdraw(rec.Amount); err != nil {
		return Effect{}, err
	}

	entry, _ := domain.NewLedgerEntry(rec)
	return Effect{AvailableDelta: rec.Amount.Neg(), NewEntry: &entry}, nil
}

func dispute(rec domain.Record, entry *domain.LedgerEntry) (Effect, error) {
	if err := checkReference(rec, entry, domain.StatusDisputed); err != nil {
		return Effect{}, err
	}

	effect := Effect{Status: domain.StatusDisputed}
	if entry.Kind == domain.EntryDeposit {
		effect.AvailableDelta = entry.Amount.Neg()
		effect.HeldDelta = entry.Amount
	}
	return effect, nil
}

func resolve(rec domain.Record, entry *domain.LedgerEntry) (Effect, error) {
	if err := checkReference(rec, entry, domain.StatusResolved); err != nil {
		return Effect{}, err
	}

	effect := Effect{Status: domain.StatusResolved}
	if entry.Kind == domain.EntryDeposit {
		effect.AvailableDelta = entry.Amount
		effect.HeldDelta = entry.Amount.Neg()
	}
	return effect, nil
}

func chargeback(rec domain.Record, entry *domain.LedgerEntry) (Effect, error) {
	if err := checkReference(rec, entry, domain.StatusChargedBack); err != nil {
		return Effect{}, err
	}

	effect := Effect{Status: domain.StatusChargedBack, Lock: true}
	switch entry.Kind {
	case domain.EntryDeposit:
		effect.HeldDelta = entry.Amount.Neg()
	case domain.EntryWithdrawal:
		effect.AvailableDelta = entry.Amount
	}
	return effect, nil
}

func checkReference(rec domain.Record, entry *domain.LedgerEntry, next domain.EntryStatus) error {
	if entry == nil {
		return fmt.Errorf("%w: %d", domain.ErrTransactionNotFound, rec.Tx)
	}

	if entry.ClientID != rec.Client {
		return fmt.Errorf("%w: tx %d belongs to client %d", domain.ErrClientMismatch, entry.ID, entry.ClientID)
	}

	if !entry.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, entry.Status, next)
	}

	return nil
}
