package usecase

import (
	"fmt"

	"github.com/iho/txledger/internal/domain"
)

// Outcome reports what happened to one applied record.
type Outcome struct {
	Kind    domain.Kind
	Applied bool
	// Reason is the precondition that caused the record to be ignored.
	Reason error
}

// Ledger owns the accounts and transaction history of one run, or of one
// shard of it. It is not safe for concurrent use.
type Ledger struct {
	accounts map[domain.ClientID]*domain.Account
	history  *History
	// ids is nil when transaction ids are claimed upstream.
	ids *IDSet
}

// NewLedger creates an empty ledger that enforces transaction id uniqueness itself.
func NewLedger() *Ledger {
	l := newShardLedger()
	l.ids = NewIDSet()
	return l
}

func newShardLedger() *Ledger {
	return &Ledger{
		accounts: make(map[domain.ClientID]*domain.Account),
		history:  NewHistory(),
	}
}

// Apply runs rec through the state machine. Records that fail a
// precondition are ignored and reported in the Outcome; a non-nil error is
// structural and the run must stop.
func (l *Ledger) Apply(rec domain.Record) (Outcome, error) {
	if rec.Kind.CarriesAmount() && l.ids != nil {
		if err := l.ids.Claim(rec.Tx); err != nil {
			return Outcome{}, err
		}
	}

	acc := l.account(rec.Client)

	var entry *domain.LedgerEntry
	if !rec.Kind.CarriesAmount() {
		if stored, ok := l.history.Lookup(rec.Tx); ok {
			snapshot := *stored
			entry = &snapshot
		}
	}

	effect, err := Dispatch(rec, *acc, entry)
	if err != nil {
		if domain.IsSemantic(err) {
			return Outcome{Kind: rec.Kind, Reason: err}, nil
		}
		return Outcome{}, err
	}

	if err := l.commit(acc, rec, effect); err != nil {
		return Outcome{}, err
	}

	return Outcome{Kind: rec.Kind, Applied: true}, nil
}

// commit validates the whole effect before mutating anything.
func (l *Ledger) commit(acc *domain.Account, rec domain.Record, effect Effect) error {
	available, err := acc.Available.Add(effect.AvailableDelta)
	if err != nil {
		return fmt.Errorf("client %d available: %w", acc.ClientID, err)
	}

	held, err := acc.Held.Add(effect.HeldDelta)
	if err != nil {
		return fmt.Errorf("client %d held: %w", acc.ClientID, err)
	}

	if held.IsNegative() {
		return fmt.Errorf("%w: client %d held %s", domain.ErrNegativeHeld, acc.ClientID, held)
	}

	next := domain.Account{ClientID: acc.ClientID, Available: available, Held: held, Locked: acc.Locked}
	if _, err := next.Total(); err != nil {
		return fmt.Errorf("client %d total: %w", acc.ClientID, err)
	}

	if effect.NewEntry != nil {
		if err := l.history.Record(*effect.NewEntry); err != nil {
			return err
		}
	}

	if effect.Status != "" {
		if err := l.history.UpdateStatus(rec.Tx, effect.Status); err != nil {
			return err
		}
	}

	if effect.Lock {
		next.Lock()
	}
	*acc = next

	return nil
}

func (l *Ledger) account(id domain.ClientID) *domain.Account {
	acc, ok := l.accounts[id]
	if !ok {
		created := domain.NewAccount(id)
		acc = &created
		l.accounts[id] = acc
	}
	return acc
}

// Account returns a copy of the client's account.
func (l *Ledger) Account(id domain.ClientID) (domain.Account, bool) {
	acc, ok := l.accounts[id]
	if !ok {
		return domain.Account{}, false
	}
	return *acc, true
}

// Entry returns a copy of the ledger entry for id.
func (l *Ledger) Entry(id domain.TxID) (domain.LedgerEntry, bool) {
	entry, ok := l.history.Lookup(id)
	if !ok {
		return domain.LedgerEntry{}, false
	}
	return *entry, true
}

// Snapshot copies every account.
func (l *Ledger) Snapshot() domain.Snapshot {
	snap := make(domain.Snapshot, len(l.accounts))
	for id, acc := range l.accounts {
		snap[id] = *acc
	}
	return snap
}
