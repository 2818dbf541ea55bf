package domain

// EntryKind is the kind of transaction a ledger entry was created from.
type EntryKind string

const (
	EntryDeposit    EntryKind = "deposit"
	EntryWithdrawal EntryKind = "withdrawal"
)

// EntryStatus is where a ledger entry is in the dispute lifecycle.
type EntryStatus string

const (
	StatusNormal      EntryStatus = "normal"
	StatusDisputed    EntryStatus = "disputed"
	StatusResolved    EntryStatus = "resolved"
	StatusChargedBack EntryStatus = "charged_back"
)

// IsTerminal reports whether no further transitions are possible.
func (s EntryStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusChargedBack
}

// CanTransitionTo reports whether moving from s to next follows
// normal -> disputed -> resolved | charged_back.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case StatusNormal:
		return next == StatusDisputed
	case StatusDisputed:
		return next == StatusResolved || next == StatusChargedBack
	default:
		return false
	}
}

// LedgerEntry is the stored form of a deposit or withdrawal, kept so later
// disputes can reference it.
type LedgerEntry struct {
	ID       TxID
	ClientID ClientID
	Kind     EntryKind
	Amount   Money
	Status   EntryStatus
}

// NewLedgerEntry creates an entry in the normal status. It returns false
// for record kinds that do not produce entries.
func NewLedgerEntry(r Record) (LedgerEntry, bool) {
	var kind EntryKind
	switch r.Kind {
	case KindDeposit:
		kind = EntryDeposit
	case KindWithdrawal:
		kind = EntryWithdrawal
	default:
		return LedgerEntry{}, false
	}

	return LedgerEntry{
		ID:       r.Tx,
		ClientID: r.Client,
		Kind:     kind,
		Amount:   r.Amount,
		Status:   StatusNormal,
	}, true
}
