package usecase

import (
	"fmt"
	"iter"

	"github.com/iho/txledger/internal/domain"
)

// History indexes ledger entries by transaction id.
type History struct {
	entries map[domain.TxID]*domain.LedgerEntry
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{entries: make(map[domain.TxID]*domain.LedgerEntry)}
}

// Record stores a new entry. Ids are never overwritten.
func (h *History) Record(entry domain.LedgerEntry) error {
	if _, exists := h.entries[entry.ID]; exists {
		return fmt.Errorf("%w: %d", domain.ErrDuplicateTransaction, entry.ID)
	}

	h.entries[entry.ID] = &entry
	return nil
}

// Lookup returns the stored entry for id.
func (h *History) Lookup(id domain.TxID) (*domain.LedgerEntry, bool) {
	entry, ok := h.entries[id]
	return entry, ok
}

// UpdateStatus moves an entry to status if the lifecycle allows it.
func (h *History) UpdateStatus(id domain.TxID, status domain.EntryStatus) error {
	entry, ok := h.entries[id]
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrTransactionNotFound, id)
	}

	if !entry.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, entry.Status, status)
	}

	entry.Status = status
	return nil
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}

// All yields a copy of every stored entry in no particular order.
func (h *History) All() iter.Seq[domain.LedgerEntry] {
	return func(yield func(domain.LedgerEntry) bool) {
		for _, entry := range h.entries {
			if !yield(*entry) {
				return
			}
		}
	}
}

// IDSet tracks every transaction id claimed by a deposit or withdrawal record,
// including records later rejected by a precondition.
type IDSet struct {
	seen map[domain.TxID]struct{}
}

func NewIDSet() *IDSet {
	return &IDSet{seen: make(map[domain.TxID]struct{})}
}

// Claim marks id as used, failing if it was claimed before.
func (s *IDSet) Claim(id domain.TxID) error {
	if _, exists := s.seen[id]; exists {
		return fmt.Errorf("%w: %d", domain.ErrDuplicateTransaction, id)
	}

	s.seen[id] = struct{}{}
	return nil
}
