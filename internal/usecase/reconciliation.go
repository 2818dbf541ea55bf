package usecase

import (
	"fmt"
	"sort"

	"github.com/iho/txledger/internal/domain"
)

// ReconciliationResult compares the balances stored on an account with the
// balances implied by its transaction history.
type ReconciliationResult struct {
	ClientID        domain.ClientID
	RecordedTotal   domain.Money
	CalculatedTotal domain.Money
	RecordedHeld    domain.Money
	CalculatedHeld  domain.Money
	IsReconciled    bool
}

type implied struct {
	total domain.Money
	held  domain.Money
}

// Reconcile replays the history into per client totals and compares them
// with the accounts. Results are sorted by client id.
func (l *Ledger) Reconcile() ([]ReconciliationResult, error) {
	calculated := make(map[domain.ClientID]implied, len(l.accounts))

	for entry := range l.history.All() {
		if entry.Status == domain.StatusChargedBack {
			continue
		}

		sums := calculated[entry.ClientID]
		var err error
		switch entry.Kind {
		case domain.EntryDeposit:
			sums.total, err = sums.total.Add(entry.Amount)
		case domain.EntryWithdrawal:
			sums.total, err = sums.total.Sub(entry.Amount)
		}
		if err != nil {
			return nil, fmt.Errorf("client %d: %w", entry.ClientID, err)
		}

		if entry.Kind == domain.EntryDeposit && entry.Status == domain.StatusDisputed {
			if sums.held, err = sums.held.Add(entry.Amount); err != nil {
				return nil, fmt.Errorf("client %d: %w", entry.ClientID, err)
			}
		}
		calculated[entry.ClientID] = sums
	}

	results := make([]ReconciliationResult, 0, len(l.accounts))
	for id, acc := range l.accounts {
		total, err := acc.Total()
		if err != nil {
			return nil, fmt.Errorf("client %d: %w", id, err)
		}

		sums := calculated[id]
		results = append(results, ReconciliationResult{
			ClientID:        id,
			RecordedTotal:   total,
			CalculatedTotal: sums.total,
			RecordedHeld:    acc.Held,
			CalculatedHeld:  sums.held,
			IsReconciled:    total.Equal(sums.total) && acc.Held.Equal(sums.held),
		})
		delete(calculated, id)
	}

	// History for a client without an account cannot happen through Apply.
	for id, sums := range calculated {
		results = append(results, ReconciliationResult{
			ClientID:        id,
			CalculatedTotal: sums.total,
			CalculatedHeld:  sums.held,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ClientID < results[j].ClientID })
	return results, nil
}

// CheckConsistency fails with ErrLedgerInconsistent on the first client whose
// balances disagree with its history.
func (l *Ledger) CheckConsistency() error {
	results, err := l.Reconcile()
	if err != nil {
		return err
	}

	for _, r := range results {
		if !r.IsReconciled {
			return fmt.Errorf(
				"%w: client=%d total=%s expected=%s held=%s expected=%s",
				domain.ErrLedgerInconsistent,
				r.ClientID,
				r.RecordedTotal, r.CalculatedTotal,
				r.RecordedHeld, r.CalculatedHeld,
			)
		}
	}

	return nil
}
