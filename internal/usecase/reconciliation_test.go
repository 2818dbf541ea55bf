package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

func TestLedger_Reconcile(t *testing.T) {
	l := usecase.NewLedger()
	applyAll(t, l,
		deposit(1, 1, "10"),
		deposit(1, 2, "5"),
		withdrawal(1, 3, "3"),
		dispute(1, 2),
		deposit(2, 4, "7"),
		dispute(2, 4),
		chargeback(2, 4),
		withdrawal(3, 5, "1"),
	)

	results, err := l.Reconcile()
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, domain.ClientID(1), results[0].ClientID)
	assert.Equal(t, "12.0000", results[0].CalculatedTotal.String())
	assert.Equal(t, "5.0000", results[0].CalculatedHeld.String())
	assert.Equal(t, "0.0000", results[1].CalculatedTotal.String())
	assert.Equal(t, "0.0000", results[2].RecordedTotal.String())

	for _, r := range results {
		assert.True(t, r.IsReconciled, "client %d", r.ClientID)
	}
	assert.NoError(t, l.CheckConsistency())
}

func TestLedger_ReconcileRandomStream(t *testing.T) {
	l := usecase.NewLedger()
	for _, rec := range randomRecords(11, 10_000, 40) {
		_, err := l.Apply(rec)
		require.NoError(t, err)
	}

	assert.NoError(t, l.CheckConsistency())
}
