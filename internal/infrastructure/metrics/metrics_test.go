package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

var _ usecase.Observer = (*Metrics)(nil)

func valueOf(t *testing.T, metric prometheus.Metric) float64 {
	t.Helper()

	var out dto.Metric
	if err := metric.Write(&out); err != nil {
		t.Fatalf("failed to read metric: %v", err)
	}

	if counter := out.GetCounter(); counter != nil {
		return counter.GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestNewRegistersMetrics(t *testing.T) {
	m := New()
	m.RecordApplied(domain.KindDeposit)

	metricFamilies, err := m.Gatherer().Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	// Two runs in one process must not collide on registration.
	a := New()
	b := New()

	a.RecordApplied(domain.KindDeposit)

	if got := valueOf(t, b.RecordsApplied.WithLabelValues("deposit")); got != 0 {
		t.Fatalf("expected independent registries, got %v", got)
	}
}

func TestObserverCounts(t *testing.T) {
	m := New()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				m.RecordApplied(domain.KindDeposit)
				m.RecordIgnored(domain.KindWithdrawal, domain.ErrAccountLocked)
			}
		}()
	}
	wg.Wait()

	if got := valueOf(t, m.RecordsApplied.WithLabelValues("deposit")); got != 800 {
		t.Fatalf("expected 800 applied deposits, got %v", got)
	}
	if got := valueOf(t, m.RecordsIgnored.WithLabelValues("withdrawal", "account_locked")); got != 800 {
		t.Fatalf("expected 800 ignored withdrawals, got %v", got)
	}
}

func TestObserveRun(t *testing.T) {
	m := New()
	snap := domain.Snapshot{
		1: {ClientID: 1},
		2: {ClientID: 2, Locked: true},
		3: {ClientID: 3},
	}

	m.ObserveRun(snap, 4, 250*time.Millisecond)

	if got := valueOf(t, m.Accounts); got != 3 {
		t.Fatalf("expected 3 accounts, got %v", got)
	}
	if got := valueOf(t, m.LockedAccounts); got != 1 {
		t.Fatalf("expected 1 locked account, got %v", got)
	}
	if got := valueOf(t, m.RowsSkipped); got != 4 {
		t.Fatalf("expected 4 skipped rows, got %v", got)
	}
}

func TestReasonLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidAmount, "invalid_amount"},
		{domain.ErrInsufficientFunds, "insufficient_funds"},
		{domain.ErrAccountLocked, "account_locked"},
		{fmt.Errorf("%w: 9", domain.ErrTransactionNotFound), "not_found"},
		{fmt.Errorf("%w: tx 1", domain.ErrClientMismatch), "client_mismatch"},
		{fmt.Errorf("%w: normal -> resolved", domain.ErrInvalidStatusTransition), "invalid_transition"},
		{errors.New("something else"), "other"},
	}

	for _, tt := range tests {
		if got := ReasonLabel(tt.err); got != tt.want {
			t.Fatalf("ReasonLabel(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordIgnored(domain.KindDispute, domain.ErrTransactionNotFound)

	path := filepath.Join(t.TempDir(), "ledger.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("failed to write textfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}

	want := `txledger_records_ignored_total{kind="dispute",reason="not_found"} 1`
	if !strings.Contains(string(data), want) {
		t.Fatalf("expected %q in output, got:\n%s", want, data)
	}
}
