package domain

import (
	"errors"
	"testing"
)

func TestAccount_CanWithdraw(t *testing.T) {
	tests := []struct {
		name        string
		available   string
		locked      bool
		amount      string
		expectError error
	}{
		{name: "enough funds", available: "10", amount: "5"},
		{name: "exact funds", available: "10", amount: "10"},
		{name: "insufficient funds", available: "10", amount: "10.0001", expectError: ErrInsufficientFunds},
		{name: "negative available", available: "-1", amount: "0.5", expectError: ErrInsufficientFunds},
		{name: "locked", available: "10", locked: true, amount: "1", expectError: ErrAccountLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := Account{Available: MustParseMoney(tt.available), Locked: tt.locked}

			err := acc.CanWithdraw(MustParseMoney(tt.amount))

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestAccount_Total(t *testing.T) {
	acc := Account{Available: MustParseMoney("-2.5"), Held: MustParseMoney("10")}

	total, err := acc.Total()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total.String() != "7.5000" {
		t.Errorf("expected 7.5000, got %s", total)
	}
}

func TestAccount_Lock(t *testing.T) {
	acc := NewAccount(1)
	acc.Lock()
	acc.Lock()

	if !acc.Locked {
		t.Error("expected account to be locked")
	}
}

func TestSnapshot_Sorted(t *testing.T) {
	snap := Snapshot{
		7:     NewAccount(7),
		1:     NewAccount(1),
		65535: NewAccount(65535),
		3:     {ClientID: 3, Locked: true},
	}

	sorted := snap.Sorted()

	want := []ClientID{1, 3, 7, 65535}
	if len(sorted) != len(want) {
		t.Fatalf("expected %d accounts, got %d", len(want), len(sorted))
	}
	for i, id := range want {
		if sorted[i].ClientID != id {
			t.Errorf("position %d: expected client %d, got %d", i, id, sorted[i].ClientID)
		}
	}

	if snap.LockedCount() != 1 {
		t.Errorf("expected 1 locked account, got %d", snap.LockedCount())
	}
}
