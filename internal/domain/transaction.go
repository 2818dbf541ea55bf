package domain

import (
	"fmt"
	"strings"
)

// ClientID identifies a client account.
type ClientID uint16

// TxID identifies a deposit or withdrawal.
type TxID uint32

// Kind is the type of a transaction record.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// Kinds lists every record kind.
var Kinds = []Kind{KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback}

// ParseKind parses a record type, ignoring case and surrounding spaces.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// CarriesAmount reports whether records of this kind move money of their own.
func (k Kind) CarriesAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Record is one immutable input transaction. Dispute, resolve and chargeback
// records reference an earlier deposit or withdrawal by Tx and leave Amount zero.
type Record struct {
	Kind   Kind
	Client ClientID
	Tx     TxID
	Amount Money
}

func (r Record) String() string {
	if r.Kind.CarriesAmount() {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", r.Kind, r.Client, r.Tx, r.Amount)
	}
	return fmt.Sprintf("%s client=%d tx=%d", r.Kind, r.Client, r.Tx)
}
