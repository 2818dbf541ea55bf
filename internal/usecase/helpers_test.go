package usecase_test

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/iho/txledger/internal/domain"
)

type sliceSource struct {
	records []domain.Record
	next    int
}

func newSliceSource(records []domain.Record) *sliceSource {
	return &sliceSource{records: records}
}

func (s *sliceSource) Next() (domain.Record, error) {
	if s.next >= len(s.records) {
		return domain.Record{}, io.EOF
	}
	rec := s.records[s.next]
	s.next++
	return rec, nil
}

// numberedSource reports an input line for each record, as a file reader would.
type numberedSource struct {
	*sliceSource
	lines []int
}

func newNumberedSource(records []domain.Record, lines []int) *numberedSource {
	return &numberedSource{sliceSource: newSliceSource(records), lines: lines}
}

func (s *numberedSource) Line() int {
	return s.lines[s.next-1]
}

func deposit(client domain.ClientID, tx domain.TxID, amount string) domain.Record {
	return domain.Record{Kind: domain.KindDeposit, Client: client, Tx: tx, Amount: domain.MustParseMoney(amount)}
}

func withdrawal(client domain.ClientID, tx domain.TxID, amount string) domain.Record {
	return domain.Record{Kind: domain.KindWithdrawal, Client: client, Tx: tx, Amount: domain.MustParseMoney(amount)}
}

func dispute(client domain.ClientID, tx domain.TxID) domain.Record {
	return domain.Record{Kind: domain.KindDispute, Client: client, Tx: tx}
}

func resolve(client domain.ClientID, tx domain.TxID) domain.Record {
	return domain.Record{Kind: domain.KindResolve, Client: client, Tx: tx}
}

func chargeback(client domain.ClientID, tx domain.TxID) domain.Record {
	return domain.Record{Kind: domain.KindChargeback, Client: client, Tx: tx}
}

// randomRecords builds a reproducible stream with unique tx ids, dispute
// chains against earlier transactions and occasional mismatched clients.
func randomRecords(seed uint64, n, clients int) []domain.Record {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	refKinds := []domain.Kind{domain.KindDispute, domain.KindResolve, domain.KindChargeback}

	records := make([]domain.Record, 0, n)
	var created []domain.Record
	nextTx := domain.TxID(1)

	for len(records) < n {
		client := domain.ClientID(r.IntN(clients) + 1)
		p := r.IntN(100)

		switch {
		case p < 40 || len(created) == 0:
			rec := domain.Record{Kind: domain.KindDeposit, Client: client, Tx: nextTx, Amount: domain.NewMoney(r.Int64N(1_000_000) + 1)}
			nextTx++
			created = append(created, rec)
			records = append(records, rec)
		case p < 60:
			rec := domain.Record{Kind: domain.KindWithdrawal, Client: client, Tx: nextTx, Amount: domain.NewMoney(r.Int64N(1_000_000) + 1)}
			nextTx++
			created = append(created, rec)
			records = append(records, rec)
		default:
			ref := created[r.IntN(len(created))]
			owner := ref.Client
			if r.IntN(10) == 0 {
				owner = client
			}
			records = append(records, domain.Record{Kind: refKinds[r.IntN(len(refKinds))], Client: owner, Tx: ref.Tx})
		}
	}

	return records
}

func render(snap domain.Snapshot) []string {
	lines := make([]string, 0, len(snap))
	for _, acc := range snap.Sorted() {
		total, err := acc.Total()
		if err != nil {
			panic(err)
		}
		lines = append(lines, fmt.Sprintf("%d,%s,%s,%s,%t", acc.ClientID, acc.Available, acc.Held, total, acc.Locked))
	}
	return lines
}
